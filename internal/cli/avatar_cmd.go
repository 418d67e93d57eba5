package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/soyeahso/safetalk/internal/avatar"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/spf13/cobra"
)

func newAvatarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Show or edit your avatar",
	}

	cmd.AddCommand(newAvatarShowCmd())
	cmd.AddCommand(newAvatarSetCmd())
	cmd.AddCommand(newAvatarOptionsCmd())
	return cmd
}

func openProfiles() (*avatar.Profiles, func() error, error) {
	db, err := openStore(log)
	if err != nil {
		return nil, nil, err
	}
	return avatar.NewProfiles(store.NewKV(db), log), db.Close, nil
}

func newAvatarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved avatar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, closeDB, err := openProfiles()
			if err != nil {
				return err
			}
			defer closeDB()

			p, ok := profiles.Load(context.Background())
			if !ok {
				return errNoAvatar
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:          %s\n", p.DisplayName())
			fmt.Fprintf(out, "Ethnicity:     %s\n", label(avatar.Ethnicities, p.Ethnicity))
			fmt.Fprintf(out, "Hairstyle:     %s\n", label(avatar.Hairstyles, p.Hairstyle))
			fmt.Fprintf(out, "Body type:     %s\n", label(avatar.BodyTypes, p.BodyType))
			fmt.Fprintf(out, "Clothing:      %s\n", label(avatar.ClothingColors, p.ClothingColor))
			return nil
		},
	}
}

func label(opts []avatar.Option, id string) string {
	if o, ok := avatar.Lookup(opts, id); ok {
		return o.Label
	}
	return id
}

func newAvatarSetCmd() *cobra.Command {
	var name, ethnicity, hairstyle, bodyType, clothing string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the avatar",
		Long:  "Unset flags keep the saved value, or the default for a new avatar.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, closeDB, err := openProfiles()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := context.Background()
			p, ok := profiles.Load(ctx)
			if !ok {
				p = avatar.Default()
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = strings.TrimSpace(name)
			}
			if flags.Changed("ethnicity") {
				p.Ethnicity = ethnicity
			}
			if flags.Changed("hairstyle") {
				p.Hairstyle = hairstyle
			}
			if flags.Changed("body-type") {
				p.BodyType = bodyType
			}
			if flags.Changed("clothing-color") {
				p.ClothingColor = clothing
			}
			if err := avatar.Validate(p); err != nil {
				return err
			}
			if err := profiles.Save(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved avatar %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "avatar name")
	cmd.Flags().StringVar(&ethnicity, "ethnicity", "", "ethnicity id (see `avatar options`)")
	cmd.Flags().StringVar(&hairstyle, "hairstyle", "", "hairstyle id")
	cmd.Flags().StringVar(&bodyType, "body-type", "", "body type id")
	cmd.Flags().StringVar(&clothing, "clothing-color", "", "clothing colour id")

	return cmd
}

func newAvatarOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the values each avatar field accepts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fields := make([]string, 0, len(avatar.Fields))
			for f := range avatar.Fields {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			out := cmd.OutOrStdout()
			for _, f := range fields {
				fmt.Fprintf(out, "%s:\n", f)
				for _, o := range avatar.Fields[f] {
					fmt.Fprintf(out, "  %-10s %s\n", o.ID, o.Label)
				}
			}
		},
	}
}
