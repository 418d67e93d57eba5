package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/safetalk/internal/avatar"
	"github.com/soyeahso/safetalk/internal/community"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/spf13/cobra"
)

func newCommunityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Read or share community experiences",
	}

	cmd.AddCommand(newCommunityListCmd())
	cmd.AddCommand(newCommunityShareCmd())
	return cmd
}

func newCommunityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shared experiences, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(log)
			if err != nil {
				return err
			}
			defer db.Close()

			board := community.Load(context.Background(), store.NewKV(db), log)
			out := cmd.OutOrStdout()
			for _, e := range board.List() {
				fmt.Fprintf(out, "%s  (%s)\n  %s\n\n", e.Name, e.Timestamp, e.Text)
			}
			return nil
		},
	}
}

func newCommunityShareCmd() *cobra.Command {
	var named bool

	cmd := &cobra.Command{
		Use:   "share <story>",
		Short: "Share your experience",
		Long:  "Stories are anonymous unless --named is given, in which case the avatar name is shown.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(log)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()
			kv := store.NewKV(db)
			name := ""
			if p, ok := avatar.NewProfiles(kv, log).Load(ctx); ok {
				name = p.Name
			}

			board := community.Load(ctx, kv, log)
			exp, err := board.Share(ctx, name, strings.Join(args, " "), !named, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shared as %s at %s\n", exp.Name, exp.Timestamp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&named, "named", false, "show your avatar name instead of anonymous")
	return cmd
}
