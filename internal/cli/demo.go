package cli

import (
	"context"
	"fmt"

	"github.com/soyeahso/safetalk/internal/avatar"
	"github.com/soyeahso/safetalk/internal/community"
	"github.com/soyeahso/safetalk/internal/reveal"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/soyeahso/safetalk/internal/tui"
	"github.com/spf13/cobra"
)

const demoLogFile = "demo.log"

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the phone simulation in the terminal",
		Long: "Reveals the sample notifications on their schedule, classifies them through " +
			"the backend at client.apiUrl and lets you open, block, respond and share.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alt screen owns stderr, so the demo always logs to a file.
			f, err := openLogFile(demoLogFile)
			if err != nil {
				return err
			}
			defer f.Close()
			l := newFileLogger(f)

			db, err := openStore(l)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			kv := store.NewKV(db)

			ctx := context.Background()
			deps := tui.Deps{
				Board:         community.Load(ctx, kv, l),
				Catalog:       reveal.DefaultCatalog(cfg.Reveal.Delays),
				ClassifyLimit: cfg.Client.DetectTimeout,
				ChatModel:     cfg.Client.ChatModel,
				Hooks:         newHooks(l),
				Log:           l,
			}
			client := newBackendClient(l)
			deps.Classifier = client
			deps.Responder = client
			if prof, ok := avatar.NewProfiles(kv, l).Load(ctx); ok {
				deps.Avatar = &prof
			}
			return tui.Run(deps)
		},
	}
	return cmd
}
