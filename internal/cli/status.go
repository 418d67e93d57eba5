package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/soyeahso/safetalk/internal/backend"
	"github.com/soyeahso/safetalk/internal/config"
	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/soyeahso/safetalk/internal/version"
	"github.com/spf13/cobra"
)

const statusProbeTimeout = 3 * time.Second

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show Safe Talk status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Safe Talk %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:   %s\n", paths.Config)
			fmt.Fprintf(out, "Data:     %s\n", paths.StoragePath(cfg.Storage))
			fmt.Fprintf(out, "Logs:     %s\n", paths.Logs)
			if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
				fmt.Fprintln(out, "          (config not found, using defaults)")
			}
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Server:   port=%d bind=%s rate=%.0f/s burst=%d\n",
				cfg.Server.Port, cfg.Server.Bind, cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
			fmt.Fprintf(out, "Detector: provider=%s model=%s key=%s\n",
				cfg.Detector.Provider, cfg.Detector.Model, keyState(cfg.Detector.APIKey))
			fmt.Fprintf(out, "Avatar:   ollama=%s model=%s maxChars=%d\n",
				cfg.AvatarChat.OllamaBase, cfg.AvatarChat.Model, cfg.AvatarChat.MaxReplyChars)

			registry := llm.NewRegistryFromConfig(cfg, log)
			fmt.Fprintf(out, "LLM:      %s\n", strings.Join(registry.List(), ", "))
			if events := newHooks(log).Events(); len(events) > 0 {
				fmt.Fprintf(out, "Hooks:    logging %d events\n", len(events))
			} else {
				fmt.Fprintln(out, "Hooks:    off")
			}

			ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
			defer cancel()
			client := backend.New(cfg.Client.APIURL, backend.WithTimeouts(statusProbeTimeout, 0), backend.WithLogger(log))
			if err := client.Health(ctx); err != nil {
				fmt.Fprintf(out, "Backend:  %s unreachable (%v)\n", client.BaseURL(), err)
			} else {
				fmt.Fprintf(out, "Backend:  %s ok\n", client.BaseURL())
			}

			if path := paths.StoragePath(cfg.Storage); path != ":memory:" {
				if _, err := os.Stat(path); err == nil {
					printDetectionStats(ctx, cmd, path)
				}
			}

			issues := config.ValidateServer(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}

			return nil
		},
	}

	return cmd
}

func printDetectionStats(ctx context.Context, cmd *cobra.Command, path string) {
	out := cmd.OutOrStdout()
	db, err := store.Open(path, log)
	if err != nil {
		fmt.Fprintf(out, "Detections: error opening store: %v\n", err)
		return
	}
	defer db.Close()

	stats, err := store.NewDetectionLog(db).Stats(ctx)
	if err != nil {
		fmt.Fprintf(out, "Detections: %v\n", err)
		return
	}
	labels := make([]string, 0, len(stats.ByLabel))
	for l, n := range stats.ByLabel {
		labels = append(labels, fmt.Sprintf("%s=%d", l, n))
	}
	sort.Strings(labels)
	fmt.Fprintf(out, "Detections: total=%d hate=%d %s\n", stats.Total, stats.Hate, strings.Join(labels, " "))
}

func keyState(key string) string {
	if key == "" || strings.HasPrefix(key, "${") {
		return "missing"
	}
	return "set"
}
