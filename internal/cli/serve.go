package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soyeahso/safetalk/internal/config"
	"github.com/soyeahso/safetalk/internal/detector"
	"github.com/soyeahso/safetalk/internal/gateway"
	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/spf13/cobra"
	"github.com/tillberg/autorestart"
)

func newServeCmd() *cobra.Command {
	var (
		port  int
		bind  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the detection backend (HTTP + notification WebSocket)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			issues := config.ValidateServer(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if watch {
				go autorestart.RestartOnChange()
			}

			hookMgr := newHooks(log)
			opts := []gateway.ServerOption{gateway.WithHooks(hookMgr)}

			registry := llm.NewRegistryFromConfig(cfg, log)
			log.Info().Strs("providers", registry.List()).Msg("LLM providers registered")

			if client, err := registry.Resolve(llm.PurposeDetector); err == nil {
				opts = append(opts, gateway.WithDetector(detector.New(client, nil, log)))
			} else {
				log.Warn().Err(err).Msg("no detector provider; /detect-hate will fail")
			}
			if client, err := registry.Resolve(llm.PurposeAvatar); err == nil {
				opts = append(opts, gateway.WithAvatarClient(client))
			}

			db, err := openStore(log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()
			opts = append(opts, gateway.WithDetectionLog(store.NewDetectionLog(db)))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return gateway.New(cfg, log, opts...).Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (auto, lan, loopback, custom)")
	cmd.Flags().BoolVar(&watch, "watch", false, "restart when the binary changes on disk")

	return cmd
}
