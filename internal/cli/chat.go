package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/soyeahso/safetalk/internal/avatar"
	"github.com/soyeahso/safetalk/internal/chat"
	"github.com/soyeahso/safetalk/internal/store"
	"github.com/spf13/cobra"
)

var errNoAvatar = errors.New("no avatar saved; create one with `safetalk avatar set --name <name>`")

func newChatCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to your avatar, one line at a time",
		Long: "Reads lines from stdin and sends each, with the whole transcript, to the " +
			"backend's /chat-avatar endpoint. Requires a saved avatar.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(log)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			prof, ok := avatar.NewProfiles(store.NewKV(db), log).Load(ctx)
			if !ok {
				return errNoAvatar
			}
			if model == "" {
				model = cfg.Client.ChatModel
			}
			session := chat.NewSession(newBackendClient(log),
				chat.WithModel(model),
				chat.WithHooks(newHooks(log)),
				chat.WithLogger(log),
			)
			return runChat(ctx, cmd, session, prof.DisplayName())
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "avatar model (default: server default)")
	return cmd
}

// runChat prints the greeting, then alternates reading a line and printing
// the reply until stdin closes or ctx is cancelled.
func runChat(ctx context.Context, cmd *cobra.Command, session *chat.Session, name string) error {
	out := cmd.OutOrStdout()
	tr := session.Transcript()
	fmt.Fprintf(out, "%s: %s\n", name, tr[len(tr)-1].Content)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		session.SetInput(line)
		res, err := session.Send(ctx)
		if err != nil {
			return err
		}
		if !res.OK {
			fmt.Fprintf(cmd.ErrOrStderr(), "! %s\n", session.Error())
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", name, res.Reply)
	}
}
