package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soyeahso/safetalk/internal/detector"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	var (
		local  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "detect <text>",
		Short: "Classify text for hate speech",
		Long: "Posts the text to the backend's /detect-hate endpoint. With --local the " +
			"configured detector provider is called directly instead.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			ctx := context.Background()

			var (
				det domain.Detection
				err error
			)
			if local {
				client, rerr := llm.NewRegistryFromConfig(cfg, log).Resolve(llm.PurposeDetector)
				if rerr != nil {
					return rerr
				}
				det, err = detector.New(client, nil, log).Detect(ctx, text)
			} else {
				det, err = newBackendClient(log).Detect(ctx, text)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", domain.DetectionUnavailable, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(det)
			}
			verdict := "safe"
			if det.IsHate {
				verdict = "hate"
			}
			fmt.Fprintf(out, "Verdict:  %s (%s, toxicity %.2f)\n", verdict, det.Label, det.ToxicityScore)
			if len(det.ToxicWords) > 0 {
				fmt.Fprintf(out, "Words:    %s\n", strings.Join(det.ToxicWords, ", "))
			}
			if det.Explanation != "" {
				fmt.Fprintf(out, "Reason:   %s\n", det.Explanation)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "call the detector provider directly instead of the backend")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw detection as JSON")

	return cmd
}
