package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soyeahso/safetalk/internal/config"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "safetalk",
		Short: "Safe Talk: hate-speech aware notifications and a supportive avatar",
		Long: "Safe Talk simulates incoming social-media notifications, masks the ones a " +
			"classifier flags as hateful, and guides the user towards blocking, responding " +
			"or sharing with the community.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			if err := config.LoadDotEnv(".env", paths.Env); err != nil {
				return err
			}
			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			log, err = newLogger(cfg.Logging)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.safetalk/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newDetectCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newAvatarCmd())
	cmd.AddCommand(newCommunityCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// newLogger writes to logging.file when set, otherwise to stderr in the
// configured console style.
func newLogger(lc config.LoggingConfig) (*logging.Logger, error) {
	if lc.File == "" {
		return logging.NewStyled(lc.Level, lc.ConsoleStyle), nil
	}
	f, err := openLogFile(lc.File)
	if err != nil {
		return nil, err
	}
	return logging.New(f, lc.Level), nil
}

func newFileLogger(f *os.File) *logging.Logger {
	return logging.New(f, cfg.Logging.Level)
}

// openLogFile appends to name, resolved against the logs directory when
// relative.
func openLogFile(name string) (*os.File, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(paths.Logs, name)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
