package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Carmen-Shannon/oxy-motion/engine/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel    string
	projectPath string
}

// NewRootCmd builds the oxy-anim command tree.
func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "oxy-anim",
		Short: "oxy-anim - skeletal animation runtime",
		Long:  "oxy-anim loads a project's skeleton, animation graph and clips, and drives entities through it",
		Example: `  oxy-anim validate
  oxy-anim simulate --ticks 120 -c ./oxy-anim.yaml
  oxy-anim print graph.yaml`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(flags.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVarP(&flags.projectPath, "config", "c", config.DefaultFileName, "Path to the project file")

	cmd.AddCommand(newValidateCmd(&flags))
	cmd.AddCommand(newSimulateCmd(&flags))
	cmd.AddCommand(newPrintCmd())

	return cmd
}

// Execute runs the command tree with the given arguments.
func Execute(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
