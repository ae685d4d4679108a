package root

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-motion/engine/config"
	"github.com/Carmen-Shannon/oxy-motion/engine/storage"
	"github.com/spf13/cobra"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph-file]",
		Short: "Check a project, or a single graph file, for errors",
		Long: `Without arguments, loads the project file with its skeleton, animations and graph, and checks
that every clip's animation is loaded and every entity starts in a known state.
With a graph file, only decodes and validates that graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				g, err := storage.NewGraphStore(args[0]).Load()
				if err != nil {
					return err
				}
				if err := g.Validate(); err != nil {
					return fmt.Errorf("graph %q: %w", args[0], err)
				}
				fmt.Fprintf(out, "graph %q: %d nodes, %d connections\n", g.Name(), g.NodeCount(), g.ConnectionCount())
				return nil
			}

			cfg, err := config.Load(root.projectPath)
			if err != nil {
				return err
			}
			p, err := loadProject(cmd.Context(), cfg, projectOptions{})
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.checkAssets(); err != nil {
				return err
			}
			fmt.Fprintf(out, "project %q: %d assets, %d nodes, %d entities\n",
				cfg.Name, len(p.loader.Assets()), p.graph.NodeCount(), p.scene.Count())
			return nil
		},
	}
}
