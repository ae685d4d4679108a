package root

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/Carmen-Shannon/oxy-motion/engine/storage"
	"github.com/spf13/cobra"
)

type printFlags struct {
	out string
}

func newPrintCmd() *cobra.Command {
	var flags printFlags

	cmd := &cobra.Command{
		Use:   "print <graph-file>",
		Short: "Print the canonical form of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := storage.NewGraphStore(args[0]).Load()
			if err != nil {
				return err
			}

			if flags.out != "" {
				return storage.NewGraphStore(flags.out).Save(g)
			}

			data, err := state_machine.MarshalGraph(g)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the canonical graph to this file instead of stdout")

	return cmd
}
