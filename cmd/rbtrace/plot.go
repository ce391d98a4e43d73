package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func newPlotCmd(g *globalFlags) *cobra.Command {
	var height int
	cmd := &cobra.Command{
		Use:   "plot [ops...]",
		Short: "plot tree size and height across the trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := g.buildTree(cmd, args)
			if err != nil {
				return err
			}
			steps := tree.Steps()
			if len(steps) < 2 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to plot")
				return nil
			}
			sizes := make([]float64, len(steps))
			heights := make([]float64, len(steps))
			for i, s := range steps {
				sizes[i] = float64(s.Tree.Len())
				heights[i] = float64(s.Tree.Height())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, asciigraph.Plot(sizes, asciigraph.Height(height), asciigraph.Caption("nodes per step")))
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(heights, asciigraph.Height(height), asciigraph.Caption("height per step")))
			return nil
		},
	}
	cmd.Flags().IntVar(&height, "height", 10, "graph height in rows")
	return cmd
}
