package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newStepsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "steps [ops...]",
		Short: "list the recorded steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := g.buildTree(cmd, args)
			if err != nil {
				return err
			}

			tbl := tablewriter.NewWriter(cmd.OutOrStdout())
			tbl.SetHeader([]string{"#", "Category", "Algorithm", "Case", "Changed", "Description"})
			tbl.SetAutoWrapText(false)
			var prev uint64
			for _, s := range tree.Steps() {
				fp := s.Tree.Fingerprint()
				changed := ""
				if s.Seq > 0 && fp != prev {
					changed = "yes"
				}
				prev = fp
				tbl.Append([]string{
					strconv.Itoa(s.Seq),
					string(s.Category),
					string(s.Algorithm),
					stepTag(s),
					changed,
					s.Description,
				})
			}
			tbl.Render()
			return nil
		},
	}
}
