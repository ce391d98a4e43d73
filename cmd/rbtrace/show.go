package main

import (
	"fmt"
	"strconv"

	"github.com/kr/pretty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/AlonMell/rbtrace/internal/pseudocode"
	"github.com/AlonMell/rbtrace/internal/rbtree"
)

func newShowCmd(g *globalFlags) *cobra.Command {
	var at string
	var meta bool
	cmd := &cobra.Command{
		Use:   "show [ops...]",
		Short: "show one step: tree, pseudocode and metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, err := g.buildTree(cmd, args)
			if err != nil {
				return err
			}
			s, err := stepIndex(tree, at)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "step %d/%d: %s\n", s.Seq, tree.StepCount()-1, s.Description)
			if len(s.Affected) > 0 {
				fmt.Fprintf(out, "affected: %v\n", s.Affected)
			}
			fmt.Fprintf(out, "\n%s\n\n", s.Tree.String())
			if err := pseudocode.Render(out, s); err != nil {
				return err
			}
			if meta {
				fmt.Fprintf(out, "\n%# v\n", pretty.Formatter(s.Meta))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "last", "step index, or last")
	cmd.Flags().BoolVar(&meta, "meta", false, "dump the step metadata")
	return cmd
}

func newLayoutCmd(g *globalFlags) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "layout [ops...]",
		Short: "print node positions for one step",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, cfg, err := g.buildTree(cmd, args)
			if err != nil {
				return err
			}
			s, err := stepIndex(tree, at)
			if err != nil {
				return err
			}

			pos := rbtree.CalculateNodePositions(s.Tree, cfg.LayoutOptions())
			tbl := tablewriter.NewWriter(cmd.OutOrStdout())
			tbl.SetHeader([]string{"Node", "Key", "Color", "X", "Y"})
			for n := range s.Tree.InOrder() {
				p := pos[n.ID]
				tbl.Append([]string{
					string(n.ID),
					strconv.Itoa(n.Key),
					n.Color().String(),
					strconv.FormatFloat(p.X, 'f', 1, 64),
					strconv.FormatFloat(p.Y, 'f', 1, 64),
				})
			}
			tbl.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "last", "step index, or last")
	return cmd
}
