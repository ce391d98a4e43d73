package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/AlonMell/rbtrace/internal/rbtree"
	"github.com/AlonMell/rbtrace/internal/telemetry"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "run [ops...]",
		Short: "build a tree and print its final state",
		Long: `Build a tree from --values, --random and the operation script
(i<key> inserts, d<key> deletes, a bare key inserts), then print the final
tree and its validation result.`,
		Example: "  rbtrace run --values 10,20,30 d20",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			m := telemetry.New(reg)
			tree, _, err := g.buildTree(cmd, args, rbtree.WithStepObserver(m.Observe))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tree.Snapshot().String())
			fmt.Fprintf(out, "keys: %d  height: %d  steps: %d\n",
				tree.Len(), tree.Snapshot().Height(), tree.StepCount())
			if v := tree.Validate(); v.OK {
				fmt.Fprintln(out, "valid")
			} else {
				fmt.Fprintf(out, "INVALID:\n  %s\n", strings.Join(v.Violations, "\n  "))
			}

			if stats {
				families, err := reg.Gather()
				if err != nil {
					return err
				}
				writeStats(cmd, families)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "print step metrics")
	return cmd
}

func writeStats(cmd *cobra.Command, families []*dto.MetricFamily) {
	var rows [][]string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var v float64
			switch f.GetType() {
			case dto.MetricType_COUNTER:
				v = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			rows = append(rows, []string{f.GetName(), strings.Join(labels, ","), fmt.Sprintf("%g", v)})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i][0] != rows[j][0] {
			return rows[i][0] < rows[j][0]
		}
		return rows[i][1] < rows[j][1]
	})

	tbl := tablewriter.NewWriter(cmd.OutOrStdout())
	tbl.SetHeader([]string{"Metric", "Labels", "Value"})
	tbl.SetAutoWrapText(false)
	tbl.AppendBulk(rows)
	tbl.Render()
}
