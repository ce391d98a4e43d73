package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/AlonMell/rbtrace/internal/share"
)

func newURLCmd(g *globalFlags) *cobra.Command {
	var decode string
	cmd := &cobra.Command{
		Use:   "url [ops...]",
		Short: "print share links, or replay one with --decode",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if decode != "" {
				u, err := url.Parse(decode)
				if err != nil {
					return err
				}
				tree, err := share.Replay(u)
				if err != nil {
					return err
				}
				for _, op := range share.Ops(tree.Steps()) {
					fmt.Fprintf(out, "%s ", op)
				}
				fmt.Fprintf(out, "\n%s\n", tree.Snapshot().String())
				return nil
			}

			tree, cfg, err := g.buildTree(cmd, args)
			if err != nil {
				return err
			}
			steps := tree.Steps()
			values, err := share.ValuesURL(cfg.Share.BaseURL, share.Values(steps))
			if err != nil {
				return err
			}
			trace, err := share.TraceURL(cfg.Share.BaseURL, share.Ops(steps))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "values: %s\ntrace:  %s\n", values.String(), trace.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&decode, "decode", "", "trace link to replay")
	return cmd
}
