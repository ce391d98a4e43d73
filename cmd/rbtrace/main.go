package main

import (
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/AlonMell/rbtrace/internal/config"
	"github.com/AlonMell/rbtrace/internal/input"
	"github.com/AlonMell/rbtrace/internal/rbtree"
)

// globalFlags are shared by every command that builds a tree.
type globalFlags struct {
	configPath string
	values     string
	random     int
	seed       int64
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "rbtrace [command] (flags)",
		Short: "red-black tree step tracer",
		Long: `rbtrace builds a red-black tree from a list of values or an operation
script ("i10 i20 d10") and inspects the recorded step trace.`,
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML config file")
	pf.StringVar(&g.values, "values", "", "values to insert, e.g. 10,20,30")
	pf.IntVar(&g.random, "random", 0, "insert this many random distinct values in 1..100")
	pf.Int64Var(&g.seed, "seed", 1, "seed for --random")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log every recorded step")

	cobra.EnableCommandSorting = false
	root.AddCommand(
		newRunCmd(&g),
		newStepsCmd(&g),
		newShowCmd(&g),
		newLayoutCmd(&g),
		newPlotCmd(&g),
		newURLCmd(&g),
		newServeCmd(&g),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// ops collects the operations given by --values, --random and the script
// arguments, in that order.
func (g *globalFlags) ops(args []string) ([]input.Op, error) {
	values, err := input.ParseValues(g.values)
	if err != nil {
		return nil, err
	}
	if g.random > 0 {
		values = append(values, input.RandomValues(rand.New(rand.NewSource(g.seed)), g.random, 100)...)
	}
	script, err := input.ParseScript(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	return append(input.Inserts(values), script...), nil
}

// buildTree applies the requested operations to a fresh tree.
func (g *globalFlags) buildTree(cmd *cobra.Command, args []string, opts ...rbtree.Option) (*rbtree.Tree, config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	ops, err := g.ops(args)
	if err != nil {
		return nil, config.Config{}, err
	}
	tree := rbtree.New(append([]rbtree.Option{rbtree.WithLogger(newLogger(cfg, cmd))}, opts...)...)
	input.Apply(tree, ops)
	return tree, cfg, nil
}

func stepIndex(tree *rbtree.Tree, arg string) (rbtree.Step, error) {
	i := tree.StepCount() - 1
	if arg != "last" {
		var err error
		if i, err = strconv.Atoi(arg); err != nil {
			return rbtree.Step{}, errors.Newf("step index %q is not an integer", arg)
		}
	}
	s, ok := tree.Step(i)
	if !ok {
		return rbtree.Step{}, errors.Newf("step %d out of range [0, %d)", i, tree.StepCount())
	}
	return s, nil
}

func stepTag(s rbtree.Step) string {
	if s.Meta.Case != "" {
		return s.Meta.Case
	}
	if n := len(s.BranchPath); n > 0 {
		return s.BranchPath[n-1]
	}
	return ""
}

func newLogger(cfg config.Config, cmd *cobra.Command) *slog.Logger {
	return cfg.Log.NewLogger(cmd.ErrOrStderr())
}
