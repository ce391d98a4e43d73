package rbtree

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

func TestTraceDataDriven(t *testing.T) {
	var tree *Tree
	datadriven.RunTest(t, "testdata/trace", func(t *testing.T, td *datadriven.TestData) string {
		var buf strings.Builder
		switch td.Cmd {
		case "reset":
			if tree == nil {
				tree = New()
			} else {
				tree.Reset()
			}
			fmt.Fprintf(&buf, "steps: %d\n", tree.StepCount())

		case "insert":
			from := tree.StepCount()
			for _, k := range parseKeys(t, td) {
				if !tree.Insert(k) {
					fmt.Fprintf(&buf, "duplicate: %d\n", k)
				}
			}
			writeSteps(&buf, tree, from)

		case "delete":
			from := tree.StepCount()
			for _, k := range parseKeys(t, td) {
				if !tree.Delete(k) {
					fmt.Fprintf(&buf, "not found: %d\n", k)
				}
			}
			writeSteps(&buf, tree, from)

		case "validate":
			v := tree.Validate()
			if v.OK {
				return "ok"
			}
			return strings.Join(v.Violations, "\n")

		default:
			td.Fatalf(t, "unknown command %q", td.Cmd)
		}
		return buf.String()
	})
}

func parseKeys(t *testing.T, td *datadriven.TestData) []int {
	var keys []int
	for _, f := range strings.Fields(td.Input) {
		k, err := strconv.Atoi(f)
		if err != nil {
			td.Fatalf(t, "bad key %q: %v", f, err)
		}
		keys = append(keys, k)
	}
	return keys
}

func writeSteps(buf *strings.Builder, tree *Tree, from int) {
	for i := from; i < tree.StepCount(); i++ {
		s, _ := tree.Step(i)
		fmt.Fprintf(buf, "%d %s/%s", s.Seq, s.Category, s.Algorithm)
		if tag := stepTag(s); tag != "" {
			fmt.Fprintf(buf, " %s", tag)
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("tree:\n")
	buf.WriteString(tree.Snapshot().String())
	buf.WriteByte('\n')
}

func stepTag(s Step) string {
	if s.Meta.Case != "" {
		return s.Meta.Case
	}
	if n := len(s.BranchPath); n > 0 {
		return s.BranchPath[n-1]
	}
	return ""
}
