package rbtree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func insertAll(t *testing.T, tree *Tree, keys ...int) {
	t.Helper()
	for _, k := range keys {
		require.True(t, tree.Insert(k), "insert %d", k)
	}
}

func TestInitialStep(t *testing.T) {
	tree := New()
	require.Equal(t, 1, tree.StepCount())

	s, ok := tree.Step(0)
	require.True(t, ok)
	require.Equal(t, 0, s.Seq)
	require.Equal(t, StepInitial, s.Category)
	require.Equal(t, OpInitial, s.Meta.Op)
	require.True(t, s.Tree.IsEmpty())
	require.Empty(t, s.Affected)
	require.NotNil(t, s.Affected)
	require.NotNil(t, s.Conditions)
}

func TestInsertLineCaseRight(t *testing.T) {
	tree := New()
	insertAll(t, tree, 10, 20, 30)
	require.Equal(t, 8, tree.StepCount())
	require.Equal(t, "20 black\n  L 10 red\n  R 30 red", tree.Snapshot().String())

	line, _ := tree.Step(5)
	require.Equal(t, StepRecolor, line.Category)
	require.Equal(t, AlgInsertFixup, line.Algorithm)
	require.Equal(t, CaseLine, line.Meta.Case)
	require.Equal(t, SideRight, line.Meta.ParentSide)
	require.Equal(t, []int{27, 28, 29}, line.ActiveLines)
	require.Equal(t, []NodeID{"node-2", "node-1"}, line.Affected)

	rot, _ := tree.Step(6)
	require.Equal(t, StepRotateLeft, rot.Category)
	require.Equal(t, AlgLeftRotate, rot.Algorithm)
	require.Equal(t, []NodeID{"node-1", "node-2"}, rot.Affected)
	require.Equal(t, map[int]bool{3: false, 6: true}, rot.Conditions)
	require.Equal(t, []int{1, 2, 3, 5, 6, 7, 12, 13}, rot.ExecutedLines)
	require.Equal(t, 10, rot.Meta.Key)
	require.Equal(t, SideNone, rot.Meta.ParentSide)
	require.Equal(t, "node-2", string(rot.Tree.Root().ID))

	final, _ := tree.Step(7)
	require.True(t, final.Meta.Final)
	require.Equal(t, []string{"final-state"}, final.BranchPath)
	require.Equal(t, 30, final.Meta.Key)
}

func TestInsertLineCaseLeft(t *testing.T) {
	tree := New()
	insertAll(t, tree, 30, 20, 10)
	require.Equal(t, "20 black\n  L 10 red\n  R 30 red", tree.Snapshot().String())

	rot, _ := tree.Step(6)
	require.Equal(t, StepRotateRight, rot.Category)
	require.Equal(t, AlgRightRotate, rot.Algorithm)
	require.Equal(t, []NodeID{"node-1", "node-2"}, rot.Affected)
	require.Equal(t, map[int]bool{3: false, 6: true}, rot.Conditions)
	require.Equal(t, []int{1, 2, 3, 5, 6, 7, 12, 13}, rot.ExecutedLines)
}

func TestInsertTriangle(t *testing.T) {
	tree := New()
	insertAll(t, tree, 10, 30, 20)
	require.Equal(t, 10, tree.StepCount())
	require.Equal(t, "20 black\n  L 10 red\n  R 30 red", tree.Snapshot().String())

	ins, _ := tree.Step(4)
	require.Equal(t, StepInsert, ins.Category)
	require.Equal(t, SideLeft, ins.Meta.Direction)
	require.Equal(t, []string{"after-while", "elseif-left"}, ins.BranchPath)

	tri, _ := tree.Step(5)
	require.Equal(t, CaseTriangle, tri.Meta.Case)
	require.Equal(t, []int{25, 26}, tri.ActiveLines)
	// The triangle step is recorded before the rotation that straightens it.
	require.Equal(t, "10 black\n  R 30 red\n    L 20 red", tri.Tree.String())

	rot, _ := tree.Step(6)
	require.Equal(t, StepRotateRight, rot.Category)
	require.Equal(t, map[int]bool{3: false, 6: false, 8: true}, rot.Conditions)
	require.Equal(t, []int{1, 2, 3, 5, 6, 8, 9, 12, 13}, rot.ExecutedLines)
	require.Equal(t, SideRight, rot.Meta.ParentSide)

	line, _ := tree.Step(7)
	require.Equal(t, CaseLine, line.Meta.Case)
	rot, _ = tree.Step(8)
	require.Equal(t, StepRotateLeft, rot.Category)
}

func TestRotationBelowRoot(t *testing.T) {
	tree := New()
	insertAll(t, tree, 1, 2, 3, 4, 5)

	rot, _ := tree.Step(14)
	require.Equal(t, StepRotateLeft, rot.Category)
	require.Equal(t, 3, rot.Meta.Key)
	require.Equal(t, SideRight, rot.Meta.ParentSide)
	require.Equal(t, map[int]bool{3: false, 6: false, 8: false}, rot.Conditions)
	require.Equal(t, []int{1, 2, 3, 5, 6, 8, 10, 11, 12, 13}, rot.ExecutedLines)
}

func TestDuplicateInsert(t *testing.T) {
	tree := New()
	insertAll(t, tree, 5, 3, 8)
	count, fp := tree.StepCount(), tree.Snapshot().Fingerprint()

	require.False(t, tree.Insert(3))
	require.Equal(t, count, tree.StepCount())
	require.Equal(t, fp, tree.Snapshot().Fingerprint())
	require.Equal(t, 3, tree.Len())
}

func TestDeleteAbsent(t *testing.T) {
	tree := New()
	require.False(t, tree.Delete(1))
	require.Equal(t, 1, tree.StepCount())

	insertAll(t, tree, 5, 3, 8)
	count, fp := tree.StepCount(), tree.Snapshot().Fingerprint()
	require.False(t, tree.Delete(4))
	require.Equal(t, count, tree.StepCount())
	require.Equal(t, fp, tree.Snapshot().Fingerprint())
}

func TestDeleteSuccessorChild(t *testing.T) {
	tree := New()
	insertAll(t, tree, 20, 10, 30)
	from := tree.StepCount()
	require.True(t, tree.Delete(20))
	require.Equal(t, "30 black\n  L 10 red", tree.Snapshot().String())
	require.Equal(t, from+2, tree.StepCount())

	del, _ := tree.Step(from)
	require.Equal(t, StepDelete, del.Category)
	require.Equal(t, []string{"else-two-children", "if-successor-child"}, del.BranchPath)
	require.True(t, del.Meta.IsSuccessorChild)
	require.True(t, del.Meta.HasLeftChild)
	require.True(t, del.Meta.HasRightChild)
	require.NotNil(t, del.Meta.OriginalColor)
	require.Equal(t, Red, *del.Meta.OriginalColor)
	require.Equal(t, []NodeID{"node-1", "node-3"}, del.Affected)
	require.Equal(t, "removed 20, successor 30 takes its place", del.Description)

	final, _ := tree.Step(from + 1)
	require.Equal(t, map[int]bool{21: false}, final.Conditions)
}

func TestDeleteNoRightChild(t *testing.T) {
	tree := New()
	insertAll(t, tree, 20, 10)
	from := tree.StepCount()
	require.True(t, tree.Delete(20))
	require.Equal(t, "10 black", tree.Snapshot().String())

	del, _ := tree.Step(from)
	require.Equal(t, []string{"elseif-no-right"}, del.BranchPath)
	require.Equal(t, map[int]bool{3: false, 6: true}, del.Conditions)
	require.Equal(t, Black, *del.Meta.OriginalColor)

	fix, _ := tree.Step(from + 1)
	require.Equal(t, AlgDeleteFixup, fix.Algorithm)
	require.Equal(t, []string{"after-while"}, fix.BranchPath)
	require.Equal(t, "10 recolored black", fix.Description)
}

func TestDeleteLast(t *testing.T) {
	tree := New()
	insertAll(t, tree, 7)
	require.True(t, tree.Delete(7))
	require.True(t, tree.Snapshot().IsEmpty())
	require.Equal(t, 0, tree.Len())

	last, _ := tree.Step(tree.StepCount() - 1)
	require.True(t, last.Meta.Final)
	require.True(t, last.Tree.IsEmpty())
}

func TestReset(t *testing.T) {
	fresh := New()

	tree := New()
	insertAll(t, tree, 4, 2, 6, 1)
	require.True(t, tree.Delete(2))
	tree.Reset()

	require.Equal(t, fresh.Steps(), tree.Steps())
	require.Equal(t, 0, tree.Len())
	require.Nil(t, tree.Root())

	// Node ids restart after a reset.
	insertAll(t, tree, 9)
	require.Equal(t, NodeID("node-1"), tree.Root().ID)
}

func TestTreeAtStep(t *testing.T) {
	tree := New()
	insertAll(t, tree, 10, 20, 30)

	_, ok := tree.TreeAtStep(-1)
	require.False(t, ok)
	_, ok = tree.TreeAtStep(tree.StepCount())
	require.False(t, ok)

	s, ok := tree.TreeAtStep(1)
	require.True(t, ok)
	require.Equal(t, "10 black", s.String())

	// Later mutations never reach an earlier snapshot.
	before, _ := tree.TreeAtStep(4)
	want := before.String()
	require.True(t, tree.Delete(10))
	insertAll(t, tree, 5, 25)
	after, _ := tree.TreeAtStep(4)
	require.Equal(t, want, after.String())
	require.Equal(t, "10 black\n  R 20 red\n    R 30 red", want)
}

func TestStepsReturnsCopy(t *testing.T) {
	tree := New()
	insertAll(t, tree, 1, 2)
	steps := tree.Steps()
	steps[0].Description = "changed"
	s, _ := tree.Step(0)
	require.Equal(t, "empty tree", s.Description)
}

func TestSequence(t *testing.T) {
	tree := New()
	insertAll(t, tree, 5, 3, 8)
	require.True(t, tree.Delete(3))

	require.Equal(t, []Event{
		{Op: OpInsert, Key: 5, StepIndex: 1},
		{Op: OpInsert, Key: 3, StepIndex: 2},
		{Op: OpInsert, Key: 8, StepIndex: 4},
		{Op: OpDelete, Key: 3, StepIndex: 6},
	}, Sequence(tree.Steps()))
	require.Empty(t, Sequence(New().Steps()))
}

func TestStepObserver(t *testing.T) {
	var seen []Step
	tree := New(WithStepObserver(func(s Step) { seen = append(seen, s) }))
	insertAll(t, tree, 1, 2, 3, 4)
	require.True(t, tree.Delete(1))
	require.Equal(t, tree.Steps(), seen)
}

func TestErrorStep(t *testing.T) {
	tree := New()
	insertAll(t, tree, 10, 20, 30)
	// Break the black height behind the tree's back.
	tree.Search(10).color = Black

	insertAll(t, tree, 40)
	last, _ := tree.Step(tree.StepCount() - 1)
	require.True(t, last.Meta.Error)
	require.False(t, last.Meta.Final)
	require.NotEmpty(t, last.Meta.Violations)
	require.Equal(t, []string{"error"}, last.BranchPath)
	require.Equal(t, AlgInsertFixup, last.Algorithm)
	require.Equal(t, "ERROR: tree invalid after insert of 40", last.Description)
}

// TestTraceProperties replays a random workload and checks how every step's
// snapshot relates to the one before it.
func TestTraceProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tree := New()
	for range 300 {
		k := r.Intn(60)
		if r.Intn(3) == 0 {
			tree.Delete(k)
		} else {
			tree.Insert(k)
		}
	}

	steps := tree.Steps()
	for i, s := range steps {
		require.Equal(t, i, s.Seq)
		if i == 0 {
			continue
		}
		prev := steps[i-1].Tree
		cur := s.Tree
		prevKeys := keysOf(prev)
		curKeys := keysOf(cur)

		switch s.Category {
		case StepInsert:
			require.Equal(t, prev.Len()+1, cur.Len(), "step %d", i)
			require.Nil(t, prev.Find(s.Meta.Key), "step %d", i)
			require.NotNil(t, cur.Find(s.Meta.Key), "step %d", i)
		case StepDelete:
			require.Equal(t, prev.Len()-1, cur.Len(), "step %d", i)
			require.NotNil(t, prev.Find(s.Meta.Key), "step %d", i)
			require.Nil(t, cur.Find(s.Meta.Key), "step %d", i)
		case StepRotateLeft, StepRotateRight:
			require.Equal(t, prevKeys, curKeys, "step %d", i)
			require.Len(t, s.Affected, 2)
			demoted := nodeByID(cur, s.Affected[0])
			require.NotNil(t, demoted)
			require.Equal(t, s.Affected[1], demoted.Parent().ID, "step %d", i)
		case StepRecolor:
			require.Equal(t, prevKeys, curKeys, "step %d", i)
			if s.Meta.Final {
				require.Equal(t, prev.Fingerprint(), cur.Fingerprint(), "step %d", i)
				require.True(t, cur.Validate().OK, "step %d", i)
			}
		}
		require.False(t, s.Meta.Error, "step %d", i)
	}
}

func keysOf(s Snapshot) []int {
	var keys []int
	for n := range s.InOrder() {
		keys = append(keys, n.Key)
	}
	return keys
}

func nodeByID(s Snapshot, id NodeID) *Node {
	for n := range s.InOrder() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func TestSnapshotHeight(t *testing.T) {
	tree := New()
	keys := make([]int, 1000)
	for i := range keys {
		keys[i] = i
	}
	insertAll(t, tree, keys...)
	s := tree.Snapshot()
	require.Equal(t, 1000, s.Len())
	// A red-black tree with n nodes is at most 2*log2(n+1) high.
	require.LessOrEqual(t, s.Height(), 20)
	require.True(t, slices.IsSorted(keysOf(s)))
}
