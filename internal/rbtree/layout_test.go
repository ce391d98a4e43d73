package rbtree_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlonMell/rbtrace/internal/rbtree"
)

func TestCalculateNodePositions(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		pos := rbtree.CalculateNodePositions(rbtree.New().Snapshot(), rbtree.DefaultLayoutOptions())
		require.Empty(t, pos)
	})

	t.Run("ThreeNodes", func(t *testing.T) {
		tree := rbtree.New()
		for _, k := range []int{10, 20, 30} {
			tree.Insert(k)
		}
		pos := rbtree.CalculateNodePositions(tree.Snapshot(), rbtree.DefaultLayoutOptions())
		require.Equal(t, map[rbtree.NodeID]rbtree.Point{
			"node-2": {X: 100, Y: 0},
			"node-1": {X: 0, Y: 80},
			"node-3": {X: 200, Y: 80},
		}, pos)
	})

	t.Run("Origin", func(t *testing.T) {
		tree := rbtree.New()
		tree.Insert(1)
		opts := rbtree.DefaultLayoutOptions()
		opts.X, opts.Y = 400, 50
		pos := rbtree.CalculateNodePositions(tree.Snapshot(), opts)
		require.Equal(t, rbtree.Point{X: 400, Y: 50}, pos["node-1"])
	})

	t.Run("InOrderLeftToRight", func(t *testing.T) {
		tree := rbtree.New()
		for k := range 64 {
			tree.Insert((k * 37) % 101)
		}
		s := tree.Snapshot()
		pos := rbtree.CalculateNodePositions(s, rbtree.DefaultLayoutOptions())
		require.Len(t, pos, s.Len())

		prev := -1.0
		for n := range s.InOrder() {
			p := pos[n.ID]
			require.Greater(t, p.X, prev, "node %d", n.Key)
			prev = p.X
			if parent := n.Parent(); parent != nil {
				require.Greater(t, p.Y, pos[parent.ID].Y)
			}
		}
	})
}

func TestSnapshotJSON(t *testing.T) {
	tree := rbtree.New()
	for _, k := range []int{8, 4, 12, 2, 6, 10, 14, 1} {
		tree.Insert(k)
	}
	tree.Delete(12)
	want := tree.Snapshot()

	b, err := json.Marshal(want)
	require.NoError(t, err)

	var got rbtree.Snapshot
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, want.String(), got.String())
	require.Equal(t, want.Fingerprint(), got.Fingerprint())
	// Parent links are rebuilt from nesting.
	require.True(t, got.Validate().OK, got.Validate().Violations)

	var empty rbtree.Snapshot
	require.NoError(t, json.Unmarshal([]byte("null"), &empty))
	require.True(t, empty.IsEmpty())

	require.Error(t, json.Unmarshal([]byte(`{"id":"node-1","key":1,"color":"purple"}`), &got))
}

func TestStepJSON(t *testing.T) {
	tree := rbtree.New()
	tree.Insert(3)
	tree.Insert(1)
	step, ok := tree.Step(2)
	require.True(t, ok)

	b, err := json.Marshal(step)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, "insert", m["category"])
	require.Equal(t, "insert", m["algorithm"])
	require.Equal(t, []any{"node-2"}, m["affected"])
	tr := m["tree"].(map[string]any)
	require.Equal(t, "black", tr["color"])
	require.Equal(t, "red", tr["left"].(map[string]any)["color"])
}

func TestFingerprint(t *testing.T) {
	a, b := rbtree.New(), rbtree.New()
	for _, k := range []int{1, 2, 3} {
		a.Insert(k)
	}
	for _, k := range []int{3, 2, 1} {
		b.Insert(k)
	}
	// Same keys, colors and shape; node ids differ.
	require.Equal(t, a.Snapshot().Fingerprint(), b.Snapshot().Fingerprint())

	b.Insert(4)
	require.NotEqual(t, a.Snapshot().Fingerprint(), b.Snapshot().Fingerprint())
}
