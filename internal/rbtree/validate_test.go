package rbtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// link builds a node by hand with the given children, wiring parent links.
func link(key int, c Color, left, right *Node) *Node {
	n := &Node{ID: makeNodeID(key), Key: key, color: c, left: left, right: right}
	if left != nil {
		left.parent = n
	}
	if right != nil {
		right.parent = n
	}
	return n
}

func leaf(key int, c Color) *Node { return link(key, c, nil, nil) }

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		root func() *Node
		want []string
	}{
		{
			name: "Empty",
			root: func() *Node { return nil },
		},
		{
			name: "BlackHeight",
			root: func() *Node {
				return link(20, Black, leaf(10, Red), link(30, Black, nil, leaf(40, Red)))
			},
			want: []string{
				"inconsistent black height: expected 1, found 2 on path root->right(30)->left(nil)",
				"inconsistent black height: expected 1, found 2 on path root->right(30)->right(40)->left(nil)",
				"inconsistent black height: expected 1, found 2 on path root->right(30)->right(40)->right(nil)",
				"node 20: black heights differ (left 1, right 2)",
			},
		},
		{
			name: "Balanced",
			root: func() *Node {
				return link(20, Black, leaf(10, Red), leaf(30, Red))
			},
		},
		{
			name: "RedRoot",
			root: func() *Node { return leaf(5, Red) },
			want: []string{"root 5 must be black, is red"},
		},
		{
			name: "RedRed",
			root: func() *Node {
				return link(20, Black, link(10, Red, leaf(5, Red), nil), leaf(30, Red))
			},
			want: []string{"red node 10 has red left child 5"},
		},
		{
			name: "SearchOrder",
			root: func() *Node {
				return link(20, Black, leaf(25, Red), leaf(30, Red))
			},
			want: []string{"node 25 violates search order on path root->left(25)"},
		},
		{
			name: "DeepSearchOrder",
			root: func() *Node {
				return link(20, Black, link(10, Black, nil, leaf(22, Red)), leaf(30, Black))
			},
			want: []string{"node 22 violates search order on path root->left(10)->right(22)"},
		},
		{
			name: "StaleParent",
			root: func() *Node {
				n := link(20, Black, leaf(10, Red), leaf(30, Red))
				n.right.parent = n.left
				return n
			},
			want: []string{"right child 30 of 20 has a stale parent link"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.root())
			require.Equal(t, len(tt.want) == 0, v.OK)
			require.Equal(t, tt.want, v.Violations)
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	root := link(20, Red, leaf(10, Red), nil)
	before := Snapshot{root: root}.String()
	require.False(t, Validate(root).OK)
	require.Equal(t, before, Snapshot{root: root}.String())
}
