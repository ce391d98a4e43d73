package rbtree

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// Color is the color bit carried by every node.
type Color bool

const (
	Red   Color = true
	Black Color = false
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	switch string(b) {
	case "red":
		*c = Red
	case "black":
		*c = Black
	default:
		return errors.Newf("rbtree: unknown color %q", b)
	}
	return nil
}

// NodeID identifies a node across snapshots. Ids are never reused within the
// lifetime of a tree (until Reset).
type NodeID string

func makeNodeID(n int) NodeID {
	return NodeID("node-" + strconv.Itoa(n))
}

// Node is a tree node. Left and right children are owned by the node; parent
// is a back-reference used for upward traversal and rotation bookkeeping only.
// A nil pointer is the "no node" marker.
type Node struct {
	ID  NodeID
	Key int

	color               Color
	left, right, parent *Node
}

func newNode(id NodeID, key int) *Node {
	return &Node{ID: id, Key: key, color: Red}
}

func (n *Node) Color() Color  { return n.color }
func (n *Node) Left() *Node   { return n.left }
func (n *Node) Right() *Node  { return n.right }
func (n *Node) Parent() *Node { return n.parent }

func isRed(n *Node) bool {
	return n != nil && n.color == Red
}

// isBlack treats the absent node as black.
func isBlack(n *Node) bool {
	return n == nil || n.color == Black
}

func ids(nodes ...*Node) []NodeID {
	out := make([]NodeID, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n.ID)
		}
	}
	return out
}

func sideOf(n *Node) Side {
	switch {
	case n == nil || n.parent == nil:
		return SideNone
	case n.parent.left == n:
		return SideLeft
	default:
		return SideRight
	}
}
