package rbtree

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is a read-only view of a tree: either the live tree's current
// shape or a deep copy owned by a Step.
type Snapshot struct {
	root *Node
}

// Root returns the snapshot's root, or nil for the empty tree.
func (s Snapshot) Root() *Node { return s.root }

func (s Snapshot) IsEmpty() bool { return s.root == nil }

// Len returns the number of nodes.
func (s Snapshot) Len() int {
	var count func(*Node) int
	count = func(n *Node) int {
		if n == nil {
			return 0
		}
		return 1 + count(n.left) + count(n.right)
	}
	return count(s.root)
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (s Snapshot) Height() int {
	var height func(*Node) int
	height = func(n *Node) int {
		if n == nil {
			return 0
		}
		return 1 + max(height(n.left), height(n.right))
	}
	return height(s.root)
}

// Find returns the node holding key, or nil.
func (s Snapshot) Find(key int) *Node {
	return findNode(s.root, key)
}

// Validate runs the invariant validator against the snapshot.
func (s Snapshot) Validate() Validation {
	return Validate(s.root)
}

// Fingerprint hashes keys, colors and shape. Two snapshots with the same
// fingerprint are, with overwhelming probability, structurally identical.
func (s Snapshot) Fingerprint() uint64 {
	buf := make([]byte, 0, 64)
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			buf = append(buf, 0)
			return
		}
		if n.color == Red {
			buf = append(buf, 'r')
		} else {
			buf = append(buf, 'b')
		}
		buf = binary.AppendVarint(buf, int64(n.Key))
		walk(n.left)
		walk(n.right)
	}
	walk(s.root)
	return xxhash.Sum64(buf)
}

// String renders the snapshot one node per line, children indented under
// their parent and labelled L or R:
//
//	20 black
//	  L 10 red
//	  R 30 red
func (s Snapshot) String() string {
	if s.root == nil {
		return "(empty)"
	}
	var b strings.Builder
	var walk func(n *Node, depth int, label string)
	walk = func(n *Node, depth int, label string) {
		if n == nil {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(label)
		b.WriteString(strconv.Itoa(n.Key))
		b.WriteByte(' ')
		b.WriteString(n.color.String())
		walk(n.left, depth+1, "L ")
		walk(n.right, depth+1, "R ")
	}
	walk(s.root, 0, "")
	return b.String()
}

type nodeJSON struct {
	ID    NodeID    `json:"id"`
	Key   int       `json:"key"`
	Color Color     `json:"color"`
	Left  *nodeJSON `json:"left"`
	Right *nodeJSON `json:"right"`
}

func toJSON(n *Node) *nodeJSON {
	if n == nil {
		return nil
	}
	return &nodeJSON{
		ID:    n.ID,
		Key:   n.Key,
		Color: n.color,
		Left:  toJSON(n.left),
		Right: toJSON(n.right),
	}
}

// MarshalJSON encodes the snapshot as nested nodes (null for the empty tree).
// Parent links are implied by nesting.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(s.root))
}

// UnmarshalJSON rebuilds a snapshot, restoring parent links.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	var root *nodeJSON
	if err := json.Unmarshal(b, &root); err != nil {
		return err
	}
	var build func(j *nodeJSON, parent *Node) *Node
	build = func(j *nodeJSON, parent *Node) *Node {
		if j == nil {
			return nil
		}
		n := &Node{ID: j.ID, Key: j.Key, color: j.Color, parent: parent}
		n.left = build(j.Left, n)
		n.right = build(j.Right, n)
		return n
	}
	s.root = build(root, nil)
	return nil
}

// clone deep-copies the subtree rooted at n, attaching it to parent.
func clone(n, parent *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{ID: n.ID, Key: n.Key, color: n.color, parent: parent}
	c.left = clone(n.left, c)
	c.right = clone(n.right, c)
	return c
}

func findNode(root *Node, key int) *Node {
	current := root
	for current != nil {
		if key == current.Key {
			return current
		} else if key < current.Key {
			current = current.left
		} else {
			current = current.right
		}
	}
	return nil
}
