package rbtree

import "fmt"

// Validation is the result of checking the red-black invariants.
type Validation struct {
	OK         bool     `json:"ok"`
	Violations []string `json:"violations"`
}

// Validate checks, for the tree rooted at root:
//  1. the root is black (and has no parent),
//  2. no red node has a red child,
//  3. every path to an absent child passes the same number of black nodes,
//  4. keys are in binary-search-tree order,
//
// plus that every child's parent link points back at its parent. The empty
// tree is valid. Validate never mutates the tree and can be run on any
// snapshot.
func Validate(root *Node) Validation {
	v := validator{expectedBlackHeight: -1}
	if root != nil {
		if root.color != Black {
			v.addf("root %d must be black, is %s", root.Key, root.color)
		}
		if root.parent != nil {
			v.addf("root %d has a parent link", root.Key)
		}
		v.walk(root, 0, nil, nil, "root")
	}
	return Validation{OK: len(v.violations) == 0, Violations: v.violations}
}

type validator struct {
	expectedBlackHeight int
	violations          []string
}

func (v *validator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

// walk returns the black height of the subtree below n, counting the blacks
// seen from the root. lo and hi are exclusive key bounds (nil when open).
func (v *validator) walk(n *Node, blackCount int, lo, hi *int, path string) int {
	if n == nil {
		if v.expectedBlackHeight == -1 {
			v.expectedBlackHeight = blackCount
		} else if blackCount != v.expectedBlackHeight {
			v.addf("inconsistent black height: expected %d, found %d on path %s",
				v.expectedBlackHeight, blackCount, path)
		}
		return blackCount
	}

	if (lo != nil && n.Key <= *lo) || (hi != nil && n.Key >= *hi) {
		v.addf("node %d violates search order on path %s", n.Key, path)
	}
	if n.color == Red {
		if isRed(n.left) {
			v.addf("red node %d has red left child %d", n.Key, n.left.Key)
		}
		if isRed(n.right) {
			v.addf("red node %d has red right child %d", n.Key, n.right.Key)
		}
	}
	if n.left != nil && n.left.parent != n {
		v.addf("left child %d of %d has a stale parent link", n.left.Key, n.Key)
	}
	if n.right != nil && n.right.parent != n {
		v.addf("right child %d of %d has a stale parent link", n.right.Key, n.Key)
	}

	if n.color == Black {
		blackCount++
	}
	key := n.Key
	left := v.walk(n.left, blackCount, lo, &key, path+"->left("+childLabel(n.left)+")")
	right := v.walk(n.right, blackCount, &key, hi, path+"->right("+childLabel(n.right)+")")
	if left != right {
		v.addf("node %d: black heights differ (left %d, right %d)", n.Key, left, right)
	}
	return left
}

func childLabel(n *Node) string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprint(n.Key)
}
