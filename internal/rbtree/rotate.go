package rbtree

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// rotateLeft rotates around x, which must have a right child.
func (t *Tree) rotateLeft(x *Node, op Op) {
	/*
		Left rotation around node x:
			    Before:               After:
		          P                    P
		          |                    |
		          x                    y
		         / \                  / \
		        A   y       →        x   C
		           / \              / \
		          B   C            A   B
	*/
	y := x.right
	if y == nil {
		panic(errors.AssertionFailedf("rbtree: left rotation at %d without a right child", x.Key))
	}
	executed := []int{1, 2, 3}
	conds := map[int]bool{}

	x.right = y.left
	conds[3] = y.left != nil
	if y.left != nil {
		y.left.parent = x
		executed = append(executed, 4)
	}
	y.parent = x.parent
	executed = append(executed, 5, 6)
	conds[6] = x.parent == nil
	if x.parent == nil {
		t.root = y
		executed = append(executed, 7)
	} else {
		conds[8] = x == x.parent.left
		if x == x.parent.left {
			x.parent.left = y
			executed = append(executed, 8, 9)
		} else {
			x.parent.right = y
			executed = append(executed, 8, 10, 11)
		}
	}
	y.left = x
	x.parent = y
	executed = append(executed, 12, 13)

	t.record(Step{
		Category:      StepRotateLeft,
		Description:   fmt.Sprintf("left rotation at %d", x.Key),
		Affected:      ids(x, y),
		Algorithm:     AlgLeftRotate,
		ActiveLines:   rotationLines(),
		ExecutedLines: executed,
		Conditions:    conds,
		Meta:          Meta{Op: op, Key: x.Key, ParentSide: sideOf(y)},
	})
}

// rotateRight rotates around y, which must have a left child.
func (t *Tree) rotateRight(y *Node, op Op) {
	/*
		Right rotation around node y:
		    Before:               After:
		       P                    P
		       |                    |
		       y                    x
		      / \                  / \
		     x   C       →        A   y
		    / \                      / \
		   A   B                    B   C
	*/
	x := y.left
	if x == nil {
		panic(errors.AssertionFailedf("rbtree: right rotation at %d without a left child", y.Key))
	}
	executed := []int{1, 2, 3}
	conds := map[int]bool{}

	y.left = x.right
	conds[3] = x.right != nil
	if x.right != nil {
		x.right.parent = y
		executed = append(executed, 4)
	}
	x.parent = y.parent
	executed = append(executed, 5, 6)
	conds[6] = y.parent == nil
	if y.parent == nil {
		t.root = x
		executed = append(executed, 7)
	} else {
		conds[8] = y == y.parent.right
		if y == y.parent.right {
			y.parent.right = x
			executed = append(executed, 8, 9)
		} else {
			y.parent.left = x
			executed = append(executed, 8, 10, 11)
		}
	}
	x.right = y
	y.parent = x
	executed = append(executed, 12, 13)

	t.record(Step{
		Category:      StepRotateRight,
		Description:   fmt.Sprintf("right rotation at %d", y.Key),
		Affected:      ids(y, x),
		Algorithm:     AlgRightRotate,
		ActiveLines:   rotationLines(),
		ExecutedLines: executed,
		Conditions:    conds,
		Meta:          Meta{Op: op, Key: y.Key, ParentSide: sideOf(x)},
	})
}

func rotationLines() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}
}
