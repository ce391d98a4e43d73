package rbtree

import (
	"iter"
)

// InOrder yields the snapshot's nodes in ascending key order.
func (s Snapshot) InOrder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := []*Node{}
		current := s.root
		for current != nil || len(stack) > 0 {

			for current != nil {
				stack = append(stack, current)
				current = current.left
			}

			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(current) {
				return
			}

			current = current.right
		}
	}
}

// Keys yields the live tree's keys in ascending order. The tree must not be
// modified during iteration.
func (t *Tree) Keys() iter.Seq[int] {
	return func(yield func(int) bool) {
		for n := range (Snapshot{root: t.root}).InOrder() {
			if !yield(n.Key) {
				return
			}
		}
	}
}
