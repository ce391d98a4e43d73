package rbtree

import "fmt"

// Delete removes key from the tree while maintaining Red-Black Tree
// properties. If key doesn't exist it returns false and records nothing.
func (t *Tree) Delete(key int) bool {
	z := t.Search(key)
	if z == nil {
		return false
	}

	// x is the node that moves into the vacated position (possibly absent);
	// xParent and xIsLeft locate it when it is absent.
	var (
		x, xParent *Node
		xIsLeft    bool
	)
	originalColor := z.color
	hasLeft, hasRight := z.left != nil, z.right != nil

	s := Step{
		Category:    StepDelete,
		Description: fmt.Sprintf("removed %d", key),
		Affected:    ids(z),
		Algorithm:   AlgDelete,
		Meta: Meta{
			Op:            OpDelete,
			Key:           key,
			HasLeftChild:  hasLeft,
			HasRightChild: hasRight,
		},
	}

	switch {
	case z.left == nil:
		x = z.right
		xParent = z.parent
		xIsLeft = xParent != nil && z == xParent.left
		t.transplant(z, z.right)
		s.ActiveLines = []int{3, 4, 5}
		s.ExecutedLines = []int{1, 2}
		s.Conditions = map[int]bool{3: true}
		s.BranchPath = []string{"if-no-left"}

	case z.right == nil:
		x = z.left
		xParent = z.parent
		xIsLeft = xParent != nil && z == xParent.left
		t.transplant(z, z.left)
		s.ActiveLines = []int{6, 7, 8}
		s.ExecutedLines = []int{1, 2, 3}
		s.Conditions = map[int]bool{3: false, 6: true}
		s.BranchPath = []string{"elseif-no-right"}

	default:
		y := minimum(z.right)
		originalColor = y.color
		x = y.right
		successorChild := y.parent == z
		if successorChild {
			// The successor stands in as x's parent; x stays its right child.
			xParent = y
			xIsLeft = false
			s.ActiveLines = []int{9, 10, 11, 16, 17, 18, 19, 20}
			s.BranchPath = []string{"else-two-children", "if-successor-child"}
		} else {
			xParent = y.parent
			xIsLeft = y == xParent.left
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
			s.ActiveLines = []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
			s.BranchPath = []string{"else-two-children", "else-successor-not-child"}
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color

		s.Description = fmt.Sprintf("removed %d, successor %d takes its place", key, y.Key)
		s.Affected = ids(z, y)
		s.ExecutedLines = []int{1, 2, 3}
		s.Conditions = map[int]bool{3: false, 6: false, 12: !successorChild}
		s.Meta.IsSuccessorChild = successorChild
	}
	s.Meta.OriginalColor = colorPtr(originalColor)

	z.left, z.right, z.parent = nil, nil, nil
	t.size--
	t.record(s)

	if originalColor == Black {
		t.fixDelete(x, xParent, xIsLeft)
	}

	t.audit(OpDelete, key, Step{
		Description: fmt.Sprintf("tree valid after deleting %d", key),
		Algorithm:   AlgDelete,
		ActiveLines: []int{21, 22},
		Conditions:  map[int]bool{21: originalColor == Black},
	})
	return true
}

// fixDelete restores the red-black properties after a black node left the
// position now held by x. x may be absent, so its parent and side are passed
// explicitly.
func (t *Tree) fixDelete(x, parent *Node, isLeft bool) {
	for x != t.root && isBlack(x) {
		if parent == nil {
			t.logger.Error("delete fixup: non-root node without parent")
			break
		}

		if isLeft {
			w := parent.right
			if w == nil {
				// A doubly black position always has a sibling.
				t.logger.Error("delete fixup: missing sibling", "parent", parent.Key)
				break
			}
			if w.color == Red {
				w.color = Black
				parent.color = Red
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("recolor: sibling %d becomes black, parent %d becomes red", w.Key, parent.Key),
					Affected:      ids(w, parent),
					Algorithm:     AlgDeleteFixup,
					ActiveLines:   []int{5, 6, 7, 8},
					ExecutedLines: []int{1, 2, 3, 4},
					Conditions:    map[int]bool{1: true, 2: true, 4: true},
					BranchPath:    []string{"while-loop", "if-left", "if-sibling-red"},
					Meta:          Meta{Op: OpDelete, Case: CaseSiblingRed, IsLeftChild: true},
				})
				t.rotateLeft(parent, OpDelete)
				w = parent.right
				if w == nil {
					t.logger.Error("delete fixup: missing sibling after rotation", "parent", parent.Key)
					break
				}
			}

			if isBlack(w.left) && isBlack(w.right) {
				w.color = Red
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("recolor: sibling %d becomes red", w.Key),
					Affected:      ids(w),
					Algorithm:     AlgDeleteFixup,
					ActiveLines:   []int{10, 11},
					ExecutedLines: []int{1, 2, 3, 9},
					Conditions:    map[int]bool{1: true, 2: true, 9: true},
					BranchPath:    []string{"while-loop", "if-left", "if-both-children-black"},
					Meta:          Meta{Op: OpDelete, Case: CaseBothChildrenBlack, IsLeftChild: true},
				})
				x = parent
				parent = x.parent
				isLeft = parent != nil && x == parent.left
				continue
			}

			if isBlack(w.right) {
				w.left.color = Black
				w.color = Red
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("recolor: left nephew %d becomes black, sibling %d becomes red", w.left.Key, w.Key),
					Affected:      ids(w.left, w),
					Algorithm:     AlgDeleteFixup,
					ActiveLines:   []int{14, 15, 16, 17},
					ExecutedLines: []int{1, 2, 3, 9, 12, 13},
					Conditions:    map[int]bool{1: true, 2: true, 9: false, 13: true},
					BranchPath:    []string{"while-loop", "if-left", "else-not-both-black", "if-right-black"},
					Meta:          Meta{Op: OpDelete, Case: CaseFarChildBlack, IsLeftChild: true},
				})
				t.rotateRight(w, OpDelete)
				w = parent.right
			}

			w.color = parent.color
			parent.color = Black
			if w.right != nil {
				w.right.color = Black
			}
			t.record(Step{
				Category: StepRecolor,
				Description: fmt.Sprintf("final recolor: sibling %d takes parent's color, parent %d and right nephew become black",
					w.Key, parent.Key),
				Affected:      ids(w, parent, w.right),
				Algorithm:     AlgDeleteFixup,
				ActiveLines:   []int{18, 19, 20, 21, 22},
				ExecutedLines: []int{1, 2, 3, 9, 12},
				Conditions:    map[int]bool{1: true, 2: true, 9: false},
				BranchPath:    []string{"while-loop", "if-left", "else-not-both-black", "final-recolor"},
				Meta:          Meta{Op: OpDelete, Case: CaseFinalRecolor, IsLeftChild: true},
			})
			t.rotateLeft(parent, OpDelete)
			x = t.root
			parent = nil
		} else {
			w := parent.left
			if w == nil {
				t.logger.Error("delete fixup: missing sibling", "parent", parent.Key)
				break
			}
			if w.color == Red {
				w.color = Black
				parent.color = Red
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("recolor: sibling %d becomes black, parent %d becomes red", w.Key, parent.Key),
					Affected:      ids(w, parent),
					Algorithm:     AlgDeleteFixup,
					ActiveLines:   []int{26, 27, 28, 29},
					ExecutedLines: []int{1, 2, 23, 24, 25},
					Conditions:    map[int]bool{1: true, 2: false, 25: true},
					BranchPath:    []string{"while-loop", "else-right", "if-sibling-red"},
					Meta:          Meta{Op: OpDelete, Case: CaseSiblingRed},
				})
				t.rotateRight(parent, OpDelete)
				w = parent.left
				if w == nil {
					t.logger.Error("delete fixup: missing sibling after rotation", "parent", parent.Key)
					break
				}
			}

			if isBlack(w.right) && isBlack(w.left) {
				w.color = Red
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("recolor: sibling %d becomes red", w.Key),
					Affected:      ids(w),
					Algorithm:     AlgDeleteFixup,
					ActiveLines:   []int{31, 32},
					ExecutedLines: []int{1, 2, 23, 24, 30},
					Conditions:    map[int]bool{1: true, 2: false, 30: true},
					BranchPath:    []string{"while-loop", "else-right", "if-both-children-black"},
					Meta:          Meta{Op: OpDelete, Case: CaseBothChildrenBlack},
				})
				x = parent
				parent = x.parent
				isLeft = parent != nil && x == parent.left
				continue
			}

			if isBlack(w.left) {
				w.right.color = Black
				w.color = Red
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("recolor: right nephew %d becomes black, sibling %d becomes red", w.right.Key, w.Key),
					Affected:      ids(w.right, w),
					Algorithm:     AlgDeleteFixup,
					ActiveLines:   []int{35, 36, 37, 38},
					ExecutedLines: []int{1, 2, 23, 24, 30, 33, 34},
					Conditions:    map[int]bool{1: true, 2: false, 30: false, 34: true},
					BranchPath:    []string{"while-loop", "else-right", "else-not-both-black", "if-left-black"},
					Meta:          Meta{Op: OpDelete, Case: CaseFarChildBlack},
				})
				t.rotateLeft(w, OpDelete)
				w = parent.left
			}

			w.color = parent.color
			parent.color = Black
			if w.left != nil {
				w.left.color = Black
			}
			t.record(Step{
				Category: StepRecolor,
				Description: fmt.Sprintf("final recolor: sibling %d takes parent's color, parent %d and left nephew become black",
					w.Key, parent.Key),
				Affected:      ids(w, parent, w.left),
				Algorithm:     AlgDeleteFixup,
				ActiveLines:   []int{39, 40, 41, 42, 43},
				ExecutedLines: []int{1, 2, 23, 24, 30, 33},
				Conditions:    map[int]bool{1: true, 2: false, 30: false},
				BranchPath:    []string{"while-loop", "else-right", "else-not-both-black", "final-recolor"},
				Meta:          Meta{Op: OpDelete, Case: CaseFinalRecolor},
			})
			t.rotateRight(parent, OpDelete)
			x = t.root
			parent = nil
		}
	}

	if x != nil {
		x.color = Black
		t.record(Step{
			Category:    StepRecolor,
			Description: fmt.Sprintf("%d recolored black", x.Key),
			Affected:    ids(x),
			Algorithm:   AlgDeleteFixup,
			ActiveLines: []int{44},
			BranchPath:  []string{"after-while"},
			Meta:        Meta{Op: OpDelete},
		})
	}
	if isRed(t.root) {
		t.root.color = Black
		t.record(Step{
			Category:    StepRecolor,
			Description: fmt.Sprintf("root %d recolored black", t.root.Key),
			Affected:    ids(t.root),
			Algorithm:   AlgDeleteFixup,
			ActiveLines: []int{44},
			BranchPath:  []string{"after-while-root"},
			Meta:        Meta{Op: OpDelete, IsRoot: true},
		})
	}
}
