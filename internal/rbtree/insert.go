package rbtree

import "fmt"

// Insert adds key to the tree while maintaining Red-Black Tree properties.
// It returns false, recording nothing, if key is already present.
func (t *Tree) Insert(key int) bool {
	if t.root == nil {
		n := t.newNode(key)
		n.color = Black
		t.root = n
		t.size++
		t.record(Step{
			Category:      StepInsert,
			Description:   fmt.Sprintf("inserted %d as the root (black)", key),
			Affected:      ids(n),
			Algorithm:     AlgInsert,
			ActiveLines:   []int{10, 11, 16, 17, 18},
			ExecutedLines: []int{1, 2, 3, 9},
			Conditions:    map[int]bool{10: true},
			BranchPath:    []string{"if-empty-tree"},
			Meta:          Meta{Op: OpInsert, Key: key, IsRoot: true},
		})
		if v := t.Validate(); !v.OK {
			t.logger.Error("tree invalid after insert", "key", key, "violations", v.Violations)
		}
		return true
	}

	var parent *Node
	current := t.root
	for current != nil {
		parent = current
		if key < current.Key {
			current = current.left
		} else if key > current.Key {
			current = current.right
		} else {
			return false
		}
	}

	n := t.newNode(key)
	n.parent = parent
	left := key < parent.Key
	if left {
		parent.left = n
	} else {
		parent.right = n
	}
	t.size++

	s := Step{
		Category:      StepInsert,
		Affected:      ids(n),
		Algorithm:     AlgInsert,
		ActiveLines:   []int{16, 17, 18, 19},
		ExecutedLines: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 13},
		Conditions:    map[int]bool{3: true, 5: left, 10: false, 12: left},
		Meta:          Meta{Op: OpInsert, Key: key},
	}
	if left {
		s.Description = fmt.Sprintf("inserted %d (red) as left child of %d", key, parent.Key)
		s.BranchPath = []string{"after-while", "elseif-left"}
		s.Meta.Direction = SideLeft
	} else {
		s.Description = fmt.Sprintf("inserted %d (red) as right child of %d", key, parent.Key)
		s.BranchPath = []string{"after-while", "else-right"}
		s.Meta.Direction = SideRight
	}
	t.record(s)

	t.fixInsert(n)

	t.audit(OpInsert, key, Step{
		Description: fmt.Sprintf("tree valid after inserting %d", key),
		Algorithm:   AlgInsertFixup,
		ActiveLines: []int{30},
	})
	return true
}

// fixInsert restores the red-black properties after z was attached as a red
// leaf.
func (t *Tree) fixInsert(z *Node) {
	for z.parent != nil && z.parent.color == Red {
		p := z.parent
		g := p.parent
		if g == nil {
			// A red parent is never the root while the invariants hold.
			t.logger.Error("insert fixup: red parent without grandparent", "key", z.Key, "parent", p.Key)
			break
		}

		if p == g.left {
			u := g.right
			if isRed(u) {
				p.color = Black
				u.color = Black
				g.color = Red
				t.record(Step{
					Category: StepRecolor,
					Description: fmt.Sprintf("recolor: parent %d and uncle %d become black, grandparent %d becomes red",
						p.Key, u.Key, g.Key),
					Affected:      ids(p, u, g),
					Algorithm:     AlgInsertFixup,
					ActiveLines:   []int{5, 6, 7, 8},
					ExecutedLines: []int{1, 2, 3, 4},
					Conditions:    map[int]bool{1: true, 2: true, 4: true},
					BranchPath:    []string{"while-loop", "if-parent-left", "if-uncle-red"},
					Meta:          Meta{Op: OpInsert, Key: z.Key, Case: CaseUncleRed, ParentSide: SideLeft},
				})
				z = g
				continue
			}
			if z == p.right {
				z = p
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("triangle at %d: straighten with a left rotation", z.Key),
					Affected:      ids(z),
					Algorithm:     AlgInsertFixup,
					ActiveLines:   []int{11, 12},
					ExecutedLines: []int{1, 2, 3, 4, 9, 10},
					Conditions:    map[int]bool{1: true, 2: true, 4: false, 10: true},
					BranchPath:    []string{"while-loop", "if-parent-left", "else-uncle-not-red", "if-triangle"},
					Meta:          Meta{Op: OpInsert, Key: z.Key, Case: CaseTriangle, ParentSide: SideLeft},
				})
				t.rotateLeft(z, OpInsert)
			}
			p = z.parent
			g = p.parent
			p.color = Black
			g.color = Red
			t.record(Step{
				Category:      StepRecolor,
				Description:   fmt.Sprintf("recolor: parent %d becomes black, grandparent %d becomes red", p.Key, g.Key),
				Affected:      ids(p, g),
				Algorithm:     AlgInsertFixup,
				ActiveLines:   []int{13, 14, 15},
				ExecutedLines: []int{1, 2, 3, 4, 9},
				Conditions:    map[int]bool{1: true, 2: true, 4: false},
				BranchPath:    []string{"while-loop", "if-parent-left", "else-uncle-not-red", "after-triangle"},
				Meta:          Meta{Op: OpInsert, Key: z.Key, Case: CaseLine, ParentSide: SideLeft},
			})
			t.rotateRight(g, OpInsert)
		} else {
			u := g.left
			if isRed(u) {
				p.color = Black
				u.color = Black
				g.color = Red
				t.record(Step{
					Category: StepRecolor,
					Description: fmt.Sprintf("recolor: parent %d and uncle %d become black, grandparent %d becomes red",
						p.Key, u.Key, g.Key),
					Affected:      ids(p, u, g),
					Algorithm:     AlgInsertFixup,
					ActiveLines:   []int{19, 20, 21, 22},
					ExecutedLines: []int{1, 2, 16, 17, 18},
					Conditions:    map[int]bool{1: true, 2: false, 18: true},
					BranchPath:    []string{"while-loop", "else-parent-right", "if-uncle-red"},
					Meta:          Meta{Op: OpInsert, Key: z.Key, Case: CaseUncleRed, ParentSide: SideRight},
				})
				z = g
				continue
			}
			if z == p.left {
				z = p
				t.record(Step{
					Category:      StepRecolor,
					Description:   fmt.Sprintf("triangle at %d: straighten with a right rotation", z.Key),
					Affected:      ids(z),
					Algorithm:     AlgInsertFixup,
					ActiveLines:   []int{25, 26},
					ExecutedLines: []int{1, 2, 16, 17, 18, 23, 24},
					Conditions:    map[int]bool{1: true, 2: false, 18: false, 24: true},
					BranchPath:    []string{"while-loop", "else-parent-right", "else-uncle-not-red", "if-triangle"},
					Meta:          Meta{Op: OpInsert, Key: z.Key, Case: CaseTriangle, ParentSide: SideRight},
				})
				t.rotateRight(z, OpInsert)
			}
			p = z.parent
			g = p.parent
			p.color = Black
			g.color = Red
			t.record(Step{
				Category:      StepRecolor,
				Description:   fmt.Sprintf("recolor: parent %d becomes black, grandparent %d becomes red", p.Key, g.Key),
				Affected:      ids(p, g),
				Algorithm:     AlgInsertFixup,
				ActiveLines:   []int{27, 28, 29},
				ExecutedLines: []int{1, 2, 16, 17, 18, 23},
				Conditions:    map[int]bool{1: true, 2: false, 18: false},
				BranchPath:    []string{"while-loop", "else-parent-right", "else-uncle-not-red", "after-triangle"},
				Meta:          Meta{Op: OpInsert, Key: z.Key, Case: CaseLine, ParentSide: SideRight},
			})
			t.rotateLeft(g, OpInsert)
		}
	}

	if isRed(t.root) {
		t.root.color = Black
		t.record(Step{
			Category:    StepRecolor,
			Description: fmt.Sprintf("root %d recolored black", t.root.Key),
			Affected:    ids(t.root),
			Algorithm:   AlgInsertFixup,
			ActiveLines: []int{30},
			BranchPath:  []string{"after-while"},
			Meta:        Meta{Op: OpInsert, Key: t.root.Key, IsRoot: true},
		})
	}
}
