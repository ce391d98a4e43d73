// Package rbtree implements a Red-Black Tree over integer keys that records a
// replayable trace of every structural mutation it performs.
//
// Red-Black Tree is a self-balancing binary search tree that guarantees
// O(log n) time complexity for basic operations. Every rotation, recoloring
// and node attachment appends a Step holding a deep copy of the tree at that
// instant, so any earlier state can be fetched by index without replay.
//
// A Tree is not safe for concurrent use; callers serialize access.
package rbtree

import (
	"io"
	"log/slog"
	"slices"
	"strconv"
)

// Tree represents a Red-Black Tree instance together with its step history.
// Use New() to create a new tree instance.
type Tree struct {
	root   *Node
	size   int
	nextID int
	steps  []Step

	logger *slog.Logger
	onStep func(Step)
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for step and audit diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithStepObserver registers fn to be called synchronously after each step is
// appended. fn must not call back into the tree.
func WithStepObserver(fn func(Step)) Option {
	return func(t *Tree) { t.onStep = fn }
}

// New creates and returns a new empty Red-Black Tree whose history holds the
// single initial step.
func New(opts ...Option) *Tree {
	t := &Tree{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(t)
	}
	t.recordInitial()
	return t
}

// Reset clears the tree and its history back to the single initial step.
func (t *Tree) Reset() {
	t.root = nil
	t.size = 0
	t.nextID = 0
	t.steps = nil
	t.recordInitial()
}

func (t *Tree) recordInitial() {
	t.record(Step{
		Category:    StepInitial,
		Description: "empty tree",
		Algorithm:   AlgInsert,
		Meta:        Meta{Op: OpInitial},
	})
}

// Search returns the node holding key in the live tree, or nil. The returned
// node must not be modified.
func (t *Tree) Search(key int) *Node {
	return findNode(t.root, key)
}

// Exists checks if a key is present in the tree.
func (t *Tree) Exists(key int) bool {
	return t.Search(key) != nil
}

// Root returns the live root, or nil for the empty tree.
func (t *Tree) Root() *Node { return t.root }

// Len returns the number of keys in the tree.
func (t *Tree) Len() int { return t.size }

// Snapshot returns a deep copy of the live tree.
func (t *Tree) Snapshot() Snapshot {
	return Snapshot{root: clone(t.root, nil)}
}

// Steps returns the full step history in chronological order.
func (t *Tree) Steps() []Step {
	return slices.Clone(t.steps)
}

// StepCount returns the number of recorded steps.
func (t *Tree) StepCount() int { return len(t.steps) }

// Step returns the step at index i.
func (t *Tree) Step(i int) (Step, bool) {
	if i < 0 || i >= len(t.steps) {
		return Step{}, false
	}
	return t.steps[i], true
}

// TreeAtStep returns the snapshot stored with step i; ok is false when i is
// outside [0, StepCount()).
func (t *Tree) TreeAtStep(i int) (_ Snapshot, ok bool) {
	s, ok := t.Step(i)
	if !ok {
		return Snapshot{}, false
	}
	return s.Tree, true
}

// Validate checks the red-black invariants of the live tree.
func (t *Tree) Validate() Validation {
	return Validate(t.root)
}

func (t *Tree) newNode(key int) *Node {
	t.nextID++
	return newNode(makeNodeID(t.nextID), key)
}

// record stamps s with its sequence number and a deep copy of the current
// tree, then appends it.
func (t *Tree) record(s Step) {
	s.Seq = len(t.steps)
	s.Tree = Snapshot{root: clone(t.root, nil)}
	if s.Affected == nil {
		s.Affected = []NodeID{}
	}
	if s.Conditions == nil {
		s.Conditions = map[int]bool{}
	}
	t.steps = append(t.steps, s)
	t.logger.Debug("recorded step",
		"seq", s.Seq,
		"category", s.Category,
		"algorithm", s.Algorithm,
		"case", s.Meta.Case)
	if t.onStep != nil {
		t.onStep(s)
	}
}

// audit validates the tree after a public operation and records the outcome
// as a closing step. A failed audit is logged and recorded; it never panics.
func (t *Tree) audit(op Op, key int, success Step) {
	v := t.Validate()
	if v.OK {
		success.Category = StepRecolor
		success.Meta.Op = op
		success.Meta.Key = key
		success.Meta.Final = true
		success.BranchPath = []string{"final-state"}
		t.record(success)
		return
	}
	t.logger.Error("tree invalid after operation",
		"op", op,
		"key", key,
		"violations", v.Violations)
	alg := AlgInsertFixup
	if op == OpDelete {
		alg = AlgDelete
	}
	t.record(Step{
		Category:    StepRecolor,
		Description: "ERROR: tree invalid after " + string(op) + " of " + strconv.Itoa(key),
		Algorithm:   alg,
		BranchPath:  []string{"error"},
		Meta: Meta{
			Op:         op,
			Key:        key,
			Error:      true,
			Violations: v.Violations,
		},
	})
}

// transplant replaces the subtree rooted at u with the one rooted at v
// (which may be absent).
func (t *Tree) transplant(u, v *Node) {
	if u.parent == nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func minimum(x *Node) *Node {
	for x.left != nil {
		x = x.left
	}
	return x
}
