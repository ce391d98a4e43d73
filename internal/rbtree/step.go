package rbtree

// Category classifies the mutation a Step records.
type Category string

const (
	StepInitial     Category = "initial"
	StepInsert      Category = "insert"
	StepDelete      Category = "delete"
	StepRecolor     Category = "recolor"
	StepRotateLeft  Category = "rotate-left"
	StepRotateRight Category = "rotate-right"
)

// Algorithm names the pseudocode listing a Step's line numbers refer to.
type Algorithm string

const (
	AlgInsert      Algorithm = "insert"
	AlgInsertFixup Algorithm = "insert-fixup"
	AlgDelete      Algorithm = "delete"
	AlgDeleteFixup Algorithm = "delete-fixup"
	AlgLeftRotate  Algorithm = "left-rotate"
	AlgRightRotate Algorithm = "right-rotate"
)

// Op is the public operation a Step belongs to. It is passed explicitly down
// through the fixups and rotations.
type Op string

const (
	OpInitial Op = "initial"
	OpInsert  Op = "insert"
	OpDelete  Op = "delete"
)

// Side is the side of a parent a node hangs from.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Fixup case tags.
const (
	CaseUncleRed          = "uncle-red"
	CaseTriangle          = "triangle"
	CaseLine              = "line"
	CaseSiblingRed        = "sibling-red"
	CaseBothChildrenBlack = "both-children-black"
	CaseFarChildBlack     = "far-child-black"
	CaseFinalRecolor      = "final-recolor"
)

// Meta is the structured, presentation-oriented metadata attached to a Step.
// Fields that do not apply to a step are left at their zero value.
type Meta struct {
	Op               Op       `json:"op"`
	Key              int      `json:"key"`
	Case             string   `json:"case,omitempty"`
	ParentSide       Side     `json:"parentSide,omitempty"`
	Direction        Side     `json:"direction,omitempty"`
	IsRoot           bool     `json:"isRoot,omitempty"`
	HasLeftChild     bool     `json:"hasLeftChild,omitempty"`
	HasRightChild    bool     `json:"hasRightChild,omitempty"`
	IsSuccessorChild bool     `json:"isSuccessorChild,omitempty"`
	OriginalColor    *Color   `json:"originalColor,omitempty"`
	IsLeftChild      bool     `json:"isLeftChild,omitempty"`
	Final            bool     `json:"final,omitempty"`
	Error            bool     `json:"error,omitempty"`
	Violations       []string `json:"violations,omitempty"`
}

// Step is an immutable record of one atomic mutation together with a deep
// copy of the whole tree right after it. Steps are never modified once
// appended; callers must treat the slices and the snapshot as read-only.
type Step struct {
	Seq         int       `json:"seq"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Affected    []NodeID  `json:"affected"`
	Tree        Snapshot  `json:"tree"`
	Algorithm   Algorithm `json:"algorithm"`
	// ActiveLines are the pseudocode lines the step highlights.
	ActiveLines []int `json:"activeLines"`
	// ExecutedLines are the lines already run on the way to this step.
	ExecutedLines []int `json:"executedLines"`
	// Conditions maps a line number to the outcome of the branch on that line.
	Conditions map[int]bool `json:"conditions"`
	BranchPath []string     `json:"branchPath"`
	Meta       Meta         `json:"meta"`
}

// Event is one entry of the operation sequence derived from a trace.
type Event struct {
	Op        Op  `json:"op"`
	Key       int `json:"key"`
	StepIndex int `json:"stepIndex"`
}

// Sequence returns the inserted and deleted keys in the order they happened,
// each with the index of the step that performed the structural change.
func Sequence(steps []Step) []Event {
	var events []Event
	for i := range steps {
		s := &steps[i]
		switch s.Category {
		case StepInsert:
			events = append(events, Event{Op: OpInsert, Key: s.Meta.Key, StepIndex: i})
		case StepDelete:
			events = append(events, Event{Op: OpDelete, Key: s.Meta.Key, StepIndex: i})
		}
	}
	return events
}

func colorPtr(c Color) *Color { return &c }
