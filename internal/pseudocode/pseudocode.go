// Package pseudocode holds the CLRS listings the tree engine's step metadata
// refers to, and renders a listing with a step's line state marked.
package pseudocode

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/AlonMell/rbtrace/internal/rbtree"
)

// ErrUnknownAlgorithm is returned by Lookup for a name with no listing.
var ErrUnknownAlgorithm = errors.New("pseudocode: unknown algorithm")

// Line is one numbered pseudocode line. Indentation is part of Code.
type Line struct {
	Number int
	Code   string
}

// Listing is the pseudocode of one algorithm.
type Listing struct {
	Algorithm rbtree.Algorithm
	Title     string
	Lines     []Line
}

func listing(alg rbtree.Algorithm, title string, code ...string) Listing {
	l := Listing{Algorithm: alg, Title: title, Lines: make([]Line, len(code))}
	for i, c := range code {
		l.Lines[i] = Line{Number: i + 1, Code: c}
	}
	return l
}

var listings = map[rbtree.Algorithm]Listing{
	rbtree.AlgInsert: listing(rbtree.AlgInsert, "RB-INSERT(T, z)",
		"y = T.nil",
		"x = T.root",
		"while x != T.nil",
		"  y = x",
		"  if z.key < x.key",
		"    x = x.left",
		"  else",
		"    x = x.right",
		"z.p = y",
		"if y == T.nil",
		"  T.root = z",
		"elseif z.key < y.key",
		"  y.left = z",
		"else",
		"  y.right = z",
		"z.left = T.nil",
		"z.right = T.nil",
		"z.color = RED",
		"RB-INSERT-FIXUP(T, z)",
	),
	rbtree.AlgInsertFixup: listing(rbtree.AlgInsertFixup, "RB-INSERT-FIXUP(T, z)",
		"while z.p.color == RED",
		"  if z.p == z.p.p.left",
		"    y = z.p.p.right",
		"    if y.color == RED",
		"      z.p.color = BLACK",
		"      y.color = BLACK",
		"      z.p.p.color = RED",
		"      z = z.p.p",
		"    else",
		"      if z == z.p.right",
		"        z = z.p",
		"        LEFT-ROTATE(T, z)",
		"      z.p.color = BLACK",
		"      z.p.p.color = RED",
		"      RIGHT-ROTATE(T, z.p.p)",
		"  else",
		"    y = z.p.p.left",
		"    if y.color == RED",
		"      z.p.color = BLACK",
		"      y.color = BLACK",
		"      z.p.p.color = RED",
		"      z = z.p.p",
		"    else",
		"      if z == z.p.left",
		"        z = z.p",
		"        RIGHT-ROTATE(T, z)",
		"      z.p.color = BLACK",
		"      z.p.p.color = RED",
		"      LEFT-ROTATE(T, z.p.p)",
		"T.root.color = BLACK",
	),
	rbtree.AlgLeftRotate: listing(rbtree.AlgLeftRotate, "LEFT-ROTATE(T, x)",
		"y = x.right",
		"x.right = y.left",
		"if y.left != T.nil",
		"  y.left.p = x",
		"y.p = x.p",
		"if x.p == T.nil",
		"  T.root = y",
		"elseif x == x.p.left",
		"  x.p.left = y",
		"else",
		"  x.p.right = y",
		"y.left = x",
		"x.p = y",
	),
	rbtree.AlgRightRotate: listing(rbtree.AlgRightRotate, "RIGHT-ROTATE(T, y)",
		"x = y.left",
		"y.left = x.right",
		"if x.right != T.nil",
		"  x.right.p = y",
		"x.p = y.p",
		"if y.p == T.nil",
		"  T.root = x",
		"elseif y == y.p.right",
		"  y.p.right = x",
		"else",
		"  y.p.left = x",
		"x.right = y",
		"y.p = x",
	),
	rbtree.AlgDelete: listing(rbtree.AlgDelete, "RB-DELETE(T, z)",
		"y = z",
		"y-original-color = y.color",
		"if z.left == T.nil",
		"  x = z.right",
		"  RB-TRANSPLANT(T, z, z.right)",
		"elseif z.right == T.nil",
		"  x = z.left",
		"  RB-TRANSPLANT(T, z, z.left)",
		"else y = TREE-MINIMUM(z.right)",
		"  y-original-color = y.color",
		"  x = y.right",
		"  if y != z.right",
		"    RB-TRANSPLANT(T, y, y.right)",
		"    y.right = z.right",
		"    y.right.p = y",
		"  else x.p = y",
		"  RB-TRANSPLANT(T, z, y)",
		"  y.left = z.left",
		"  y.left.p = y",
		"  y.color = z.color",
		"if y-original-color == BLACK",
		"  RB-DELETE-FIXUP(T, x)",
	),
	rbtree.AlgDeleteFixup: listing(rbtree.AlgDeleteFixup, "RB-DELETE-FIXUP(T, x)",
		"while x != T.root and x.color == BLACK",
		"  if x == x.p.left",
		"    w = x.p.right",
		"    if w.color == RED",
		"      w.color = BLACK",
		"      x.p.color = RED",
		"      LEFT-ROTATE(T, x.p)",
		"      w = x.p.right",
		"    if w.left.color == BLACK and w.right.color == BLACK",
		"      w.color = RED",
		"      x = x.p",
		"    else",
		"      if w.right.color == BLACK",
		"        w.left.color = BLACK",
		"        w.color = RED",
		"        RIGHT-ROTATE(T, w)",
		"        w = x.p.right",
		"      w.color = x.p.color",
		"      x.p.color = BLACK",
		"      w.right.color = BLACK",
		"      LEFT-ROTATE(T, x.p)",
		"      x = T.root",
		"  else",
		"    w = x.p.left",
		"    if w.color == RED",
		"      w.color = BLACK",
		"      x.p.color = RED",
		"      RIGHT-ROTATE(T, x.p)",
		"      w = x.p.left",
		"    if w.right.color == BLACK and w.left.color == BLACK",
		"      w.color = RED",
		"      x = x.p",
		"    else",
		"      if w.left.color == BLACK",
		"        w.right.color = BLACK",
		"        w.color = RED",
		"        LEFT-ROTATE(T, w)",
		"        w = x.p.left",
		"      w.color = x.p.color",
		"      x.p.color = BLACK",
		"      w.left.color = BLACK",
		"      RIGHT-ROTATE(T, x.p)",
		"      x = T.root",
		"x.color = BLACK",
	),
}

// Lookup returns the listing for alg.
func Lookup(alg rbtree.Algorithm) (Listing, error) {
	l, ok := listings[alg]
	if !ok {
		return Listing{}, errors.Wrapf(ErrUnknownAlgorithm, "%q", alg)
	}
	return l, nil
}

// Algorithms returns every algorithm with a listing, sorted by name.
func Algorithms() []rbtree.Algorithm {
	algs := make([]rbtree.Algorithm, 0, len(listings))
	for a := range listings {
		algs = append(algs, a)
	}
	slices.Sort(algs)
	return algs
}

// Line markers used by Render.
const (
	markActive   = ">"
	markExecuted = "*"
	markIdle     = " "
)

// Render writes the listing of the step's algorithm. Every line is prefixed
// with a marker (">" active, "*" executed, blank otherwise) and its number;
// lines carrying a branch outcome end with [T] or [F].
//
//	> 1 y = x.right
func Render(w io.Writer, s rbtree.Step) error {
	l, err := Lookup(s.Algorithm)
	if err != nil {
		return err
	}
	width := len(fmt.Sprint(len(l.Lines)))

	var b strings.Builder
	fmt.Fprintf(&b, "%s  [step %d: %s]\n", l.Title, s.Seq, s.Category)
	for _, line := range l.Lines {
		mark := markIdle
		switch {
		case slices.Contains(s.ActiveLines, line.Number):
			mark = markActive
		case slices.Contains(s.ExecutedLines, line.Number):
			mark = markExecuted
		}
		fmt.Fprintf(&b, "%s %*d %s", mark, width, line.Number, line.Code)
		if c, ok := s.Conditions[line.Number]; ok {
			if c {
				b.WriteString("  [T]")
			} else {
				b.WriteString("  [F]")
			}
		}
		b.WriteByte('\n')
	}
	if len(s.BranchPath) > 0 {
		fmt.Fprintf(&b, "path: %s\n", strings.Join(s.BranchPath, " > "))
	}
	_, err = io.WriteString(w, b.String())
	return err
}
