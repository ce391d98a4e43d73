// Package input turns user supplied text into keys and operations for the
// tree engine.
package input

import (
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/AlonMell/rbtrace/internal/rbtree"
)

// ErrInvalidValue is returned for a token that is not an integer key.
var ErrInvalidValue = errors.New("input: invalid value")

// Query parameter names, in lookup order.
const (
	ParamValues      = "v"
	ParamValuesAlias = "values"
)

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// ParseValues parses a list of integers separated by commas, semicolons or
// whitespace. Empty input yields no values. Order and duplicates are kept.
func ParseValues(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, isSeparator)
	values := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "%q", f)
		}
		values = append(values, v)
	}
	return values, nil
}

// FromQuery reads values from the "v" parameter, falling back to "values".
// A missing parameter yields no values.
func FromQuery(q url.Values) ([]int, error) {
	raw := q.Get(ParamValues)
	if raw == "" {
		raw = q.Get(ParamValuesAlias)
	}
	return ParseValues(raw)
}

// Op is one scripted operation.
type Op struct {
	Kind rbtree.Op `json:"op"`
	Key  int       `json:"key"`
}

func (o Op) String() string {
	if o.Kind == rbtree.OpDelete {
		return "d" + strconv.Itoa(o.Key)
	}
	return "i" + strconv.Itoa(o.Key)
}

// ParseScript parses a script of operations such as "i10 i20 d10". A token
// prefixed with i inserts, d deletes, and a bare integer inserts.
func ParseScript(s string) ([]Op, error) {
	fields := strings.FieldsFunc(s, isSeparator)
	ops := make([]Op, 0, len(fields))
	for _, f := range fields {
		kind := rbtree.OpInsert
		num := f
		switch f[0] {
		case 'i', 'I':
			num = f[1:]
		case 'd', 'D':
			kind = rbtree.OpDelete
			num = f[1:]
		}
		v, err := strconv.Atoi(num)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidValue, "operation %q", f)
		}
		ops = append(ops, Op{Kind: kind, Key: v})
	}
	return ops, nil
}

// Apply runs ops against tree in order and returns how many of them changed
// it. Duplicate inserts and absent deletes are skipped by the tree itself.
func Apply(tree *rbtree.Tree, ops []Op) int {
	changed := 0
	for _, op := range ops {
		var ok bool
		if op.Kind == rbtree.OpDelete {
			ok = tree.Delete(op.Key)
		} else {
			ok = tree.Insert(op.Key)
		}
		if ok {
			changed++
		}
	}
	return changed
}

// Inserts converts values into insert operations.
func Inserts(values []int) []Op {
	ops := make([]Op, len(values))
	for i, v := range values {
		ops[i] = Op{Kind: rbtree.OpInsert, Key: v}
	}
	return ops
}

// RandomValues returns count distinct values in [1, max]. count is clamped
// to max.
func RandomValues(r *rand.Rand, count, max int) []int {
	if max < 1 || count < 1 {
		return nil
	}
	count = min(count, max)
	used := make(map[int]struct{}, count)
	values := make([]int, 0, count)
	for len(values) < count {
		v := r.Intn(max) + 1
		if _, ok := used[v]; ok {
			continue
		}
		used[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
