// Package share builds and decodes links that reproduce a tree.
//
// A values link carries the keys to preload as a query parameter. A trace
// link carries the whole operation log, JSON encoded, zlib compressed and
// base64url encoded in the URL fragment, so it never reaches a server log.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zlib"

	"github.com/AlonMell/rbtrace/internal/input"
	"github.com/AlonMell/rbtrace/internal/rbtree"
)

// ErrMalformedLink is returned when a trace link cannot be decoded.
var ErrMalformedLink = errors.New("share: malformed link")

// traceVersion is bumped whenever the encoded payload changes shape.
const traceVersion = 1

// maxPayload bounds the decompressed size of a trace link.
const maxPayload = 1 << 20

type payload struct {
	Version int        `json:"version"`
	Ops     []input.Op `json:"ops"`
}

// ValuesURL returns base with the v query parameter set to keys.
func ValuesURL(base string, keys []int) (url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return url.URL{}, errors.Wrapf(err, "parsing base url %q", base)
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(k)
	}
	q := u.Query()
	q.Del(input.ParamValuesAlias)
	q.Set(input.ParamValues, strings.Join(parts, ","))
	u.RawQuery = q.Encode()
	return *u, nil
}

// TraceURL returns base with ops encoded in the fragment.
func TraceURL(base string, ops []input.Op) (url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return url.URL{}, errors.Wrapf(err, "parsing base url %q", base)
	}

	var jsonBuf bytes.Buffer
	if err := json.NewEncoder(&jsonBuf).Encode(payload{Version: traceVersion, Ops: ops}); err != nil {
		return url.URL{}, err
	}

	var compressed bytes.Buffer
	encoder := base64.NewEncoder(base64.URLEncoding, &compressed)
	compressor := zlib.NewWriter(encoder)
	if _, err := jsonBuf.WriteTo(compressor); err != nil {
		return url.URL{}, err
	}
	if err := compressor.Close(); err != nil {
		return url.URL{}, err
	}
	if err := encoder.Close(); err != nil {
		return url.URL{}, err
	}
	u.Fragment = compressed.String()
	return *u, nil
}

// Decode extracts the operation log from a trace link.
func Decode(u *url.URL) ([]input.Op, error) {
	if u.Fragment == "" {
		return nil, errors.Wrap(ErrMalformedLink, "no fragment")
	}
	decoder := base64.NewDecoder(base64.URLEncoding, strings.NewReader(u.Fragment))
	r, err := zlib.NewReader(decoder)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedLink, "%v", err)
	}
	defer r.Close()

	raw, err := io.ReadAll(io.LimitReader(r, maxPayload+1))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedLink, "%v", err)
	}
	if len(raw) > maxPayload {
		return nil, errors.Wrap(ErrMalformedLink, "payload too large")
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrapf(ErrMalformedLink, "%v", err)
	}
	if p.Version != traceVersion {
		return nil, errors.Wrapf(ErrMalformedLink, "unsupported version %d", p.Version)
	}
	for _, op := range p.Ops {
		if op.Kind != rbtree.OpInsert && op.Kind != rbtree.OpDelete {
			return nil, errors.Wrapf(ErrMalformedLink, "unknown operation %q", op.Kind)
		}
	}
	return p.Ops, nil
}

// Ops returns the operation log that produced steps.
func Ops(steps []rbtree.Step) []input.Op {
	events := rbtree.Sequence(steps)
	ops := make([]input.Op, len(events))
	for i, e := range events {
		ops[i] = input.Op{Kind: e.Op, Key: e.Key}
	}
	return ops
}

// Values returns the keys present after steps, in the order they were
// inserted.
func Values(steps []rbtree.Step) []int {
	var keys []int
	for _, e := range rbtree.Sequence(steps) {
		if e.Op == rbtree.OpInsert {
			keys = append(keys, e.Key)
			continue
		}
		keys = slices.DeleteFunc(keys, func(k int) bool { return k == e.Key })
	}
	return keys
}

// Replay decodes a trace link and rebuilds the tree it describes.
func Replay(u *url.URL, opts ...rbtree.Option) (*rbtree.Tree, error) {
	ops, err := Decode(u)
	if err != nil {
		return nil, err
	}
	tree := rbtree.New(opts...)
	input.Apply(tree, ops)
	return tree, nil
}
