package server

import "github.com/AlonMell/rbtrace/internal/rbtree"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code.
	Code string `json:"code,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	StepCount int    `json:"step_count"`
}

// KeysRequest carries keys either as a list or as free text ("10, 20 30").
type KeysRequest struct {
	Keys   []int  `json:"keys"`
	Values string `json:"values"`
}

// OperationResponse describes the steps an insert or delete request appended.
type OperationResponse struct {
	// Applied are the keys that changed the tree.
	Applied []int `json:"applied"`
	// Skipped are duplicates (insert) or absent keys (delete).
	Skipped []int `json:"skipped"`
	// FirstStep is the index of the first appended step.
	FirstStep   int    `json:"first_step"`
	StepCount   int    `json:"step_count"`
	Fingerprint string `json:"fingerprint"`
}

type StepsResponse struct {
	Steps  []rbtree.Step  `json:"steps"`
	Events []rbtree.Event `json:"events"`
}

type StepResponse struct {
	Step      rbtree.Step                    `json:"step"`
	Positions map[rbtree.NodeID]rbtree.Point `json:"positions"`
	Height    int                            `json:"height"`
	Total     int                            `json:"total"`
}

type SearchResponse struct {
	Key    int           `json:"key"`
	Found  bool          `json:"found"`
	NodeID rbtree.NodeID `json:"node_id,omitempty"`
	Color  *rbtree.Color `json:"color,omitempty"`
}

type ShareResponse struct {
	ValuesURL string `json:"values_url"`
	TraceURL  string `json:"trace_url"`
}

type ImportRequest struct {
	URL string `json:"url" binding:"required"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
