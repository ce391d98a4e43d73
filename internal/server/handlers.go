package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlonMell/rbtrace/internal/config"
	"github.com/AlonMell/rbtrace/internal/input"
	"github.com/AlonMell/rbtrace/internal/rbtree"
	"github.com/AlonMell/rbtrace/internal/share"
)

// Handlers serves tree sessions over HTTP.
type Handlers struct {
	store  *Store
	cfg    config.Config
	logger *slog.Logger
}

func NewHandlers(cfg config.Config, store *Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, cfg: cfg, logger: logger}
}

func (h *Handlers) requestLogger(c *gin.Context, handler string) *slog.Logger {
	return h.logger.With("request_id", getOrCreateRequestID(c), "handler", handler)
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

func fingerprint(s rbtree.Snapshot) string {
	return strconv.FormatUint(s.Fingerprint(), 16)
}

// session resolves the :id parameter, writing the error response itself.
func (h *Handlers) session(c *gin.Context, logger *slog.Logger) (*Session, bool) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		logger.Warn("Unknown session", "error", err)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "SESSION_NOT_FOUND"})
		return nil, false
	}
	return s, true
}

// HandleCreateSession handles POST /v1/sessions. Values in the v (or values)
// query parameter are inserted into the new tree.
func (h *Handlers) HandleCreateSession(c *gin.Context) {
	logger := h.requestLogger(c, "HandleCreateSession")

	values, err := input.FromQuery(c.Request.URL.Query())
	if err != nil {
		logger.Warn("Invalid values", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_VALUES"})
		return
	}
	if len(values) > h.cfg.Server.MaxKeysPerRequest {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many keys", Code: "TOO_MANY_KEYS"})
		return
	}

	s, err := h.store.Create()
	if err != nil {
		logger.Warn("Cannot create session", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "TOO_MANY_SESSIONS"})
		return
	}

	var resp SessionResponse
	s.Do(func(t *rbtree.Tree) {
		input.Apply(t, input.Inserts(values))
		resp = SessionResponse{SessionID: s.ID, StepCount: t.StepCount()}
	})
	logger.Info("Session created", "session_id", s.ID, "preloaded", len(values))
	c.JSON(http.StatusCreated, resp)
}

// HandleDeleteSession handles DELETE /v1/sessions/:id.
func (h *Handlers) HandleDeleteSession(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found", Code: "SESSION_NOT_FOUND"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) bindKeys(c *gin.Context, logger *slog.Logger) ([]int, bool) {
	var req KeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return nil, false
	}
	keys := req.Keys
	if req.Values != "" {
		parsed, err := input.ParseValues(req.Values)
		if err != nil {
			logger.Warn("Invalid values", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_VALUES"})
			return nil, false
		}
		keys = append(keys, parsed...)
	}
	if len(keys) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no keys given", Code: "INVALID_REQUEST"})
		return nil, false
	}
	if len(keys) > h.cfg.Server.MaxKeysPerRequest {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many keys", Code: "TOO_MANY_KEYS"})
		return nil, false
	}
	return keys, true
}

func (h *Handlers) mutate(c *gin.Context, handler string, apply func(*rbtree.Tree, int) bool) {
	logger := h.requestLogger(c, handler)
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	keys, ok := h.bindKeys(c, logger)
	if !ok {
		return
	}

	resp := OperationResponse{Applied: []int{}, Skipped: []int{}}
	s.Do(func(t *rbtree.Tree) {
		resp.FirstStep = t.StepCount()
		for _, k := range keys {
			if apply(t, k) {
				resp.Applied = append(resp.Applied, k)
			} else {
				resp.Skipped = append(resp.Skipped, k)
			}
		}
		resp.StepCount = t.StepCount()
		resp.Fingerprint = fingerprint(t.Snapshot())
	})
	logger.Debug("Keys applied",
		"session_id", s.ID,
		"applied", len(resp.Applied),
		"skipped", len(resp.Skipped),
		"steps", resp.StepCount-resp.FirstStep)
	c.JSON(http.StatusOK, resp)
}

// HandleInsert handles POST /v1/sessions/:id/insert.
func (h *Handlers) HandleInsert(c *gin.Context) {
	h.mutate(c, "HandleInsert", (*rbtree.Tree).Insert)
}

// HandleDelete handles POST /v1/sessions/:id/delete.
func (h *Handlers) HandleDelete(c *gin.Context) {
	h.mutate(c, "HandleDelete", (*rbtree.Tree).Delete)
}

// HandleSearch handles GET /v1/sessions/:id/search/:key.
func (h *Handlers) HandleSearch(c *gin.Context) {
	logger := h.requestLogger(c, "HandleSearch")
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "key must be an integer", Code: "INVALID_KEY"})
		return
	}

	resp := SearchResponse{Key: key}
	s.Do(func(t *rbtree.Tree) {
		if n := t.Search(key); n != nil {
			color := n.Color()
			resp.Found, resp.NodeID, resp.Color = true, n.ID, &color
		}
	})
	c.JSON(http.StatusOK, resp)
}

// HandleSteps handles GET /v1/sessions/:id/steps.
func (h *Handlers) HandleSteps(c *gin.Context) {
	logger := h.requestLogger(c, "HandleSteps")
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	var steps []rbtree.Step
	s.Do(func(t *rbtree.Tree) { steps = t.Steps() })
	c.JSON(http.StatusOK, StepsResponse{Steps: steps, Events: rbtree.Sequence(steps)})
}

// HandleStep handles GET /v1/sessions/:id/steps/:index. The response carries
// layout positions for the step's snapshot and an ETag derived from the
// snapshot's fingerprint.
func (h *Handlers) HandleStep(c *gin.Context) {
	logger := h.requestLogger(c, "HandleStep")
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "index must be an integer", Code: "INVALID_INDEX"})
		return
	}

	var (
		step  rbtree.Step
		total int
	)
	s.Do(func(t *rbtree.Tree) {
		step, ok = t.Step(index)
		total = t.StepCount()
	})
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "step out of range", Code: "STEP_NOT_FOUND"})
		return
	}

	etag := `"` + strconv.Itoa(step.Seq) + "-" + fingerprint(step.Tree) + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, StepResponse{
		Step:      step,
		Positions: rbtree.CalculateNodePositions(step.Tree, h.cfg.LayoutOptions()),
		Height:    step.Tree.Height(),
		Total:     total,
	})
}

// HandleReset handles POST /v1/sessions/:id/reset.
func (h *Handlers) HandleReset(c *gin.Context) {
	logger := h.requestLogger(c, "HandleReset")
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	var resp SessionResponse
	s.Do(func(t *rbtree.Tree) {
		t.Reset()
		resp = SessionResponse{SessionID: s.ID, StepCount: t.StepCount()}
	})
	c.JSON(http.StatusOK, resp)
}

// HandleValidate handles GET /v1/sessions/:id/validate.
func (h *Handlers) HandleValidate(c *gin.Context) {
	logger := h.requestLogger(c, "HandleValidate")
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	var v rbtree.Validation
	s.Do(func(t *rbtree.Tree) { v = t.Validate() })
	if v.Violations == nil {
		v.Violations = []string{}
	}
	c.JSON(http.StatusOK, v)
}

// HandleShare handles GET /v1/sessions/:id/share.
func (h *Handlers) HandleShare(c *gin.Context) {
	logger := h.requestLogger(c, "HandleShare")
	s, ok := h.session(c, logger)
	if !ok {
		return
	}
	var steps []rbtree.Step
	s.Do(func(t *rbtree.Tree) { steps = t.Steps() })

	values, err := share.ValuesURL(h.cfg.Share.BaseURL, share.Values(steps))
	if err != nil {
		logger.Error("Building values link failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "SHARE_FAILED"})
		return
	}
	trace, err := share.TraceURL(h.cfg.Share.BaseURL, share.Ops(steps))
	if err != nil {
		logger.Error("Building trace link failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "SHARE_FAILED"})
		return
	}
	c.JSON(http.StatusOK, ShareResponse{ValuesURL: values.String(), TraceURL: trace.String()})
}

// HandleImport handles POST /v1/sessions/import: it starts a session by
// replaying a trace link.
func (h *Handlers) HandleImport(c *gin.Context) {
	logger := h.requestLogger(c, "HandleImport")

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_LINK"})
		return
	}
	ops, err := share.Decode(u)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, share.ErrMalformedLink) {
			code = http.StatusBadRequest
		}
		logger.Warn("Cannot decode link", "error", err)
		c.JSON(code, ErrorResponse{Error: err.Error(), Code: "INVALID_LINK"})
		return
	}
	if len(ops) > h.cfg.Server.MaxKeysPerRequest {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many operations", Code: "TOO_MANY_KEYS"})
		return
	}

	s, err := h.store.Create()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "TOO_MANY_SESSIONS"})
		return
	}
	var resp SessionResponse
	s.Do(func(t *rbtree.Tree) {
		input.Apply(t, ops)
		resp = SessionResponse{SessionID: s.ID, StepCount: t.StepCount()}
	})
	logger.Info("Session imported", "session_id", s.ID, "ops", len(ops))
	c.JSON(http.StatusCreated, resp)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Sessions: h.store.Len()})
}
