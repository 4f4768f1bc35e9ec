package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/totrackit/totrackit/internal/metrics"
	"github.com/totrackit/totrackit/internal/process"
	"github.com/totrackit/totrackit/internal/service"
	"github.com/totrackit/totrackit/internal/store"
)

// Router provides embeddable HTTP handlers for the tracking API.
// Endpoints:
//   POST {basePath}/processes/:name              body: NewProcessRequest JSON
//   GET  {basePath}/processes/:name/:id          single process
//   PUT  {basePath}/processes/:name/:id/complete body: {"status": "..."} (optional)
//   GET  {basePath}/processes                    filtered, sorted, paged list
//   GET  {basePath}/healthz                      liveness
//   GET  {basePath}/readyz                       store connectivity
//   GET  {basePath}/metrics                      prometheus exposition
// basePath may be empty or start with '/'; no trailing slash.

type Router struct {
	svc      *service.Service
	st       store.Store
	basePath string
}

// NewRouter constructs a new Router with configurable basePath.
// Example basePath: "/api" results in /api/processes, /api/healthz.
func NewRouter(svc *service.Service, st store.Store, basePath string) *Router {
	return &Router{svc: svc, st: st, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.POST("/processes/:name", r.handleCreate)
	group.GET("/processes", r.handleList)
	group.GET("/processes/:name/:id", r.handleGet)
	group.PUT("/processes/:name/:id/complete", r.handleComplete)
	group.GET("/healthz", r.handleHealthz)
	group.GET("/readyz", r.handleReadyz)
	group.GET("/metrics", gin.WrapH(metrics.Handler()))
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
// Shut it down via http.Server's Shutdown or Close.
func NewServer(addr, basePath string, svc *service.Service, st store.Store) (*http.Server, error) {
	r := NewRouter(svc, st, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

func (r *Router) handleCreate(c *gin.Context) {
	name := c.Param("name")
	var req service.NewProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	resp, err := r.svc.Create(c.Request.Context(), name, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, resp)
}

func (r *Router) handleGet(c *gin.Context) {
	resp, err := r.svc.Get(c.Request.Context(), c.Param("name"), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

func (r *Router) handleComplete(c *gin.Context) {
	// Body is optional; an empty or absent body means COMPLETED. An
	// empty read decodes as io.EOF, which covers chunked requests
	// where ContentLength is unknown.
	var req service.CompleteProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	target := process.StatusCompleted
	if req.Status != "" {
		target = req.Status
	}
	resp, err := r.svc.Complete(c.Request.Context(), c.Param("name"), c.Param("id"), target)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

func (r *Router) handleList(c *gin.Context) {
	f, pg, err := parseListParams(c)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	res, err := r.svc.List(c.Request.Context(), f, pg)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (r *Router) handleHealthz(c *gin.Context) {
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleReadyz(c *gin.Context) {
	if p, ok := r.st.(store.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeJSON(c, http.StatusServiceUnavailable, errorResp{Error: err.Error()})
			return
		}
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func writeServiceError(c *gin.Context, err error) {
	var (
		ve *process.ValidationError
		ae *service.AlreadyExistsError
		nf *service.NotFoundError
		ac *service.AlreadyCompletedError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
	case errors.As(err, &ae):
		writeJSON(c, http.StatusConflict, errorResp{Error: err.Error()})
	case errors.As(err, &ac):
		writeJSON(c, http.StatusConflict, errorResp{Error: err.Error()})
	case errors.As(err, &nf):
		writeJSON(c, http.StatusNotFound, errorResp{Error: err.Error()})
	default:
		writeJSON(c, http.StatusInternalServerError, errorResp{Error: err.Error()})
	}
}
