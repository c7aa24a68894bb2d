// Package api exposes the query service over HTTP. The same gin router
// serves the Lambda proxy integration and the local test listener.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airobotics/ragservice"
	"github.com/airobotics/ragservice/record"
)

// Store persists query records.
type Store interface {
	Put(ctx context.Context, q *record.Query) error
	Get(ctx context.Context, queryID string) (*record.Query, error)
}

// Runner answers a question synchronously.
type Runner interface {
	Run(ctx context.Context, question string) (*ragservice.QueryResponse, error)
}

// WorkerInvoker hands a pending query to the worker Lambda.
type WorkerInvoker interface {
	Invoke(ctx context.Context, q *record.Query) error
}

type Handler struct {
	store  Store
	runner Runner
	worker WorkerInvoker // nil means queries are answered in-process
}

func New(store Store, runner Runner, worker WorkerInvoker) *Handler {
	return &Handler{store: store, runner: runner, worker: worker}
}

func (h *Handler) Router() *gin.Engine {
	r := gin.Default()
	r.GET("/", h.index)
	r.GET("/get_query", h.getQuery)
	r.POST("/submit_query", h.submitQuery)
	return r
}

func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Hello": "World"})
}

func (h *Handler) getQuery(c *gin.Context) {
	queryID := c.Query("query_id")
	if queryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query_id is required"})
		return
	}
	q, err := h.store.Get(c.Request.Context(), queryID)
	if err != nil {
		ragservice.Logger.Error("get query failed", "query_id", queryID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load query"})
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "query not found"})
		return
	}
	c.JSON(http.StatusOK, q)
}

// QueryRequest is the submit_query request body.
type QueryRequest struct {
	QueryText string `json:"query_text" binding:"required"`
}

func (h *Handler) submitQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query_text is required"})
		return
	}
	ctx := c.Request.Context()
	q := record.New(req.QueryText)

	if h.worker != nil {
		// Asynchronous path: persist the pending record, let the worker
		// Lambda fill in the answer.
		if err := h.store.Put(ctx, q); err != nil {
			ragservice.Logger.Error("store pending query failed", "query_id", q.QueryID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store query"})
			return
		}
		if err := h.worker.Invoke(ctx, q); err != nil {
			ragservice.Logger.Error("worker invocation failed", "query_id", q.QueryID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invoke worker"})
			return
		}
		c.JSON(http.StatusOK, q)
		return
	}

	resp, err := h.runner.Run(ctx, q.QueryText)
	if err != nil {
		ragservice.Logger.Error("query failed", "query_id", q.QueryID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer query"})
		return
	}
	q.AnswerText = resp.ResponseText
	q.Sources = resp.Sources
	q.IsComplete = true
	if err := h.store.Put(ctx, q); err != nil {
		ragservice.Logger.Error("store answered query failed", "query_id", q.QueryID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store query"})
		return
	}
	c.JSON(http.StatusOK, q)
}
