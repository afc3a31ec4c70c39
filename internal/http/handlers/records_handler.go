// Record HTTP handlers.
//
// This file exposes REST endpoints for the three stored collections:
//   - GET  /requests, /signals, /terminals        (list, paginated)
//   - POST /requests, /signals, /terminals        (manual create)
//   - POST /requests/{id}/confirm                 (pending -> confirmed)
//   - POST /requests/{id}/cancel                  (pending -> cancelled)
//   - POST /terminals/{number}/test               (record a completed test)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
	"github.com/dkomarov/go-ssto-backend/internal/services"
	"github.com/dkomarov/go-ssto-backend/internal/utils"
)

// RecordWriter defines single-record writes and lifecycle transitions
// consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecordWriter interface {
	// CreateRequest persists one manually entered test request.
	CreateRequest(ctx context.Context, in domain.TestRequest) (*domain.TestRequest, error)
	// CreateSignal persists one manually entered signal.
	CreateSignal(ctx context.Context, in domain.Signal) (*domain.Signal, error)
	// CreateTerminal persists one manually entered terminal.
	CreateTerminal(ctx context.Context, in domain.Terminal) (*domain.Terminal, error)
	// ConfirmRequest moves a pending request to confirmed.
	ConfirmRequest(ctx context.Context, id string) (*domain.TestRequest, error)
	// CancelRequest moves a pending request to cancelled.
	CancelRequest(ctx context.Context, id string) (*domain.TestRequest, error)
	// RunTerminalTest records a completed test for the given station number.
	RunTerminalTest(ctx context.Context, stationNumber string) (*domain.Terminal, error)
}

// RecordLister exposes read-only snapshots of the stored collections.
type RecordLister interface {
	Requests(ctx context.Context) ([]domain.TestRequest, error)
	Signals(ctx context.Context) ([]domain.Signal, error)
	Terminals(ctx context.Context) ([]domain.Terminal, error)
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// ListRequestsResponse wraps a page of test requests.
type ListRequestsResponse struct {
	Requests   []domain.TestRequest `json:"requests"`
	Pagination Pagination           `json:"pagination"`
}

// ListSignalsResponse wraps a page of signals.
type ListSignalsResponse struct {
	Signals    []domain.Signal `json:"signals"`
	Pagination Pagination      `json:"pagination"`
}

// ListTerminalsResponse wraps a page of terminals.
type ListTerminalsResponse struct {
	Terminals  []domain.Terminal `json:"terminals"`
	Pagination Pagination        `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 500
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// pageOf slices one page out of a full snapshot and builds its metadata.
func pageOf[T any](items []T, page, pageSize int) ([]T, Pagination) {
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	lo := (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return items[lo:hi], Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// failCreate maps record-service errors to HTTP responses for create calls.
func failCreate(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStationNumber):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "station number must be exactly nine digits")
	case errors.Is(err, services.ErrMissingTestDate):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "test date required")
	case errors.Is(err, services.ErrMissingReceivedAt):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "received timestamp required")
	case errors.Is(err, services.ErrDuplicateRecord):
		fail(c, http.StatusConflict, ErrCodeConflict, "record already exists")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	}
}

//
// Handlers
//

// ListRequests godoc
// @ID          listRequests
// @Summary     List test requests (paginated)
// @Tags        Requests
// @Produce     json
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(500) default(50)
//
// @Success     200  {object} handlers.ListRequestsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests [get]
func (h *Handlers) ListRequests(c *gin.Context) {
	items, err := h.listSvc.Requests(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	page, pageSize := clampPagination(c)
	items, pg := pageOf(items, page, pageSize)
	ok(c, http.StatusOK, ListRequestsResponse{Requests: items, Pagination: pg})
}

// ListSignals godoc
// @ID          listSignals
// @Summary     List signals (paginated)
// @Tags        Signals
// @Produce     json
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(500) default(50)
//
// @Success     200  {object} handlers.ListSignalsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /signals [get]
func (h *Handlers) ListSignals(c *gin.Context) {
	items, err := h.listSvc.Signals(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	page, pageSize := clampPagination(c)
	items, pg := pageOf(items, page, pageSize)
	ok(c, http.StatusOK, ListSignalsResponse{Signals: items, Pagination: pg})
}

// ListTerminals godoc
// @ID          listTerminals
// @Summary     List terminals (paginated)
// @Tags        Terminals
// @Produce     json
//
// @Param       page       query  int  false "Page number"    minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page" minimum(1) maximum(500) default(50)
//
// @Success     200  {object} handlers.ListTerminalsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals [get]
func (h *Handlers) ListTerminals(c *gin.Context) {
	items, err := h.listSvc.Terminals(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	page, pageSize := clampPagination(c)
	items, pg := pageOf(items, page, pageSize)
	ok(c, http.StatusOK, ListTerminalsResponse{Terminals: items, Pagination: pg})
}

// CreateRequest godoc
// @ID          createRequest
// @Summary     Create a test request
// @Description Creates one test request. The (stationNumber, testDate) pair must be unique.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.TestRequest  true  "Test request payload"
//
// @Success     201  {object} domain.TestRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests [post]
func (h *Handlers) CreateRequest(c *gin.Context) {
	var in domain.TestRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	out, err := h.recordSvc.CreateRequest(c.Request.Context(), in)
	if err != nil {
		failCreate(c, err)
		return
	}
	ok(c, http.StatusCreated, out)
}

// CreateSignal godoc
// @ID          createSignal
// @Summary     Create a signal
// @Description Creates one received alert signal. Signals matching an existing (station, minute, type) key are rejected.
// @Tags        Signals
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.Signal  true  "Signal payload"
//
// @Success     201  {object} domain.Signal
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate signal"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /signals [post]
func (h *Handlers) CreateSignal(c *gin.Context) {
	var in domain.Signal
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	out, err := h.recordSvc.CreateSignal(c.Request.Context(), in)
	if err != nil {
		failCreate(c, err)
		return
	}
	ok(c, http.StatusCreated, out)
}

// CreateTerminal godoc
// @ID          createTerminal
// @Summary     Create a terminal
// @Description Creates one terminal. The station number is the natural key; one row per installed unit.
// @Tags        Terminals
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.Terminal  true  "Terminal payload"
//
// @Success     201  {object} domain.Terminal
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate terminal"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals [post]
func (h *Handlers) CreateTerminal(c *gin.Context) {
	var in domain.Terminal
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	out, err := h.recordSvc.CreateTerminal(c.Request.Context(), in)
	if err != nil {
		failCreate(c, err)
		return
	}
	ok(c, http.StatusCreated, out)
}

// ConfirmRequest godoc
// @ID          confirmRequest
// @Summary     Confirm a pending test request
// @Tags        Requests
// @Produce     json
//
// @Param       id  path  string  true  "Request ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.TestRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Not pending"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/confirm [post]
func (h *Handlers) ConfirmRequest(c *gin.Context) {
	h.transitionRequest(c, h.recordSvc.ConfirmRequest)
}

// CancelRequest godoc
// @ID          cancelRequest
// @Summary     Cancel a pending test request
// @Tags        Requests
// @Produce     json
//
// @Param       id  path  string  true  "Request ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.TestRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Not pending"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/cancel [post]
func (h *Handlers) CancelRequest(c *gin.Context) {
	h.transitionRequest(c, h.recordSvc.CancelRequest)
}

func (h *Handlers) transitionRequest(c *gin.Context, op func(context.Context, string) (*domain.TestRequest, error)) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request id must be a UUID")
		return
	}
	out, err := op(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "test request not found")
		case errors.Is(err, services.ErrInvalidTransition):
			fail(c, http.StatusConflict, ErrCodeInvalidTransition, "only pending requests can transition")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, out)
}

// RunTerminalTest godoc
// @ID          runTerminalTest
// @Summary     Record a completed SSAS test
// @Description Marks the terminal as tested, stamps today's date as the last test, and schedules the next test one year out.
// @Tags        Terminals
// @Produce     json
//
// @Param       number  path  string  true  "Station number (nine digits)"  example(427309418)
//
// @Success     200  {object} domain.Terminal
// @Failure     404  {object} handlers.ErrorResponse "Terminal not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /terminals/{number}/test [post]
func (h *Handlers) RunTerminalTest(c *gin.Context) {
	out, err := h.recordSvc.RunTerminalTest(c.Request.Context(), c.Param("number"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTerminalNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "terminal not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, out)
}
