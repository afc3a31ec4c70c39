// Workbook import HTTP handlers.
//
// This file exposes the bulk import endpoint:
//   - POST /import?policy=merge|replace  (upload an xlsx workbook)
//
// The upload is accepted either as a multipart form with a "file" field or as
// a raw request body. Handlers are transport-thin: they validate input, call
// application services, and translate results into HTTP responses, including
// replaying a previously stored import summary when a known Idempotency-Key
// is presented.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dkomarov/go-ssto-backend/internal/http/middleware"
	"github.com/dkomarov/go-ssto-backend/internal/repo"
	"github.com/dkomarov/go-ssto-backend/internal/services"
	"github.com/dkomarov/go-ssto-backend/internal/sysutil"
)

//
// Service contracts (context-aware)
//

// WorkbookImporter defines the bulk import operation consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type WorkbookImporter interface {
	// ImportWorkbook parses raw xlsx bytes and reconciles every sheet under
	// the given policy.
	ImportWorkbook(ctx context.Context, data []byte, policy services.Policy) (*services.ImportSummary, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for imports, records, and search.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	importSvc  WorkbookImporter
	recordSvc  RecordWriter
	listSvc    RecordLister
	db         *gorm.DB
	receiptTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
// db and receiptTTL back the Idempotency-Key replay of import summaries; a
// nil db disables replay.
func New(importSvc WorkbookImporter, recordSvc RecordWriter, listSvc RecordLister, db *gorm.DB, receiptTTL time.Duration) *Handlers {
	return &Handlers{
		importSvc:  importSvc,
		recordSvc:  recordSvc,
		listSvc:    listSvc,
		db:         db,
		receiptTTL: receiptTTL,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	var ctxID, hdrID string
	if v, ok := c.Get("userID"); ok {
		ctxID, _ = v.(string)
	}
	if c != nil && c.Request != nil {
		hdrID = c.GetHeader("X-User-ID")
	}
	return sysutil.FirstNonEmpty(ctxID, hdrID, "demo-user")
}

// ImportWorkbook godoc
// @ID          importWorkbook
// @Summary     Import an Excel workbook
// @Description Classifies every sheet, normalizes the rows, and reconciles them against the stored collections under the given policy. Returns per-kind tallies. With a known Idempotency-Key the previously stored summary is replayed.
// @Tags        Import
// @Accept      mpfd
// @Accept      octet-stream
// @Produce     json
//
// @Param       X-User-ID        header    string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header    string  false "Safe-retry key"
// @Param       policy           query     string  false "merge (default) or replace"  Enums(merge, replace)
// @Param       file             formData  file    false "Workbook (.xlsx)"
//
// @Success     200  {object}  services.ImportSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed workbook or invalid policy"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /import [post]
func (h *Handlers) ImportWorkbook(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	policy, err := services.ParsePolicy(c.Query("policy"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidPolicy, "policy must be merge or replace")
		return
	}

	// Replay a stored summary when the same key was already processed.
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && h.db != nil {
		if rec, err := repo.GetReceipt(ctx, h.db, uid, key, time.Now().UTC()); err == nil {
			c.Header("Idempotency-Replayed", "true")
			c.Data(rec.Status, "application/json; charset=utf-8", []byte(rec.Summary))
			return
		}
	}

	data, err := h.workbookPayload(c)
	if err != nil || len(data) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "workbook payload required")
		return
	}

	summary, err := h.importSvc.ImportWorkbook(ctx, data, policy)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedWorkbook):
			fail(c, http.StatusBadRequest, ErrCodeMalformedWorkbook, "payload is not a readable xlsx workbook")
		case errors.Is(err, services.ErrInvalidPolicy):
			fail(c, http.StatusBadRequest, ErrCodeInvalidPolicy, "policy must be merge or replace")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeImportFailed, err.Error())
		}
		return
	}

	if hasKey && h.db != nil {
		if body, err := json.Marshal(summary); err == nil {
			// Best effort; a duplicate key means a concurrent request won.
			_, _ = repo.CreateReceipt(ctx, h.db, uid, key, string(body), http.StatusOK, h.receiptTTL)
		}
	}

	ok(c, http.StatusOK, summary)
}

// workbookPayload reads the uploaded workbook from the "file" multipart field
// when present, otherwise from the raw request body.
func (h *Handlers) workbookPayload(c *gin.Context) ([]byte, error) {
	if c.Request == nil || c.Request.Body == nil {
		return nil, nil
	}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}
