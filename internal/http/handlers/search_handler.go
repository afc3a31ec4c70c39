// Search HTTP handlers.
//
// This file exposes a cross-collection lookup endpoint:
//   - GET /search?q=...&k=...
//
// The lookup is built per request from a snapshot of the three collections;
// with a few thousand records per collection this stays well under a
// millisecond and avoids cache invalidation entirely.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
	"github.com/dkomarov/go-ssto-backend/internal/search"
	"github.com/dkomarov/go-ssto-backend/internal/utils"
)

// SearchResponse wraps ranked cross-collection hits.
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// Search godoc
// @ID          searchRecords
// @Summary     Search across requests, signals, and terminals
// @Description Matches the query against station numbers, vessel names, MMSI, and IMO. Partial digit prefixes are supported.
// @Tags        Search
// @Produce     json
//
// @Param       q  query  string  true   "Query text"  example(427309418)
// @Param       k  query  int     false  "Maximum hits"  minimum(1) maximum(100) default(10)
//
// @Success     200  {object} handlers.SearchResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /search [get]
func (h *Handlers) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q required")
		return
	}
	k := utils.AtoiDefault(c.Query("k"), 10)
	if k < 1 {
		k = 1
	}
	if k > 100 {
		k = 100
	}

	ctx := c.Request.Context()
	reqs, err := h.listSvc.Requests(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		return
	}
	sigs, err := h.listSvc.Signals(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		return
	}
	terms, err := h.listSvc.Terminals(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		return
	}

	records := make([]search.Record, 0, len(reqs)+len(sigs)+len(terms))
	for _, r := range reqs {
		records = append(records, search.Record{
			Kind:          string(domain.KindRequests),
			ID:            r.ID,
			StationNumber: r.StationNumber,
			VesselName:    r.VesselName,
			MMSI:          r.MMSI,
			IMO:           r.IMO,
			Extra:         []string{r.ShipOwner, r.ContactPerson},
		})
	}
	for _, s := range sigs {
		records = append(records, search.Record{
			Kind:          string(domain.KindSignals),
			ID:            s.ID,
			StationNumber: s.StationNumber,
			VesselName:    s.VesselName,
			MMSI:          s.MMSI,
			Extra:         []string{s.SignalType},
		})
	}
	for _, t := range terms {
		records = append(records, search.Record{
			Kind:          string(domain.KindTerminals),
			ID:            t.ID,
			StationNumber: t.StationNumber,
			VesselName:    t.VesselName,
			MMSI:          t.MMSI,
			Extra:         []string{t.Owner, t.TerminalType},
		})
	}

	hits := search.NewLookup(records).Find(q, k)
	ok(c, http.StatusOK, SearchResponse{Query: q, Hits: hits})
}
