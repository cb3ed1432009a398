package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/neopulse/internal/middleware"
	"github.com/guttosm/neopulse/internal/service"
	"github.com/guttosm/neopulse/internal/transform"
)

// Handler serves stored daily NEO aggregates.
//
// Responsibilities:
//   - Validate the fetch_date query parameter
//   - Ask the service for the live aggregate of that date
//   - Map absent/expired records to 404 and store failures to 500
type Handler struct {
	svc   service.NeoService
	today func() string
}

// NewHandler constructs a Handler backed by svc.
func NewHandler(svc service.NeoService) *Handler {
	return &Handler{
		svc:   svc,
		today: func() string { return transform.FetchDateFor(time.Now()) },
	}
}

// GetNeos handles GET /api/v1/neos (and the legacy alias GET /get-neo-data).
//
// Query Parameters:
//   - fetch_date (string, optional): YYYY-MM-DD; defaults to today's UTC date.
//
// Responses:
//   - 200 OK: the DailyAggregate.
//   - 400 Bad Request: malformed fetch_date.
//   - 404 Not Found: no live record for that date.
//   - 500 Internal Server Error: record store failure.
//
// GetNeos godoc
// @Summary      Get daily NEO aggregate
// @Description  Returns the stored NEO aggregate for a fetch date (default: today, UTC). Expired records are not returned.
// @Tags         neos
// @Accept       json
// @Produce      json
// @Param        fetch_date  query     string  false  "Fetch date in YYYY-MM-DD" example(2024-01-01)
// @Success      200         {object}  models.DailyAggregate  "Success"
// @Failure      400         {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404         {object}  dto.ErrorResponse      "Not Found"
// @Failure      500         {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/neos [get]
// @Router       /get-neo-data [get]
func (h *Handler) GetNeos(c *gin.Context) {
	fetchDate := strings.TrimSpace(c.Query("fetch_date"))
	if fetchDate == "" {
		fetchDate = h.today()
	} else if _, err := time.Parse(transform.DateLayout, fetchDate); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid fetch_date format, expected YYYY-MM-DD", err)
		return
	}

	agg, err := h.svc.GetDaily(c.Request.Context(), fetchDate)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch neo data", err)
		return
	}
	if agg == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found for "+fetchDate, nil)
		return
	}

	c.JSON(http.StatusOK, agg)
}
