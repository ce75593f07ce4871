package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/middleware"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/services"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ListMSMEs godoc
// @Summary List MSMEs
// @Description Filtered, searched, sorted and paginated MSME directory.
// @Tags msmes
// @Produce json
// @Param sectors query []int false "Sector ids (repeated or comma separated)"
// @Param locations query []string false "City/municipality names (repeated or comma separated)"
// @Param q query string false "Search term"
// @Param sort query string false "Sort column" Enums(company_name, contact_person, email, city, sector, dti_number, year_established, visits)
// @Param dir query string false "Sort direction" Enums(asc, desc, default)
// @Param page query int false "Page number (default: 1)" minimum(1)
// @Param per_page query int false "Items per page (default: 10, max: 100)" minimum(1) maximum(100)
// @Param all query bool false "Show every matching record on one page"
// @Success 200 {object} models.MSMEListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /msmes [get]
func ListMSMEs(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListMSMEs")
	defer span.End()
	span.SetAttributes(attribute.String("operation", "list_msmes"))

	logger := observability.Logger()

	ctx, parseSpan := utils.TraceInputParsing(ctx, "listing_query")
	q, err := parseListingQuery(c)
	if err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	parseSpan.End()

	resp, err := services.MSMEServiceInstance.List(ctx, q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
	logger.Debug("ListMSMEs completed",
		zap.Int("total", resp.Pagination.Total),
		zap.Duration("total_duration", time.Since(startTime)))
}

// GetMSME godoc
// @Summary Get an MSME
// @Tags msmes
// @Produce json
// @Param id path int true "MSME id"
// @Success 200 {object} models.MSME
// @Failure 404 {object} NotFoundResponse
// @Router /msmes/{id} [get]
func GetMSME(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GetMSME")
	defer span.End()

	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, NotFoundResponse{Error: "MSME not found", ListingPath: ListingPath})
		return
	}
	span.SetAttributes(attribute.Int64("msme.id", id))

	m, err := services.MSMEServiceInstance.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// RecordVisit godoc
// @Summary Record a detail page visit
// @Description Repeated visits from one client within the dedupe window are accepted but not counted.
// @Tags msmes
// @Param id path int true "MSME id"
// @Success 202
// @Failure 404 {object} NotFoundResponse
// @Router /msmes/{id}/visits [post]
func RecordVisit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, NotFoundResponse{Error: "MSME not found", ListingPath: ListingPath})
		return
	}

	if _, err := services.AnalyticsServiceInstance.RecordVisit(c.Request.Context(), c.ClientIP(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// RecordExport godoc
// @Summary Record an export of an MSME
// @Tags msmes
// @Param id path int true "MSME id"
// @Success 202
// @Failure 404 {object} NotFoundResponse
// @Router /msmes/{id}/exports [post]
func RecordExport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, NotFoundResponse{Error: "MSME not found", ListingPath: ListingPath})
		return
	}

	if err := services.AnalyticsServiceInstance.RecordExport(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// CheckCompanyName godoc
// @Summary Check whether a company name is taken
// @Tags msmes
// @Produce json
// @Param name query string true "Company name"
// @Param exclude_id query int false "MSME id being edited"
// @Success 200 {object} models.NameCheckResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /msmes/check-name [get]
func CheckCompanyName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name parameter is required"})
		return
	}

	var excludeID int64
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid exclude_id parameter"})
			return
		}
		excludeID = id
	}

	resp, err := services.MSMEServiceInstance.CheckName(c.Request.Context(), name, excludeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateMSME godoc
// @Summary Create an MSME
// @Tags msmes
// @Accept json
// @Produce json
// @Param data body models.MSMEPayload true "MSME"
// @Success 201 {object} models.MSME
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ValidationErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /msmes [post]
func CreateMSME(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "CreateMSME")
	defer span.End()

	actor, _ := middleware.ActorFromContext(c)

	var payload models.MSMEPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	m, err := services.MSMEServiceInstance.Create(ctx, actor, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMSME godoc
// @Summary Update an MSME
// @Tags msmes
// @Accept json
// @Produce json
// @Param id path int true "MSME id"
// @Param data body models.MSMEPayload true "MSME"
// @Success 200 {object} models.MSME
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} NotFoundResponse
// @Failure 422 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /msmes/{id} [put]
func UpdateMSME(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateMSME")
	defer span.End()

	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, NotFoundResponse{Error: "MSME not found", ListingPath: ListingPath})
		return
	}

	var payload models.MSMEPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	m, err := services.MSMEServiceInstance.Update(ctx, actor, id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMSME godoc
// @Summary Delete an MSME
// @Tags msmes
// @Param id path int true "MSME id"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} NotFoundResponse
// @Security ApiKeyAuth
// @Router /msmes/{id} [delete]
func DeleteMSME(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, NotFoundResponse{Error: "MSME not found", ListingPath: ListingPath})
		return
	}

	if err := services.MSMEServiceInstance.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
