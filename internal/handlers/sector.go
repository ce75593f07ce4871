package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/middleware"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/services"
)

// ListSectors godoc
// @Summary List sectors
// @Tags sectors
// @Produce json
// @Success 200 {object} models.SectorListResponse
// @Failure 500 {object} ErrorResponse
// @Router /sectors [get]
func ListSectors(c *gin.Context) {
	resp, err := services.SectorServiceInstance.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSector godoc
// @Summary Create a sector
// @Tags admin
// @Accept json
// @Produce json
// @Param data body models.SectorRequest true "Sector"
// @Success 201 {object} models.Sector
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/sectors [post]
func CreateSector(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req models.SectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	sector, err := services.SectorServiceInstance.Create(c.Request.Context(), actor, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sector)
}

// UpdateSector godoc
// @Summary Rename a sector
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Sector id"
// @Param data body models.SectorRequest true "Sector"
// @Success 200 {object} models.Sector
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/sectors/{id} [put]
func UpdateSector(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sector id"})
		return
	}

	var req models.SectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	sector, err := services.SectorServiceInstance.Update(c.Request.Context(), actor, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sector)
}

// DeleteSector godoc
// @Summary Delete a sector
// @Description Sectors still referenced by an MSME cannot be deleted.
// @Tags admin
// @Param id path int true "Sector id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/sectors/{id} [delete]
func DeleteSector(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sector id"})
		return
	}

	if err := services.SectorServiceInstance.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
