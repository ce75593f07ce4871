package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/middleware"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/services"
)

// GetDashboardStats godoc
// @Summary Dashboard counts
// @Description MSMEs, visits and exports per sector. Sector admins only see their own sector.
// @Tags admin
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func GetDashboardStats(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	stats, err := services.AnalyticsServiceInstance.DashboardStats(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListAdminAccounts godoc
// @Summary List admin accounts
// @Tags admin
// @Produce json
// @Param page query int false "Page number (default: 1)" minimum(1)
// @Param per_page query int false "Items per page (default: 10, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} models.AdminAccountListResponse
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts [get]
func ListAdminAccounts(c *gin.Context) {
	page, perPage, err := services.ValidatePaginationParams(c.Query("page"), c.Query("per_page"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := services.AdminServiceInstance.List(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAdminAccount godoc
// @Summary Get an admin account
// @Tags admin
// @Produce json
// @Param id path int true "Account id"
// @Success 200 {object} models.AdminAccount
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{id} [get]
func GetAdminAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
		return
	}

	a, err := services.AdminServiceInstance.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAdminAccount godoc
// @Summary Create an admin account
// @Tags admin
// @Accept json
// @Produce json
// @Param data body models.AdminAccountRequest true "Account"
// @Success 201 {object} models.AdminAccount
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts [post]
func CreateAdminAccount(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req models.AdminAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	a, err := services.AdminServiceInstance.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// UpdateAdminAccount godoc
// @Summary Update an admin account
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Account id"
// @Param data body models.AdminAccountRequest true "Account"
// @Success 200 {object} models.AdminAccount
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{id} [put]
func UpdateAdminAccount(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
		return
	}

	var req models.AdminAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	a, err := services.AdminServiceInstance.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeactivateAdminAccount godoc
// @Summary Deactivate an admin account
// @Tags admin
// @Produce json
// @Param id path int true "Account id"
// @Success 200 {object} models.AdminAccount
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{id}/deactivate [post]
func DeactivateAdminAccount(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
		return
	}

	a, err := services.AdminServiceInstance.Deactivate(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAdminAccount godoc
// @Summary Delete an admin account
// @Tags admin
// @Param id path int true "Account id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{id} [delete]
func DeleteAdminAccount(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
		return
	}

	if err := services.AdminServiceInstance.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
