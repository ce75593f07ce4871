package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.uber.org/zap"
)

// ListingPath is where not-found views send the visitor back to
const ListingPath = "/msmes"

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries per-field messages of a rejected payload
type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []utils.ValidationError `json:"fields"`
}

// NotFoundResponse is the not-found view payload with a path back to the listing
type NotFoundResponse struct {
	Error       string `json:"error"`
	ListingPath string `json:"listing_path"`
}

// respondError maps service errors onto HTTP responses
func respondError(c *gin.Context, err error) {
	var failure *utils.ValidationFailure
	switch {
	case errors.As(err, &failure):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Error: "Validation failed", Fields: failure.Errors})
	case errors.Is(err, models.ErrMSMENotFound):
		c.JSON(http.StatusNotFound, NotFoundResponse{Error: "MSME not found", ListingPath: ListingPath})
	case errors.Is(err, models.ErrSectorNotFound), errors.Is(err, models.ErrAdminNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrDuplicateName):
		c.JSON(http.StatusConflict, ValidationErrorResponse{
			Error:  err.Error(),
			Fields: []utils.ValidationError{{Field: "company_name", Message: "A business with this name already exists"}},
		})
	case errors.Is(err, models.ErrSectorNameExists), errors.Is(err, models.ErrUsernameExists), errors.Is(err, models.ErrSectorInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidSectorName), errors.Is(err, models.ErrSectorNameTooLong):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:  "Validation failed",
			Fields: []utils.ValidationError{{Field: "name", Message: err.Error()}},
		})
	case errors.Is(err, models.ErrForbiddenSector):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidIDList), errors.Is(err, models.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		observability.Logger().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
