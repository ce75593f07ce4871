package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/export"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/services"
)

// ExportRequestBody is the POST form of an export request
type ExportRequestBody struct {
	IDs     []int64 `json:"ids"`
	Visible []int64 `json:"visible"`
}

// ExportCSV godoc
// @Summary Export MSMEs as CSV
// @Description Exports the selected ids, or the visible ids when nothing is selected. An empty choice answers 204.
// @Tags export
// @Produce text/csv
// @Param ids query string false "Selected ids as a JSON array, e.g. [1,2]"
// @Param visible query string false "Visible ids as a JSON array"
// @Success 200 {file} file
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /export/csv [get]
func ExportCSV(c *gin.Context) {
	exportAs(c, export.FormatCSV)
}

// ExportPDF godoc
// @Summary Export MSMEs as PDF
// @Description Eight records per A4 page in a two by four grid. An empty choice answers 204.
// @Tags export
// @Produce application/pdf
// @Param ids query string false "Selected ids as a JSON array, e.g. [1,2]"
// @Param visible query string false "Visible ids as a JSON array"
// @Success 200 {file} file
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /export/pdf [get]
func ExportPDF(c *gin.Context) {
	exportAs(c, export.FormatPDF)
}

func exportAs(c *gin.Context, format export.Format) {
	req, err := parseExportRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}
	req.Format = format

	result, ok, err := services.ExportServiceInstance.Export(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Header("X-Export-Records", strconv.Itoa(result.Records))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func parseExportRequest(c *gin.Context) (services.ExportRequest, error) {
	if c.Request.Method == http.MethodPost {
		var body ExportRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			return services.ExportRequest{}, models.ErrInvalidIDList
		}
		selected, err := models.ParseIDList(models.EncodeIDList(body.IDs))
		if err != nil {
			return services.ExportRequest{}, err
		}
		visible, err := models.ParseIDList(models.EncodeIDList(body.Visible))
		if err != nil {
			return services.ExportRequest{}, err
		}
		return services.ExportRequest{Selected: selected, Visible: visible}, nil
	}

	selected, err := models.ParseIDList(c.Query("ids"))
	if err != nil {
		return services.ExportRequest{}, err
	}
	visible, err := models.ParseIDList(c.Query("visible"))
	if err != nil {
		return services.ExportRequest{}, err
	}
	return services.ExportRequest{Selected: selected, Visible: visible}, nil
}
