package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/question-service/internal/services"
	"github.com/SAP-F-2025/question-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	maxImportFileSize = 10 << 20
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(importExportService services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ImportQuestions imports legacy question rows from an uploaded CSV or xlsx
// file.
// @Summary Import questions
// @Tags import-export
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or xlsx file"
// @Success 200 {object} models.ImportSummary
// @Failure 400 {object} ErrorResponse
// @Router /questions/import [post]
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err, err.Error())
		return
	}
	if fileHeader.Size > maxImportFileSize {
		h.RespondWithError(c, http.StatusBadRequest, "File too large", nil,
			fmt.Sprintf("maximum size is %d bytes", maxImportFileSize))
		return
	}

	h.LogRequest(c, "Importing questions", "filename", fileHeader.Filename, "size", fileHeader.Size)

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cannot read uploaded file", err, err.Error())
		return
	}
	defer file.Close()

	summary, err := h.importExportService.ImportQuestions(c.Request.Context(), file, fileHeader.Filename, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportQuestions downloads the selected questions as an xlsx file.
// @Summary Export questions
// @Tags import-export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param ids query string true "Comma separated question IDs"
// @Success 200 {file} file
// @Router /questions/export [get]
func (h *ImportExportHandler) ExportQuestions(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid ids", err, err.Error())
		return
	}

	data, err := h.importExportService.ExportQuestionsToExcel(c.Request.Context(), ids)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("questions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
