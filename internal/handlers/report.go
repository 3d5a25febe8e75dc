package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (rh *ReportHandler) List(c *gin.Context) {
	reports, err := rh.reportService.ListReports(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_reports_failed", err)
		return
	}
	RespondOK(c, gin.H{"reports": reports})
}

func (rh *ReportHandler) Get(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	report, err := rh.reportService.GetReport(c.Request.Context(), reportID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "report_not_found", err)
		return
	}
	RespondOK(c, report)
}

func (rh *ReportHandler) UpdateContent(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		FullContent string `json:"full_content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	report, err := rh.reportService.UpdateContent(c.Request.Context(), reportID, req.FullContent)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_report_failed", err)
		return
	}
	RespondOK(c, report)
}

func (rh *ReportHandler) Submit(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	report, err := rh.reportService.SubmitReport(c.Request.Context(), reportID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "submit_report_failed", err)
		return
	}
	RespondOK(c, report)
}

func (rh *ReportHandler) Review(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	report, err := rh.reportService.ReviewReport(c.Request.Context(), reportID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "review_report_failed", err)
		return
	}
	RespondOK(c, report)
}

// Convert translates report content between markdown and the rich-text
// editor format. Direction is chosen by which field the request carries.
func (rh *ReportHandler) Convert(c *gin.Context) {
	var req struct {
		Markdown *string `json:"markdown"`
		RichText *string `json:"rich_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	switch {
	case req.Markdown != nil:
		RespondOK(c, gin.H{"rich_text": rh.reportService.ToRichText(*req.Markdown)})
	case req.RichText != nil:
		RespondOK(c, gin.H{"markdown": rh.reportService.ToMarkdown(*req.RichText)})
	default:
		RespondError(c, http.StatusBadRequest, "invalid_body", nil)
	}
}
