package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/services"
	"github.com/brightsteps/sessionscribe-backend/internal/types"
)

type ClientHandler struct {
	clientService services.ClientService
	reportService services.ReportService
}

func NewClientHandler(clientService services.ClientService, reportService services.ReportService) *ClientHandler {
	return &ClientHandler{clientService: clientService, reportService: reportService}
}

func (ch *ClientHandler) Create(c *gin.Context) {
	var req struct {
		FirstName      string     `json:"first_name"`
		LastName       string     `json:"last_name"`
		DateOfBirth    *time.Time `json:"date_of_birth"`
		GuardianName   string     `json:"guardian_name"`
		DiagnosisNotes string     `json:"diagnosis_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	client := types.Client{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		GuardianName:   req.GuardianName,
		DiagnosisNotes: req.DiagnosisNotes,
	}
	created, err := ch.clientService.CreateClient(c.Request.Context(), &client)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_client_failed", err)
		return
	}
	RespondOK(c, created)
}

func (ch *ClientHandler) List(c *gin.Context) {
	clients, err := ch.clientService.ListClients(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_clients_failed", err)
		return
	}
	RespondOK(c, gin.H{"clients": clients})
}

func (ch *ClientHandler) Get(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	client, err := ch.clientService.GetClient(c.Request.Context(), clientID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "client_not_found", err)
		return
	}
	RespondOK(c, client)
}

func (ch *ClientHandler) Update(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	client, err := ch.clientService.UpdateClient(c.Request.Context(), clientID, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_client_failed", err)
		return
	}
	RespondOK(c, client)
}

func (ch *ClientHandler) ListReports(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if _, err := ch.clientService.GetClient(c.Request.Context(), clientID); err != nil {
		RespondError(c, http.StatusNotFound, "client_not_found", err)
		return
	}
	reports, err := ch.reportService.ListReportsByClient(c.Request.Context(), clientID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_reports_failed", err)
		return
	}
	RespondOK(c, gin.H{"reports": reports})
}
