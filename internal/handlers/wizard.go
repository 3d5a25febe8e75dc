package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightsteps/sessionscribe-backend/internal/report/wizard"
	"github.com/brightsteps/sessionscribe-backend/internal/services"
)

type WizardHandler struct {
	wizardService     services.WizardService
	generationService services.GenerationService
	reportService     services.ReportService
}

func NewWizardHandler(
	wizardService services.WizardService,
	generationService services.GenerationService,
	reportService services.ReportService,
) *WizardHandler {
	return &WizardHandler{
		wizardService:     wizardService,
		generationService: generationService,
		reportService:     reportService,
	}
}

func draftStatus(err error) (int, string) {
	switch {
	case errors.Is(err, wizard.ErrDraftNotFound):
		return http.StatusNotFound, "draft_not_found"
	case errors.Is(err, wizard.ErrNotDraftOwner):
		return http.StatusForbidden, "not_draft_owner"
	default:
		return http.StatusBadRequest, "draft_error"
	}
}

func (wh *WizardHandler) Open(c *gin.Context) {
	var req struct {
		Flow string `json:"flow"`
	}
	// Body is optional; an empty POST opens a structured-flow draft.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	flow := wizard.Flow(req.Flow)
	if req.Flow == "" {
		flow = wizard.FlowStructured
	}
	draft, err := wh.wizardService.OpenDraft(c.Request.Context(), flow)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "open_draft_failed", err)
		return
	}
	RespondOK(c, draft)
}

func (wh *WizardHandler) Get(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	draft, err := wh.wizardService.GetDraft(c.Request.Context(), draftID)
	if err != nil {
		status, code := draftStatus(err)
		RespondError(c, status, code, err)
		return
	}
	RespondOK(c, draft)
}

func (wh *WizardHandler) UpdateSection(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Step string          `json:"step"`
		Data json.RawMessage `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	// Re-wrap so the decoded update keeps its {"data": ...} envelope.
	payload, mErr := json.Marshal(map[string]json.RawMessage{"data": req.Data})
	if mErr != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", mErr)
		return
	}
	draft, uErr := wh.wizardService.UpdateSection(c.Request.Context(), draftID, wizard.Step(req.Step), payload)
	if uErr != nil {
		status, code := draftStatus(uErr)
		RespondError(c, status, code, uErr)
		return
	}
	RespondOK(c, draft)
}

func (wh *WizardHandler) Advance(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	result, aErr := wh.wizardService.Advance(c.Request.Context(), draftID)
	if aErr != nil {
		if errors.Is(aErr, wizard.ErrAtFinalStep) {
			RespondError(c, http.StatusConflict, "at_final_step", aErr)
			return
		}
		status, code := draftStatus(aErr)
		RespondError(c, status, code, aErr)
		return
	}
	RespondOK(c, result)
}

func (wh *WizardHandler) Retreat(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	draft, rErr := wh.wizardService.Retreat(c.Request.Context(), draftID)
	if rErr != nil {
		status, code := draftStatus(rErr)
		RespondError(c, status, code, rErr)
		return
	}
	RespondOK(c, draft)
}

func (wh *WizardHandler) Reset(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	draft, rErr := wh.wizardService.Reset(c.Request.Context(), draftID)
	if rErr != nil {
		status, code := draftStatus(rErr)
		RespondError(c, status, code, rErr)
		return
	}
	RespondOK(c, draft)
}

func (wh *WizardHandler) Discard(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if dErr := wh.wizardService.DiscardDraft(c.Request.Context(), draftID); dErr != nil {
		status, code := draftStatus(dErr)
		RespondError(c, status, code, dErr)
		return
	}
	RespondOK(c, gin.H{"discarded": true})
}

func (wh *WizardHandler) Generate(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if gErr := wh.generationService.Generate(c.Request.Context(), draftID); gErr != nil {
		status, code := draftStatus(gErr)
		RespondError(c, status, code, gErr)
		return
	}
	RespondOK(c, gin.H{"started": true})
}

func (wh *WizardHandler) CancelGeneration(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if cErr := wh.generationService.Cancel(c.Request.Context(), draftID); cErr != nil {
		status, code := draftStatus(cErr)
		RespondError(c, status, code, cErr)
		return
	}
	RespondOK(c, gin.H{"canceled": true})
}

func (wh *WizardHandler) Save(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	report, sErr := wh.reportService.SaveFromDraft(c.Request.Context(), draftID)
	if sErr != nil {
		status, code := draftStatus(sErr)
		RespondError(c, status, code, sErr)
		return
	}
	RespondOK(c, report)
}
