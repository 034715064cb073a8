package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azure-analyst/backend/internal/model"
)

// Analyzer - 분석 서비스 (service.AnalysisService)
type Analyzer interface {
	Analyze(ctx context.Context, raw model.RawPayload) model.AnalysisResult
}

type AnalyzeHandler struct {
	svc Analyzer
}

func NewAnalyzeHandler(svc Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze godoc
// @Summary Analyze a detection, incident or chat query
// @Description Classifies the payload (chat keys query/message/logs first, then detection keys) and returns the model analysis. Every classified outcome returns 200; check status.
// @Tags analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Detection/incident record or {query|message|logs}"
// @Success 200 {object} model.AnalysisResult
// @Failure 400 {object} model.AnalysisResult
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/v1/analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var raw model.RawPayload
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResult("", "Invalid request body: "+err.Error()))
		return
	}
	// body가 null인 경우
	if raw == nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResult("", "Invalid request body: expected a JSON object"))
		return
	}

	c.JSON(http.StatusOK, h.svc.Analyze(c.Request.Context(), raw))
}
