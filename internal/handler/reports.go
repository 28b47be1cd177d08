package handler

import (
	"net/http"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profit godoc
// @Summary      Profit analysis
// @Description  Revenue, cost, gross and net profit for [from, to]. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "YYYY-MM-DD"
// @Param        to   query string false "YYYY-MM-DD"
// @Success      200  {object} dto.ProfitResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reports/profit [get]
func (h *ReportsHandler) Profit(c *gin.Context) {
	var filter dto.ProfitFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Profit(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
