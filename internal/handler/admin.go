package handler

import (
	"net/http"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves bulk data reset and the schema browser.
type AdminHandler struct {
	reset  service.ResetService
	schema service.SchemaService
}

func NewAdminHandler(reset service.ResetService, schema service.SchemaService) *AdminHandler {
	return &AdminHandler{reset: reset, schema: schema}
}

// Reset godoc
// @Summary      Delete all rows of the selected data types
// @Description  Child tables are cleared before parents, all in one transaction.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ResetRequest true "Data types"
// @Success      200  {object} dto.ResetResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/reset [post]
func (h *AdminHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.reset.ResetSelected(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ResetAll(c *gin.Context) {
	resp, err := h.reset.ResetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) Schema(c *gin.Context) {
	resp, err := h.schema.Tables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
