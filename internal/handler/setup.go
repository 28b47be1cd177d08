package handler

import (
	"net/http"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
)

type SetupHandler struct{ svc service.SetupService }

func NewSetupHandler(svc service.SetupService) *SetupHandler { return &SetupHandler{svc: svc} }

func (h *SetupHandler) Get(c *gin.Context) {
	resp, err := h.svc.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Apply godoc
// @Summary      Switch the database connection
// @Description  The DSN is tested with a ping, persisted, and the server reloads against it.
// @Tags         setup
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ConnectionRequest true "Connection"
// @Success      200  {object} dto.ConnectionResponse
// @Failure      502  {object} apierror.APIError
// @Router       /v1/setup/connection [put]
func (h *SetupHandler) Apply(c *gin.Context) {
	var req dto.ConnectionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Apply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetupHandler) Reset(c *gin.Context) {
	resp, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
