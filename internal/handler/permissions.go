package handler

import (
	"net/http"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
)

type PermissionsHandler struct{ svc service.PermissionService }

func NewPermissionsHandler(svc service.PermissionService) *PermissionsHandler {
	return &PermissionsHandler{svc: svc}
}

func (h *PermissionsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Grant or revoke a page for a role
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.UpdatePermissionRequest true "Permission"
// @Success      200  {object} dto.PermissionResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/permissions [put]
func (h *PermissionsHandler) Update(c *gin.Context) {
	var req dto.UpdatePermissionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
