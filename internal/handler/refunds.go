package handler

import (
	"net/http"

	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
)

type RefundsHandler struct{ svc service.RefundService }

func NewRefundsHandler(svc service.RefundService) *RefundsHandler {
	return &RefundsHandler{svc: svc}
}

// Create godoc
// @Summary      Refund items of a sale
// @Description  Each quantity must fit in what is still refundable on that sale line. restock=true returns the units to stock.
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateRefundRequest true "Refund"
// @Success      201  {object} dto.RefundResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/refunds [post]
func (h *RefundsHandler) Create(c *gin.Context) {
	var req dto.CreateRefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RefundsHandler) List(c *gin.Context) {
	var filter dto.RefundFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
