package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"shoppos/internal/apierror"
	"shoppos/internal/dto"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// maxImportBytes bounds an uploaded CSV/XLSX file.
	maxImportBytes = 10 << 20
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Name contains (case-insensitive)"
// @Param        category  query string false "Exact category"
// @Param        company   query string false "Exact company"
// @Param        low_stock query bool   false "Only products below the low-stock threshold"
// @Success      200 {array}  dto.ProductResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
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

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateProductRequest true "Product"
// @Success      201  {object} dto.ProductResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── CSV / XLSX ────────────────────────────────────────────────────────────────

// ExportCSV godoc
// @Summary      Export the catalog as CSV
// @Tags         products
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200 {file} file
// @Router       /v1/products/export.csv [get]
func (h *ProductsHandler) ExportCSV(c *gin.Context) {
	h.export(c, "products.csv", csvContentType, h.svc.ExportCSV)
}

func (h *ProductsHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "products.xlsx", xlsxContentType, h.svc.ExportXLSX)
}

// ImportCSV godoc
// @Summary      Import products from CSV
// @Description  Header line first, then name,price,cost,stock[,company[,category]] rows. Invalid rows are skipped and reported.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "CSV file"
// @Success      200  {object} dto.ImportResult
// @Failure      400  {object} apierror.APIError
// @Router       /v1/products/import [post]
func (h *ProductsHandler) ImportCSV(c *gin.Context) {
	h.importFile(c, h.svc.ImportCSV)
}

func (h *ProductsHandler) ImportXLSX(c *gin.Context) {
	h.importFile(c, h.svc.ImportXLSX)
}

func (h *ProductsHandler) export(c *gin.Context, filename, contentType string, write func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ProductsHandler) importFile(c *gin.Context, read func(context.Context, io.Reader) (*dto.ImportResult, error)) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("multipart field \"file\" is required"))
		return
	}
	if fh.Size > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("file too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	result, err := read(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, result)
}
