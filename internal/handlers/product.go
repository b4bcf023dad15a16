// internal/handlers/product.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/export"
	"github.com/javajoker/catalog-admin/internal/forms"
	"github.com/javajoker/catalog-admin/internal/i18n"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/services"
	"github.com/javajoker/catalog-admin/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	bulkService    *services.BulkService
	exporter       *export.Exporter
	now            func() time.Time
}

func NewProductHandler(productService *services.ProductService, bulkService *services.BulkService, exporter *export.Exporter) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		bulkService:    bulkService,
		exporter:       exporter,
		now:            time.Now,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, services.Summarize(products))
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, services.Summarize([]models.Product{*product})[0])
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var form forms.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &form)
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := productID(c)
	if !ok {
		return
	}

	var form forms.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// product is nil when the id matched no row.
	product, err := h.productService.Update(c.Request.Context(), id, &form)
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /products/:id/images/move
func (h *ProductHandler) MoveImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req services.MoveImageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product, err := h.productService.MoveImage(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/:id/images/reorder
func (h *ProductHandler) ReorderImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req services.ReorderImageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product, err := h.productService.ReorderImage(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/bulk/delete
func (h *ProductHandler) BulkDelete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BulkDeleteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.bulkService.Delete(c.Request.Context(), req.IDs); err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBulkDeleted, len(req.IDs)),
	})
}

// POST /products/bulk/stock
func (h *ProductHandler) BulkStock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BulkStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.bulkService.SetStock(c.Request.Context(), req.IDs, *req.InStock); err != nil {
		utils.ErrorFromApp(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBulkStockUpdated, len(req.IDs)),
	})
}

// GET /products/export
//
// ?ids=a,b exports exactly those products in list order; otherwise the list
// narrowed by ?search= is exported.
func (h *ProductHandler) Export(c *gin.Context) {
	var ids []uuid.UUID
	raw := c.Query("ids")
	if raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				utils.BadRequestResponse(c, "Invalid product ID", part)
				return
			}
			ids = append(ids, id)
		}
	}

	// A selection is picked from the whole catalog; the search only applies
	// when nothing is selected.
	search := c.Query("search")
	if raw != "" {
		search = ""
	}
	products, err := h.productService.List(c.Request.Context(), search)
	if err != nil {
		utils.ErrorFromApp(c, err)
		return
	}
	if raw != "" {
		products = forms.NewSelection(ids...).Pick(products)
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.exporter.Filename(h.now())+`"`)
	c.Header("Content-Type", h.exporter.ContentType())
	c.Status(http.StatusOK)
	if err := h.exporter.Write(c.Writer, products); err != nil {
		logrus.WithError(err).Error("Failed to write export")
	}
}

func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// bindAndValidate binds the JSON body into req and runs struct validation,
// writing the error response itself when either fails.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return false
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}
