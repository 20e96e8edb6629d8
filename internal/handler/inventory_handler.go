package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/apperror"
	"stockledger/internal/service"
	"stockledger/pkg/pagination"
	"stockledger/pkg/response"
)

type InventoryHandler struct {
	stockService  service.StockService
	exportService service.ExportService
}

func NewInventoryHandler(stockService service.StockService, exportService service.ExportService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService, exportService: exportService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/stats", h.GetStats)
		products.GET("/export", h.ExportProducts)
		products.GET("/:sku", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.PUT("/:sku", h.UpdateProduct)
		products.DELETE("/:sku", h.DeleteProduct)
	}
}

func productQuery(c *gin.Context) (service.ProductQuery, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return service.ProductQuery{}, err
	}
	return service.ProductQuery{Search: c.Query("search"), From: from, To: to}, nil
}

// GetProducts lists products matching the search text and date range
// @Summary      Get products
// @Description  Retrieves a paginated list of products. search matches SKU, name and brand.
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search text"
// @Param        from    query     string  false  "Added on or after (YYYY-MM-DD)"
// @Param        to      query     string  false  "Added on or before (YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Failure      503    {object}  response.Response
// @Router       /api/products [get]
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	q, err := productQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.stockService.GetProducts(q)
	if err != nil {
		respondError(c, err)
		return
	}

	p := pagination.Parse(c)
	page, total := pagination.Slice(products, p)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": page,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	}))
}

// GetStats returns the stock summary cards for the current filter
// @Summary      Stock statistics
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Search text"
// @Param        from    query     string  false  "Added on or after (YYYY-MM-DD)"
// @Param        to      query     string  false  "Added on or before (YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=model.StockSummary}
// @Router       /api/products/stats [get]
func (h *InventoryHandler) GetStats(c *gin.Context) {
	q, err := productQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.stockService.GetSummary(q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetProduct returns a single product
// @Summary      Get product
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        sku  path      string  true  "SKU"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{sku} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.stockService.GetProduct(c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// CreateProduct adds a product to stock
// @Summary      Create product
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.stockService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindDuplicate {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "A product with SKU "+req.SKU+" already exists"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// UpdateProduct edits a product. The SKU cannot change.
// @Summary      Update product
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sku      path      string                  true  "SKU"
// @Param        payload  body      service.ProductRequest  true  "Product"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{sku} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.stockService.UpdateProduct(c.Request.Context(), c.Param("sku"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product. Sales that reference it are kept.
// @Summary      Delete product
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        sku  path      string  true  "SKU"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{sku} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	sku := c.Param("sku")
	if err := h.stockService.DeleteProduct(c.Request.Context(), sku); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Product " + sku + " deleted"}))
}

// ExportProducts downloads the filtered product list
// @Summary      Export products
// @Tags         stock
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Param        search  query  string  false  "Search text"
// @Param        from    query  string  false  "Added on or after (YYYY-MM-DD)"
// @Param        to      query  string  false  "Added on or before (YYYY-MM-DD)"
// @Success      200     {file}  file
// @Router       /api/products/export [get]
func (h *InventoryHandler) ExportProducts(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := productQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	products, err := h.stockService.GetProducts(q)
	if err != nil {
		respondError(c, err)
		return
	}

	export, err := h.exportService.Products(products, format)
	if err != nil {
		respondError(c, err)
		return
	}
	sendExport(c, export)
}
