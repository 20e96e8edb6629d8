package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/apperror"
	"stockledger/internal/service"
	"stockledger/pkg/pagination"
	"stockledger/pkg/response"
)

type RevenueHandler struct {
	revenueService service.RevenueService
	exportService  service.ExportService
}

func NewRevenueHandler(revenueService service.RevenueService, exportService service.ExportService) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService, exportService: exportService}
}

func (h *RevenueHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.GET("", h.GetSales)
		sales.GET("/stats", h.GetStats)
		sales.GET("/next-id", h.GetNextTransactionID)
		sales.GET("/fees", h.GetFeeOptions)
		sales.GET("/export", h.ExportSales)
		sales.GET("/:transactionId", h.GetSale)
		sales.POST("", h.CreateSale)
		sales.PUT("/:transactionId", h.UpdateSale)
		sales.DELETE("/:transactionId", h.DeleteSale)
	}
}

func saleQuery(c *gin.Context) (service.SaleQuery, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return service.SaleQuery{}, err
	}
	return service.SaleQuery{
		Search: c.Query("search"),
		SKU:    c.Query("sku"),
		From:   from,
		To:     to,
	}, nil
}

// GetSales lists sales
// @Summary      Get sales
// @Description  Retrieves a paginated list of sales. search matches SKU, product name and transaction id.
// @Tags         revenue
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search text"
// @Param        sku     query     string  false  "Exact SKU"
// @Param        from    query     string  false  "Sold on or after (YYYY-MM-DD)"
// @Param        to      query     string  false  "Sold on or before (YYYY-MM-DD)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Router       /api/sales [get]
func (h *RevenueHandler) GetSales(c *gin.Context) {
	q, err := saleQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sales, err := h.revenueService.GetSales(q)
	if err != nil {
		respondError(c, err)
		return
	}

	p := pagination.Parse(c)
	page, total := pagination.Slice(sales, p)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"sales": page,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// GetStats returns revenue totals for the current filter
// @Summary      Revenue statistics
// @Tags         revenue
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.RevenueSummary}
// @Router       /api/sales/stats [get]
func (h *RevenueHandler) GetStats(c *gin.Context) {
	q, err := saleQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.revenueService.GetSummary(q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetNextTransactionID suggests the id for a new sale
// @Summary      Next transaction id
// @Tags         revenue
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/sales/next-id [get]
func (h *RevenueHandler) GetNextTransactionID(c *gin.Context) {
	id, err := h.revenueService.NextTransactionID()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"transaction_id": id}))
}

// GetFeeOptions lists the configured platform fee percentages
// @Summary      Platform fee options
// @Tags         revenue
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]number}
// @Router       /api/sales/fees [get]
func (h *RevenueHandler) GetFeeOptions(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.revenueService.FeeOptions()))
}

// GetSale returns one sale
// @Summary      Get sale
// @Tags         revenue
// @Security     BearerAuth
// @Produce      json
// @Param        transactionId  path      string  true  "Transaction ID"
// @Success      200            {object}  response.Response{data=model.Sale}
// @Failure      404            {object}  response.Response
// @Router       /api/sales/{transactionId} [get]
func (h *RevenueHandler) GetSale(c *gin.Context) {
	sale, err := h.revenueService.GetSale(c.Param("transactionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// CreateSale records a sale of a stocked product
// @Summary      Create sale
// @Tags         revenue
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/sales [post]
func (h *RevenueHandler) CreateSale(c *gin.Context) {
	var req service.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sale, err := h.revenueService.CreateSale(c.Request.Context(), req)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindDuplicate {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "A sale with Transaction ID "+req.TransactionID+" already exists"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// UpdateSale edits price, shipping, fee and date of a sale
// @Summary      Update sale
// @Tags         revenue
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        transactionId  path      string               true  "Transaction ID"
// @Param        payload        body      service.SaleRequest  true  "Sale"
// @Success      200            {object}  response.Response{data=model.Sale}
// @Failure      400            {object}  response.Response
// @Failure      404            {object}  response.Response
// @Router       /api/sales/{transactionId} [put]
func (h *RevenueHandler) UpdateSale(c *gin.Context) {
	var req service.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sale, err := h.revenueService.UpdateSale(c.Request.Context(), c.Param("transactionId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// DeleteSale removes a sale
// @Summary      Delete sale
// @Tags         revenue
// @Security     BearerAuth
// @Produce      json
// @Param        transactionId  path      string  true  "Transaction ID"
// @Success      200            {object}  response.Response
// @Failure      404            {object}  response.Response
// @Router       /api/sales/{transactionId} [delete]
func (h *RevenueHandler) DeleteSale(c *gin.Context) {
	id := c.Param("transactionId")
	if err := h.revenueService.DeleteSale(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Sale " + id + " deleted"}))
}

// ExportSales downloads the filtered sales list
// @Summary      Export sales
// @Tags         revenue
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Success      200     {file}  file
// @Router       /api/sales/export [get]
func (h *RevenueHandler) ExportSales(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := saleQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sales, err := h.revenueService.GetSales(q)
	if err != nil {
		respondError(c, err)
		return
	}

	export, err := h.exportService.Sales(sales, format)
	if err != nil {
		respondError(c, err)
		return
	}
	sendExport(c, export)
}
