package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/service"
	"stockledger/pkg/pagination"
	"stockledger/pkg/response"
)

type AuditHandler struct {
	auditService  service.AuditService
	exportService service.ExportService
}

func NewAuditHandler(auditService service.AuditService, exportService service.ExportService) *AuditHandler {
	return &AuditHandler{auditService: auditService, exportService: exportService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/logs")
	{
		group.GET("", h.GetLogs)
		group.GET("/stats", h.GetStats)
		group.GET("/export", h.ExportLogs)
		group.DELETE("", h.DeleteOldLogs)
	}
}

func logQuery(c *gin.Context) (service.LogQuery, error) {
	from, to, err := dateRange(c)
	if err != nil {
		return service.LogQuery{}, err
	}
	return service.LogQuery{
		Search: c.Query("search"),
		Module: c.Query("module"),
		Action: c.Query("action"),
		From:   from,
		To:     to,
	}, nil
}

// GetLogs retrieves the activity log, newest first
// @Summary      Get activity logs
// @Tags         logs
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search text"
// @Param        module  query     string  false  "Stock or Revenue"
// @Param        action  query     string  false  "Added, Edited or Deleted"
// @Param        from    query     string  false  "On or after (YYYY-MM-DD, PKT)"
// @Param        to      query     string  false  "On or before (YYYY-MM-DD, PKT)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/logs [get]
func (h *AuditHandler) GetLogs(c *gin.Context) {
	q, err := logQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	logs, err := h.auditService.GetLogs(q)
	if err != nil {
		respondError(c, err)
		return
	}

	p := pagination.Parse(c)
	page, total := pagination.Slice(logs, p)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  page,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// GetStats summarizes the filtered activity log
// @Summary      Activity log statistics
// @Tags         logs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.LogSummary}
// @Router       /api/logs/stats [get]
func (h *AuditHandler) GetStats(c *gin.Context) {
	q, err := logQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.auditService.GetSummary(q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// DeleteOldLogs removes entries older than the given number of days
// @Summary      Delete old logs
// @Tags         logs
// @Security     BearerAuth
// @Produce      json
// @Param        older_than_days  query     int  true  "Age in days"
// @Success      200              {object}  response.Response{data=object}
// @Failure      400              {object}  response.Response
// @Router       /api/logs [delete]
func (h *AuditHandler) DeleteOldLogs(c *gin.Context) {
	deleted, err := h.auditService.DeleteOlderThan(c.Request.Context(), c.Query("older_than_days"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]int{"deleted": deleted}))
}

// ExportLogs downloads the filtered activity log
// @Summary      Export activity logs
// @Tags         logs
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Success      200     {file}  file
// @Router       /api/logs/export [get]
func (h *AuditHandler) ExportLogs(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	q, err := logQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	logs, err := h.auditService.GetLogs(q)
	if err != nil {
		respondError(c, err)
		return
	}

	export, err := h.exportService.Logs(logs, format)
	if err != nil {
		respondError(c, err)
		return
	}
	sendExport(c, export)
}
