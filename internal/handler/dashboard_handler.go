package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/service"
	"stockledger/pkg/response"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/home", h.GetHome)
}

// @Summary      Home page
// @Description  Current time in Pakistan and the UK, plus database connectivity
// @Tags         home
// @Produce      json
// @Success      200 {object} response.Response{data=service.HomeResponse}
// @Failure      401 {object} response.Response
// @Security     BearerAuth
// @Router       /api/home [get]
func (h *DashboardHandler) GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.dashboardService.GetHome()))
}
