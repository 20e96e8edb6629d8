package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockledger/internal/apperror"
	"stockledger/internal/service"
	"stockledger/pkg/response"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/settings")
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.SaveSettings)
		settings.POST("/test-connection", h.TestConnection)
	}
}

// GetSettings returns the stored settings
// @Summary      Get settings
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.SettingsResponse}
// @Router       /api/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.settingsService.GetSettings()))
}

// SaveSettings writes the connection string, exchange rate and fee list.
// A new connection string is used after a restart.
// @Summary      Save settings
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SettingsRequest  true  "Settings"
// @Success      200      {object}  response.Response{data=service.SettingsResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/settings [put]
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req service.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.settingsService.SaveSettings(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// TestConnection tries a connection string without saving it
// @Summary      Test database connection
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.TestConnectionRequest  true  "Connection"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/settings/test-connection [post]
func (h *SettingsHandler) TestConnection(c *gin.Context) {
	var req service.TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.settingsService.TestConnection(c.Request.Context(), req); err != nil {
		if apperror.KindOf(err) == apperror.KindIO {
			c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, "Connection failed"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Connection successful"}))
}
