package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stockledger/internal/middleware"
	"stockledger/internal/service"
	"stockledger/pkg/response"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts the auth routes. loginGuard runs before Login, e.g.
// a rate limiter.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, loginGuard ...gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", append(loginGuard, h.Login)...)
		auth.POST("/logout", h.Logout)
	}
}

// Login handles POST /api/auth/login to authenticate and return a JWT token
// @Summary      Login
// @Description  Authenticates the operator account, returning a JWT token and setting the access_token cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginUserRequest   true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	tokenRes, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("login failed")
		}
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	maxAge := int(time.Until(time.Unix(tokenRes.ExpiresAt, 0)).Seconds())
	middleware.SetTokenCookie(c, tokenRes.Token, maxAge)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokenRes))
}

// Logout clears the auth cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "Logged out"}))
}
