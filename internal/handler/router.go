package handler

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/middleware"
	"stockledger/internal/service"
)

// Handlers groups every API handler so they can be mounted together.
type Handlers struct {
	User      *UserHandler
	Dashboard *DashboardHandler
	Settings  *SettingsHandler
	Inventory *InventoryHandler
	Revenue   *RevenueHandler
	Audit     *AuditHandler
}

// Mount registers the /api routes. Login is public, home and settings need
// a token, and the data pages also need a connected database.
func (h Handlers) Mount(router *gin.Engine, secret []byte, session middleware.ConnectionChecker, loginGuard ...gin.HandlerFunc) {
	api := router.Group("/api")
	h.User.RegisterRoutes(api, loginGuard...)

	authed := api.Group("", middleware.RequireRole(secret, service.RoleAdmin))
	h.Dashboard.RegisterRoutes(authed)
	h.Settings.RegisterRoutes(authed)

	data := authed.Group("", middleware.RequireDatabase(session))
	h.Inventory.RegisterRoutes(data)
	h.Revenue.RegisterRoutes(data)
	h.Audit.RegisterRoutes(data)
}
