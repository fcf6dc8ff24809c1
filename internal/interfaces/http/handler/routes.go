package handler

import (
	"github.com/generatordok/backend/internal/interfaces/http/router"
)

// DocumentRoutes creates the route group for document, theme and export endpoints
func DocumentRoutes(documents *DocumentHandler, themes *ThemeHandler, exports *ExportHandler) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")

	// Catalog and form defaults
	group.GET("/types", documents.ListTypes)
	group.GET("/defaults", documents.Defaults)

	// Generation and preview
	group.POST("/:type/generate", documents.Generate)
	group.GET("/:type/preview", documents.Preview)
	group.GET("/:type/page", documents.Page)
	group.GET("/:type/items.xlsx", documents.ItemsXLSX)

	// Decoration
	group.GET("/:type/stamp", themes.GetStamp)
	group.PUT("/:type/stamp", themes.ApplyStamp)
	group.DELETE("/:type/stamp", themes.ClearStamp)
	group.PUT("/:type/background", themes.ApplyBackground)
	group.DELETE("/:type/background", themes.ClearBackground)

	// Export
	group.POST("/:type/export", exports.Export)
	group.GET("/:type/export/state", exports.State)
	group.POST("/:type/print", exports.Print)

	return group
}

// ThemeRoutes creates the route groups for the stamp and background catalogs
func ThemeRoutes(themes *ThemeHandler) *router.DomainGroup {
	group := router.NewDomainGroup("themes", "")
	group.Group("stamps", "/stamps").
		GET("/templates", themes.StampTemplates).
		POST("/preview", themes.StampPreview)
	group.GET("/backgrounds", themes.Backgrounds)
	return group
}

// ExportRoutes creates the route group for stored export downloads
func ExportRoutes(exports *ExportHandler) *router.DomainGroup {
	return router.NewDomainGroup("exports", "/exports").
		GET("/*path", exports.Download)
}

// SystemRoutes creates the route group for system endpoints
func SystemRoutes(system *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("system", "/system").
		GET("/ping", system.Ping).
		GET("/info", system.GetSystemInfo)
}

// HealthRoutes creates the unversioned health probe
func HealthRoutes(system *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("health", "").
		GET("/health", system.Health)
}
