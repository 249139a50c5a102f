package api

import "github.com/labstack/echo/v4"

// RegisterRoutes attaches all API routes under /api.
func RegisterRoutes(e *echo.Echo, h *Handler, ws *WebSocketHandler) {
	g := e.Group("/api")

	g.GET("/health", h.HandleHealth)

	// Session
	g.POST("/auth/login", h.HandleLogin)
	g.POST("/auth/logout", h.HandleLogout)

	// Catalog proxies
	g.GET("/stations", h.HandleListStations)
	g.POST("/station-parameters", h.HandleStationParameters)
	g.POST("/targets", h.HandleBuildTargets)
	g.POST("/contacts/validate", h.HandleValidateContact)

	// Chart data binding
	g.POST("/metric-series", h.HandleQuerySeries)
	g.POST("/metric-series/msgpack", h.HandleQuerySeriesMsgpack)

	// Stored dashboards
	g.GET("/dashboards", h.HandleListDashboards)
	g.GET("/dashboards/:uid", h.HandleLoadDashboard)
	g.POST("/dashboards", h.HandleSaveDashboard)
	g.DELETE("/dashboards/:uid", h.HandleDeleteDashboard)

	// Draft editor
	g.GET("/editor", h.HandleGetEditor)
	g.DELETE("/editor", h.HandleResetEditor)
	g.POST("/editor/mode", h.HandleSetMode)
	g.POST("/editor/panels", h.HandleAddPanel)
	g.PUT("/editor/panels", h.HandleSavePanel)
	g.DELETE("/editor/panels/:id", h.HandleDeletePanel)
	g.POST("/editor/panels/:id/refresh", h.HandleRefreshPanel)
	g.GET("/editor/panels/:id/data", h.HandlePanelData)
	g.POST("/editor/layout", h.HandleGridLayout)
	g.PUT("/editor/time", h.HandleSetTime)
	g.PUT("/editor/refresh", h.HandleSetRefresh)
	g.PUT("/editor/options", h.HandleSetOptions)

	// Map overlays
	g.GET("/layers", h.HandleListLayers)
	g.GET("/layers/:id", h.HandleGetLayer)

	// Reports
	g.POST("/reports", h.HandleStartReport)
	g.GET("/reports/:id", h.HandleReportStatus)
	g.GET("/reports/:id/download", h.HandleReportDownload)
	g.GET("/ws/reports", ws.HandleWebSocket)
}
