package server

import (
	"github.com/orin-ai/agentdash/internal/server/middleware"
	"github.com/orin-ai/agentdash/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	e.POST("/login", routes.LoginHandler)

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Agent routes
	apiRoutes.GET("/agents", routes.ListAgentsHandler)
	apiRoutes.POST("/agents", routes.CreateAgentHandler)
	apiRoutes.POST("/agents/import", routes.ImportAgentHandler)
	apiRoutes.GET("/agents/:id", routes.GetAgentHandler)
	apiRoutes.PUT("/agents/:id", routes.UpdateAgentHandler)
	apiRoutes.DELETE("/agents/:id", routes.DeleteAgentHandler)
	apiRoutes.GET("/agents/:id/export", routes.ExportAgentHandler)
	apiRoutes.GET("/agents/:id/snapshots", routes.ListSnapshotsHandler)

	// Catalog and schema
	apiRoutes.GET("/tools", routes.GetToolsHandler)
	apiRoutes.GET("/schema/question-class", routes.GetQuestionClassSchemaHandler)

	// Editor session routes
	apiRoutes.POST("/editor", routes.OpenEditorHandler)
	apiRoutes.GET("/editor/:sid", routes.GetEditorHandler)
	apiRoutes.DELETE("/editor/:sid", routes.CloseEditorHandler)
	apiRoutes.POST("/editor/:sid/classes", routes.AddClassHandler)
	apiRoutes.POST("/editor/:sid/tools", routes.AddToolHandler)
	apiRoutes.PATCH("/editor/:sid/nodes/:nid", routes.UpdateNodeHandler)
	apiRoutes.DELETE("/editor/:sid/nodes/:nid", routes.DeleteNodeHandler)
	apiRoutes.POST("/editor/:sid/select", routes.SelectHandler)
	apiRoutes.POST("/editor/:sid/edges", routes.ConnectHandler)
	apiRoutes.DELETE("/editor/:sid/edges", routes.DisconnectHandler)
	apiRoutes.POST("/editor/:sid/import", routes.ImportTreeHandler)
	apiRoutes.POST("/editor/:sid/apply", routes.ApplyEditorHandler)

	// WhatsApp routes
	apiRoutes.GET("/whatsapp/numbers", routes.ListNumbersHandler)
	apiRoutes.PUT("/whatsapp/numbers/:phone", routes.AssignAgentHandler)
	apiRoutes.GET("/whatsapp/contacts", routes.ListContactsHandler)
	apiRoutes.GET("/whatsapp/chat/:phone", routes.ChatHistoryHandler)
	apiRoutes.GET("/whatsapp/profile/:phone", routes.ProfileHandler)
	apiRoutes.POST("/whatsapp/dummy_notification", routes.DummyNotificationHandler)

	// Notification setting routes
	apiRoutes.GET("/notification_setting", routes.ListSettingsHandler)
	apiRoutes.POST("/notification_setting", routes.CreateSettingHandler)
	apiRoutes.PUT("/notification_setting/:setting", routes.UpdateSettingHandler)
	apiRoutes.DELETE("/notification_setting/:setting", routes.DeleteSettingHandler)
}
