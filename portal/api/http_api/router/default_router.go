package router

import (
	"github.com/labstack/echo/v4"

	"github.com/agridesk/consentd/portal/api/http_api/handlers"
)

func SetRouter(e *echo.Echo, authMiddleware echo.MiddlewareFunc, h *handlers.HTTPApp) {
	e.POST("/api/auth/login", h.Login)
	e.GET("/api/download-template/:templateID", h.DownloadTemplate)

	api := e.Group("/api", authMiddleware)

	api.POST("/fill-consent-pdf", h.FillConsentPDF)
	api.POST("/digital-signature/:applicationID", h.SubmitDigitalSignature)

	api.POST("/grant-applications", h.CreateApplication)
	api.GET("/grant-applications/:applicationID", h.GetApplication)

	api.POST("/consent-workflows", h.OpenWorkflow)
	api.GET("/consent-workflows/:workflowID", h.GetWorkflow)
	api.DELETE("/consent-workflows/:workflowID", h.CloseWorkflow)
	api.POST("/consent-workflows/:workflowID/fields", h.UpdateWorkflowFields)
	api.POST("/consent-workflows/:workflowID/strokes", h.ApplyWorkflowStroke)
	api.POST("/consent-workflows/:workflowID/display-size", h.SetWorkflowDisplaySize)
	api.POST("/consent-workflows/:workflowID/preview", h.GenerateWorkflowPreview)
	api.POST("/consent-workflows/:workflowID/complete", h.CompleteWorkflow)

	api.GET("/handles/:handleID", h.GetHandle)

	api.GET("/audit-events", h.GetAuditEvents)
}
