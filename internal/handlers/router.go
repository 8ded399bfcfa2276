package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/xin-yuwen/assignment-service/internal/services"
	"github.com/xin-yuwen/assignment-service/internal/session"
	"github.com/xin-yuwen/assignment-service/internal/storage"
	"github.com/xin-yuwen/assignment-service/internal/utils"
)

type HandlerManager struct {
	flowHandler   *FlowHandler
	adminHandler  *AdminHandler
	exportHandler *ExportHandler
	sessions      *session.Manager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *session.Manager,
	uploader storage.Uploader,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		flowHandler:   NewFlowHandler(serviceManager.Sequencer(), serviceManager.Recorder(), sessions, logger),
		adminHandler:  NewAdminHandler(serviceManager.Assignment(), serviceManager.Admin(), sessions, uploader, logger),
		exportHandler: NewExportHandler(serviceManager.Export(), logger),
		sessions:      sessions,
	}
}

// SetupRoutes sets up all routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assignment-service",
		})
	})

	// Learner flow. The start screen is open; everything past it needs a
	// session name.
	assignment := router.Group("/assignment/:id")
	{
		assignment.GET("/start", hm.flowHandler.GetStart)
		assignment.POST("/start", hm.flowHandler.PostStart)
		assignment.POST("/logout", hm.flowHandler.PostLogout)

		flow := assignment.Group("")
		flow.Use(hm.sessions.RequireUser())
		{
			flow.GET("/tasks/:position", hm.flowHandler.GetTask)
			flow.POST("/tasks/:position", hm.flowHandler.PostTask)
			flow.GET("/tasks/:position/corrections", hm.flowHandler.GetCorrections)
			flow.POST("/tasks/:position/corrections", hm.flowHandler.PostCorrections)
			flow.GET("/finish", hm.flowHandler.GetFinish)
		}
	}

	// Authoring API
	admin := router.Group("/admin")
	{
		admin.POST("/login", hm.adminHandler.Login)
		admin.POST("/logout", hm.adminHandler.Logout)

		authed := admin.Group("")
		authed.Use(hm.sessions.RequireAdmin())
		{
			authed.GET("/me", hm.adminHandler.Me)

			authed.POST("/assignments", hm.adminHandler.CreateAssignment)
			authed.GET("/assignments", hm.adminHandler.ListAssignments)
			authed.GET("/assignments/:id", hm.adminHandler.GetAssignment)
			authed.PUT("/assignments/:id", hm.adminHandler.UpdateAssignment)
			authed.DELETE("/assignments/:id", hm.adminHandler.DeleteAssignment)

			authed.POST("/assignments/:id/tasks", hm.adminHandler.CreateTask)
			authed.GET("/tasks/:task_id", hm.adminHandler.GetTask)
			authed.PUT("/tasks/:task_id", hm.adminHandler.UpdateTask)
			authed.DELETE("/tasks/:task_id", hm.adminHandler.DeleteTask)

			authed.GET("/uploads/signature", hm.adminHandler.UploadSignature)

			authed.GET("/assignments/:id/export.csv", hm.exportHandler.DownloadAssignmentCSV)
			authed.GET("/assignments/:id/export.xlsx", hm.exportHandler.DownloadAssignmentXLSX)
			authed.GET("/logs/export.csv", hm.exportHandler.DownloadSystemCSV)
			authed.GET("/:assignmentId/download", hm.exportHandler.DownloadAssignment)
		}
	}
}
