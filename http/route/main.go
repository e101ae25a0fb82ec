package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/skydrive-cloud/sky-drive-service/http/controller"
	middlewares "github.com/skydrive-cloud/sky-drive-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.Use(middles.TelemetryMiddleware)

	apiRoutes := r.Group("/api/v1/drive")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.POST("/folders", ctrl.CreateFolder)

		fileRoutes := apiRoutes.Group("/files")
		{
			fileRoutes.GET("", ctrl.ListEntries)
			fileRoutes.POST("/upload", ctrl.UploadFile)
			fileRoutes.GET("/:id", ctrl.GetEntry)
			fileRoutes.GET("/:id/download", ctrl.DownloadEntry)
			fileRoutes.PATCH("/:id/star", ctrl.ToggleStar)
			fileRoutes.PATCH("/:id/trash", ctrl.TrashEntry)
			fileRoutes.PATCH("/:id/restore", ctrl.RestoreEntry)
			fileRoutes.DELETE("/:id", ctrl.DeleteEntry)
		}

		apiRoutes.DELETE("/trash", ctrl.EmptyTrash)
		apiRoutes.GET("/stats", ctrl.GetStats)
	}

	return r
}
