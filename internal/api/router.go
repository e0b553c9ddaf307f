package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planbiir/gpxedit/internal/config"
	"github.com/planbiir/gpxedit/internal/editor"
)

// SetupRouter wires the document endpoints around a single editor session.
func SetupRouter(cfg config.Config, ed *editor.Editor) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Logger(), CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "gpxedit is running",
			"loaded":  ed.Loaded(),
		})
	})

	h := NewHandler(ed, cfg)

	api := r.Group("/api/v1")
	{
		api.POST("/document", h.UploadDocument)
		api.GET("/document", h.DownloadDocument)
		api.GET("/points", h.GetPoints)
		api.PUT("/selection", h.PutSelection)
		api.GET("/stats", h.GetStats)
		api.POST("/warp", h.PostWarp)
		api.POST("/heart-rate", h.PostHeartRate)
		api.POST("/resample", h.PostResample)
		api.GET("/export.csv", h.ExportCSV)
		api.GET("/export.parquet", h.ExportParquet)
	}

	return r
}
