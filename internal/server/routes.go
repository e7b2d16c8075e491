// SPDX-License-Identifier: MPL-2.0

package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the JSON API, the cover image tree, the health
// probe and the embedded UI on the engine.
func SetupRoutes(r *gin.Engine, h *BookHandler, coversDir string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	v1 := r.Group("/api/v1")
	v1.GET("/books", h.List)
	v1.GET("/books/:id", h.Get)
	v1.PATCH("/books/:id", h.Update)
	v1.DELETE("/books/:id", h.Delete)
	v1.GET("/books/:id/sources", h.Sources)
	v1.POST("/books/:id/refresh", h.Refresh)
	v1.POST("/ingest", h.Ingest)
	v1.POST("/import", h.Import)
	v1.GET("/stats", h.Stats)

	if coversDir != "" {
		r.Static("/covers", coversDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
}
