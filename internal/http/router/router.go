// Package router builds the gin engine from the composed application.
package router

import (
	"net/http"

	apphttp "leads_backend/internal/http"
	"leads_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New constructs the engine, wires global middleware, the health endpoint and
// every registered module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app)))

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctx := &apphttp.RouterContext{
		Engine: engine,
		API:    engine.Group("/api"),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("registered module routes", "module", module.Name())
	}

	return engine
}

func corsConfig(app *apphttp.App) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	if app.Config.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = app.Config.GetCORSOrigins()
		corsCfg.AllowCredentials = app.Config.GetCORSAllowCreds()
	}

	return corsCfg
}
