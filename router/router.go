package router

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/menu-api/config"
	"github.com/yeremiapane/menu-api/controllers"
	"github.com/yeremiapane/menu-api/database"
	"github.com/yeremiapane/menu-api/middlewares"
	"github.com/yeremiapane/menu-api/utils"
)

func SetupRouter(sessions database.SessionProvider, cfg *config.Config) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
		utils.RespondDetail(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middlewares.NewMetrics(registry)

	r.Use(middlewares.LoggerMiddleware())
	r.Use(metrics.Middleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())

	r.NoRoute(func(c *gin.Context) {
		utils.RespondDetail(c, http.StatusNotFound, "Not Found")
	})

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			utils.ErrorLogger.Printf("WARNING: static dir not usable, frontend disabled: %v", err)
		} else {
			r.Static("/site", cfg.StaticDir)
			r.GET("/", func(c *gin.Context) {
				c.Redirect(http.StatusMovedPermanently, "/site/")
			})
			utils.InfoLogger.Printf("Serving frontend from %s", cfg.StaticDir)
		}
	}

	menuCtrl := controllers.NewMenuController(sessions)

	menu := r.Group("/menu")
	{
		menu.GET("", menuCtrl.ListMenu)
		menu.POST("", menuCtrl.CreateMenuItem)
		menu.GET("/search", menuCtrl.SearchMenu)
		menu.DELETE("/:item_id", menuCtrl.DeleteMenuItem)
	}

	return r
}
