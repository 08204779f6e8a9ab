package httpserver

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/config"
)

// buildRouter wires routes for the page host.
func buildRouter(cfg config.HTTPConfig, deps Deps, tmpl *template.Template) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(accessLog(deps.Logger), gin.Recovery(), observe(deps.Metrics))
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Loop, deps.Ready))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := &handlers{loop: deps.Loop, session: deps.Session, logger: deps.Logger, tmpl: tmpl}

	page := router.Group("/")
	if cfg.RateLimit.RPS > 0 {
		page.Use(rateLimit(newVisitors(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}
	page.GET("/", h.index)

	api := page.Group("/api")
	api.GET("/page", h.page)

	api.POST("/cart/items", h.addToCart)
	api.POST("/cart/items/:id/quantity", h.setQuantity)
	api.DELETE("/cart/items/:id", h.removeFromCart)
	api.DELETE("/cart", h.clearCart)
	api.POST("/cart/checkout", h.checkout)

	api.POST("/wishlist/:id/toggle", h.toggleWishlist)

	api.POST("/quickview/add", h.quickViewAdd)
	api.POST("/quickview/:id", h.openQuickView)
	api.DELETE("/quickview", h.closeQuickView)

	carousels := api.Group("/carousels/:name")
	carousels.GET("", h.carouselSnapshot)
	carousels.POST("/mount", h.carouselMount)
	carousels.POST("/resize", h.carouselResize)
	carousels.POST("/pointer", h.carouselPointer)
	carousels.POST("/drag", h.carouselDrag)
	carousels.POST("/scroll", h.carouselScroll)
	carousels.POST("/prev", h.carouselStep(false))
	carousels.POST("/next", h.carouselStep(true))

	return router
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}
	for _, o := range origins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = origins
	return cc
}
