package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raffle-engine/internal/handler/api"
	"raffle-engine/internal/handler/middleware"
	"raffle-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, raffleHandler *api.RaffleHandler, webhookHandler *api.WebhookHandler, adminHandler *api.AdminHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, raffleHandler, webhookHandler, adminHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, raffleHandler *api.RaffleHandler, webhookHandler *api.WebhookHandler, adminHandler *api.AdminHandler) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		raffles := apiGroup.Group("/raffles")
		{
			addRoutes(raffles, []route{
				{Method: http.MethodGet, Path: "", Handler: raffleHandler.ListActive},
				{Method: http.MethodGet, Path: "/:id", Handler: raffleHandler.GetRaffle},
				{Method: http.MethodGet, Path: "/:id/draw", Handler: raffleHandler.GetDrawRecord},
				{Method: http.MethodPost, Path: "/:id/purchases", Handler: raffleHandler.CreatePurchase},
			})
		}

		webhooks := apiGroup.Group("/webhooks")
		{
			addRoutes(webhooks, []route{
				{Method: http.MethodPost, Path: "/payment", Handler: webhookHandler.PaymentConfirmed},
			})
		}

		admin := apiGroup.Group("/admin")
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/raffles/:id/draw", Handler: adminHandler.ForceDraw},
				{Method: http.MethodPut, Path: "/templates", Handler: adminHandler.SaveTemplate},
				{Method: http.MethodPost, Path: "/replenish", Handler: adminHandler.Replenish},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
