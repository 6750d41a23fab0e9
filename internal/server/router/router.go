package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted on the engine.
type Handlers struct {
	Catalog   *handlers.CatalogHandler
	POS       *handlers.POSHandler
	Sales     *handlers.SalesHandler
	Reports   *handlers.ReportHandler
	State     *handlers.StateHandler
	Assistant *handlers.AssistantHandler
}

// New wires the Gin engine with required routes and middlewares. A nil
// gatherer leaves /metrics unmounted.
func New(h Handlers, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.GET("/state", h.State.State)
	api.GET("/enums", h.State.Enums)

	products := api.Group("/products")
	products.GET("", h.Catalog.ListProducts)
	products.POST("", h.Catalog.CreateProduct)
	products.PUT("/:id/price", h.Catalog.SetPrice)
	products.POST("/:id/price/adjust", h.Catalog.AdjustPrice)
	products.DELETE("/:id", h.Catalog.DeleteProduct)

	fees := api.Group("/fees")
	fees.GET("", h.Catalog.ListFees)
	fees.POST("", h.Catalog.CreateFee)
	fees.DELETE("/:id", h.Catalog.DeleteFee)

	pos := api.Group("/pos")
	pos.GET("", h.POS.View)
	pos.POST("/select", h.POS.SelectProduct)
	pos.PUT("/entry", h.POS.EnterValue)
	pos.POST("/entry/confirm", h.POS.ConfirmValue)
	pos.DELETE("/entry", h.POS.CancelValue)
	pos.PATCH("/lines/:index", h.POS.UpdateLine)
	pos.DELETE("/lines/:index", h.POS.RemoveLine)
	pos.DELETE("/cart", h.POS.ClearCart)
	pos.PUT("/selection", h.POS.SetSelection)
	pos.POST("/finalize", h.POS.Finalize)

	sales := api.Group("/sales")
	sales.GET("", h.Sales.List)
	sales.GET("/pending", h.Sales.Pending)
	sales.GET("/recent-paid", h.Sales.RecentPaid)
	sales.GET("/:id", h.Sales.Get)
	sales.GET("/:id/receipt", h.Sales.Receipt)
	sales.POST("/:id/settle", h.Sales.Settle)

	reports := api.Group("/reports")
	reports.GET("/summary", h.Reports.Summary)
	reports.GET("/sales", h.Reports.Sales)

	api.POST("/assistant", h.Assistant.Ask)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
