package routes

import (
	"context"
	"net/http"
	"time"

	"storefront-api/controllers"
	apperrors "storefront-api/errors"
	"storefront-api/logger"
	"storefront-api/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth     *controllers.AuthController
	Products *controllers.ProductController
	Cart     *controllers.CartController
}

type Options struct {
	Logger         *zap.Logger
	Tokens         middleware.TokenValidator
	Limiter        *middleware.RateLimiter // nil disables rate limiting
	Metrics        *middleware.Metrics     // nil disables /metrics
	AllowedOrigins []string
	RequestTimeout time.Duration
	Ping           func(ctx context.Context) error // readiness of the database
}

// NewRouter builds the gin engine with the middleware chain and all API routes.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimitMiddleware(opts.Limiter))
	}
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.Use(apperrors.ErrorMiddleware())

	r.GET("/health", func(c *gin.Context) {
		if opts.Ping != nil {
			if err := opts.Ping(c.Request.Context()); err != nil {
				logger.Error(c, "Health check failed", err)
				c.JSON(apperrors.ErrServiceUnavailable.Code, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := r.Group("/api")
	RegisterAuthRoutes(api, h.Auth)
	RegisterProductRoutes(api, h.Products, middleware.AuthRequired(opts.Tokens))
	RegisterCartRoutes(api, h.Cart, middleware.AuthRequired(opts.Tokens))

	return r
}

func RegisterAuthRoutes(rg *gin.RouterGroup, ac *controllers.AuthController) {
	rg.POST("/register", ac.Register)
	rg.POST("/login", ac.Login)
}

func RegisterProductRoutes(rg *gin.RouterGroup, pc *controllers.ProductController, auth gin.HandlerFunc) {
	productRoutes := rg.Group("/products")
	{
		productRoutes.GET("", pc.GetProducts)
		productRoutes.GET("/:id", pc.GetProductByID)
		productRoutes.POST("", auth, pc.CreateProduct)
		productRoutes.POST("/bulk", auth, pc.CreateProducts)
		productRoutes.PUT("/:id", auth, pc.UpdateProduct)
		productRoutes.DELETE("/:id", auth, pc.DeleteProduct)
	}
}

func RegisterCartRoutes(rg *gin.RouterGroup, cc *controllers.CartController, auth gin.HandlerFunc) {
	cartRoutes := rg.Group("/cart", auth)
	{
		cartRoutes.POST("", cc.AddItem)
		cartRoutes.GET("", cc.GetCart)
		cartRoutes.PUT("", cc.UpdateItem)
		cartRoutes.PUT("/increment/:productId", cc.IncrementItem)
		cartRoutes.PUT("/decrement/:productId", cc.DecrementItem)
		cartRoutes.DELETE("/:productId", cc.RemoveItem)
		cartRoutes.DELETE("", cc.DeleteCart)
	}
}
