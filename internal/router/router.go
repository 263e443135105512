package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/stockbasket-backend/config"
	"github.com/oguzk/stockbasket-backend/internal/app/controller"
	"github.com/oguzk/stockbasket-backend/internal/middleware"
)

type Controllers struct {
	Auth    *controller.AuthController
	Product *controller.ProductController
	Basket  *controller.BasketController
}

// Setup wires all routes and middleware into a gin engine
func Setup(cfg *config.Config, ctrls Controllers) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	authMW := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", ctrls.Auth.Register)
			auth.POST("/login", ctrls.Auth.Login)
			auth.GET("/me", authMW.Authenticate(), ctrls.Auth.GetMe)
			auth.POST("/logout", authMW.Authenticate(), ctrls.Auth.Logout)
		}

		products := v1.Group("/products")
		{
			products.GET("", ctrls.Product.ListProducts)
			products.GET("/:id", ctrls.Product.GetProductByID)

			admin := products.Group("")
			admin.Use(authMW.Authenticate(), authMW.RequireRole("admin"))
			{
				admin.POST("", ctrls.Product.CreateProduct)
				admin.PUT("/:id", ctrls.Product.UpdateProduct)
				admin.DELETE("/:id", ctrls.Product.DeleteProduct)
			}
		}

		basket := v1.Group("/basket")
		basket.Use(authMW.Authenticate())
		{
			basket.GET("", ctrls.Basket.GetBasket)
			basket.POST("/items", ctrls.Basket.AddItem)
			basket.DELETE("/items/:product_id", ctrls.Basket.RemoveItem)
		}
	}

	return r
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origins[origin] || origins["*"] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
