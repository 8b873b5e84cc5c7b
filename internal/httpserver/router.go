package httpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"plantshop/internal/cart"
	"plantshop/internal/domain"
	"plantshop/internal/service/admin"
	"plantshop/internal/service/identity"
)

type catalogService interface {
	cart.CatalogReader
	ListActiveByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type identityService interface {
	Signup(ctx context.Context, in identity.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	UserByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	AccessTTLSeconds() int
}

type adminService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in admin.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in admin.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in admin.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in admin.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	Dashboard(ctx context.Context) (admin.DashboardCounts, error)
}

// Deps carries the services the router wires into handlers.
type Deps struct {
	Catalog  catalogService
	Identity identityService
	Admin    adminService
	Orders   cart.OrderSink
	Sessions SessionStores
	Counter  *OrderCounter

	// AllowedOrigins is a comma-separated origin list; empty or "*" allows all.
	AllowedOrigins string
}

// buildRouter wires routes for the storefront and the back office.
func buildRouter(logger *zap.SugaredLogger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Identity == nil || deps.Admin == nil || deps.Orders == nil || deps.Sessions == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if deps.AllowedOrigins == "" || deps.AllowedOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(deps.AllowedOrigins, ",")
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/categories", h.listCategories)

		api.POST("/signup", h.signup)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)
		api.GET("/me", h.me)

		session := api.Group("", h.withSession)
		{
			session.GET("/cart", h.getCart)
			session.POST("/cart/items", h.addCartItem)
			session.PUT("/cart/items/:id", h.setCartQuantity)
			session.DELETE("/cart/items/:id", h.removeCartItem)
			session.POST("/cart/coupon", h.applyCoupon)
			session.POST("/cart/checkout", h.checkout)

			session.GET("/liked", h.listLiked)
			session.POST("/liked/:id", h.addLiked)
			session.DELETE("/liked/:id", h.removeLiked)
		}

		adminGroup := api.Group("/admin", h.requireAdmin)
		{
			adminGroup.GET("/dashboard", h.dashboard)
			adminGroup.GET("/orders/count", h.liveOrderCount)

			adminGroup.GET("/categories", h.adminListCategories)
			adminGroup.POST("/categories", h.adminCreateCategory)
			adminGroup.PUT("/categories/:id", h.adminUpdateCategory)
			adminGroup.DELETE("/categories/:id", h.adminDeleteCategory)

			adminGroup.GET("/products", h.adminListProducts)
			adminGroup.POST("/products", h.adminCreateProduct)
			adminGroup.PUT("/products/:id", h.adminUpdateProduct)
			adminGroup.DELETE("/products/:id", h.adminDeleteProduct)

			adminGroup.GET("/orders", h.adminListOrders)
			adminGroup.PUT("/orders/:id/status", h.adminUpdateOrderStatus)

			adminGroup.GET("/users", h.adminListUsers)
		}
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.SugaredLogger
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
