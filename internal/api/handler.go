package api

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/models"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CatalogAPI is the public catalog
type CatalogAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error)
	ListVehicleModels(ctx context.Context, brandID int64) ([]models.VehicleModel, error)
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error)
	RelatedProducts(ctx context.Context, id int64) ([]models.Product, error)
	HomeFeed(ctx context.Context) (*service.HomeFeed, error)
	PublicSettings(ctx context.Context) (map[string]string, error)
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, userID *int64, req *service.CreateOrderRequest) (*service.CreateOrderResponse, error)
	TrackOrder(ctx context.Context, orderNo string) (*service.TrackedOrder, error)
	UploadReceipt(ctx context.Context, orderNo, path string) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListMyOrders(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*service.OrderDetail, error)
	UpdateOrder(ctx context.Context, orderID int64, req *service.UpdateOrderRequest) error
}

type FavoriteAPI interface {
	Toggle(ctx context.Context, userID, productID int64) (string, error)
	List(ctx context.Context, userID int64) ([]models.Product, error)
	IsFavorite(ctx context.Context, userID, productID int64) (bool, error)
}

type ChatAPI interface {
	Send(ctx context.Context, req *service.SendMessageRequest) error
	Messages(ctx context.Context, sessionKey string) ([]models.ChatMessage, error)
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	SessionMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error)
	Reply(ctx context.Context, sessionID int64, message string) error
	SetStatus(ctx context.Context, sessionID int64, status string) error
}

type AuthAPI interface {
	Register(ctx context.Context, req *service.RegisterRequest) (*models.Principal, error)
	Login(ctx context.Context, req *service.LoginRequest) (*models.Principal, error)
	AdminLogin(ctx context.Context, req *service.LoginRequest) (*models.Principal, error)
}

// AdminAPI is the back-office
type AdminAPI interface {
	Dashboard(ctx context.Context) (*store.Dashboard, error)
	Notifications(ctx context.Context) ([]models.Notification, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in store.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in store.ProductInput) (store.ProductUpdate, error)
	DeleteProduct(ctx context.Context, id int64) ([]string, error)

	Vehicles(ctx context.Context) (*service.VehicleTaxonomy, error)
	CreateVehicleBrand(ctx context.Context, req *service.VehicleBrandRequest) (*models.VehicleBrand, error)
	UpdateVehicleBrand(ctx context.Context, id int64, req *service.VehicleBrandRequest) error
	DeleteVehicleBrand(ctx context.Context, id int64) error
	CreateVehicleModel(ctx context.Context, req *service.VehicleModelRequest) (*models.VehicleModel, error)
	UpdateVehicleModel(ctx context.Context, id int64, req *service.VehicleModelRequest) error
	DeleteVehicleModel(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, req *service.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *service.CategoryRequest) error
	DeleteCategory(ctx context.Context, id int64) error

	Settings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	ChangePassword(ctx context.Context, adminID int64, req *service.ChangePasswordRequest) error
}

// ImageStore persists uploaded images
type ImageStore interface {
	Save(fh *multipart.FileHeader, prefix string) (string, error)
	Remove(path string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redisclient.RateDecision, error)
}

// Pinger is a dependency checked by /ready
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP layer
type Deps struct {
	Catalog   CatalogAPI
	Orders    OrderAPI
	Favorites FavoriteAPI
	Chat      ChatAPI
	Auth      AuthAPI
	Admin     AdminAPI
	Images    ImageStore
	Sessions  *session.Manager
	Limiter   RateLimiter

	// LoginRatePerMinute caps login attempts per client IP; zero disables it
	LoginRatePerMinute int
	CORSOrigins        []string
	UploadDir          string
	ReadinessChecks    map[string]Pinger
}

// Handler contains HTTP handlers
type Handler struct {
	Deps
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(deps Deps) *Handler {
	return &Handler{
		Deps:   deps,
		logger: util.ComponentLogger("http"),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	if len(h.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     h.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(h.Sessions.Middleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if h.UploadDir != "" {
		router.Static("/uploads", h.UploadDir)
	}

	v1 := router.Group("/api")
	{
		v1.GET("/home", h.homeFeed)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/related", h.relatedProducts)
		v1.GET("/categories", h.listCategories)
		v1.GET("/vehicle-brands", h.listVehicleBrands)
		v1.GET("/vehicle-models/:brandId", h.listVehicleModels)
		v1.GET("/settings/public", h.publicSettings)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders", requireUser(), h.myOrders)
		v1.GET("/orders/track/:orderNo", h.trackOrder)
		v1.POST("/orders/upload-receipt", h.uploadReceipt)

		v1.POST("/favorites/toggle", requireUser(), h.toggleFavorite)
		v1.GET("/favorites", requireUser(), h.listFavorites)

		v1.POST("/chat/send", h.sendChatMessage)
		v1.GET("/chat/messages/:sessionKey", h.chatMessages)

		auth := v1.Group("/auth")
		auth.POST("/register", h.loginRateLimit("register"), h.register)
		auth.POST("/login", h.loginRateLimit("login"), h.login)
		auth.POST("/logout", h.logout)
		auth.GET("/me", h.me)
		auth.POST("/admin-login", h.loginRateLimit("admin-login"), h.adminLogin)
		auth.POST("/admin-logout", h.adminLogout)
	}

	panel := router.Group("/panel")
	panel.GET("/", h.adminStatus)
	admin := panel.Group("", requireAdmin())
	{
		admin.GET("/dashboard", h.dashboard)
		admin.GET("/notifications", h.notifications)

		admin.GET("/products", h.adminListProducts)
		admin.POST("/products", h.adminCreateProduct)
		admin.PUT("/products/:id", h.adminUpdateProduct)
		admin.DELETE("/products/:id", h.adminDeleteProduct)

		admin.GET("/vehicles", h.adminVehicles)
		admin.POST("/vehicles/brands", h.adminCreateBrand)
		admin.PUT("/vehicles/brands/:id", h.adminUpdateBrand)
		admin.DELETE("/vehicles/brands/:id", h.adminDeleteBrand)
		admin.POST("/vehicles/models", h.adminCreateModel)
		admin.PUT("/vehicles/models/:id", h.adminUpdateModel)
		admin.DELETE("/vehicles/models/:id", h.adminDeleteModel)

		admin.GET("/categories", h.adminListCategories)
		admin.POST("/categories", h.adminCreateCategory)
		admin.PUT("/categories/:id", h.adminUpdateCategory)
		admin.DELETE("/categories/:id", h.adminDeleteCategory)

		admin.GET("/orders", h.adminListOrders)
		admin.GET("/orders/:id", h.adminGetOrder)
		admin.PUT("/orders/:id", h.adminUpdateOrder)

		admin.GET("/chats", h.adminListChats)
		admin.GET("/chats/:id/messages", h.adminChatMessages)
		admin.POST("/chats/:id/reply", h.adminChatReply)
		admin.PUT("/chats/:id/status", h.adminChatStatus)

		admin.GET("/settings", h.adminSettings)
		admin.PUT("/settings", h.adminSaveSettings)
		admin.POST("/settings/password", h.adminChangePassword)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, p := range h.ReadinessChecks {
		if err := p.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()
	}
}
