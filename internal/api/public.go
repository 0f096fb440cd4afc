package api

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) homeFeed(c *gin.Context) {
	feed, err := h.Catalog.HomeFeed(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load home page")
		return
	}
	c.JSON(http.StatusOK, feed)
}

// listProducts handles the filtered catalog listing
func (h *Handler) listProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Query: strings.TrimSpace(c.Query("q")),
		Sort:  store.ParseSort(c.Query("sort")),
	}
	var ok bool
	if filter.CategoryID, ok = queryID(c, "category_id"); !ok {
		return
	}
	if filter.VehicleModelID, ok = queryID(c, "vehicle_model_id"); !ok {
		return
	}
	if filter.VehicleBrandID, ok = queryID(c, "vehicle_brand_id"); !ok {
		return
	}

	products, err := h.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to load product")
		return
	}

	user := session.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, product)
		return
	}
	fav, err := h.Favorites.IsFavorite(c.Request.Context(), user.ID, id)
	if err != nil {
		h.respondError(c, err, "Failed to load product")
		return
	}
	c.JSON(http.StatusOK, productView{ProductDetail: product, IsFavorite: &fav})
}

// productView adds the per-customer favorite flag to a product page
type productView struct {
	*models.ProductDetail
	IsFavorite *bool `json:"is_favorite,omitempty"`
}

func (h *Handler) relatedProducts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	products, err := h.Catalog.RelatedProducts(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to load related products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) listVehicleBrands(c *gin.Context) {
	brands, err := h.Catalog.ListVehicleBrands(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list vehicle brands")
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *Handler) listVehicleModels(c *gin.Context) {
	brandID, ok := pathID(c, "brandId")
	if !ok {
		return
	}

	vehicleModels, err := h.Catalog.ListVehicleModels(c.Request.Context(), brandID)
	if err != nil {
		h.respondError(c, err, "Failed to list vehicle models")
		return
	}
	c.JSON(http.StatusOK, vehicleModels)
}

func (h *Handler) publicSettings(c *gin.Context) {
	settings, err := h.Catalog.PublicSettings(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// createOrder handles checkout
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	var userID *int64
	if user := session.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	resp, err := h.Orders.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"order_no": resp.OrderNo,
		"total":    resp.Total,
	})
}

func (h *Handler) trackOrder(c *gin.Context) {
	order, err := h.Orders.TrackOrder(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		h.respondError(c, err, "Failed to track order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) myOrders(c *gin.Context) {
	orders, err := h.Orders.ListMyOrders(c.Request.Context(), session.CurrentUser(c).ID)
	if err != nil {
		h.respondError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// uploadReceipt stores a payment receipt image for an order
func (h *Handler) uploadReceipt(c *gin.Context) {
	orderNo := strings.TrimSpace(c.PostForm("order_no"))
	if orderNo == "" {
		badRequest(c, "order_no is required", nil)
		return
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			badRequest(c, "receipt file is required", nil)
			return
		}
		badRequest(c, "Invalid upload", err)
		return
	}

	path, err := h.Images.Save(file, "receipt")
	if err != nil {
		h.respondError(c, err, "Failed to store receipt")
		return
	}

	if err := h.Orders.UploadReceipt(c.Request.Context(), orderNo, path); err != nil {
		if rmErr := h.Images.Remove(path); rmErr != nil {
			h.logger.Warn("Failed to remove orphaned receipt", zap.String("path", path), zap.Error(rmErr))
		}
		h.respondError(c, err, "Failed to attach receipt")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "path": path})
}

type toggleFavoriteRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	status, err := h.Favorites.Toggle(c.Request.Context(), session.CurrentUser(c).ID, req.ProductID)
	if err != nil {
		h.respondError(c, err, "Failed to toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *Handler) listFavorites(c *gin.Context) {
	products, err := h.Favorites.List(c.Request.Context(), session.CurrentUser(c).ID)
	if err != nil {
		h.respondError(c, err, "Failed to list favorites")
		return
	}
	c.JSON(http.StatusOK, products)
}

// sendChatMessage appends a customer message. The sender is always the
// customer on this route.
func (h *Handler) sendChatMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if user := session.CurrentUser(c); user != nil {
		req.UserID = &user.ID
		if strings.TrimSpace(req.VisitorName) == "" {
			req.VisitorName = user.Name
		}
	}

	if err := h.Chat.Send(c.Request.Context(), &req); err != nil {
		h.respondError(c, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) chatMessages(c *gin.Context) {
	messages, err := h.Chat.Messages(c.Request.Context(), c.Param("sessionKey"))
	if err != nil {
		h.respondError(c, err, "Failed to load messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	principal, err := h.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to register")
		return
	}
	if err := session.SetUser(c, principal); err != nil {
		h.respondError(c, err, "Failed to start session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "name": principal.Name})
}

func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	principal, err := h.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to log in")
		return
	}
	if err := session.SetUser(c, principal); err != nil {
		h.respondError(c, err, "Failed to start session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "name": principal.Name})
}

func (h *Handler) logout(c *gin.Context) {
	if err := session.ClearUser(c); err != nil {
		h.respondError(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// me returns the signed-in customer or null
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": session.CurrentUser(c)})
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	principal, err := h.Auth.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to log in")
		return
	}
	if err := session.SetAdmin(c, principal); err != nil {
		h.respondError(c, err, "Failed to start session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminLogout(c *gin.Context) {
	if err := session.ClearAdmin(c); err != nil {
		h.respondError(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
