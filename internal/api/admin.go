package api

import (
	"net/http"

	"storefront/internal/service"
	"storefront/internal/session"

	"github.com/gin-gonic/gin"
)

// adminStatus tells the panel front-end whether an admin is signed in
func (h *Handler) adminStatus(c *gin.Context) {
	admin := session.CurrentAdmin(c)
	c.JSON(http.StatusOK, gin.H{
		"loggedIn": admin != nil,
		"admin":    admin,
	})
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.Admin.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) notifications(c *gin.Context) {
	items, err := h.Admin.Notifications(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load notifications")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) adminListProducts(c *gin.Context) {
	products, err := h.Admin.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// adminCreateProduct handles the multipart product form
func (h *Handler) adminCreateProduct(c *gin.Context) {
	in, err := parseProductForm(c, true)
	if err != nil {
		badRequest(c, "Invalid product form", err)
		return
	}

	saved, err := h.saveProductImages(c, &in)
	if err != nil {
		h.removeImages(saved)
		h.respondError(c, err, "Failed to store image")
		return
	}

	id, err := h.Admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.removeImages(saved)
		h.respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// adminUpdateProduct overwrites a product. Image slots without a new
// upload keep their stored image.
func (h *Handler) adminUpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	in, err := parseProductForm(c, false)
	if err != nil {
		badRequest(c, "Invalid product form", err)
		return
	}

	saved, err := h.saveProductImages(c, &in)
	if err != nil {
		h.removeImages(saved)
		h.respondError(c, err, "Failed to store image")
		return
	}

	result, err := h.Admin.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		h.removeImages(saved)
		h.respondError(c, err, "Failed to update product")
		return
	}
	h.removeImages(result.ReplacedImages)
	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": result.Vehicles})
}

func (h *Handler) adminDeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	images, err := h.Admin.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to delete product")
		return
	}
	h.removeImages(images)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminVehicles(c *gin.Context) {
	taxonomy, err := h.Admin.Vehicles(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load vehicles")
		return
	}
	c.JSON(http.StatusOK, taxonomy)
}

func (h *Handler) adminCreateBrand(c *gin.Context) {
	var req service.VehicleBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	brand, err := h.Admin.CreateVehicleBrand(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to create brand")
		return
	}
	c.JSON(http.StatusCreated, brand)
}

func (h *Handler) adminUpdateBrand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.VehicleBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Admin.UpdateVehicleBrand(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err, "Failed to update brand")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// adminDeleteBrand removes a brand together with its models
func (h *Handler) adminDeleteBrand(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteVehicleBrand(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete brand")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminCreateModel(c *gin.Context) {
	var req service.VehicleModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	m, err := h.Admin.CreateVehicleModel(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to create model")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) adminUpdateModel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.VehicleModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Admin.UpdateVehicleModel(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err, "Failed to update model")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminDeleteModel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteVehicleModel(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete model")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminListCategories(c *gin.Context) {
	categories, err := h.Admin.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) adminCreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	category, err := h.Admin.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) adminUpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Admin.UpdateCategory(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// adminDeleteCategory removes a category; its products become uncategorized
func (h *Handler) adminDeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) adminGetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) adminUpdateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Orders.UpdateOrder(c.Request.Context(), id, &req); err != nil {
		h.respondError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminListChats(c *gin.Context) {
	sessions, err := h.Chat.ListSessions(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to list chats")
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) adminChatMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.Chat.SessionMessages(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to load messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

type chatReplyRequest struct {
	Message string `json:"message"`
}

func (h *Handler) adminChatReply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req chatReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Chat.Reply(c.Request.Context(), id, req.Message); err != nil {
		h.respondError(c, err, "Failed to send reply")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type chatStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminChatStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req chatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Chat.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		h.respondError(c, err, "Failed to update chat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminSettings(c *gin.Context) {
	settings, err := h.Admin.Settings(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) adminSaveSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Admin.SaveSettings(c.Request.Context(), values); err != nil {
		h.respondError(c, err, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.Admin.ChangePassword(c.Request.Context(), session.CurrentAdmin(c).ID, &req); err != nil {
		h.respondError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
