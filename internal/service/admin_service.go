package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	dashboardRecentOrders = 5
	defaultCategoryIcon   = "📦"
	notificationsLimit    = 50
)

// AdminStore is the back-office persistence
type AdminStore interface {
	Dashboard(ctx context.Context, recent int) (*store.Dashboard, error)

	ListAllProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in store.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in store.ProductInput) (store.ProductUpdate, error)
	DeleteProduct(ctx context.Context, id int64) ([]string, error)

	ListAllVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error)
	ListAllVehicleModels(ctx context.Context) ([]models.VehicleModel, error)
	CreateVehicleBrand(ctx context.Context, b *models.VehicleBrand) error
	UpdateVehicleBrand(ctx context.Context, b *models.VehicleBrand) error
	DeleteVehicleBrand(ctx context.Context, id int64) error
	CreateVehicleModel(ctx context.Context, m *models.VehicleModel) error
	UpdateVehicleModel(ctx context.Context, m *models.VehicleModel) error
	DeleteVehicleModel(ctx context.Context, id int64) error

	ListAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (map[string]string, error)
	SaveSettings(ctx context.Context, values map[string]string) error

	GetAdminByID(ctx context.Context, id int64) (*models.Admin, error)
	UpdateAdminPassword(ctx context.Context, id int64, hash string) error
}

// NotificationFeed is the admin notification list written by the worker
type NotificationFeed interface {
	RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error)
}

// AdminService implements the back-office operations. Callers must have
// verified the admin principal.
type AdminService struct {
	store         AdminStore
	notifications NotificationFeed
	bcryptCost    int
	logger        *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store AdminStore, notifications NotificationFeed, bcryptCost int) *AdminService {
	return &AdminService{
		store:         store,
		notifications: notifications,
		bcryptCost:    bcryptCost,
		logger:        util.ComponentLogger("admin"),
	}
}

// VehicleTaxonomy is the full brand and model listing
type VehicleTaxonomy struct {
	Brands []models.VehicleBrand `json:"brands"`
	Models []models.VehicleModel `json:"models"`
}

// CategoryRequest creates or edits a category
type CategoryRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// VehicleBrandRequest creates or edits a brand
type VehicleBrandRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// VehicleModelRequest creates or edits a model
type VehicleModelRequest struct {
	BrandID   int64  `json:"brand_id"`
	Name      string `json:"name"`
	YearStart *int   `json:"year_start"`
	YearEnd   *int   `json:"year_end"`
	IsActive  *bool  `json:"is_active"`
}

// ChangePasswordRequest replaces the admin's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func activeOrDefault(b *bool) bool {
	return b == nil || *b
}

func (s *AdminService) Dashboard(ctx context.Context) (*store.Dashboard, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.Dashboard")
	defer span.End()

	d, err := s.store.Dashboard(ctx, dashboardRecentOrders)
	if err != nil {
		util.RecordError(span, err)
		return nil, fromStore(err, "load dashboard", "dashboard")
	}
	return d, nil
}

// Notifications returns the latest admin notifications, newest first
func (s *AdminService) Notifications(ctx context.Context) ([]models.Notification, error) {
	notifications, err := s.notifications.RecentNotifications(ctx, notificationsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return notifications, nil
}

func (s *AdminService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListAllProducts(ctx)
	return products, fromStore(err, "list products", "product")
}

func validateProduct(in *store.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("product name is required")
	}
	if in.Price.IsNegative() {
		return invalid("price cannot be negative")
	}
	if in.OldPrice.Valid && in.OldPrice.Decimal.IsNegative() {
		return invalid("old price cannot be negative")
	}
	if in.Stock < 0 {
		return invalid("stock cannot be negative")
	}
	if in.Price.GreaterThan(maxMoney) || (in.OldPrice.Valid && in.OldPrice.Decimal.GreaterThan(maxMoney)) {
		return invalid("price must be at most %s", maxMoney.StringFixed(2))
	}
	return firstError(
		checkLength("name", in.Name, maxProductNameLen),
		checkLength("brand", in.Brand, maxProductCodeLen),
		checkLength("oem_no", in.OEMNo, maxProductCodeLen),
		checkLength("badge", in.Badge, maxBadgeLen),
	)
}

// CreateProduct stores a new product with its vehicle compatibility set
func (s *AdminService) CreateProduct(ctx context.Context, in store.ProductInput) (int64, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.CreateProduct")
	defer span.End()

	if err := validateProduct(&in); err != nil {
		return 0, err
	}

	id, err := s.store.CreateProduct(ctx, in)
	if err != nil {
		util.RecordError(span, err)
		return 0, fromStore(err, "create product", "category or vehicle model")
	}

	s.logger.Info("Product created", zap.Int64("product_id", id), zap.Int("vehicles", len(in.VehicleModelIDs)))
	return id, nil
}

// UpdateProduct overwrites a product and reconciles its vehicle set. The
// result lists stored images that new uploads replaced.
func (s *AdminService) UpdateProduct(ctx context.Context, id int64, in store.ProductInput) (store.ProductUpdate, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.UpdateProduct", attribute.Int64("product_id", id))
	defer span.End()

	if err := validateProduct(&in); err != nil {
		return store.ProductUpdate{}, err
	}

	result, err := s.store.UpdateProduct(ctx, id, in)
	if err != nil {
		util.RecordError(span, err)
		return store.ProductUpdate{}, productWriteError(err, "update product")
	}

	s.logger.Info("Product updated",
		zap.Int64("product_id", id),
		zap.Int64s("vehicles_added", result.Vehicles.Added),
		zap.Int64s("vehicles_removed", result.Vehicles.Removed),
		zap.Int("images_replaced", len(result.ReplacedImages)))
	return result, nil
}

// productWriteError tells a missing product apart from a missing category
// or vehicle model
func productWriteError(err error, op string) error {
	if errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrReferenceMissing) {
		return notFound("product")
	}
	return fromStore(err, op, "category or vehicle model")
}

// DeleteProduct removes a product and returns the image paths it held
func (s *AdminService) DeleteProduct(ctx context.Context, id int64) ([]string, error) {
	images, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return nil, fromStore(err, "delete product", "product")
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return images, nil
}

// Vehicles lists every brand and model
func (s *AdminService) Vehicles(ctx context.Context) (*VehicleTaxonomy, error) {
	brands, err := s.store.ListAllVehicleBrands(ctx)
	if err != nil {
		return nil, fromStore(err, "list vehicle brands", "vehicle brand")
	}
	vehicleModels, err := s.store.ListAllVehicleModels(ctx)
	if err != nil {
		return nil, fromStore(err, "list vehicle models", "vehicle model")
	}
	return &VehicleTaxonomy{Brands: brands, Models: vehicleModels}, nil
}

func (s *AdminService) CreateVehicleBrand(ctx context.Context, req *VehicleBrandRequest) (*models.VehicleBrand, error) {
	brand := &models.VehicleBrand{
		Name:      strings.TrimSpace(req.Name),
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive),
	}
	if brand.Name == "" {
		return nil, invalid("brand name is required")
	}
	if err := s.store.CreateVehicleBrand(ctx, brand); err != nil {
		return nil, fromStore(err, "create vehicle brand", "vehicle brand")
	}
	return brand, nil
}

func (s *AdminService) UpdateVehicleBrand(ctx context.Context, id int64, req *VehicleBrandRequest) error {
	brand := &models.VehicleBrand{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive),
	}
	if brand.Name == "" {
		return invalid("brand name is required")
	}
	return fromStore(s.store.UpdateVehicleBrand(ctx, brand), "update vehicle brand", "vehicle brand")
}

// DeleteVehicleBrand removes a brand and, through the foreign key, its models
func (s *AdminService) DeleteVehicleBrand(ctx context.Context, id int64) error {
	return fromStore(s.store.DeleteVehicleBrand(ctx, id), "delete vehicle brand", "vehicle brand")
}

func validateModel(m *models.VehicleModel) error {
	if m.BrandID <= 0 {
		return invalid("brand_id is required")
	}
	if m.Name == "" {
		return invalid("model name is required")
	}
	if m.YearStart != nil && m.YearEnd != nil && *m.YearEnd < *m.YearStart {
		return invalid("year_end cannot be before year_start")
	}
	return nil
}

func (s *AdminService) CreateVehicleModel(ctx context.Context, req *VehicleModelRequest) (*models.VehicleModel, error) {
	m := &models.VehicleModel{
		BrandID:   req.BrandID,
		Name:      strings.TrimSpace(req.Name),
		YearStart: req.YearStart,
		YearEnd:   req.YearEnd,
		IsActive:  activeOrDefault(req.IsActive),
	}
	if err := validateModel(m); err != nil {
		return nil, err
	}
	if err := s.store.CreateVehicleModel(ctx, m); err != nil {
		return nil, fromStore(err, "create vehicle model", "vehicle brand")
	}
	return m, nil
}

func (s *AdminService) UpdateVehicleModel(ctx context.Context, id int64, req *VehicleModelRequest) error {
	m := &models.VehicleModel{
		ID:        id,
		BrandID:   req.BrandID,
		Name:      strings.TrimSpace(req.Name),
		YearStart: req.YearStart,
		YearEnd:   req.YearEnd,
		IsActive:  activeOrDefault(req.IsActive),
	}
	if err := validateModel(m); err != nil {
		return err
	}
	return fromStore(s.store.UpdateVehicleModel(ctx, m), "update vehicle model", "vehicle model")
}

func (s *AdminService) DeleteVehicleModel(ctx context.Context, id int64) error {
	return fromStore(s.store.DeleteVehicleModel(ctx, id), "delete vehicle model", "vehicle model")
}

func (s *AdminService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListAllCategories(ctx)
	return categories, fromStore(err, "list categories", "category")
}

func (s *AdminService) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	c := categoryFromRequest(0, req)
	if c.Name == "" {
		return nil, invalid("category name is required")
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, fromStore(err, "create category", "category")
	}
	return c, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id int64, req *CategoryRequest) error {
	c := categoryFromRequest(id, req)
	if c.Name == "" {
		return invalid("category name is required")
	}
	return fromStore(s.store.UpdateCategory(ctx, c), "update category", "category")
}

// DeleteCategory removes a category; its products stay, uncategorized
func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	return fromStore(s.store.DeleteCategory(ctx, id), "delete category", "category")
}

func categoryFromRequest(id int64, req *CategoryRequest) *models.Category {
	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = defaultCategoryIcon
	}
	return &models.Category{
		ID:        id,
		Name:      strings.TrimSpace(req.Name),
		Icon:      icon,
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive),
	}
}

func (s *AdminService) Settings(ctx context.Context) (map[string]string, error) {
	settings, err := s.store.GetSettings(ctx)
	return settings, fromStore(err, "load settings", "setting")
}

// SaveSettings upserts all given settings atomically
func (s *AdminService) SaveSettings(ctx context.Context, values map[string]string) error {
	ctx, span := util.StartSpan(ctx, "AdminService.SaveSettings", attribute.Int("keys", len(values)))
	defer span.End()

	for k := range values {
		if strings.TrimSpace(k) == "" {
			return invalid("setting keys cannot be empty")
		}
	}
	if len(values) == 0 {
		return nil
	}

	if err := s.store.SaveSettings(ctx, values); err != nil {
		util.RecordError(span, err)
		return fromStore(err, "save settings", "setting")
	}
	s.logger.Info("Settings saved", zap.Int("keys", len(values)))
	return nil
}

// ChangePassword replaces the admin's password after re-verifying the
// current one
func (s *AdminService) ChangePassword(ctx context.Context, adminID int64, req *ChangePasswordRequest) error {
	ctx, span := util.StartSpan(ctx, "AdminService.ChangePassword", attribute.Int64("admin_id", adminID))
	defer span.End()

	if err := checkPassword("new password", req.NewPassword); err != nil {
		return err
	}

	admin, err := s.store.GetAdminByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return unauthorized("admin session is no longer valid")
		}
		return fmt.Errorf("failed to load admin: %w", err)
	}
	if !CheckPassword(admin.PasswordHash, req.CurrentPassword) {
		util.AuthAttemptsTotal.WithLabelValues("password_change", "failure").Inc()
		return invalid("current password is incorrect")
	}

	hash, err := HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.store.UpdateAdminPassword(ctx, adminID, hash); err != nil {
		return fromStore(err, "update password", "admin")
	}

	util.AuthAttemptsTotal.WithLabelValues("password_change", "success").Inc()
	s.logger.Info("Admin password changed", zap.Int64("admin_id", adminID))
	return nil
}
