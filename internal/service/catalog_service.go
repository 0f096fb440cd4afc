package service

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
)

const (
	homeNewestLimit     = 10
	homeDiscountedLimit = 4
	relatedLimit        = 4
)

// CatalogStore is the read side of the catalog
type CatalogStore interface {
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	ListActiveVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error)
	ListActiveVehicleModels(ctx context.Context, brandID int64) ([]models.VehicleModel, error)
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error)
	GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error)
	RelatedProducts(ctx context.Context, productID int64, limit int) ([]models.Product, error)
	NewestProducts(ctx context.Context, limit int) ([]models.Product, error)
	DiscountedProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetSettingsByKeys(ctx context.Context, keys []string) (map[string]string, error)
}

// CatalogService serves the public catalog
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// HomeFeed is everything the landing page shows
type HomeFeed struct {
	Categories  []models.Category     `json:"categories"`
	NewProducts []models.Product      `json:"new_products"`
	Discounted  []models.Product      `json:"discounted"`
	Brands      []models.VehicleBrand `json:"brands"`
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.store.ListActiveCategories(ctx)
	return categories, fromStore(err, "list categories", "category")
}

func (s *CatalogService) ListVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListVehicleBrands")
	defer span.End()

	brands, err := s.store.ListActiveVehicleBrands(ctx)
	return brands, fromStore(err, "list vehicle brands", "vehicle brand")
}

func (s *CatalogService) ListVehicleModels(ctx context.Context, brandID int64) ([]models.VehicleModel, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListVehicleModels", attribute.Int64("brand_id", brandID))
	defer span.End()

	vehicleModels, err := s.store.ListActiveVehicleModels(ctx, brandID)
	return vehicleModels, fromStore(err, "list vehicle models", "vehicle model")
}

// ListProducts returns the active products matching every supplied predicate
func (s *CatalogService) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts",
		attribute.String("q", filter.Query),
		attribute.Int64("category_id", filter.CategoryID),
		attribute.Int64("vehicle_model_id", filter.VehicleModelID),
		attribute.Int64("vehicle_brand_id", filter.VehicleBrandID))
	defer span.End()

	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		util.RecordError(span, err)
		return nil, fromStore(err, "list products", "product")
	}
	return products, nil
}

// GetProduct returns a product with its compatible vehicles
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct", attribute.Int64("product_id", id))
	defer span.End()

	detail, err := s.store.GetProductDetail(ctx, id)
	if err != nil {
		return nil, fromStore(err, "get product", "product")
	}
	return detail, nil
}

func (s *CatalogService) RelatedProducts(ctx context.Context, id int64) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.RelatedProducts", attribute.Int64("product_id", id))
	defer span.End()

	products, err := s.store.RelatedProducts(ctx, id, relatedLimit)
	return products, fromStore(err, "list related products", "product")
}

// HomeFeed assembles the landing page sections
func (s *CatalogService) HomeFeed(ctx context.Context) (*HomeFeed, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.HomeFeed")
	defer span.End()

	var (
		feed HomeFeed
		err  error
	)

	if feed.Categories, err = s.store.ListActiveCategories(ctx); err != nil {
		return nil, fromStore(err, "list categories", "category")
	}
	if feed.NewProducts, err = s.store.NewestProducts(ctx, homeNewestLimit); err != nil {
		return nil, fromStore(err, "list newest products", "product")
	}
	if feed.Discounted, err = s.store.DiscountedProducts(ctx, homeDiscountedLimit); err != nil {
		return nil, fromStore(err, "list discounted products", "product")
	}
	if feed.Brands, err = s.store.ListActiveVehicleBrands(ctx); err != nil {
		return nil, fromStore(err, "list vehicle brands", "vehicle brand")
	}
	return &feed, nil
}

// PublicSettings returns the settings visitors may read
func (s *CatalogService) PublicSettings(ctx context.Context) (map[string]string, error) {
	settings, err := s.store.GetSettingsByKeys(ctx, store.PublicSettingKeys)
	return settings, fromStore(err, "load settings", "setting")
}
