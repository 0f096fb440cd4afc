package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for *store.Store honoring the same
// uniqueness and not-found contracts.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	categories      map[int64]*models.Category
	brands          map[int64]*models.VehicleBrand
	vehicleModels   map[int64]*models.VehicleModel
	products        map[int64]*models.Product
	productVehicles map[int64]map[int64]bool
	orders          map[int64]*models.Order
	orderItems      map[int64][]models.OrderItem
	favorites       map[[2]int64]time.Time
	users           map[int64]*models.User
	admins          map[int64]*models.Admin
	chatSessions    map[int64]*models.ChatSession
	chatMessages    map[int64][]models.ChatMessage
	settings        map[string]string

	failWith       error
	createOrderErr error
}

func newMemStore() *memStore {
	return &memStore{
		categories:      map[int64]*models.Category{},
		brands:          map[int64]*models.VehicleBrand{},
		vehicleModels:   map[int64]*models.VehicleModel{},
		products:        map[int64]*models.Product{},
		productVehicles: map[int64]map[int64]bool{},
		orders:          map[int64]*models.Order{},
		orderItems:      map[int64][]models.OrderItem{},
		favorites:       map[[2]int64]time.Time{},
		users:           map[int64]*models.User{},
		admins:          map[int64]*models.Admin{},
		chatSessions:    map[int64]*models.ChatSession{},
		chatMessages:    map[int64][]models.ChatMessage{},
		settings:        map[string]string{},
	}
}

func (m *memStore) newID() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addProduct(name string, price int64, categoryID *int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID()
	m.products[id] = &models.Product{
		ID:         id,
		Name:       name,
		CategoryID: categoryID,
		Price:      decimal.NewFromInt(price),
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	return id
}

func (m *memStore) addVehicleModel(brand, name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	brandID := m.newID()
	m.brands[brandID] = &models.VehicleBrand{ID: brandID, Name: brand, IsActive: true}
	id := m.newID()
	m.vehicleModels[id] = &models.VehicleModel{ID: id, BrandID: brandID, BrandName: brand, Name: name, IsActive: true}
	return id
}

func (m *memStore) favoriteRows(userID, productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.favorites[[2]int64{userID, productID}]; ok {
		return 1
	}
	return 0
}

// catalog

func (m *memStore) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, c := range m.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, m.failWith
}

func (m *memStore) ListActiveVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.VehicleBrand{}
	for _, b := range m.brands {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, m.failWith
}

func (m *memStore) ListActiveVehicleModels(ctx context.Context, brandID int64) ([]models.VehicleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.VehicleModel{}
	for _, vm := range m.vehicleModels {
		if vm.BrandID == brandID && vm.IsActive {
			out = append(out, *vm)
		}
	}
	return out, m.failWith
}

func (m *memStore) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Product{}
	for _, p := range m.sortedProducts() {
		if !p.IsActive {
			continue
		}
		if filter.CategoryID > 0 && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) sortedProducts() []models.Product {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	detail := &models.ProductDetail{Product: *p, Vehicles: []models.VehicleModel{}}
	for modelID := range m.productVehicles[id] {
		detail.Vehicles = append(detail.Vehicles, *m.vehicleModels[modelID])
	}
	sort.Slice(detail.Vehicles, func(i, j int) bool { return detail.Vehicles[i].ID < detail.Vehicles[j].ID })
	return detail, nil
}

func (m *memStore) RelatedProducts(ctx context.Context, productID int64, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	self, ok := m.products[productID]
	if !ok || self.CategoryID == nil {
		return out, nil
	}
	for _, p := range m.sortedProducts() {
		if p.ID != productID && p.IsActive && p.CategoryID != nil && *p.CategoryID == *self.CategoryID && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) NewestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedProducts()
	out := []models.Product{}
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if all[i].IsActive {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (m *memStore) DiscountedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.sortedProducts() {
		if p.IsActive && p.OldPrice.Valid && p.OldPrice.Decimal.GreaterThan(p.Price) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetSettingsByKeys(ctx context.Context, keys []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := m.settings[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// orders

func (m *memStore) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Product{}
	seen := map[int64]bool{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem, nextOrderNo func() string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createOrderErr != nil {
		return m.createOrderErr
	}

	taken := map[string]bool{}
	for _, o := range m.orders {
		taken[o.OrderNo] = true
	}
	for attempt := 0; ; attempt++ {
		if attempt == 8 {
			return store.ErrOrderNoExhausted
		}
		order.OrderNo = nextOrderNo()
		if !taken[order.OrderNo] {
			break
		}
	}

	order.ID = m.newID()
	order.Status = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusWaiting
	order.CreatedAt = time.Now()
	stored := *order
	m.orders[order.ID] = &stored

	lines := make([]models.OrderItem, len(items))
	for i := range items {
		items[i].ID = m.newID()
		items[i].OrderID = order.ID
		lines[i] = items[i]
	}
	m.orderItems[order.ID] = lines
	return nil
}

func (m *memStore) GetOrderByNumber(ctx context.Context, orderNo string) (*models.Order, []models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNo == orderNo {
			order := *o
			return &order, append([]models.OrderItem{}, m.orderItems[o.ID]...), nil
		}
	}
	return nil, nil, store.ErrNotFound
}

func (m *memStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, []models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil, store.ErrNotFound
	}
	order := *o
	return &order, append([]models.OrderItem{}, m.orderItems[id]...), nil
}

func (m *memStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) OrdersForUser(ctx context.Context, userID int64) ([]models.Order, error) {
	all, _ := m.ListOrders(ctx)
	out := []models.Order{}
	for _, o := range all {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, orderID int64, upd store.OrderStatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.Status, o.PaymentStatus, o.TrackingNo, o.CargoCompany = upd.Status, upd.PaymentStatus, upd.TrackingNo, upd.CargoCompany
	return nil
}

func (m *memStore) SetReceipt(ctx context.Context, orderNo, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNo == orderNo {
			o.ReceiptImage = &path
			o.PaymentStatus = models.PaymentStatusUploaded
			return nil
		}
	}
	return store.ErrNotFound
}

// favorites

func (m *memStore) ToggleFavorite(ctx context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{userID, productID}
	if _, ok := m.favorites[key]; ok {
		delete(m.favorites, key)
		return false, nil
	}
	if _, ok := m.products[productID]; !ok {
		return false, store.ErrNotFound
	}
	m.favorites[key] = time.Now()
	return true, nil
}

func (m *memStore) IsFavorite(ctx context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.favorites[[2]int64{userID, productID}]
	return ok, nil
}

func (m *memStore) ListFavoriteProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for key := range m.favorites {
		if key[0] == userID {
			out = append(out, *m.products[key[1]])
		}
	}
	return out, nil
}

// chat

func (m *memStore) AppendCustomerMessage(ctx context.Context, key, visitorName string, userID *int64, message string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var session *models.ChatSession
	for _, cs := range m.chatSessions {
		if cs.SessionKey == key {
			session = cs
		}
	}
	if session == nil {
		session = &models.ChatSession{ID: m.newID(), SessionKey: key, VisitorName: visitorName, UserID: userID, Status: models.ChatStatusActive, CreatedAt: time.Now()}
		m.chatSessions[session.ID] = session
	}
	session.UpdatedAt = time.Now()
	m.chatMessages[session.ID] = append(m.chatMessages[session.ID], models.ChatMessage{Sender: models.SenderCustomer, Message: message, CreatedAt: time.Now()})
	return session.ID, nil
}

func (m *memStore) AppendAdminMessage(ctx context.Context, sessionID int64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.chatSessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	session.UpdatedAt = time.Now()
	m.chatMessages[sessionID] = append(m.chatMessages[sessionID], models.ChatMessage{Sender: models.SenderAdmin, Message: message, CreatedAt: time.Now()})
	return nil
}

func (m *memStore) MessagesByKey(ctx context.Context, key string) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cs := range m.chatSessions {
		if cs.SessionKey == key {
			return append([]models.ChatMessage{}, m.chatMessages[cs.ID]...), nil
		}
	}
	return []models.ChatMessage{}, nil
}

func (m *memStore) MessagesBySessionID(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ChatMessage{}, m.chatMessages[sessionID]...), nil
}

func (m *memStore) ListChatSessions(ctx context.Context) ([]models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ChatSession{}
	for _, cs := range m.chatSessions {
		s := *cs
		msgs := m.chatMessages[cs.ID]
		s.MsgCount = len(msgs)
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1].Message
			s.LastMessage = &last
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) SetChatStatus(ctx context.Context, sessionID int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.chatSessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	session.Status = status
	return nil
}

// accounts

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrConflict
		}
	}
	user.ID = m.newID()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			user := *u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == email {
			admin := *a
			return &admin, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	admin := *a
	return &admin, nil
}

func (m *memStore) UpdateAdminPassword(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return store.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

// back-office

func (m *memStore) Dashboard(ctx context.Context, recent int) (*store.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	d := &store.Dashboard{RecentOrders: []models.Order{}}
	for _, o := range m.orders {
		d.Orders.Total++
		d.Orders.Revenue = d.Orders.Revenue.Add(o.Total)
	}
	d.Products.Total = len(m.products)
	d.Users = len(m.users)
	return d, nil
}

func (m *memStore) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedProducts(), nil
}

func (m *memStore) CreateProduct(ctx context.Context, in store.ProductInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.newID()
	m.products[id] = &models.Product{ID: id, Name: in.Name, Price: in.Price, OldPrice: in.OldPrice, Stock: in.Stock, IsActive: in.IsActive, Image: in.Images[0]}
	m.productVehicles[id] = map[int64]bool{}
	for _, vm := range in.VehicleModelIDs {
		if _, ok := m.vehicleModels[vm]; !ok {
			return 0, store.ErrNotFound
		}
		m.productVehicles[id][vm] = true
	}
	return id, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, id int64, in store.ProductInput) (store.ProductUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return store.ProductUpdate{}, store.ErrNotFound
	}
	if in.CategoryID != nil {
		if _, ok := m.categories[*in.CategoryID]; !ok {
			return store.ProductUpdate{}, fmt.Errorf("%w: products_category_id_fkey", store.ErrReferenceMissing)
		}
	}
	for _, vm := range in.VehicleModelIDs {
		if _, ok := m.vehicleModels[vm]; !ok {
			return store.ProductUpdate{}, fmt.Errorf("%w: product_vehicles_vehicle_model_id_fkey", store.ErrReferenceMissing)
		}
	}

	var result store.ProductUpdate
	p.Name, p.Price, p.OldPrice, p.Stock, p.IsActive = in.Name, in.Price, in.OldPrice, in.Stock, in.IsActive
	if in.Images[0] != nil {
		if p.Image != nil && *p.Image != *in.Images[0] {
			result.ReplacedImages = append(result.ReplacedImages, *p.Image)
		}
		p.Image = in.Images[0]
	}

	var current []int64
	for vm := range m.productVehicles[id] {
		current = append(current, vm)
	}
	change := &result.Vehicles
	change.Added, change.Removed = store.DiffIDSet(current, in.VehicleModelIDs)

	if m.productVehicles[id] == nil {
		m.productVehicles[id] = map[int64]bool{}
	}
	for _, vm := range change.Removed {
		delete(m.productVehicles[id], vm)
	}
	for _, vm := range change.Added {
		m.productVehicles[id][vm] = true
	}
	return result, nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	var images []string
	for _, img := range []*string{p.Image, p.Image2, p.Image3} {
		if img != nil {
			images = append(images, *img)
		}
	}
	delete(m.products, id)
	delete(m.productVehicles, id)
	return images, nil
}

func (m *memStore) ListAllVehicleBrands(ctx context.Context) ([]models.VehicleBrand, error) {
	return m.ListActiveVehicleBrands(ctx)
}

func (m *memStore) ListAllVehicleModels(ctx context.Context) ([]models.VehicleModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.VehicleModel{}
	for _, vm := range m.vehicleModels {
		out = append(out, *vm)
	}
	return out, nil
}

func (m *memStore) CreateVehicleBrand(ctx context.Context, b *models.VehicleBrand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.newID()
	stored := *b
	m.brands[b.ID] = &stored
	return nil
}

func (m *memStore) UpdateVehicleBrand(ctx context.Context, b *models.VehicleBrand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.brands[b.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *b
	m.brands[b.ID] = &stored
	return nil
}

func (m *memStore) DeleteVehicleBrand(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.brands[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.brands, id)
	for vmID, vm := range m.vehicleModels {
		if vm.BrandID == id {
			delete(m.vehicleModels, vmID)
		}
	}
	return nil
}

func (m *memStore) CreateVehicleModel(ctx context.Context, vm *models.VehicleModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.brands[vm.BrandID]; !ok {
		return store.ErrNotFound
	}
	vm.ID = m.newID()
	stored := *vm
	m.vehicleModels[vm.ID] = &stored
	return nil
}

func (m *memStore) UpdateVehicleModel(ctx context.Context, vm *models.VehicleModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicleModels[vm.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *vm
	m.vehicleModels[vm.ID] = &stored
	return nil
}

func (m *memStore) DeleteVehicleModel(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicleModels[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.vehicleModels, id)
	return nil
}

func (m *memStore) ListAllCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) CreateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.newID()
	stored := *c
	m.categories[c.ID] = &stored
	return nil
}

func (m *memStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *c
	m.categories[c.ID] = &stored
	return nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.categories, id)
	for _, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
	return nil
}

func (m *memStore) GetSettings(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) SaveSettings(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for k, v := range values {
		m.settings[k] = v
	}
	return nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu      sync.Mutex
	placed  []*models.OrderPlacedEvent
	updated []*models.OrderUpdatedEvent
	chat    []*models.ChatMessageEvent
	err     error
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, event)
	return p.err
}

func (p *recordingPublisher) PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, event)
	return p.err
}

func (p *recordingPublisher) PublishChatMessage(ctx context.Context, event *models.ChatMessageEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chat = append(p.chat, event)
	return p.err
}

type staticFeed struct {
	items []models.Notification
	err   error
}

func (f *staticFeed) RecentNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if len(f.items) > limit {
		return f.items[:limit], f.err
	}
	return f.items, f.err
}

var errBoom = errors.New("boom")

var (
	_ CatalogStore  = (*store.Store)(nil)
	_ OrderStore    = (*store.Store)(nil)
	_ FavoriteStore = (*store.Store)(nil)
	_ ChatStore     = (*store.Store)(nil)
	_ AuthStore     = (*store.Store)(nil)
	_ AdminStore    = (*store.Store)(nil)

	_ CatalogStore  = (*memStore)(nil)
	_ OrderStore    = (*memStore)(nil)
	_ FavoriteStore = (*memStore)(nil)
	_ ChatStore     = (*memStore)(nil)
	_ AuthStore     = (*memStore)(nil)
	_ AdminStore    = (*memStore)(nil)
)
