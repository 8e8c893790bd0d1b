package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/clients"
	"github.com/framekart/framekart-store-service/internal/models"
)

// In-memory repository fakes. The inventory fake mirrors the conditional
// decrement contract of the real implementation so concurrency behavior can
// be exercised without a database.

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[string]models.Role
	err   error
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]models.Role)}
}

func (f *fakeRoleRepo) GetRole(ctx context.Context, userID string) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return role, nil
}

func (f *fakeRoleRepo) Upsert(ctx context.Context, userID string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.roles[userID] = role
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*models.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (f *fakeProductRepo) add(p *models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) ListActive(ctx context.Context, limit, offset int) ([]*models.Product, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Product
	for _, p := range f.products {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeProductRepo) Create(ctx context.Context, in *models.ProductInput) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := &models.Product{
		ID:            "prod_" + strconv.Itoa(f.nextID),
		Name:          in.Name,
		Brand:         in.Brand,
		SKU:           in.SKU,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		StockQuantity: in.StockQuantity,
		IsActive:      in.IsActive,
		Gender:        in.Gender,
		Shape:         in.Shape,
		Images:        in.Images,
		Features:      in.Features,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id string, in *models.ProductInput) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.Name = in.Name
	p.Brand = in.Brand
	p.SKU = in.SKU
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.IsActive = in.IsActive
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.IsActive = active
	return nil
}

type fakeInventoryRepo struct {
	mu       sync.Mutex
	products *fakeProductRepo
}

func newFakeInventoryRepo(products *fakeProductRepo) *fakeInventoryRepo {
	return &fakeInventoryRepo{products: products}
}

func (f *fakeInventoryRepo) Reserve(ctx context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()
	p, ok := f.products.products[productID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if p.StockQuantity < quantity {
		return apperrors.ErrStockConflict
	}
	p.StockQuantity -= quantity
	return nil
}

func (f *fakeInventoryRepo) Release(ctx context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()
	p, ok := f.products.products[productID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.StockQuantity += quantity
	return nil
}

func (f *fakeInventoryRepo) SetStock(ctx context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products.mu.Lock()
	defer f.products.mu.Unlock()
	p, ok := f.products.products[productID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.StockQuantity = quantity
	return nil
}

type fakeCartRepo struct {
	mu       sync.Mutex
	lines    map[string]map[string]int // userID -> productID -> quantity
	products *fakeProductRepo
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{
		lines:    make(map[string]map[string]int),
		products: products,
	}
}

func (f *fakeCartRepo) GetItems(ctx context.Context, userID string) ([]*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []*models.CartItem
	for productID, qty := range f.lines[userID] {
		p, err := f.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		items = append(items, &models.CartItem{
			CartLine: models.CartLine{
				UserID:    userID,
				ProductID: productID,
				Quantity:  qty,
			},
			ProductName:   p.Name,
			UnitPrice:     p.Price,
			StockQuantity: p.StockQuantity,
			IsActive:      p.IsActive,
		})
	}
	return items, nil
}

func (f *fakeCartRepo) GetLine(ctx context.Context, userID, productID string) (*models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.lines[userID][productID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}, nil
}

func (f *fakeCartRepo) UpsertLine(ctx context.Context, userID, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lines[userID] == nil {
		f.lines[userID] = make(map[string]int)
	}
	f.lines[userID][productID] = quantity
	return nil
}

func (f *fakeCartRepo) RemoveLine(ctx context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines[userID], productID)
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, userID)
	return nil
}

func (f *fakeCartRepo) Totals(ctx context.Context, userID string) (*models.CartTotals, error) {
	items, err := f.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := &models.CartTotals{Subtotal: decimal.Zero}
	for _, item := range items {
		totals.ItemCount += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(item.LineTotal())
	}
	return totals, nil
}

// fakeOrderRepo replays the placement transaction's semantics in memory:
// re-read the cart, pre-check stock, reserve per line, snapshot prices,
// clear the cart. Any reservation failure rolls back the already-taken
// lines, matching the real transaction's rollback.
type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	cart      *fakeCartRepo
	inventory *fakeInventoryRepo
	seq       int
}

func newFakeOrderRepo(cart *fakeCartRepo, inventory *fakeInventoryRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:    make(map[string]*models.Order),
		cart:      cart,
		inventory: inventory,
	}
}

func (f *fakeOrderRepo) Place(ctx context.Context, req *models.PlaceOrderRequest, shippingCost decimal.Decimal) (*models.Order, error) {
	items, err := f.cart.GetItems(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	for _, item := range items {
		if !item.IsActive || item.Quantity > item.StockQuantity {
			return nil, apperrors.ErrOutOfStock
		}
	}

	var reserved []*models.CartItem
	for _, item := range items {
		if err := f.inventory.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			for _, r := range reserved {
				f.inventory.Release(ctx, r.ProductID, r.Quantity)
			}
			return nil, err
		}
		reserved = append(reserved, item)
	}

	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.mu.Unlock()

	paymentStatus := models.PaymentStatusPending
	if req.PaymentMethod == models.PaymentMethodCashOnDelivery {
		paymentStatus = models.PaymentStatusConfirmed
	}

	order := &models.Order{
		ID:               fmt.Sprintf("order_%d", seq),
		OrderNumber:      fmt.Sprintf("ORD-%08d", seq),
		UserID:           req.UserID,
		Status:           models.OrderStatusPending,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		PaymentStatus:    paymentStatus,
		ShippingAddress:  req.ShippingAddress,
		ShippingCost:     shippingCost,
		Notes:            req.Notes,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	for _, item := range items {
		order.Lines = append(order.Lines, models.OrderLine{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		})
	}
	order.CalculateTotal()

	if err := f.cart.Clear(ctx, req.UserID); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.orders[order.ID] = order
	f.mu.Unlock()
	return order, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Order
	for _, order := range f.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		cp := *order
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) Transition(ctx context.Context, id string, to models.OrderStatus, notes string) (*models.Order, models.OrderStatus, error) {
	f.mu.Lock()
	order, ok := f.orders[id]
	if !ok {
		f.mu.Unlock()
		return nil, "", apperrors.ErrNotFound
	}
	previous := order.Status
	if !models.CanTransition(previous, to) {
		f.mu.Unlock()
		return nil, "", apperrors.ErrInvalidTransition
	}
	order.Status = to
	if notes != "" {
		order.Notes = notes
	}
	order.UpdatedAt = time.Now()
	cp := *order
	f.mu.Unlock()

	if to == models.OrderStatusCancelled {
		for _, line := range cp.Lines {
			f.inventory.Release(ctx, line.ProductID, line.Quantity)
		}
	}
	return &cp, previous, nil
}

func (f *fakeOrderRepo) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	order.PaymentStatus = status
	return nil
}

type fakeCache struct {
	mu                  sync.Mutex
	products            map[string]*models.Product
	orders              map[string]*models.Order
	invalidatedProducts []string
	invalidatedOrders   []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		products: make(map[string]*models.Product),
		orders:   make(map[string]*models.Order),
	}
}

func (f *fakeCache) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id], nil
}

func (f *fakeCache) SetProduct(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[product.ID] = product
	return nil
}

func (f *fakeCache) InvalidateProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	f.invalidatedProducts = append(f.invalidatedProducts, id)
	return nil
}

func (f *fakeCache) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id], nil
}

func (f *fakeCache) SetOrder(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeCache) InvalidateOrder(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	f.invalidatedOrders = append(f.invalidatedOrders, id)
	return nil
}

type publishedEvent struct {
	kind    string
	orderID string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{kind: "placed", orderID: order.ID})
	return nil
}

func (f *fakePublisher) PublishOrderStatusChanged(ctx context.Context, order *models.Order, previousStatus models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{kind: "status_changed", orderID: order.ID})
	return nil
}

func (f *fakePublisher) PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{kind: "cancelled", orderID: order.ID})
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*clients.Notification
}

func (f *fakeNotifier) Send(ctx context.Context, n *clients.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}
