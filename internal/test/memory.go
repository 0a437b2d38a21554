package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

// MemoryStore is an in-memory repository.Backend. Transactions hold the store
// lock and restore a snapshot when fn fails.
type MemoryStore struct {
	mu sync.Mutex

	users    map[int64]*model.User
	products map[int64]*model.Product
	orders   map[int64]*model.Order
	items    map[int64][]model.OrderItem
	garages  map[int64]*model.Garage
	packages map[int64]*model.Package
	licenses map[int64]*model.License
	nextID   int64

	// Fault injection, evaluated with the store lock held.
	InsertOrderFn    func(order *model.Order) error
	InsertItemFn     func(item *model.OrderItem) error
	NumberExistsFn   func(number string) bool
	SetInvoiceErr    error
	HealthErr        error
	TransactionStart func()

	Commits   int
	Rollbacks int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]*model.User),
		products: make(map[int64]*model.Product),
		orders:   make(map[int64]*model.Order),
		items:    make(map[int64][]model.OrderItem),
		garages:  make(map[int64]*model.Garage),
		packages: make(map[int64]*model.Package),
		licenses: make(map[int64]*model.License),
	}
}

var _ repository.Backend = (*MemoryStore)(nil)

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

// AddProduct stores p and returns it with an ID assigned.
func (s *MemoryStore) AddProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = &p
	return p
}

// AddUser stores u and returns it with an ID assigned.
func (s *MemoryStore) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = &u
	return u
}

// AddGarage stores g and returns it with an ID assigned.
func (s *MemoryStore) AddGarage(g model.Garage) model.Garage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.id()
	}
	s.garages[g.ID] = &g
	return g
}

// AddPackage stores p and returns it with an ID assigned.
func (s *MemoryStore) AddPackage(p model.Package) model.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.packages[p.ID] = &p
	return p
}

// AddOrder stores o with its items as a committed order.
func (s *MemoryStore) AddOrder(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	items := make([]model.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.OrderID = o.ID
		if item.ID == 0 {
			item.ID = s.id()
		}
		items[i] = item
	}
	s.items[o.ID] = items
	o.Items = nil
	s.orders[o.ID] = &o
	o.Items = items
	return o
}

// AddLicense stores l and returns it with an ID assigned.
func (s *MemoryStore) AddLicense(l model.License) model.License {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.licenses[l.ID] = &l
	return l
}

// Product returns a copy of the stored product.
func (s *MemoryStore) Product(id int64) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return model.Product{}, false
	}
	return *p, true
}

// OrderCount returns the number of committed orders, deleted included.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// ItemCount returns the number of committed order items.
func (s *MemoryStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, items := range s.items {
		n += len(items)
	}
	return n
}

// HasOrder reports whether an order with number is committed.
func (s *MemoryStore) HasOrder(number string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.Number == number {
			return true
		}
	}
	return false
}

// StoredOrder returns a copy of a committed order without relations.
func (s *MemoryStore) StoredOrder(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

func (s *MemoryStore) Users() repository.UserRepository       { return memUsers{s} }
func (s *MemoryStore) Products() repository.ProductRepository { return memProducts{s} }
func (s *MemoryStore) Orders() repository.OrderRepository     { return memOrders{s} }
func (s *MemoryStore) Garages() repository.GarageRepository   { return memGarages{s} }
func (s *MemoryStore) Packages() repository.PackageRepository { return memPackages{s} }
func (s *MemoryStore) Licenses() repository.LicenseRepository { return memLicenses{s} }

func (s *MemoryStore) HealthCheck(ctx context.Context) error { return s.HealthErr }
func (s *MemoryStore) Close()                                {}

// WithinTransaction runs fn under the store lock and restores the previous
// state when fn fails.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	if s.TransactionStart != nil {
		s.TransactionStart()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(memTx{s}); err != nil {
		s.restore(snap)
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

type memSnapshot struct {
	products map[int64]model.Product
	orders   map[int64]model.Order
	items    map[int64][]model.OrderItem
	nextID   int64
}

func (s *MemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products: make(map[int64]model.Product, len(s.products)),
		orders:   make(map[int64]model.Order, len(s.orders)),
		items:    make(map[int64][]model.OrderItem, len(s.items)),
		nextID:   s.nextID,
	}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	for id, o := range s.orders {
		snap.orders[id] = *o
	}
	for id, items := range s.items {
		snap.items[id] = append([]model.OrderItem(nil), items...)
	}
	return snap
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.products = make(map[int64]*model.Product, len(snap.products))
	for id, p := range snap.products {
		p := p
		s.products[id] = &p
	}
	s.orders = make(map[int64]*model.Order, len(snap.orders))
	for id, o := range snap.orders {
		o := o
		s.orders[id] = &o
	}
	s.items = snap.items
	s.nextID = snap.nextID
}

func (s *MemoryStore) loadOrder(id int64) (*model.Order, error) {
	o, ok := s.orders[id]
	if !ok || o.DeletedAt != nil {
		return nil, domainErrors.ErrNotFound
	}
	out := *o
	out.Items = append([]model.OrderItem(nil), s.items[id]...)
	return &out, nil
}

type memTx struct{ s *MemoryStore }

func (t memTx) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	if t.s.NumberExistsFn != nil && t.s.NumberExistsFn(number) {
		return true, nil
	}
	for _, o := range t.s.orders {
		if o.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (t memTx) InsertOrder(ctx context.Context, order *model.Order) error {
	if t.s.InsertOrderFn != nil {
		if err := t.s.InsertOrderFn(order); err != nil {
			return err
		}
	}
	for _, o := range t.s.orders {
		if o.Number == order.Number {
			return domainErrors.ErrAlreadyExists
		}
	}
	order.ID = t.s.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Items, stored.User, stored.Garage = nil, nil, nil
	t.s.orders[order.ID] = &stored
	return nil
}

func (t memTx) InsertOrderItem(ctx context.Context, item *model.OrderItem) error {
	if t.s.InsertItemFn != nil {
		if err := t.s.InsertItemFn(item); err != nil {
			return err
		}
	}
	item.ID = t.s.id()
	t.s.items[item.OrderID] = append(t.s.items[item.OrderID], *item)
	return nil
}

func (t memTx) DecrementStock(ctx context.Context, productID int64, quantity int) (int, error) {
	p, ok := t.s.products[productID]
	if !ok || !p.Available(quantity) {
		return 0, domainErrors.ErrProductUnavailable
	}
	p.StockQuantity -= quantity
	p.InStock = p.StockQuantity > 0
	return p.StockQuantity, nil
}

func (t memTx) LockOrder(ctx context.Context, id int64) (*model.Order, error) {
	return t.s.loadOrder(id)
}

func (t memTx) SaveOrderStatus(ctx context.Context, order *model.Order) error {
	o, ok := t.s.orders[order.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Status = order.Status
	o.Tracking = order.Tracking
	o.UpdatedAt = time.Now()
	return nil
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(ctx context.Context, user model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = &user
	out := user
	return &out, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r memUsers) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memProducts struct{ s *MemoryStore }

func (r memProducts) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, domainErrors.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r memProducts) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.DeletedAt != nil {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) IncreaseStock(ctx context.Context, id int64, quantity int) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, domainErrors.ErrNotFound
	}
	p.StockQuantity += quantity
	p.InStock = true
	out := *p
	return &out, nil
}

type memOrders struct{ s *MemoryStore }

func (r memOrders) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadOrder(id)
}

func (r memOrders) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for id, o := range r.s.orders {
		if o.DeletedAt != nil {
			continue
		}
		if filter.UserID != nil && (o.UserID == nil || *o.UserID != *filter.UserID) {
			continue
		}
		if filter.GuestEmail != "" && !strings.EqualFold(o.GuestEmail, filter.GuestEmail) {
			continue
		}
		order := *o
		order.Items = append([]model.OrderItem(nil), r.s.items[id]...)
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memOrders) FindForTracking(ctx context.Context, number, email string) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.orders {
		if o.DeletedAt != nil || o.Number != number {
			continue
		}
		matches := strings.EqualFold(o.Address.Email, email) || strings.EqualFold(o.GuestEmail, email)
		if !matches && o.UserID != nil {
			if u, ok := r.s.users[*o.UserID]; ok && strings.EqualFold(u.Email, email) {
				matches = true
			}
		}
		if matches {
			return r.s.loadOrder(id)
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memOrders) SetInvoice(ctx context.Context, id int64, url, qr string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SetInvoiceErr != nil {
		return r.s.SetInvoiceErr
	}
	o, ok := r.s.orders[id]
	if !ok || o.DeletedAt != nil {
		return domainErrors.ErrNotFound
	}
	o.InvoiceURL = url
	o.InvoiceQR = qr
	return nil
}

func (r memOrders) SoftDelete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.DeletedAt != nil {
		return domainErrors.ErrNotFound
	}
	now := time.Now()
	o.DeletedAt = &now
	return nil
}

type memGarages struct{ s *MemoryStore }

func (r memGarages) GetByID(ctx context.Context, id int64) (*model.Garage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.garages[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *g
	return &out, nil
}

func (r memGarages) ListActive(ctx context.Context, county string) ([]model.Garage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Garage
	for _, g := range r.s.garages {
		if !g.IsActive || (county != "" && !strings.EqualFold(g.County, county)) {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating.GreaterThan(out[j].Rating) })
	return out, nil
}

type memPackages struct{ s *MemoryStore }

func (r memPackages) GetByID(ctx context.Context, id int64) (*model.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.packages[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r memPackages) ListActive(ctx context.Context) ([]model.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Package
	for _, p := range r.s.packages {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

type memLicenses struct{ s *MemoryStore }

func (r memLicenses) Create(ctx context.Context, license model.License) (*model.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.licenses {
		if l.LicenseKey == license.LicenseKey || strings.EqualFold(l.VehicleRegistration, license.VehicleRegistration) {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	license.ID = r.s.id()
	license.CreatedAt = time.Now()
	r.s.licenses[license.ID] = &license
	out := license
	return &out, nil
}

func (r memLicenses) GetByID(ctx context.Context, id int64) (*model.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.licenses[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *l
	return &out, nil
}

func (r memLicenses) GetByVehicle(ctx context.Context, registration string) (*model.License, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.licenses {
		if strings.EqualFold(l.VehicleRegistration, registration) {
			out := *l
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memLicenses) UpdateTerm(ctx context.Context, license *model.License) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.licenses[license.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	l.ExpiryDate = license.ExpiryDate
	l.Status = license.Status
	return nil
}
