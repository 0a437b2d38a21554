package test

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	key := strings.ToLower(user.Email)
	if _, exists := s.Users[key]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	stored := &user
	s.Users[key] = stored
	s.ByID[stored.ID] = stored
	return stored, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByRole returns stored users holding role.
func (s *UserRepositoryStub) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.User
	for id := int64(1); id < s.Next; id++ {
		if user, ok := s.ByID[id]; ok && user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

// InvoiceIssuerStub records Issue calls.
type InvoiceIssuerStub struct {
	IssueFn func(context.Context, *model.Order) error
	Issued  []string
}

// Issue records the order number and delegates to IssueFn.
func (s *InvoiceIssuerStub) Issue(ctx context.Context, order *model.Order) error {
	s.Issued = append(s.Issued, order.Number)
	if s.IssueFn != nil {
		return s.IssueFn(ctx, order)
	}
	order.InvoiceURL = "/files/invoices/" + order.Number + ".html"
	return nil
}

// StatusChange records one StatusChanged call.
type StatusChange struct {
	OrderNumber string
	Previous    model.OrderStatus
	Current     model.OrderStatus
}

// NotifierStub records post-commit notifications.
type NotifierStub struct {
	Placed  []string
	Changes []StatusChange
	// Committed is evaluated on each call so tests can assert the write was visible.
	Committed func(order *model.Order) bool
	Violations int
}

// OrderPlaced records the order number.
func (s *NotifierStub) OrderPlaced(ctx context.Context, order *model.Order) {
	if s.Committed != nil && !s.Committed(order) {
		s.Violations++
	}
	s.Placed = append(s.Placed, order.Number)
}

// StatusChanged records the transition.
func (s *NotifierStub) StatusChanged(ctx context.Context, order *model.Order, previous, current model.OrderStatus) {
	if s.Committed != nil && !s.Committed(order) {
		s.Violations++
	}
	s.Changes = append(s.Changes, StatusChange{OrderNumber: order.Number, Previous: previous, Current: current})
}

// InvoiceRendererStub keeps rendered documents in memory.
type InvoiceRendererStub struct {
	RenderFn func(context.Context, model.InvoiceSnapshot) (*model.InvoiceDocument, error)
	Files    map[string]*model.InvoiceDocument
	Rendered []model.InvoiceSnapshot
	Removed  []string
	seq      int
}

// Render stores a document named after the snapshot and a sequence number.
func (s *InvoiceRendererStub) Render(ctx context.Context, snapshot model.InvoiceSnapshot) (*model.InvoiceDocument, error) {
	s.Rendered = append(s.Rendered, snapshot)
	if s.RenderFn != nil {
		return s.RenderFn(ctx, snapshot)
	}
	if s.Files == nil {
		s.Files = make(map[string]*model.InvoiceDocument)
	}
	s.seq++
	name := fmt.Sprintf("%s-%d.html", snapshot.OrderNumber, s.seq)
	doc := &model.InvoiceDocument{
		URL:       "/files/invoices/" + name,
		QRPayload: "/orders/" + snapshot.OrderNumber,
		Path:      "/tmp/" + name,
		Filename:  name,
	}
	s.Files[doc.URL] = doc
	return doc, nil
}

// Locate returns a stored document.
func (s *InvoiceRendererStub) Locate(url string) (*model.InvoiceDocument, bool) {
	doc, ok := s.Files[url]
	return doc, ok
}

// Remove forgets a stored document.
func (s *InvoiceRendererStub) Remove(url string) error {
	s.Removed = append(s.Removed, url)
	delete(s.Files, url)
	return nil
}
