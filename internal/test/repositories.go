package test

import (
	"context"
	"time"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
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

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
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

// TransitionCall records one status change request.
type TransitionCall struct {
	Params repository.TransitionParams
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order) error
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	ListByBuyerFn  func(context.Context, int64, repository.Page) ([]model.Order, int, error)
	ListBySellerFn func(context.Context, int64, repository.Page) ([]model.Order, int, error)
	ListAllFn      func(context.Context, repository.Page) ([]model.Order, int, error)
	TransitionFn   func(context.Context, repository.TransitionParams) error
	ListExpiredFn  func(context.Context, time.Time, int) ([]model.Order, error)

	Created     []*model.Order
	Orders      []model.Order
	Expired     []model.Order
	Transitions []TransitionCall
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	s.Created = append(s.Created, order)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	return nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByBuyer returns orders from configured slice.
func (s *OrderRepositoryStub) ListByBuyer(ctx context.Context, buyerID int64, page repository.Page) ([]model.Order, int, error) {
	if s.ListByBuyerFn != nil {
		return s.ListByBuyerFn(ctx, buyerID, page)
	}
	return s.Orders, len(s.Orders), nil
}

// ListBySeller returns orders from configured slice.
func (s *OrderRepositoryStub) ListBySeller(ctx context.Context, sellerID int64, page repository.Page) ([]model.Order, int, error) {
	if s.ListBySellerFn != nil {
		return s.ListBySellerFn(ctx, sellerID, page)
	}
	return s.Orders, len(s.Orders), nil
}

// ListAll returns orders from configured slice.
func (s *OrderRepositoryStub) ListAll(ctx context.Context, page repository.Page) ([]model.Order, int, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx, page)
	}
	return s.Orders, len(s.Orders), nil
}

// Transition records the call and applies the change to the stored order.
func (s *OrderRepositoryStub) Transition(ctx context.Context, params repository.TransitionParams) error {
	s.Transitions = append(s.Transitions, TransitionCall{Params: params})
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, params)
	}
	for i := range s.Orders {
		if s.Orders[i].ID != params.OrderID {
			continue
		}
		if s.Orders[i].Version != params.FromVersion {
			return domainErrors.ErrConflict
		}
		s.Orders[i].Status = params.To
		s.Orders[i].Version++
		if params.PaymentRef != "" {
			s.Orders[i].PaymentRef = params.PaymentRef
		}
		return nil
	}
	return domainErrors.ErrNotFound
}

// ListExpired returns orders configured as past their payment deadline.
func (s *OrderRepositoryStub) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	if s.ListExpiredFn != nil {
		return s.ListExpiredFn(ctx, now, limit)
	}
	if limit > 0 && len(s.Expired) > limit {
		return s.Expired[:limit], nil
	}
	return s.Expired, nil
}

// ReservationRepositoryStub records stock hold operations.
type ReservationRepositoryStub struct {
	ReserveFn     func(context.Context, string, []model.LineItem) error
	CommitFn      func(context.Context, string) error
	ReleaseFn     func(context.Context, string) error
	ListByOrderFn func(context.Context, string) ([]model.Reservation, error)

	Reserved  []string
	Committed []string
	Released  []string
	Items     []model.Reservation
}

// Reserve records the order id and applies the configured override.
func (s *ReservationRepositoryStub) Reserve(ctx context.Context, orderID string, items []model.LineItem) error {
	s.Reserved = append(s.Reserved, orderID)
	if s.ReserveFn != nil {
		return s.ReserveFn(ctx, orderID, items)
	}
	return nil
}

// Commit records the order id and applies the configured override.
func (s *ReservationRepositoryStub) Commit(ctx context.Context, orderID string) error {
	s.Committed = append(s.Committed, orderID)
	if s.CommitFn != nil {
		return s.CommitFn(ctx, orderID)
	}
	return nil
}

// Release records the order id and applies the configured override.
func (s *ReservationRepositoryStub) Release(ctx context.Context, orderID string) error {
	s.Released = append(s.Released, orderID)
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, orderID)
	}
	return nil
}

// ListByOrder returns the configured reservations.
func (s *ReservationRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.Reservation, error) {
	if s.ListByOrderFn != nil {
		return s.ListByOrderFn(ctx, orderID)
	}
	return s.Items, nil
}

// PaymentRepositoryStub records gateway attempt bookkeeping.
type PaymentRepositoryStub struct {
	CreateAttemptFn func(context.Context, *model.PaymentAttempt) error
	MarkVerifiedFn  func(context.Context, string, string, string) error
	MarkFailedFn    func(context.Context, string, string, string) error
	ListByOrderFn   func(context.Context, string) ([]model.PaymentAttempt, error)

	Attempts []model.PaymentAttempt
	Verified []string
	Failed   []string
}

// CreateAttempt stores the attempt.
func (s *PaymentRepositoryStub) CreateAttempt(ctx context.Context, attempt *model.PaymentAttempt) error {
	if s.CreateAttemptFn != nil {
		return s.CreateAttemptFn(ctx, attempt)
	}
	s.Attempts = append(s.Attempts, *attempt)
	return nil
}

// MarkVerified records the verified attempt id.
func (s *PaymentRepositoryStub) MarkVerified(ctx context.Context, attemptID, paymentID, signature string) error {
	if s.MarkVerifiedFn != nil {
		return s.MarkVerifiedFn(ctx, attemptID, paymentID, signature)
	}
	s.Verified = append(s.Verified, attemptID)
	for i := range s.Attempts {
		if s.Attempts[i].ID == attemptID {
			s.Attempts[i].Status = model.PaymentAttemptVerified
			s.Attempts[i].PaymentID = paymentID
			s.Attempts[i].Signature = signature
		}
	}
	return nil
}

// MarkFailed records the failed attempt id.
func (s *PaymentRepositoryStub) MarkFailed(ctx context.Context, attemptID, paymentID, signature string) error {
	if s.MarkFailedFn != nil {
		return s.MarkFailedFn(ctx, attemptID, paymentID, signature)
	}
	s.Failed = append(s.Failed, attemptID)
	for i := range s.Attempts {
		if s.Attempts[i].ID == attemptID {
			s.Attempts[i].Status = model.PaymentAttemptFailed
		}
	}
	return nil
}

// ListByOrder returns attempts for the order.
func (s *PaymentRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.PaymentAttempt, error) {
	if s.ListByOrderFn != nil {
		return s.ListByOrderFn(ctx, orderID)
	}
	out := make([]model.PaymentAttempt, 0, len(s.Attempts))
	for _, a := range s.Attempts {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ProductRepositoryStub serves catalog entries from memory.
type ProductRepositoryStub struct {
	CreateFn   func(context.Context, *model.Product) error
	GetByIDFn  func(context.Context, string) (*model.Product, error)
	GetBatchFn func(context.Context, []string) ([]model.Product, error)
	ListFn     func(context.Context, repository.Page) ([]model.Product, int, error)

	Products []model.Product
}

// Create stores the product.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	s.Products = append(s.Products, *product)
	return nil
}

// GetByID fetches a stored product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetBatch returns the stored products matching the requested ids.
func (s *ProductRepositoryStub) GetBatch(ctx context.Context, ids []string) ([]model.Product, error) {
	if s.GetBatchFn != nil {
		return s.GetBatchFn(ctx, ids)
	}
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range s.Products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// List returns all stored products.
func (s *ProductRepositoryStub) List(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, page)
	}
	return s.Products, len(s.Products), nil
}

// CartRepositoryStub keeps per-user carts in memory.
type CartRepositoryStub struct {
	GetFn     func(context.Context, int64) ([]model.CartItem, error)
	ReplaceFn func(context.Context, int64, []model.CartItem) error
	ClearFn   func(context.Context, int64) error

	Carts   map[int64][]model.CartItem
	Cleared []int64
}

// Get returns the stored cart.
func (s *CartRepositoryStub) Get(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID)
	}
	return s.Carts[userID], nil
}

// Replace overwrites the stored cart.
func (s *CartRepositoryStub) Replace(ctx context.Context, userID int64, items []model.CartItem) error {
	if s.ReplaceFn != nil {
		return s.ReplaceFn(ctx, userID, items)
	}
	if s.Carts == nil {
		s.Carts = make(map[int64][]model.CartItem)
	}
	s.Carts[userID] = items
	return nil
}

// Clear empties the stored cart and records the call.
func (s *CartRepositoryStub) Clear(ctx context.Context, userID int64) error {
	s.Cleared = append(s.Cleared, userID)
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	delete(s.Carts, userID)
	return nil
}
