package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrSameStore           = errors.New("source and destination store must differ")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("quantity exceeds available stock")
	ErrAlreadyResolved     = errors.New("transfer is no longer pending")
	ErrNotAddressed        = errors.New("transfer is not addressed to your store")
	ErrNoSession           = errors.New("no active session")
)

type API interface {
	CreateTransfer(ctx context.Context, token string, tr *domain.TransferRequest) (*domain.TransferRequest, error)
	GetTransfer(ctx context.Context, token string, id int64) (*domain.TransferRequest, error)
	UpdateTransfer(ctx context.Context, token string, tr *domain.TransferRequest) (*domain.TransferRequest, error)
	RejectTransfer(ctx context.Context, token string, id int64) error
	PendingTransfers(ctx context.Context, token string, storeID int64) ([]domain.TransferRequest, error)
	TransferHistory(ctx context.Context, token string, storeID int64) ([]domain.TransferRequest, error)
}

// Stock answers how many units of a product a store is known to hold.
type Stock interface {
	Available(ctx context.Context, token string, storeID, productID int64) (int, error)
	Forget(storeID, productID int64)
}

type Payload struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	FromStore int64  `json:"fromStore" validate:"required,gt=0"`
	ToStore   int64  `json:"toStore" validate:"required,gt=0,nefield=FromStore"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes" validate:"max=500"`
}

// Check enforces the invariants that need no I/O.
func (p *Payload) Check() error {
	if p.FromStore == p.ToStore {
		return ErrSameStore
	}
	if p.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	return nil
}

type Service struct {
	api    API
	stock  Stock
	logger *zap.Logger
}

func NewService(api API, stock Stock, logger *zap.Logger) *Service {
	return &Service{api: api, stock: stock, logger: logger}
}

// Create submits a new REQUESTED transfer on behalf of the session user. The
// stock check uses the last known snapshot of the source store and may be stale.
func (s *Service) Create(ctx context.Context, sess *domain.Session, p Payload) (*domain.TransferRequest, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	if err := p.Check(); err != nil {
		return nil, err
	}

	available, err := s.stock.Available(ctx, sess.Token, p.FromStore, p.ProductID)
	if err != nil {
		return nil, fmt.Errorf("read stock of store %d: %w", p.FromStore, err)
	}
	if p.Quantity > available {
		return nil, fmt.Errorf("%w: requested %d, %d available", ErrInsufficientStock, p.Quantity, available)
	}

	tr := &domain.TransferRequest{
		Product:     domain.ProductRef{ProductID: p.ProductID},
		FromStore:   domain.StoreRef{StoreID: p.FromStore},
		ToStore:     domain.StoreRef{StoreID: p.ToStore},
		Quantity:    p.Quantity,
		Notes:       p.Notes,
		Status:      domain.TransferRequested,
		RequestedBy: &domain.UserRef{Username: sess.User.Username},
	}

	created, err := s.api.CreateTransfer(ctx, sess.Token, tr)
	if err != nil {
		return nil, err
	}
	if created.TransferID == 0 {
		created = tr
	}

	s.logger.Info("transfer requested",
		zap.Int64("transferId", created.TransferID),
		zap.Int64("productId", p.ProductID),
		zap.Int64("fromStore", p.FromStore),
		zap.Int64("toStore", p.ToStore),
		zap.Int("quantity", p.Quantity),
		zap.String("by", sess.User.Username))
	return created, nil
}

// Accept reads the record, marks it COMPLETED and writes the whole record
// back. Two approvers racing on one record both succeed; the last write wins.
func (s *Service) Accept(ctx context.Context, sess *domain.Session, id int64) (*domain.TransferRequest, error) {
	if sess == nil {
		return nil, ErrNoSession
	}

	tr, err := s.resolvable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	tr.Status = domain.TransferCompleted
	tr.ApprovedBy = &domain.UserRef{Username: sess.User.Username}

	updated, err := s.api.UpdateTransfer(ctx, sess.Token, tr)
	if err != nil {
		return nil, err
	}
	if updated.TransferID == 0 {
		updated = tr
	}

	s.stock.Forget(tr.FromStore.StoreID, tr.Product.ProductID)
	s.stock.Forget(tr.ToStore.StoreID, tr.Product.ProductID)

	s.logger.Info("transfer accepted", zap.Int64("transferId", id), zap.String("by", sess.User.Username))
	return updated, nil
}

// Reject checks the record like Accept does, then issues the bare reject
// call. The returned record carries the new status.
func (s *Service) Reject(ctx context.Context, sess *domain.Session, id int64) (*domain.TransferRequest, error) {
	if sess == nil {
		return nil, ErrNoSession
	}

	tr, err := s.resolvable(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := s.api.RejectTransfer(ctx, sess.Token, id); err != nil {
		return nil, err
	}
	tr.Status = domain.TransferRejected

	s.logger.Info("transfer rejected", zap.Int64("transferId", id), zap.String("by", sess.User.Username))
	return tr, nil
}

// resolvable fetches a transfer that the session may still accept or reject:
// it must be pending and addressed to the user's store. Admins resolve any store.
func (s *Service) resolvable(ctx context.Context, sess *domain.Session, id int64) (*domain.TransferRequest, error) {
	tr, err := s.api.GetTransfer(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	if tr.Status.Terminal() {
		return nil, fmt.Errorf("%w: transfer %d is %s", ErrAlreadyResolved, id, tr.Status)
	}
	if !sess.User.Role.AtLeast(domain.RoleAdmin) && tr.ToStore.StoreID != sess.User.StoreID {
		return nil, fmt.Errorf("%w: transfer %d goes to store %d", ErrNotAddressed, id, tr.ToStore.StoreID)
	}
	if tr.TransferID == 0 {
		tr.TransferID = id
	}
	return tr, nil
}

// Get performs no state change.
func (s *Service) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.TransferRequest, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	return s.api.GetTransfer(ctx, sess.Token, id)
}

func (s *Service) Pending(ctx context.Context, sess *domain.Session, storeID int64) ([]domain.TransferRequest, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	return s.api.PendingTransfers(ctx, sess.Token, storeID)
}

func (s *Service) History(ctx context.Context, sess *domain.Session, storeID int64) ([]domain.TransferRequest, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	return s.api.TransferHistory(ctx, sess.Token, storeID)
}

func CountByStatus(transfers []domain.TransferRequest) map[domain.TransferStatus]int {
	counts := map[domain.TransferStatus]int{
		domain.TransferRequested: 0,
		domain.TransferCompleted: 0,
		domain.TransferRejected:  0,
	}
	for _, tr := range transfers {
		counts[tr.Status]++
	}
	return counts
}
