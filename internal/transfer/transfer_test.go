package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"go.uber.org/zap"
)

type fakeAPI struct {
	calls    []string
	record   *domain.TransferRequest
	created  *domain.TransferRequest
	updated  *domain.TransferRequest
	err      error
	history  []domain.TransferRequest
	lastSent *domain.TransferRequest
}

func (f *fakeAPI) CreateTransfer(_ context.Context, _ string, tr *domain.TransferRequest) (*domain.TransferRequest, error) {
	f.calls = append(f.calls, "create")
	f.lastSent = tr
	if f.err != nil {
		return nil, f.err
	}
	if f.created != nil {
		return f.created, nil
	}
	return &domain.TransferRequest{}, nil
}

func (f *fakeAPI) GetTransfer(_ context.Context, _ string, id int64) (*domain.TransferRequest, error) {
	f.calls = append(f.calls, "get")
	if f.record == nil {
		return nil, errors.New("not found")
	}
	copied := *f.record
	return &copied, nil
}

func (f *fakeAPI) UpdateTransfer(_ context.Context, _ string, tr *domain.TransferRequest) (*domain.TransferRequest, error) {
	f.calls = append(f.calls, "update")
	f.lastSent = tr
	if f.err != nil {
		return nil, f.err
	}
	if f.updated != nil {
		return f.updated, nil
	}
	return &domain.TransferRequest{}, nil
}

func (f *fakeAPI) RejectTransfer(context.Context, string, int64) error {
	f.calls = append(f.calls, "reject")
	return f.err
}

func (f *fakeAPI) PendingTransfers(context.Context, string, int64) ([]domain.TransferRequest, error) {
	f.calls = append(f.calls, "pending")
	return nil, f.err
}

func (f *fakeAPI) TransferHistory(context.Context, string, int64) ([]domain.TransferRequest, error) {
	f.calls = append(f.calls, "history")
	return f.history, f.err
}

type fakeStock struct {
	available int
	err       error
	calls     int
	forgotten [][2]int64
}

func (f *fakeStock) Available(context.Context, string, int64, int64) (int, error) {
	f.calls++
	return f.available, f.err
}

func (f *fakeStock) Forget(storeID, productID int64) {
	f.forgotten = append(f.forgotten, [2]int64{storeID, productID})
}

var manager = &domain.Session{
	Token: "tok",
	User:  domain.UserProfile{Username: "maria", Role: domain.RoleManager, StoreID: 2},
}

func TestCreateRejectsSameStoreWithoutNetwork(t *testing.T) {
	api, stock := &fakeAPI{}, &fakeStock{available: 100}
	svc := NewService(api, stock, zap.NewNop())

	_, err := svc.Create(context.Background(), manager, Payload{ProductID: 1, FromStore: 2, ToStore: 2, Quantity: 1})
	assert.ErrorIs(t, err, ErrSameStore)
	assert.Empty(t, api.calls)
	assert.Zero(t, stock.calls)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -3} {
		api, stock := &fakeAPI{}, &fakeStock{available: 100}
		svc := NewService(api, stock, zap.NewNop())

		_, err := svc.Create(context.Background(), manager, Payload{ProductID: 1, FromStore: 1, ToStore: 2, Quantity: qty})
		assert.ErrorIs(t, err, ErrNonPositiveQuantity)
		assert.Empty(t, api.calls)
		assert.Zero(t, stock.calls)
	}
}

func TestCreateRejectsInsufficientStock(t *testing.T) {
	api, stock := &fakeAPI{}, &fakeStock{available: 3}
	svc := NewService(api, stock, zap.NewNop())

	_, err := svc.Create(context.Background(), manager, Payload{ProductID: 1, FromStore: 1, ToStore: 2, Quantity: 4})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, api.calls)
}

func TestCreateStockLookupFailure(t *testing.T) {
	api, stock := &fakeAPI{}, &fakeStock{err: errors.New("down")}
	svc := NewService(api, stock, zap.NewNop())

	_, err := svc.Create(context.Background(), manager, Payload{ProductID: 1, FromStore: 1, ToStore: 2, Quantity: 1})
	assert.Error(t, err)
	assert.Empty(t, api.calls)
}

func TestCreateSubmitsRequested(t *testing.T) {
	api := &fakeAPI{created: &domain.TransferRequest{TransferID: 9, Status: domain.TransferRequested}}
	svc := NewService(api, &fakeStock{available: 3}, zap.NewNop())

	got, err := svc.Create(context.Background(), manager, Payload{ProductID: 5, FromStore: 1, ToStore: 2, Quantity: 3, Notes: "rush"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.TransferID)

	sent := api.lastSent
	require.NotNil(t, sent)
	assert.Equal(t, domain.TransferRequested, sent.Status)
	assert.Equal(t, "maria", sent.RequestedBy.Username)
	assert.Nil(t, sent.ApprovedBy)
	assert.Equal(t, int64(5), sent.Product.ProductID)
	assert.Equal(t, int64(1), sent.FromStore.StoreID)
	assert.Equal(t, int64(2), sent.ToStore.StoreID)
	assert.Equal(t, 3, sent.Quantity)
	assert.Equal(t, "rush", sent.Notes)
}

func TestAcceptReadModifyWrite(t *testing.T) {
	api := &fakeAPI{record: &domain.TransferRequest{
		TransferID:  42,
		Product:     domain.ProductRef{ProductID: 5},
		FromStore:   domain.StoreRef{StoreID: 1},
		ToStore:     domain.StoreRef{StoreID: 2},
		Quantity:    3,
		Status:      domain.TransferRequested,
		RequestedBy: &domain.UserRef{Username: "sam"},
	}}
	stock := &fakeStock{}
	svc := NewService(api, stock, zap.NewNop())

	got, err := svc.Accept(context.Background(), manager, 42)
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "update"}, api.calls)
	sent := api.lastSent
	assert.Equal(t, int64(42), sent.TransferID)
	assert.Equal(t, domain.TransferCompleted, sent.Status)
	require.NotNil(t, sent.ApprovedBy)
	assert.Equal(t, "maria", sent.ApprovedBy.Username)
	assert.Equal(t, "sam", sent.RequestedBy.Username)
	assert.Equal(t, 3, sent.Quantity)
	assert.Equal(t, domain.TransferCompleted, got.Status)
	assert.ElementsMatch(t, [][2]int64{{1, 5}, {2, 5}}, stock.forgotten)
}

func TestAcceptRefusesResolved(t *testing.T) {
	for _, status := range []domain.TransferStatus{domain.TransferCompleted, domain.TransferRejected} {
		api := &fakeAPI{record: &domain.TransferRequest{TransferID: 42, Status: status}}
		svc := NewService(api, &fakeStock{}, zap.NewNop())

		_, err := svc.Accept(context.Background(), manager, 42)
		assert.ErrorIs(t, err, ErrAlreadyResolved)
		assert.Equal(t, []string{"get"}, api.calls)
	}
}

func TestAcceptSurfacesUpdateFailure(t *testing.T) {
	api := &fakeAPI{
		record: &domain.TransferRequest{TransferID: 42, ToStore: domain.StoreRef{StoreID: 2}, Status: domain.TransferRequested},
		err:    errors.New("conflict"),
	}
	stock := &fakeStock{}
	svc := NewService(api, stock, zap.NewNop())

	_, err := svc.Accept(context.Background(), manager, 42)
	assert.EqualError(t, err, "conflict")
	assert.Empty(t, stock.forgotten)
}

func TestRejectChecksThenCallsReject(t *testing.T) {
	api := &fakeAPI{record: &domain.TransferRequest{TransferID: 42, ToStore: domain.StoreRef{StoreID: 2}, Status: domain.TransferRequested}}
	svc := NewService(api, &fakeStock{}, zap.NewNop())

	got, err := svc.Reject(context.Background(), manager, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "reject"}, api.calls)
	assert.Equal(t, domain.TransferRejected, got.Status)
}

func TestRejectRefusesResolved(t *testing.T) {
	api := &fakeAPI{record: &domain.TransferRequest{TransferID: 42, ToStore: domain.StoreRef{StoreID: 2}, Status: domain.TransferCompleted}}
	svc := NewService(api, &fakeStock{}, zap.NewNop())

	_, err := svc.Reject(context.Background(), manager, 42)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, []string{"get"}, api.calls)
}

func TestResolveOtherStoreIsRefused(t *testing.T) {
	record := &domain.TransferRequest{
		TransferID: 42,
		FromStore:  domain.StoreRef{StoreID: 2},
		ToStore:    domain.StoreRef{StoreID: 7},
		Status:     domain.TransferRequested,
	}

	api := &fakeAPI{record: record}
	svc := NewService(api, &fakeStock{}, zap.NewNop())
	_, err := svc.Accept(context.Background(), manager, 42)
	assert.ErrorIs(t, err, ErrNotAddressed)
	_, err = svc.Reject(context.Background(), manager, 42)
	assert.ErrorIs(t, err, ErrNotAddressed)
	assert.Equal(t, []string{"get", "get"}, api.calls)

	admin := &domain.Session{Token: "tok", User: domain.UserProfile{Username: "root", Role: domain.RoleAdmin, StoreID: 1}}
	api = &fakeAPI{record: record}
	svc = NewService(api, &fakeStock{}, zap.NewNop())
	_, err = svc.Accept(context.Background(), admin, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "update"}, api.calls)
}

func TestNilSession(t *testing.T) {
	svc := NewService(&fakeAPI{}, &fakeStock{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, Payload{})
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.Accept(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.Reject(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.Pending(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.History(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]domain.TransferRequest{
		{Status: domain.TransferCompleted},
		{Status: domain.TransferCompleted},
		{Status: domain.TransferRejected},
	})
	assert.Equal(t, 2, counts[domain.TransferCompleted])
	assert.Equal(t, 1, counts[domain.TransferRejected])
	assert.Equal(t, 0, counts[domain.TransferRequested])
}
