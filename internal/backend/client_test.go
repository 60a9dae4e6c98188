package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, zap.NewNop())
}

func TestLoginSendsCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, LoginRequest{Username: "a", Password: "b", Role: "manager"}, req)

		_, _ = w.Write([]byte(`{"token":"t1","role":"manager","storeId":4,"location":"Dock","name":"Ann","phone_number":"555"}`))
	})

	resp, err := client.Login(context.Background(), LoginRequest{Username: "a", Password: "b", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, &LoginResponse{Token: "t1", Role: "manager", StoreID: 4, Location: "Dock", Name: "Ann", PhoneNumber: "555"}, resp)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
	})

	_, err := client.Login(context.Background(), LoginRequest{Username: "a", Password: "b"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "bad credentials", apiErr.Message)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, time.Second, zap.NewNop())

	_, err := client.Stores(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Products(ctx, "tok")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBearerTokenAndPaths(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/api/transfers/42" {
				_, _ = w.Write([]byte(`{"transferId":42,"status":"REQUESTED"}`))
				return
			}
			if r.URL.Path == "/api/inventory/store/1/product/2" {
				_, _ = w.Write([]byte(`{"storeId":1,"productId":2,"quantity":5}`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	})

	ctx := context.Background()
	_, err := client.PendingTransfers(ctx, "tok", 7)
	require.NoError(t, err)
	_, err = client.TransferHistory(ctx, "tok", 7)
	require.NoError(t, err)
	tr, err := client.GetTransfer(ctx, "tok", 42)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferRequested, tr.Status)
	_, err = client.UpdateTransfer(ctx, "tok", tr)
	require.NoError(t, err)
	require.NoError(t, client.RejectTransfer(ctx, "tok", 42))
	item, err := client.InventoryItem(ctx, "tok", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	_, err = client.StoreInventory(ctx, "tok", 1)
	require.NoError(t, err)
	_, err = client.PurchaseOrders(ctx, "tok", 1)
	require.NoError(t, err)
	_, err = client.Users(ctx, "tok")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /api/transfers/to/7/dto?status=REQUESTED",
		"GET /api/transfers/history/7",
		"GET /api/transfers/42",
		"PUT /api/transfers/42",
		"PUT /api/transfers/42/reject",
		"GET /api/inventory/store/1/product/2",
		"GET /api/inventory/store/1",
		"GET /api/purchase-orders/store/1",
		"GET /api/users",
	}, seen)
}

func TestErrorMessageFallsBackToBody(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text\n")))
}
