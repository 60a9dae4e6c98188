package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginResponse carries the role exactly as the API sent it; callers normalize.
type LoginResponse struct {
	Token       string `json:"token"`
	Role        string `json:"role"`
	StoreID     int64  `json:"storeId"`
	Location    string `json:"location"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "", "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

/****** stores & products ******/

func (c *Client) Stores(ctx context.Context, token string) ([]domain.Store, error) {
	var stores []domain.Store
	if err := c.get(ctx, token, "/api/stores", &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) CreateStore(ctx context.Context, token string, store domain.Store) (*domain.Store, error) {
	var created domain.Store
	if err := c.post(ctx, token, "/api/stores", store, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Products(ctx context.Context, token string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, token, "/api/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

/****** inventory ******/

func (c *Client) StoreInventory(ctx context.Context, token string, storeID int64) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	if err := c.get(ctx, token, fmt.Sprintf("/api/inventory/store/%d", storeID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) InventoryItem(ctx context.Context, token string, storeID, productID int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	path := fmt.Sprintf("/api/inventory/store/%d/product/%d", storeID, productID)
	if err := c.get(ctx, token, path, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

type InventoryUpdate struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

func (c *Client) UpdateInventory(ctx context.Context, token string, storeID, productID int64, update InventoryUpdate) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	path := fmt.Sprintf("/api/inventory/store/%d/product/%d", storeID, productID)
	if err := c.put(ctx, token, path, update, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

/****** transfers ******/

func (c *Client) CreateTransfer(ctx context.Context, token string, tr *domain.TransferRequest) (*domain.TransferRequest, error) {
	var created domain.TransferRequest
	if err := c.post(ctx, token, "/api/transfers", tr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetTransfer(ctx context.Context, token string, id int64) (*domain.TransferRequest, error) {
	var tr domain.TransferRequest
	if err := c.get(ctx, token, fmt.Sprintf("/api/transfers/%d", id), &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// UpdateTransfer replaces the whole record. There is no version check.
func (c *Client) UpdateTransfer(ctx context.Context, token string, tr *domain.TransferRequest) (*domain.TransferRequest, error) {
	var updated domain.TransferRequest
	if err := c.put(ctx, token, fmt.Sprintf("/api/transfers/%d", tr.TransferID), tr, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) RejectTransfer(ctx context.Context, token string, id int64) error {
	return c.put(ctx, token, fmt.Sprintf("/api/transfers/%d/reject", id), nil, nil)
}

func (c *Client) PendingTransfers(ctx context.Context, token string, storeID int64) ([]domain.TransferRequest, error) {
	q := url.Values{}
	q.Set("status", string(domain.TransferRequested))

	var transfers []domain.TransferRequest
	path := fmt.Sprintf("/api/transfers/to/%d/dto?%s", storeID, q.Encode())
	if err := c.get(ctx, token, path, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

func (c *Client) TransferHistory(ctx context.Context, token string, storeID int64) ([]domain.TransferRequest, error) {
	var transfers []domain.TransferRequest
	if err := c.get(ctx, token, fmt.Sprintf("/api/transfers/history/%d", storeID), &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

/****** purchase orders ******/

func (c *Client) PurchaseOrders(ctx context.Context, token string, storeID int64) ([]domain.PurchaseOrder, error) {
	var orders []domain.PurchaseOrder
	if err := c.get(ctx, token, fmt.Sprintf("/api/purchase-orders/store/%d", storeID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, token string, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	var created domain.PurchaseOrder
	if err := c.post(ctx, token, "/api/purchase-orders", po, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

/****** users ******/

func (c *Client) Users(ctx context.Context, token string) ([]domain.ConsoleUser, error) {
	var users []domain.ConsoleUser
	if err := c.get(ctx, token, "/api/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

type CreateUserRequest struct {
	domain.ConsoleUser
	Password string `json:"password"`
}

func (c *Client) CreateUser(ctx context.Context, token string, req CreateUserRequest) (*domain.ConsoleUser, error) {
	var created domain.ConsoleUser
	if err := c.post(ctx, token, "/api/users", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
