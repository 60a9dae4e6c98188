package domain

type Store struct {
	StoreID  int64  `json:"storeId"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Email    string `json:"email,omitempty"`
}

type Product struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

type InventoryItem struct {
	StoreID      int64  `json:"storeId"`
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
}

func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

type StockAdjustment struct {
	StoreID   int64  `json:"storeId"`
	ProductID int64  `json:"productId"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}

type PurchaseOrderStatus string

const (
	PurchaseOrderPending  PurchaseOrderStatus = "PENDING"
	PurchaseOrderReceived PurchaseOrderStatus = "RECEIVED"
)

type PurchaseOrder struct {
	OrderID   int64               `json:"orderId,omitempty"`
	StoreID   int64               `json:"storeId"`
	ProductID int64               `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Supplier  string              `json:"supplier"`
	Status    PurchaseOrderStatus `json:"status"`
	CreatedBy *UserRef            `json:"createdBy,omitempty"`
	Timestamp string              `json:"timestamp,omitempty"`
}
