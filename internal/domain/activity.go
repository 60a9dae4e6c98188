package domain

import (
	"fmt"
	"time"
)

type ActivityAction string

const (
	ActionLogin          ActivityAction = "login"
	ActionLoginFailed    ActivityAction = "login_failed"
	ActionLogout         ActivityAction = "logout"
	ActionTransferCreate ActivityAction = "transfer_create"
	ActionTransferAccept ActivityAction = "transfer_accept"
	ActionTransferReject ActivityAction = "transfer_reject"
	ActionStockAdjust    ActivityAction = "stock_adjust"
	ActionPurchaseOrder  ActivityAction = "purchase_order"
	ActionUserCreate     ActivityAction = "user_create"
	ActionStoreCreate    ActivityAction = "store_create"
)

type Activity struct {
	ID        int64          `json:"id"`
	Username  string         `json:"username"`
	Action    ActivityAction `json:"action"`
	Target    string         `json:"target"`
	Detail    string         `json:"detail"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Activity targets share one format wherever rows are written.

func TransferTarget(id int64) string {
	return fmt.Sprintf("transfer:%d", id)
}

func StockTarget(storeID, productID int64) string {
	return fmt.Sprintf("store:%d/product:%d", storeID, productID)
}

func PurchaseOrderTarget(id int64) string {
	return fmt.Sprintf("purchase-order:%d", id)
}

func StoreTarget(id int64) string {
	return fmt.Sprintf("store:%d", id)
}

func UserTarget(username string) string {
	return "user:" + username
}
