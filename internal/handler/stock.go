package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/backend"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/inventory"
	"golang.org/x/sync/errgroup"
)

func (h *Handler) StockAdjustmentPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	items, err := h.snapshot.Load(r.Context(), sess.Token, sess.User.StoreID)
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "inventory loaded", inventory.Filter(items, inventoryQuery(r)))
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var req struct {
		ProductID int64  `json:"productId" validate:"required,gt=0"`
		Delta     int    `json:"delta"`
		Reason    string `json:"reason" validate:"required,max=200"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Delta == 0 {
		h.errorResponse(w, r, inventory.ErrZeroAdjustment.Error())
		return
	}

	storeID := sess.User.StoreID
	current, err := h.snapshot.Available(r.Context(), sess.Token, storeID, req.ProductID)
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	next, err := inventory.ApplyAdjustment(current, req.Delta)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	item, err := h.api.UpdateInventory(r.Context(), sess.Token, storeID, req.ProductID, backend.InventoryUpdate{
		Quantity: next,
		Reason:   req.Reason,
	})
	if err != nil {
		h.snapshot.Forget(storeID, req.ProductID)
		h.backendError(w, r, err)
		return
	}
	if item.ProductID == 0 {
		item = &domain.InventoryItem{StoreID: storeID, ProductID: req.ProductID, Quantity: next}
	}
	h.snapshot.Set(storeID, req.ProductID, item.Quantity)

	adj := domain.StockAdjustment{StoreID: storeID, ProductID: req.ProductID, Delta: req.Delta, Reason: req.Reason}
	h.recordActivity(sess.User.Username, domain.ActionStockAdjust,
		domain.StockTarget(adj.StoreID, adj.ProductID),
		fmt.Sprintf("%+d (%d -> %d): %s", adj.Delta, current, item.Quantity, adj.Reason))

	h.successResponse(w, r, "stock adjusted", map[string]any{
		"adjustment": adj,
		"item":       item,
	})
}

func (h *Handler) PurchaseOrdersPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var (
		orders   []domain.PurchaseOrder
		products []domain.Product
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		orders, err = h.api.PurchaseOrders(ctx, sess.Token, sess.User.StoreID)
		return err
	})
	g.Go(func() (err error) {
		products, err = h.api.Products(ctx, sess.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "purchase orders loaded", map[string]any{
		"orders":   orders,
		"products": products,
	})
}

func (h *Handler) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var req struct {
		ProductID int64  `json:"productId" validate:"required,gt=0"`
		Quantity  int    `json:"quantity" validate:"required,gt=0"`
		Supplier  string `json:"supplier" validate:"required,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	po, err := h.api.CreatePurchaseOrder(r.Context(), sess.Token, &domain.PurchaseOrder{
		StoreID:   sess.User.StoreID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Supplier:  req.Supplier,
		Status:    domain.PurchaseOrderPending,
		CreatedBy: &domain.UserRef{Username: sess.User.Username},
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			h.errorResponse(w, r, "a pending order for this product already exists")
			return
		}
		h.backendError(w, r, err)
		return
	}

	h.recordActivity(sess.User.Username, domain.ActionPurchaseOrder,
		domain.PurchaseOrderTarget(po.OrderID),
		fmt.Sprintf("product %d x%d from %s", req.ProductID, req.Quantity, req.Supplier))

	h.successResponse(w, r, "purchase order created", po)
}
