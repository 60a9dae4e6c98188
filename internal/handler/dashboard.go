package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/inventory"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/transfer"
	"golang.org/x/sync/errgroup"
)

func inventoryQuery(r *http.Request) inventory.Query {
	q := r.URL.Query()
	return inventory.Query{
		Q:        q.Get("q"),
		LowStock: q.Get("lowStock") == "true",
		Sort:     q.Get("sort"),
		Desc:     q.Get("order") == "desc",
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var (
		items    []domain.InventoryItem
		stores   []domain.Store
		products []domain.Product
	)

	// a failed load cancels the others through ctx
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		items, err = h.snapshot.Load(ctx, sess.Token, sess.User.StoreID)
		return err
	})
	g.Go(func() (err error) {
		stores, err = h.api.Stores(ctx, sess.Token)
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

	h.successResponse(w, r, "dashboard loaded", map[string]any{
		"user":      sess.User,
		"inventory": inventory.Filter(items, inventoryQuery(r)),
		"summary":   inventory.Summarize(items),
		"stores":    stores,
		"products":  products,
	})
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var (
		items   []domain.InventoryItem
		history []domain.TransferRequest
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		items, err = h.snapshot.Load(ctx, sess.Token, sess.User.StoreID)
		return err
	})
	g.Go(func() (err error) {
		history, err = h.transfers.History(ctx, sess, sess.User.StoreID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "analytics loaded", map[string]any{
		"storeId":   sess.User.StoreID,
		"inventory": inventory.Summarize(items),
		"transfers": transfer.CountByStatus(history),
	})
}
