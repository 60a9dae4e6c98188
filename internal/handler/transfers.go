package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/transfer"
	"golang.org/x/sync/errgroup"
)

// lists the browser should refetch after a transfer mutation
var transferRefresh = []string{"pending", "history"}

func isTransferRuleViolation(err error) bool {
	return errors.Is(err, transfer.ErrSameStore) ||
		errors.Is(err, transfer.ErrNonPositiveQuantity) ||
		errors.Is(err, transfer.ErrInsufficientStock) ||
		errors.Is(err, transfer.ErrAlreadyResolved) ||
		errors.Is(err, transfer.ErrNotAddressed)
}

func (h *Handler) TransfersPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var (
		pending  []domain.TransferRequest
		history  []domain.TransferRequest
		items    []domain.InventoryItem
		stores   []domain.Store
		products []domain.Product
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		pending, err = h.transfers.Pending(ctx, sess, sess.User.StoreID)
		return err
	})
	g.Go(func() (err error) {
		history, err = h.transfers.History(ctx, sess, sess.User.StoreID)
		return err
	})
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

	h.successResponse(w, r, "transfers loaded", map[string]any{
		"pending":   pending,
		"history":   history,
		"inventory": items,
		"stores":    stores,
		"products":  products,
	})
}

func (h *Handler) PendingTransfers(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	pending, err := h.transfers.Pending(r.Context(), sess, sess.User.StoreID)
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "pending transfers loaded", pending)
}

func (h *Handler) TransferHistory(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	history, err := h.transfers.History(r.Context(), sess, sess.User.StoreID)
	if err != nil {
		h.backendError(w, r, err)
		return
	}

	h.successResponse(w, r, "transfer history loaded", history)
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())

	var req transfer.Payload
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	// same-store and quantity rules first so they read as such
	if err := req.Check(); err != nil {
		metrics.TransferActions.WithLabelValues("create", metrics.ResultRejected).Inc()
		h.errorResponse(w, r, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		metrics.TransferActions.WithLabelValues("create", metrics.ResultRejected).Inc()
		h.badRequest(w, r, err)
		return
	}

	created, err := h.transfers.Create(r.Context(), sess, req)
	if err != nil {
		if isTransferRuleViolation(err) {
			metrics.TransferActions.WithLabelValues("create", metrics.ResultRejected).Inc()
			h.errorResponse(w, r, err.Error())
			return
		}
		metrics.TransferActions.WithLabelValues("create", metrics.ResultFailed).Inc()
		h.backendError(w, r, err)
		return
	}

	metrics.TransferActions.WithLabelValues("create", metrics.ResultSuccess).Inc()
	h.recordActivity(sess.User.Username, domain.ActionTransferCreate,
		domain.TransferTarget(created.TransferID),
		fmt.Sprintf("product %d x%d from store %d to store %d", req.ProductID, req.Quantity, req.FromStore, req.ToStore))
	h.notifyTransfer(r.Context(), sess, created, domain.MailTypeTransferRequested)

	h.successResponse(w, r, "transfer requested", map[string]any{
		"transfer": created,
		"refresh":  transferRefresh,
	})
}

func (h *Handler) AcceptTransfer(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())
	id := r.Context().Value(TransferIDCtxKey).(int64)

	updated, err := h.transfers.Accept(r.Context(), sess, id)
	if err != nil {
		if isTransferRuleViolation(err) {
			metrics.TransferActions.WithLabelValues("accept", metrics.ResultRejected).Inc()
			h.errorResponse(w, r, err.Error())
			return
		}
		metrics.TransferActions.WithLabelValues("accept", metrics.ResultFailed).Inc()
		h.backendError(w, r, err)
		return
	}

	metrics.TransferActions.WithLabelValues("accept", metrics.ResultSuccess).Inc()
	h.recordActivity(sess.User.Username, domain.ActionTransferAccept, domain.TransferTarget(id), "")
	h.notifyTransfer(r.Context(), sess, updated, domain.MailTypeTransferResolved)

	h.successResponse(w, r, "transfer accepted", map[string]any{
		"transfer": updated,
		"refresh":  transferRefresh,
	})
}

func (h *Handler) RejectTransfer(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r.Context())
	id := r.Context().Value(TransferIDCtxKey).(int64)

	rejected, err := h.transfers.Reject(r.Context(), sess, id)
	if err != nil {
		if isTransferRuleViolation(err) {
			metrics.TransferActions.WithLabelValues("reject", metrics.ResultRejected).Inc()
			h.errorResponse(w, r, err.Error())
			return
		}
		metrics.TransferActions.WithLabelValues("reject", metrics.ResultFailed).Inc()
		h.backendError(w, r, err)
		return
	}

	metrics.TransferActions.WithLabelValues("reject", metrics.ResultSuccess).Inc()
	h.recordActivity(sess.User.Username, domain.ActionTransferReject, domain.TransferTarget(id), "")
	h.notifyTransfer(r.Context(), sess, rejected, domain.MailTypeTransferResolved)

	h.successResponse(w, r, "transfer rejected", map[string]any{
		"transfer": rejected,
		"refresh":  transferRefresh,
	})
}
