package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/metrics"
	"go.uber.org/zap"
)

func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		metrics.MailPublishErrors.Inc()
		return err
	}

	return nil
}

func storeLabel(stores map[int64]domain.Store, ref domain.StoreRef) string {
	if ref.Name != "" {
		return ref.Name
	}
	if s, ok := stores[ref.StoreID]; ok {
		return s.Name
	}
	return fmt.Sprintf("store #%d", ref.StoreID)
}

// notifyTransfer mails the store on the other side of a transfer event. The
// mutation already happened, so every failure here is logged and dropped.
func (h *Handler) notifyTransfer(ctx context.Context, sess *domain.Session, tr *domain.TransferRequest, mailType string) {
	list, err := h.api.Stores(ctx, sess.Token)
	if err != nil {
		h.log.Warn("transfer notification skipped", zap.Int64("transferId", tr.TransferID), zap.Error(err))
		return
	}
	stores := make(map[int64]domain.Store, len(list))
	for _, s := range list {
		stores[s.StoreID] = s
	}

	var msg domain.MailMessage
	switch mailType {
	case domain.MailTypeTransferRequested:
		msg = domain.MailMessage{
			Type: mailType,
			To:   stores[tr.ToStore.StoreID].Email,
			Data: domain.TransferRequestedMailData{
				TransferID:  tr.TransferID,
				ProductID:   tr.Product.ProductID,
				ProductName: tr.Product.Name,
				FromStore:   storeLabel(stores, tr.FromStore),
				ToStore:     storeLabel(stores, tr.ToStore),
				Quantity:    tr.Quantity,
				Notes:       tr.Notes,
				RequestedBy: sess.User.Username,
			},
		}
	case domain.MailTypeTransferResolved:
		msg = domain.MailMessage{
			Type: mailType,
			To:   stores[tr.FromStore.StoreID].Email,
			Data: domain.TransferResolvedMailData{
				TransferID: tr.TransferID,
				Status:     tr.Status,
				Quantity:   tr.Quantity,
				FromStore:  storeLabel(stores, tr.FromStore),
				ToStore:    storeLabel(stores, tr.ToStore),
				ResolvedBy: sess.User.Username,
			},
		}
	default:
		return
	}

	if msg.To == "" {
		return
	}
	if err := h.publishMail(msg); err != nil {
		h.log.Warn("could not queue transfer notification", zap.Int64("transferId", tr.TransferID), zap.Error(err))
	}
}
