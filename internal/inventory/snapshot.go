package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/backend"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"go.uber.org/zap"
)

type API interface {
	StoreInventory(ctx context.Context, token string, storeID int64) ([]domain.InventoryItem, error)
	InventoryItem(ctx context.Context, token string, storeID, productID int64) (*domain.InventoryItem, error)
}

// Snapshot remembers the last quantity seen for each store/product pair.
// Values can be stale by up to the cache TTL; nothing is re-validated.
type Snapshot struct {
	api    API
	cache  *cache.Cache
	logger *zap.Logger
}

func NewSnapshot(api API, ttl time.Duration, logger *zap.Logger) *Snapshot {
	return &Snapshot{
		api:    api,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func snapshotKey(storeID, productID int64) string {
	return fmt.Sprintf("%d:%d", storeID, productID)
}

// Prime records every item of a freshly fetched store inventory.
func (s *Snapshot) Prime(items []domain.InventoryItem) {
	for _, item := range items {
		s.cache.Set(snapshotKey(item.StoreID, item.ProductID), item.Quantity, cache.DefaultExpiration)
	}
}

// Load fetches a store's inventory and primes the snapshot with it.
func (s *Snapshot) Load(ctx context.Context, token string, storeID int64) ([]domain.InventoryItem, error) {
	items, err := s.api.StoreInventory(ctx, token, storeID)
	if err != nil {
		return nil, err
	}
	s.Prime(items)
	return items, nil
}

// Available returns the known quantity of a product at a store. On a miss the
// single item is fetched; a product the store does not stock counts as zero.
func (s *Snapshot) Available(ctx context.Context, token string, storeID, productID int64) (int, error) {
	key := snapshotKey(storeID, productID)
	if cached, found := s.cache.Get(key); found {
		if qty, ok := cached.(int); ok {
			return qty, nil
		}
	}

	item, err := s.api.InventoryItem(ctx, token, storeID, productID)
	if err != nil {
		if backend.IsNotFound(err) {
			s.cache.Set(key, 0, cache.DefaultExpiration)
			return 0, nil
		}
		return 0, err
	}

	s.logger.Debug("inventory snapshot miss", zap.String("key", key), zap.Int("quantity", item.Quantity))
	s.cache.Set(key, item.Quantity, cache.DefaultExpiration)
	return item.Quantity, nil
}

// Set overwrites a single entry, used after a successful stock update.
func (s *Snapshot) Set(storeID, productID int64, quantity int) {
	s.cache.Set(snapshotKey(storeID, productID), quantity, cache.DefaultExpiration)
}

func (s *Snapshot) Forget(storeID, productID int64) {
	s.cache.Delete(snapshotKey(storeID, productID))
}
