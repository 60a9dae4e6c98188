package inventory

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
)

var (
	ErrZeroAdjustment = errors.New("adjustment must change the quantity")
	ErrNegativeStock  = errors.New("adjustment would make stock negative")
)

const (
	SortByName     = "name"
	SortByQuantity = "quantity"
)

type Query struct {
	Q        string
	LowStock bool
	Sort     string
	Desc     bool
}

// Filter returns a filtered, sorted copy of items. Unknown sort keys keep the
// backend order.
func Filter(items []domain.InventoryItem, q Query) []domain.InventoryItem {
	needle := strings.ToLower(strings.TrimSpace(q.Q))

	out := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if needle != "" && !strings.Contains(strings.ToLower(item.ProductName), needle) {
			continue
		}
		if q.LowStock && !item.LowStock() {
			continue
		}
		out = append(out, item)
	}

	var compare func(a, b domain.InventoryItem) int
	switch q.Sort {
	case SortByName:
		compare = func(a, b domain.InventoryItem) int {
			return cmp.Compare(strings.ToLower(a.ProductName), strings.ToLower(b.ProductName))
		}
	case SortByQuantity:
		compare = func(a, b domain.InventoryItem) int {
			return cmp.Compare(a.Quantity, b.Quantity)
		}
	default:
		return out
	}

	slices.SortStableFunc(out, func(a, b domain.InventoryItem) int {
		if q.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

type Summary struct {
	SKUCount   int                    `json:"skuCount"`
	TotalUnits int                    `json:"totalUnits"`
	LowStock   []domain.InventoryItem `json:"lowStock"`
}

func Summarize(items []domain.InventoryItem) Summary {
	sum := Summary{SKUCount: len(items), LowStock: []domain.InventoryItem{}}
	for _, item := range items {
		sum.TotalUnits += item.Quantity
		if item.LowStock() {
			sum.LowStock = append(sum.LowStock, item)
		}
	}
	return sum
}

// ApplyAdjustment returns the quantity after applying delta to current.
func ApplyAdjustment(current, delta int) (int, error) {
	if delta == 0 {
		return 0, ErrZeroAdjustment
	}
	next := current + delta
	if next < 0 {
		return 0, ErrNegativeStock
	}
	return next, nil
}
