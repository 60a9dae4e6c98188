package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
)

// ActivityWriter is implemented by *repository.Repository.
type ActivityWriter interface {
	CreateActivity(a *domain.Activity) error
}

var csvHeader = []string{"username", "action", "target", "detail"}

var seedActions = []domain.ActivityAction{
	domain.ActionLogin,
	domain.ActionLogout,
	domain.ActionTransferCreate,
	domain.ActionTransferAccept,
	domain.ActionTransferReject,
	domain.ActionStockAdjust,
	domain.ActionPurchaseOrder,
}

// RandomActivities builds n activity rows spread over users.
func RandomActivities(rng *rand.Rand, users []string, n int) []*domain.Activity {
	if len(users) == 0 || n <= 0 {
		return nil
	}

	activities := make([]*domain.Activity, 0, n)
	for i := 0; i < n; i++ {
		action := seedActions[rng.Intn(len(seedActions))]
		a := &domain.Activity{
			Username: users[rng.Intn(len(users))],
			Action:   action,
		}

		switch action {
		case domain.ActionTransferCreate, domain.ActionTransferAccept, domain.ActionTransferReject:
			a.Target = domain.TransferTarget(int64(rng.Intn(500) + 1))
		case domain.ActionStockAdjust:
			a.Target = domain.StockTarget(int64(rng.Intn(5)+1), int64(rng.Intn(40)+1))
			a.Detail = fmt.Sprintf("%+d", rng.Intn(41)-20)
		case domain.ActionPurchaseOrder:
			a.Target = domain.PurchaseOrderTarget(int64(rng.Intn(1000) + 1))
		}

		activities = append(activities, a)
	}

	return activities
}

// ReadActivities parses a CSV export with the columns username, action,
// target and detail in any order.
func ReadActivities(r io.Reader) ([]*domain.Activity, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}
	for _, col := range csvHeader[:2] {
		if !slices.Contains(headers, col) {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var activities []*domain.Activity
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		record := make(map[string]string, len(row))
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}

		if record["username"] == "" || record["action"] == "" {
			return nil, fmt.Errorf("line %d: username and action are required", line)
		}

		activities = append(activities, &domain.Activity{
			Username: record["username"],
			Action:   domain.ActivityAction(record["action"]),
			Target:   record["target"],
			Detail:   record["detail"],
		})
	}

	return activities, nil
}

// Insert writes activities one by one and returns how many were stored
// along with the errors of the rows that failed.
func Insert(w ActivityWriter, activities []*domain.Activity) (int, error) {
	var errs []error
	inserted := 0
	for _, a := range activities {
		if err := w.CreateActivity(a); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", a.Username, a.Action, err))
			continue
		}
		inserted++
	}
	return inserted, errors.Join(errs...)
}
