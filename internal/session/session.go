package session

import (
	"context"
	"encoding/json"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
)

// Store persists one Session per session id.
//
// Read returns (nil, nil) when nothing usable is stored under id. A record that
// cannot be decoded, or whose role is outside the hierarchy, counts as absent.
type Store interface {
	Save(ctx context.Context, id string, s *domain.Session) error
	Read(ctx context.Context, id string) (*domain.Session, error)
	Clear(ctx context.Context, id string) error
	Close() error
}

func encode(s *domain.Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(data []byte) *domain.Session {
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if s.Token == "" || !s.User.Role.Valid() {
		return nil
	}
	return &s
}
