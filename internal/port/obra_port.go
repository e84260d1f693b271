package port

import (
	"context"
	"encoding/json"

	"github.com/vidranorte/vitrine-api/internal/domain"
)

// ObraStore is the work-order table surface.
type ObraStore interface {
	// GetObraByTitulo resolves the human-readable order number to at most
	// one record. (nil, nil) means no match.
	GetObraByTitulo(ctx context.Context, titulo string) (*domain.Obra, error)

	ListObras(ctx context.Context) ([]domain.Obra, error)
	CreateObra(ctx context.Context, obra *domain.Obra) (*domain.Obra, error)
	UpdateObra(ctx context.Context, id string, updates map[string]any) error
	DeleteObra(ctx context.Context, id string) error
}

// ObraChange is one realtime notification for a work-order record. Record
// is the notification's full new-value payload; consumers replace local
// state with it wholesale, they do not merge.
type ObraChange struct {
	Type   string          // "UPDATE"
	Record json.RawMessage // new row as sent by the backend
}

// ObraSubscriber opens a change subscription scoped to UPDATE events on one
// record, identified by its opaque id. The returned channel is closed when
// ctx is cancelled or the subscription dies; there is no auto-reconnect.
type ObraSubscriber interface {
	SubscribeObra(ctx context.Context, obraID string) (<-chan ObraChange, error)
}
