package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vidranorte/vitrine-api/internal/domain"
	"github.com/vidranorte/vitrine-api/internal/infra/observability"
	"github.com/vidranorte/vitrine-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var obraTracer = otel.Tracer("service/obra")

// ObraService serves the work-order detail page: point lookup by titulo,
// derived checklist/progress, and the live update stream.
type ObraService struct {
	store      port.ObraStore
	subscriber port.ObraSubscriber
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewObraService creates the obra service.
func NewObraService(store port.ObraStore, subscriber port.ObraSubscriber, metrics *observability.Metrics, logger *zap.Logger) *ObraService {
	return &ObraService{store: store, subscriber: subscriber, metrics: metrics, logger: logger}
}

// GetByTitulo looks up one work order by its public order number and
// derives the view. A missing record is ErrNotFound, a distinct terminal
// state — never conflated with a backend failure.
func (s *ObraService) GetByTitulo(ctx context.Context, titulo string) (*domain.ObraView, error) {
	ctx, span := obraTracer.Start(ctx, "ObraService.GetByTitulo")
	defer span.End()
	span.SetAttributes(attribute.String("obra.titulo", titulo))
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("obra_lookup", time.Since(start)) }()

	obra, err := s.store.GetObraByTitulo(ctx, titulo)
	if err != nil {
		return nil, err
	}
	if obra == nil {
		return nil, &domain.ErrNotFound{Resource: "obra", ID: titulo}
	}

	view := domain.NewObraView(*obra)
	return &view, nil
}

// Watch resolves the titulo and, only once the opaque id is known, opens
// the change subscription for that record — the fetch-then-subscribe order
// is a hard requirement, the subscription cannot exist before the id does.
// Each notification's record replaces the view wholesale; fields absent
// from the payload are gone from the emitted view, deliberately.
// The returned channel closes when ctx ends or the subscription dies;
// a dead subscription is logged and leaves consumers on last-good state.
func (s *ObraService) Watch(ctx context.Context, titulo string) (*domain.ObraView, <-chan domain.ObraView, error) {
	ctx, span := obraTracer.Start(ctx, "ObraService.Watch")
	defer span.End()

	view, err := s.GetByTitulo(ctx, titulo)
	if err != nil {
		return nil, nil, err
	}

	changes, err := s.subscriber.SubscribeObra(ctx, view.Obra.ID)
	if err != nil {
		// The snapshot stands on its own; the caller decides whether a
		// stream-less page is acceptable.
		s.logger.Error("obra subscription failed",
			zap.String("obra_id", view.Obra.ID),
			zap.Error(err),
		)
		return view, nil, err
	}

	out := make(chan domain.ObraView)
	go func() {
		defer close(out)
		for change := range changes {
			s.metrics.IncrRealtimeEvent("obras")

			var next domain.Obra
			if err := json.Unmarshal(change.Record, &next); err != nil {
				s.logger.Warn("obra change: undecodable record",
					zap.String("obra_id", view.Obra.ID),
					zap.Error(err),
				)
				continue
			}

			nextView := domain.NewObraView(next)
			select {
			case out <- nextView:
			case <-ctx.Done():
				return
			}
		}
	}()

	return view, out, nil
}

// --- Dashboard operations ---

func (s *ObraService) List(ctx context.Context) ([]domain.Obra, error) {
	ctx, span := obraTracer.Start(ctx, "ObraService.List")
	defer span.End()
	return s.store.ListObras(ctx)
}

func (s *ObraService) Create(ctx context.Context, obra *domain.Obra) (*domain.Obra, error) {
	ctx, span := obraTracer.Start(ctx, "ObraService.Create")
	defer span.End()

	if obra.Titulo == "" {
		return nil, &domain.ErrValidation{Field: "titulo", Message: "Informe o número da obra"}
	}
	return s.store.CreateObra(ctx, obra)
}

func (s *ObraService) Update(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := obraTracer.Start(ctx, "ObraService.Update")
	defer span.End()
	return s.store.UpdateObra(ctx, id, updates)
}

func (s *ObraService) Delete(ctx context.Context, id string) error {
	ctx, span := obraTracer.Start(ctx, "ObraService.Delete")
	defer span.End()
	return s.store.DeleteObra(ctx, id)
}
