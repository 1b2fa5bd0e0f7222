// Package engine drives refreshes and scoring over a liquidity store.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pashabitz/liquidity/pkg/engine/report"
	"github.com/pashabitz/liquidity/pkg/liquidity"
	"github.com/pashabitz/liquidity/pkg/logging"
)

// Engine is the runtime core.
type Engine struct {
	Store  *liquidity.Store
	Logger *slog.Logger
	Tracer trace.Tracer
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New wraps a store.
func New(store *liquidity.Store, opts ...Option) *Engine {
	e := &Engine{
		Store:  store,
		Logger: logging.Discard(),
		Tracer: otel.Tracer("liquidity/engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Logger = l
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.Tracer = t
		}
	}
}

// Refresh refreshes the named families one after another, or every configured family when none are named.
// Unknown names are rejected before anything is fetched. The first failure stops the run.
func (e *Engine) Refresh(ctx context.Context, families ...string) error {
	configured := e.Store.Families()
	if len(families) == 0 {
		families = configured.Names()
	}
	for _, f := range families {
		if !configured.Has(f) {
			return fmt.Errorf("%w: %q", liquidity.ErrUnknownFamily, f)
		}
	}

	for _, f := range families {
		if err := e.refreshFamily(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) refreshFamily(ctx context.Context, family string) error {
	ctx, span := e.Tracer.Start(ctx, "RefreshFamily", trace.WithAttributes(
		attribute.String("family", family),
	))
	defer span.End()

	e.Logger.Info("Refreshing family", "family", family)
	if err := e.Store.RefreshFamily(ctx, family); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.Logger.Error("Refresh failed", "family", family, "error", err)
		return err
	}

	capacity := e.Store.AvailableCapacity(family)
	span.SetAttributes(attribute.Int64("available", capacity))
	e.Logger.Info("Family refreshed", "family", family, "available", capacity)
	return nil
}

// Score returns the liquidity of a family.
func (e *Engine) Score(family string) (float64, error) {
	return e.Store.Liquidity(family)
}

// Summarize scores every configured family. Liquidity is left nil when no family has capacity.
func (e *Engine) Summarize() ([]report.FamilyScore, error) {
	highest, err := e.Store.MaxAvailableCapacity()
	if err != nil {
		return nil, err
	}

	families := e.Store.Families().Names()
	scores := make([]report.FamilyScore, 0, len(families))
	for _, family := range families {
		score := report.FamilyScore{
			Family:    family,
			Available: e.Store.AvailableCapacity(family),
		}
		if highest > 0 {
			l := float64(score.Available) / float64(highest)
			score.Liquidity = &l
		}
		for _, sc := range e.Store.CapacityBySize(family) {
			score.Sizes = append(score.Sizes, report.SizeScore{
				Size:      sc.Size,
				Cached:    sc.Cached,
				Available: sc.Available,
			})
		}
		scores = append(scores, score)
	}
	return scores, nil
}
