// Package liquidity keeps the cached marketplace offerings and scores instance families.
package liquidity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/pashabitz/liquidity/pkg/config"
	"github.com/pashabitz/liquidity/pkg/storage"
)

// DefaultDocumentKey is the blob the document is stored under.
const DefaultDocumentKey = "database.json"

// Source returns the complete offering list for one instance-type-size.
type Source interface {
	Offerings(ctx context.Context, key Key) ([]Offering, error)
}

// Store owns the cache document and the family configuration.
// It is not safe for concurrent use.
type Store struct {
	cache    storage.BlobStore
	source   Source
	families config.Families
	docKey   string
	logger   *slog.Logger

	doc Document
}

// Option configures a Store.
type Option func(*Store)

// WithDocumentKey overrides the blob key of the document.
func WithDocumentKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.docKey = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the offering source used by RefreshFamily.
func WithSource(src Source) Option {
	return func(s *Store) {
		s.source = src
	}
}

// Open loads the document from cache. A missing document starts empty.
func Open(ctx context.Context, cache storage.BlobStore, families config.Families, opts ...Option) (*Store, error) {
	s := &Store{
		cache:    cache,
		families: families.Clone(),
		docKey:   DefaultDocumentKey,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	data, err := s.cache.Get(ctx, s.docKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("No cached document, starting empty", "key", s.docKey)
		s.doc = Document{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", s.docKey, err)
	}
	if doc == nil {
		doc = Document{}
	}
	s.doc = doc
	s.logger.Debug("Loaded cached document", "key", s.docKey, "entries", len(doc))
	return nil
}

// Persist writes the whole document back to the cache.
func (s *Store) Persist(ctx context.Context) error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := s.cache.Put(ctx, s.docKey, data); err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	return nil
}

// Families returns a copy of the family configuration.
func (s *Store) Families() config.Families {
	return s.families.Clone()
}

// Keys returns the cached keys in sorted order.
func (s *Store) Keys() []Key {
	keys := make([]Key, 0, len(s.doc))
	for k := range s.doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Offerings returns the cached offerings for a key.
func (s *Store) Offerings(key Key) ([]Offering, bool) {
	offers, ok := s.doc[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(offers), true
}

// AvailableCapacity sums the marketplace count of every cached offering in the family.
// The family need not be configured.
func (s *Store) AvailableCapacity(family string) int64 {
	var total int64
	for key, offers := range s.doc {
		if !key.BelongsTo(family) {
			continue
		}
		for _, o := range offers {
			total += o.Available()
		}
	}
	return total
}

// MaxAvailableCapacity returns the largest AvailableCapacity among configured families.
func (s *Store) MaxAvailableCapacity() (int64, error) {
	names := s.families.Names()
	if len(names) == 0 {
		return 0, ErrInvalidConfiguration
	}

	var highest int64
	for i, family := range names {
		if c := s.AvailableCapacity(family); i == 0 || c > highest {
			highest = c
		}
	}
	return highest, nil
}

// Liquidity is the family's capacity relative to the best-stocked configured family, in [0,1].
// It fails with ErrInvalidConfiguration when no families are configured and ErrNoCapacity when
// every configured family has zero capacity. A family that is not configured is rejected with
// ErrUnknownFamily instead of scoring 0, since its capacity is not bounded by the maximum.
func (s *Store) Liquidity(family string) (float64, error) {
	highest, err := s.MaxAvailableCapacity()
	if err != nil {
		return 0, err
	}
	if !s.families.Has(family) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if highest == 0 {
		return 0, ErrNoCapacity
	}
	return float64(s.AvailableCapacity(family)) / float64(highest), nil
}

// RefreshFamily replaces the cached offerings of every configured size of the family,
// then persists the document once.
// A failed fetch aborts without persisting; sizes already replaced stay in memory.
func (s *Store) RefreshFamily(ctx context.Context, family string) error {
	sizes, ok := s.families.Sizes(family)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if s.source == nil {
		return ErrNoSource
	}

	for _, size := range sizes {
		key := NewKey(family, size)
		s.logger.Info("Fetching marketplace offerings", "key", key)

		offers, err := s.source.Offerings(ctx, key)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRemoteSource, key, err)
		}
		if offers == nil {
			offers = []Offering{}
		}
		s.doc[key] = offers
	}

	return s.Persist(ctx)
}

// SizeCapacity is the cached capacity of one size within a family.
type SizeCapacity struct {
	Size      string
	Cached    bool
	Available int64
}

// CapacityBySize breaks a family's capacity down per size.
// Configured sizes come first in configuration order; cached sizes no longer configured follow, sorted.
func (s *Store) CapacityBySize(family string) []SizeCapacity {
	configured, _ := s.families.Sizes(family)
	seen := make(map[string]bool, len(configured))

	out := make([]SizeCapacity, 0, len(configured))
	for _, size := range configured {
		seen[size] = true
		out = append(out, s.sizeCapacity(NewKey(family, size)))
	}

	var extra []string
	for key := range s.doc {
		if key.BelongsTo(family) && !seen[key.Size()] {
			extra = append(extra, key.Size())
		}
	}
	sort.Strings(extra)
	for _, size := range extra {
		out = append(out, s.sizeCapacity(NewKey(family, size)))
	}
	return out
}

func (s *Store) sizeCapacity(key Key) SizeCapacity {
	offers, ok := s.doc[key]
	sc := SizeCapacity{Size: key.Size(), Cached: ok}
	for _, o := range offers {
		sc.Available += o.Available()
	}
	return sc
}
