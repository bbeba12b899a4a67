package cart

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/broadcast"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/kvstore"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"github.com/oakmart/storefront-backend/pkg/metrics"
)

const metricStore = "cart"

// Service is the single authority over a session's cart lines. Every
// mutation persists before the change cue fires, so a subscriber that
// re-reads on cue always observes the committed state.
type Service interface {
	Get(ctx context.Context, sessionID string) ([]LineItem, error)
	AddItem(ctx context.Context, sessionID string, product ProductSnapshot, qty int) error
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) error
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) error
	Clear(ctx context.Context, sessionID string) error
	Total(ctx context.Context, sessionID string) (int64, error)
	Count(ctx context.Context, sessionID string) (int, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	KV      kvstore.Store
	Keys    kvstore.Keys
	Hub     *broadcast.Hub
	Metrics *metrics.CartMetrics
	Logger  *logger.Logger
}

type service struct {
	kv      kvstore.Store
	keys    kvstore.Keys
	hub     *broadcast.Hub
	metrics *metrics.CartMetrics
	logg    *logger.Logger
}

// NewService builds a cart service backed by the provided storage and hub.
func NewService(params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv store is required")
	}
	if params.Hub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "broadcast hub is required")
	}
	return &service{
		kv:      params.KV,
		keys:    params.Keys,
		hub:     params.Hub,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Get returns the session's cart lines in insertion order. A missing or
// unparseable stored value reads as an empty cart; there was nothing
// recoverable, so no error crosses this boundary for it.
func (s *service) Get(ctx context.Context, sessionID string) ([]LineItem, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.load(ctx, sessionID)
}

// AddItem merges the product into the cart: an existing line's qty grows,
// otherwise a new line is appended with the given snapshot.
func (s *service) AddItem(ctx context.Context, sessionID string, product ProductSnapshot, qty int) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if product.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	lines, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	merged := false
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, LineItem{Product: product, Qty: qty})
	}

	if err := s.persist(ctx, sessionID, lines); err != nil {
		return err
	}
	s.metrics.IncMutation(metricStore, "add_item")
	s.notify(sessionID)
	return nil
}

// RemoveItem drops the line with the matching product id. An absent id is a
// no-op: nothing is written and no cue fires.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lines, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if line.Product.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	if err := s.persist(ctx, sessionID, kept); err != nil {
		return err
	}
	s.metrics.IncMutation(metricStore, "remove_item")
	s.notify(sessionID)
	return nil
}

// SetQuantity replaces a line's qty, clamped to a minimum of 1. Decrement
// controls cannot push a line below one unit; removal is a separate action.
func (s *service) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if qty < 1 {
		qty = 1
	}

	lines, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	updated := false
	for i := range lines {
		if lines[i].Product.ID == productID {
			if lines[i].Qty == qty {
				return nil
			}
			lines[i].Qty = qty
			updated = true
			break
		}
	}
	if !updated {
		return nil
	}

	if err := s.persist(ctx, sessionID, lines); err != nil {
		return err
	}
	s.metrics.IncMutation(metricStore, "set_quantity")
	s.notify(sessionID)
	return nil
}

// Clear empties the cart entirely. The stored value is deleted rather than
// overwritten; a cleared cart and a never-written cart read identically.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.kv.Delete(ctx, s.keys.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncMutation(metricStore, "clear")
	s.notify(sessionID)
	return nil
}

// Total sums qty * unit price across all lines, in cents.
func (s *service) Total(ctx context.Context, sessionID string) (int64, error) {
	lines, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, line := range lines {
		total += int64(line.Qty) * int64(line.Product.PriceCents)
	}
	return total, nil
}

// Count sums qty across all lines, the number the header badge shows.
func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	lines, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Qty
	}
	return count, nil
}

func (s *service) load(ctx context.Context, sessionID string) ([]LineItem, error) {
	raw, ok, err := s.kv.Read(ctx, s.keys.CartKey(sessionID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}
	if !ok || raw == "" {
		return []LineItem{}, nil
	}

	var lines []LineItem
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding malformed cart state")
		}
		return []LineItem{}, nil
	}
	return normalize(lines), nil
}

// normalize repairs decoded state that another writer left inconsistent:
// lines without a product id or a positive qty are dropped, and duplicate
// product ids fold into the first line so each id keeps exactly one line.
func normalize(lines []LineItem) []LineItem {
	kept := make([]LineItem, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.Product.ID == uuid.Nil || line.Qty < 1 {
			continue
		}
		if at, seen := index[line.Product.ID]; seen {
			kept[at].Qty += line.Qty
			continue
		}
		index[line.Product.ID] = len(kept)
		kept = append(kept, line)
	}
	return kept
}

func (s *service) persist(ctx context.Context, sessionID string, lines []LineItem) error {
	buf, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Write(ctx, s.keys.CartKey(sessionID), string(buf)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

// notify runs only after the write committed; subscribers re-read and see
// the new state, never the old one.
func (s *service) notify(sessionID string) {
	topic := Topic(sessionID)
	s.metrics.IncCue(metricStore)
	s.metrics.ObserveFanout(metricStore, s.hub.SubscriberCount(topic))
	s.hub.Emit(topic)
}
