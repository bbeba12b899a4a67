package wishlist

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

const metricStore = "wishlist"

// Service manages the session's liked set. Membership is by product id
// only; listings join against the catalog when they need names or prices.
type Service interface {
	List(ctx context.Context, sessionID string) ([]uuid.UUID, error)
	Contains(ctx context.Context, sessionID string, productID uuid.UUID) (bool, error)
	Toggle(ctx context.Context, sessionID string, productID uuid.UUID) (liked bool, err error)
	Clear(ctx context.Context, sessionID string) error
}

// ServiceParams groups dependencies for the wishlist service.
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

// NewService builds a wishlist service backed by the provided storage and hub.
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

// List returns the liked product ids in the order they were first liked.
func (s *service) List(ctx context.Context, sessionID string) ([]uuid.UUID, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.load(ctx, sessionID)
}

// Contains reports whether the product is currently liked.
func (s *service) Contains(ctx context.Context, sessionID string, productID uuid.UUID) (bool, error) {
	ids, err := s.List(ctx, sessionID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

// Toggle flips the product's membership and reports the resulting state.
// Two toggles of the same id always return the set to where it started.
func (s *service) Toggle(ctx context.Context, sessionID string, productID uuid.UUID) (bool, error) {
	if sessionID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	ids, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}

	kept := ids[:0]
	removed := false
	for _, id := range ids {
		if id == productID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	liked := !removed
	if liked {
		kept = append(kept, productID)
	}

	if err := s.persist(ctx, sessionID, kept); err != nil {
		return false, err
	}
	s.metrics.IncMutation(metricStore, "toggle")
	s.notify(sessionID)
	return liked, nil
}

// Clear empties the liked set by deleting the stored value.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.kv.Delete(ctx, s.keys.WishlistKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear wishlist")
	}
	s.metrics.IncMutation(metricStore, "clear")
	s.notify(sessionID)
	return nil
}

func (s *service) load(ctx context.Context, sessionID string) ([]uuid.UUID, error) {
	raw, ok, err := s.kv.Read(ctx, s.keys.WishlistKey(sessionID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read wishlist")
	}
	if !ok || raw == "" {
		return []uuid.UUID{}, nil
	}

	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding malformed wishlist state")
		}
		return []uuid.UUID{}, nil
	}
	return ids, nil
}

func (s *service) persist(ctx context.Context, sessionID string, ids []uuid.UUID) error {
	buf, err := json.Marshal(ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wishlist")
	}
	if err := s.kv.Write(ctx, s.keys.WishlistKey(sessionID), string(buf)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wishlist")
	}
	return nil
}

func (s *service) notify(sessionID string) {
	topic := Topic(sessionID)
	s.metrics.IncCue(metricStore)
	s.metrics.ObserveFanout(metricStore, s.hub.SubscriberCount(topic))
	s.hub.Emit(topic)
}
