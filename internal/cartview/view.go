// Package cartview projects cart state for render surfaces. A mounted
// observer gets the current projection immediately and again after every
// change cue, so a badge or mini-cart never shows stale numbers.
package cartview

import (
	"context"

	"github.com/oakmart/storefront-backend/internal/cart"
	"github.com/oakmart/storefront-backend/pkg/broadcast"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// Snapshot is the full projection of one session's cart.
type Snapshot struct {
	Lines      []cart.LineItem `json:"lines"`
	Count      int             `json:"count"`
	TotalCents int64           `json:"total_cents"`
}

// Observer is a live subscription to one session's cart. Unmount stops
// delivery; it is safe to call more than once.
type Observer struct {
	unsubscribe broadcast.UnsubscribeFunc
}

// Unmount detaches the observer from the change feed.
func (o *Observer) Unmount() {
	if o != nil && o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
}

// View builds cart projections and manages observer lifecycles.
type View struct {
	carts cart.Service
	hub   *broadcast.Hub
	logg  *logger.Logger
}

// ViewParams groups dependencies for the cart view.
type ViewParams struct {
	Carts  cart.Service
	Hub    *broadcast.Hub
	Logger *logger.Logger
}

// NewView builds a cart view over the given service and hub.
func NewView(params ViewParams) (*View, error) {
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Hub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "broadcast hub is required")
	}
	return &View{carts: params.Carts, hub: params.Hub, logg: params.Logger}, nil
}

// Project reads the session's cart and derives the rendered numbers from
// the same read, so lines, count and total always agree with each other.
func (v *View) Project(ctx context.Context, sessionID string) (Snapshot, error) {
	lines, err := v.carts.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Lines: lines}
	for _, line := range lines {
		snap.Count += line.Qty
		snap.TotalCents += int64(line.Qty) * int64(line.Product.PriceCents)
	}
	return snap, nil
}

// Mount subscribes onChange to the session's change cues and delivers the
// current projection before returning. The subscription is registered before
// the initial read so a mutation landing in between still produces a cue.
func (v *View) Mount(ctx context.Context, sessionID string, onChange func(Snapshot)) (*Observer, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if onChange == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change callback is required")
	}

	unsubscribe := v.hub.Subscribe(cart.Topic(sessionID), func() {
		snap, err := v.Project(ctx, sessionID)
		if err != nil {
			if v.logg != nil {
				v.logg.Error(v.logg.WithSessionID(ctx, sessionID), "re-projecting cart after change cue", err)
			}
			return
		}
		onChange(snap)
	})

	snap, err := v.Project(ctx, sessionID)
	if err != nil {
		unsubscribe()
		return nil, err
	}
	onChange(snap)

	return &Observer{unsubscribe: unsubscribe}, nil
}
