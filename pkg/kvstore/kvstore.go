// Package kvstore is the durable key-value boundary that owns cart and
// wishlist state. Reads and writes are synchronous; values are opaque
// serialized strings. The store never interprets what it holds.
package kvstore

import (
	"context"
	"strings"
)

const (
	cartPrefix     = "cart"
	wishlistPrefix = "wishlist"
)

// Store is the storage surface the session state services depend on.
// Read reports ok=false when no value exists at key.
type Store interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Keys builds namespaced storage keys so the cart and wishlist collections
// never collide. Key names are an implementation detail, not a contract.
type Keys struct {
	Namespace string
}

// CartKey returns the storage key holding a session's cart line items.
func (k Keys) CartKey(sessionID string) string {
	return k.build(cartPrefix, sessionID)
}

// WishlistKey returns the storage key holding a session's liked-id set.
func (k Keys) WishlistKey(sessionID string) string {
	return k.build(wishlistPrefix, sessionID)
}

func (k Keys) build(parts ...string) string {
	ns := strings.TrimSpace(k.Namespace)
	if ns == "" {
		ns = "storefront"
	}
	clean := []string{ns}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
