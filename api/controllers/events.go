package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/internal/cartview"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// CartEvents streams cart projections over SSE. The client gets the current
// state on connect and a fresh projection after every mutation; the stream
// coalesces to the latest snapshot when the client reads slowly.
func CartEvents(view *cartview.View, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		updates := make(chan cartview.Snapshot, 1)
		observer, err := view.Mount(r.Context(), sessionID, func(snap cartview.Snapshot) {
			for {
				select {
				case updates <- snap:
					return
				default:
					// full buffer holds a stale snapshot; replace it
					select {
					case <-updates:
					default:
					}
				}
			}
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer observer.Unmount()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		for {
			select {
			case <-r.Context().Done():
				return
			case snap := <-updates:
				buf, err := json.Marshal(snap)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "encoding cart event", err)
					}
					continue
				}
				fmt.Fprintf(w, "event: cart\ndata: %s\n\n", buf)
				flusher.Flush()
			}
		}
	}
}
