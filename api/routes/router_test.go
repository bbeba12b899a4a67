package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	cartsvc "github.com/oakmart/storefront-backend/internal/cart"
	"github.com/oakmart/storefront-backend/internal/cartview"
	"github.com/oakmart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/oakmart/storefront-backend/internal/checkout"
	"github.com/oakmart/storefront-backend/internal/wishlist"
	"github.com/oakmart/storefront-backend/pkg/broadcast"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/kvstore"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Session = config.SessionConfig{
		Secret:     "router-test-secret",
		Issuer:     "storefront",
		TTLMinutes: 60,
		CookieName: "storefront_session",
	}

	logg := logger.New(logger.Options{ServiceName: "router-test", Level: logger.ParseLevel("error"), Output: io.Discard})

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	for _, ddl := range []string{
		`CREATE TABLE products (
  id TEXT PRIMARY KEY, name TEXT NOT NULL, price_cents INTEGER NOT NULL,
  unit TEXT, category TEXT NOT NULL, image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1, is_new INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0, is_deal INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME, updated_at DATETIME
);`,
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY, session_id TEXT NOT NULL, status TEXT NOT NULL,
  item_count INTEGER NOT NULL, subtotal_cents INTEGER NOT NULL,
  customer_name TEXT NOT NULL, customer_email TEXT NOT NULL,
  shipping_line TEXT, created_at DATETIME, updated_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY, order_id TEXT NOT NULL, product_id TEXT NOT NULL,
  product_name TEXT NOT NULL, unit TEXT, unit_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL, line_total_cents INTEGER NOT NULL, created_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	hub := broadcast.NewHub()
	kv := kvstore.NewMemoryStore()
	keys := kvstore.Keys{Namespace: "storefront"}

	carts, err := cartsvc.NewService(cartsvc.ServiceParams{KV: kv, Keys: keys, Hub: hub, Logger: logg})
	require.NoError(t, err)
	wishes, err := wishlist.NewService(wishlist.ServiceParams{KV: kv, Keys: keys, Hub: hub, Logger: logg})
	require.NoError(t, err)
	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalog.NewRepository(db)})
	require.NoError(t, err)
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{DB: db, Carts: carts, Logger: logg})
	require.NoError(t, err)
	view, err := cartview.NewView(cartview.ViewParams{Carts: carts, Hub: hub, Logger: logg})
	require.NoError(t, err)

	return NewRouter(cfg, logg, nil, nil, catalogService, carts, wishes, checkoutService, view)
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, payload
}

func getJSON(t *testing.T, client *http.Client, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, payload
}

func TestHealthEndpoints(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()
	client := newClient(t)

	resp, _ := getJSON(t, client, server.URL+"/health/live")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = getJSON(t, client, server.URL+"/health/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShoppingFlow(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()
	client := newClient(t)

	// admin creates a listing
	resp, body := postJSON(t, client, server.URL+"/api/admin/v1/products",
		`{"name":"Organic Bananas","price_cents":149,"category":"produce","is_active":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.Data.ID)

	// first storefront request mints a session cookie
	resp, _ = getJSON(t, client, server.URL+"/api/v1/cart")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// same cookie adds the product twice; lines merge
	for i := 0; i < 2; i++ {
		resp, body = postJSON(t, client, server.URL+"/api/v1/cart/items",
			fmt.Sprintf(`{"product_id":%q,"qty":1}`, created.Data.ID))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	resp, body = getJSON(t, client, server.URL+"/api/v1/cart/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Data struct {
			Count      int   `json:"count"`
			TotalCents int64 `json:"total_cents"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Equal(t, 2, summary.Data.Count)
	require.Equal(t, int64(298), summary.Data.TotalCents)

	// checkout drains the cart
	resp, body = postJSON(t, client, server.URL+"/api/v1/checkout",
		`{"customer_name":"Pat","customer_email":"pat@example.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = getJSON(t, client, server.URL+"/api/v1/cart/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Zero(t, summary.Data.Count)
}

func TestWishlistFlow(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()
	client := newClient(t)

	productID := "6e8bb1d4-1111-4a6a-9a9a-000000000001"
	resp, body := postJSON(t, client, server.URL+"/api/v1/wishlist/toggle",
		fmt.Sprintf(`{"product_id":%q}`, productID))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Contains(t, string(body), `"liked":true`)

	resp, body = postJSON(t, client, server.URL+"/api/v1/wishlist/toggle",
		fmt.Sprintf(`{"product_id":%q}`, productID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"liked":false`)

	resp, body = getJSON(t, client, server.URL+"/api/v1/wishlist")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"product_ids":[]`)
}
