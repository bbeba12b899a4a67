package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/pkg/broadcast"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/kvstore"
)

type fixture struct {
	svc  Service
	kv   *kvstore.MemoryStore
	keys kvstore.Keys
	hub  *broadcast.Hub
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	kv := kvstore.NewMemoryStore()
	hub := broadcast.NewHub()
	keys := kvstore.Keys{Namespace: "storefront"}
	svc, err := NewService(ServiceParams{KV: kv, Keys: keys, Hub: hub})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return fixture{svc: svc, kv: kv, keys: keys, hub: hub}
}

func snapshot(priceCents int) ProductSnapshot {
	return ProductSnapshot{
		ID:         uuid.New(),
		Name:       "item",
		PriceCents: priceCents,
		Category:   "misc",
	}
}

func TestRepeatedAddMergesIntoOneLine(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := snapshot(2000)

	for i := 0; i < 4; i++ {
		if err := f.svc.AddItem(ctx, "sess-1", product, 1); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}

	lines, err := f.svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Qty != 4 {
		t.Fatalf("expected qty 4, got %d", lines[0].Qty)
	}
}

func TestInsertionOrderSurvivesReAdd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := snapshot(1000)
	second := snapshot(500)

	if err := f.svc.AddItem(ctx, "sess-1", first, 1); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := f.svc.AddItem(ctx, "sess-1", second, 1); err != nil {
		t.Fatalf("add second: %v", err)
	}
	if err := f.svc.AddItem(ctx, "sess-1", first, 1); err != nil {
		t.Fatalf("re-add first: %v", err)
	}

	lines, err := f.svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	if lines[0].Product.ID != first.ID || lines[1].Product.ID != second.ID {
		t.Fatalf("re-add reordered the cart: %v then %v", lines[0].Product.ID, lines[1].Product.ID)
	}
	if lines[0].Qty != 2 {
		t.Fatalf("expected first line qty 2, got %d", lines[0].Qty)
	}
}

func TestTotalAndCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, "sess-1", snapshot(2000), 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.AddItem(ctx, "sess-1", snapshot(1500), 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	total, err := f.svc.Total(ctx, "sess-1")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 9000 {
		t.Fatalf("expected total 9000, got %d", total)
	}

	count, err := f.svc.Count(ctx, "sess-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected count 5, got %d", count)
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.AddItem(ctx, "sess-1", ProductSnapshot{Name: "no id"}, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}

	err = f.svc.AddItem(ctx, "sess-1", snapshot(100), 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero qty, got %v", err)
	}

	lines, err := f.svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("rejected adds must not touch the cart, got %d lines", len(lines))
	}
}

func TestRemoveAbsentIsSilentNoOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := snapshot(700)

	if err := f.svc.AddItem(ctx, "sess-1", product, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	var cues int
	unsubscribe := f.hub.Subscribe(Topic("sess-1"), func() { cues++ })
	defer unsubscribe()

	if err := f.svc.RemoveItem(ctx, "sess-1", uuid.New()); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if cues != 0 {
		t.Fatalf("no-op removal must not cue observers, got %d cues", cues)
	}

	lines, _ := f.svc.Get(ctx, "sess-1")
	if len(lines) != 1 || lines[0].Product.ID != product.ID {
		t.Fatalf("cart changed on no-op removal: %+v", lines)
	}

	if err := f.svc.RemoveItem(ctx, "sess-1", product.ID); err != nil {
		t.Fatalf("remove present: %v", err)
	}
	if cues != 1 {
		t.Fatalf("real removal should cue once, got %d", cues)
	}
	if lines, _ := f.svc.Get(ctx, "sess-1"); len(lines) != 0 {
		t.Fatalf("expected empty cart after removal, got %d lines", len(lines))
	}
}

func TestSetQuantityClampsToOne(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := snapshot(900)

	if err := f.svc.AddItem(ctx, "sess-1", product, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, qty := range []int{0, -5} {
		if err := f.svc.SetQuantity(ctx, "sess-1", product.ID, qty); err != nil {
			t.Fatalf("set quantity %d: %v", qty, err)
		}
		lines, _ := f.svc.Get(ctx, "sess-1")
		if lines[0].Qty != 1 {
			t.Fatalf("qty %d should clamp to 1, got %d", qty, lines[0].Qty)
		}
	}

	if err := f.svc.SetQuantity(ctx, "sess-1", product.ID, 7); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	lines, _ := f.svc.Get(ctx, "sess-1")
	if lines[0].Qty != 7 {
		t.Fatalf("expected qty 7, got %d", lines[0].Qty)
	}
}

func TestSetQuantityOnAbsentLineIsNoOp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	var cues int
	unsubscribe := f.hub.Subscribe(Topic("sess-1"), func() { cues++ })
	defer unsubscribe()

	if err := f.svc.SetQuantity(ctx, "sess-1", uuid.New(), 5); err != nil {
		t.Fatalf("set quantity on absent line: %v", err)
	}
	if cues != 0 {
		t.Fatalf("absent line must not cue, got %d", cues)
	}
}

func TestClearResetsFully(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, "sess-1", snapshot(1200), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	lines, err := f.svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", len(lines))
	}
	count, _ := f.svc.Count(ctx, "sess-1")
	if count != 0 {
		t.Fatalf("expected count 0 after clear, got %d", count)
	}
}

func TestMutationCuesEverySubscriber(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	counts := make([]int, 3)
	for i := range counts {
		i := i
		defer f.hub.Subscribe(Topic("sess-1"), func() { counts[i]++ })()
	}

	if err := f.svc.AddItem(ctx, "sess-1", snapshot(100), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	for i, count := range counts {
		if count != 1 {
			t.Fatalf("observer %d expected exactly 1 cue, got %d", i, count)
		}
	}
}

func TestCorruptStorageReadsAsEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.kv.Write(ctx, f.keys.CartKey("sess-1"), "{not json"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	lines, err := f.svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("corrupt storage must not error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}

	// the cart remains usable afterwards
	if err := f.svc.AddItem(ctx, "sess-1", snapshot(300), 1); err != nil {
		t.Fatalf("add after corruption: %v", err)
	}
	if lines, _ := f.svc.Get(ctx, "sess-1"); len(lines) != 1 {
		t.Fatalf("expected recovered cart with 1 line, got %d", len(lines))
	}
}

func TestLoadRepairsInconsistentStoredState(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := snapshot(1000)
	second := snapshot(500)

	// Another instance sharing the backend can leave duplicate lines and
	// non-positive quantities behind. A read must repair, not pass through.
	seeded := []LineItem{
		{Product: first, Qty: 2},
		{Product: ProductSnapshot{Name: "no id"}, Qty: 1},
		{Product: second, Qty: 0},
		{Product: first, Qty: 3},
		{Product: second, Qty: -4},
	}
	buf, err := json.Marshal(seeded)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	if err := f.kv.Write(ctx, f.keys.CartKey("sess-1"), string(buf)); err != nil {
		t.Fatalf("seed inconsistent value: %v", err)
	}

	lines, err := f.svc.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected duplicates folded into one line, got %d: %+v", len(lines), lines)
	}
	if lines[0].Product.ID != first.ID || lines[0].Qty != 5 {
		t.Fatalf("expected first line with qty 5, got %+v", lines[0])
	}

	count, err := f.svc.Count(ctx, "sess-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected count 5 after repair, got %d", count)
	}
}

func TestCartsAreScopedBySession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, "sess-a", snapshot(100), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines, err := f.svc.Get(ctx, "sess-b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("sessions must not share carts, got %d lines", len(lines))
	}
}

func TestPriceSnapshotIsFrozenAtAddTime(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	product := snapshot(1000)

	if err := f.svc.AddItem(ctx, "sess-1", product, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// catalog price change reaches only future adds of other products
	product.PriceCents = 9999
	lines, _ := f.svc.Get(ctx, "sess-1")
	if lines[0].Product.PriceCents != 1000 {
		t.Fatalf("stored snapshot must keep the add-time price, got %d", lines[0].Product.PriceCents)
	}
}
