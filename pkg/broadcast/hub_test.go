package broadcast

import "testing"

func TestEmitReachesEverySubscriberOnce(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	counts := make([]int, 3)
	for i := range counts {
		i := i
		hub.Subscribe("cart:sess-1", func() { counts[i]++ })
	}

	hub.Emit("cart:sess-1")

	for i, count := range counts {
		if count != 1 {
			t.Fatalf("subscriber %d expected 1 cue, got %d", i, count)
		}
	}
}

func TestEmitIsScopedByTopic(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	var cart, wishlist int
	hub.Subscribe("cart:sess-1", func() { cart++ })
	hub.Subscribe("wishlist:sess-1", func() { wishlist++ })

	hub.Emit("cart:sess-1")

	if cart != 1 || wishlist != 0 {
		t.Fatalf("cue leaked across topics: cart=%d wishlist=%d", cart, wishlist)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	var calls int
	unsubscribe := hub.Subscribe("cart:sess-1", func() { calls++ })

	hub.Emit("cart:sess-1")
	unsubscribe()
	hub.Emit("cart:sess-1")

	if calls != 1 {
		t.Fatalf("expected 1 cue before unsubscribe, got %d", calls)
	}
	if n := hub.SubscriberCount("cart:sess-1"); n != 0 {
		t.Fatalf("expected empty topic after unsubscribe, got %d", n)
	}

	// second call is a no-op
	unsubscribe()
}

func TestSubscriberMayUnsubscribeDuringEmit(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	var first, second int
	var unsubFirst UnsubscribeFunc
	unsubFirst = hub.Subscribe("t", func() {
		first++
		unsubFirst()
	})
	hub.Subscribe("t", func() { second++ })

	hub.Emit("t")
	hub.Emit("t")

	if first != 1 {
		t.Fatalf("self-unsubscribing observer ran %d times", first)
	}
	if second != 2 {
		t.Fatalf("remaining observer expected 2 cues, got %d", second)
	}
}

func TestEmitWithoutSubscribersIsSafe(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	hub.Emit("nobody-home")

	if n := hub.SubscriberCount("nobody-home"); n != 0 {
		t.Fatalf("unexpected subscribers: %d", n)
	}
}

func TestNilCallbackIsIgnored(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	unsubscribe := hub.Subscribe("t", nil)
	unsubscribe()
	hub.Emit("t")
}
