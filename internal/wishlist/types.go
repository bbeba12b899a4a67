package wishlist

// Topic returns the broadcast topic carrying wishlist change cues for a
// session. Wishlist cues are separate from cart cues so badge observers
// subscribe only to what they render.
func Topic(sessionID string) string {
	return "wishlist:" + sessionID
}
