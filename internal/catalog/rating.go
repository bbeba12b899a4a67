package catalog

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// DisplayRating derives a stable star rating from the product id. It is a
// presentation value only: the same id always renders the same stars, and
// the range stays between 3.5 and 5.0 in half-star steps.
func DisplayRating(id uuid.UUID) float64 {
	h := fnv.New32a()
	h.Write(id[:]) // never errors
	steps := h.Sum32() % 4
	return 3.5 + float64(steps)*0.5
}
