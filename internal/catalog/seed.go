package catalog

import (
	"context"

	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
)

func strptr(s string) *string { return &s }

// seedProducts is the starter catalog written into an empty database when
// seeding is enabled. Prices are per unit, in cents.
var seedProducts = []models.Product{
	{Name: "Organic Bananas", PriceCents: 149, Unit: strptr("bunch"), Category: "produce", IsActive: true, IsNew: false, IsFeatured: true, IsDeal: false},
	{Name: "Avocado", PriceCents: 199, Unit: strptr("each"), Category: "produce", IsActive: true, IsNew: false, IsFeatured: false, IsDeal: true},
	{Name: "Baby Spinach", PriceCents: 349, Unit: strptr("bag"), Category: "produce", IsActive: true, IsNew: true, IsFeatured: false, IsDeal: false},
	{Name: "Whole Milk", PriceCents: 429, Unit: strptr("gallon"), Category: "dairy", IsActive: true, IsNew: false, IsFeatured: false, IsDeal: false},
	{Name: "Greek Yogurt", PriceCents: 549, Unit: strptr("32 oz"), Category: "dairy", IsActive: true, IsNew: false, IsFeatured: true, IsDeal: true},
	{Name: "Sharp Cheddar", PriceCents: 699, Unit: strptr("8 oz"), Category: "dairy", IsActive: true, IsNew: false, IsFeatured: false, IsDeal: false},
	{Name: "Sourdough Loaf", PriceCents: 599, Unit: strptr("loaf"), Category: "bakery", IsActive: true, IsNew: true, IsFeatured: true, IsDeal: false},
	{Name: "Butter Croissant", PriceCents: 325, Unit: strptr("each"), Category: "bakery", IsActive: true, IsNew: false, IsFeatured: false, IsDeal: false},
	{Name: "Ground Coffee", PriceCents: 1199, Unit: strptr("12 oz"), Category: "pantry", IsActive: true, IsNew: false, IsFeatured: true, IsDeal: false},
	{Name: "Extra Virgin Olive Oil", PriceCents: 1499, Unit: strptr("500 ml"), Category: "pantry", IsActive: true, IsNew: false, IsFeatured: false, IsDeal: true},
	{Name: "Penne Rigate", PriceCents: 249, Unit: strptr("16 oz"), Category: "pantry", IsActive: true, IsNew: false, IsFeatured: false, IsDeal: false},
	{Name: "Wild Salmon Fillet", PriceCents: 1599, Unit: strptr("lb"), Category: "seafood", IsActive: true, IsNew: true, IsFeatured: true, IsDeal: false},
}

// Seed inserts the starter catalog if the products table is empty. It
// reports how many rows were written; a non-empty table writes none.
func (s *service) Seed(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if total > 0 {
		return 0, nil
	}

	inserted := 0
	for i := range seedProducts {
		product := seedProducts[i]
		if _, err := s.repo.Create(ctx, &product); err != nil {
			return inserted, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed product")
		}
		inserted++
	}
	return inserted, nil
}
