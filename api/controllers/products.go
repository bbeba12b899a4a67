package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakmart/storefront-backend/api/responses"
	"github.com/oakmart/storefront-backend/api/validators"
	"github.com/oakmart/storefront-backend/internal/catalog"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

// ProductsList serves the public catalog browse endpoint.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListProductsInput{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Limit:    limit,
			Offset:   offset,
		}
		for key, dest := range map[string]**bool{
			"is_new":      &input.IsNew,
			"is_featured": &input.IsFeatured,
			"is_deal":     &input.IsDeal,
		} {
			value, err := validators.ParseQueryBool(r, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			*dest = value
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductGet serves a single catalog listing.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name       string  `json:"name" validate:"required"`
	PriceCents int     `json:"price_cents" validate:"min=0"`
	Unit       *string `json:"unit"`
	Category   string  `json:"category" validate:"required"`
	ImageURL   *string `json:"image"`
	IsActive   bool    `json:"is_active"`
	IsNew      bool    `json:"is_new"`
	IsFeatured bool    `json:"is_featured"`
	IsDeal     bool    `json:"is_deal"`
}

// ProductCreate handles admin catalog inserts.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:       payload.Name,
			PriceCents: payload.PriceCents,
			Unit:       payload.Unit,
			Category:   payload.Category,
			ImageURL:   payload.ImageURL,
			IsActive:   payload.IsActive,
			IsNew:      payload.IsNew,
			IsFeatured: payload.IsFeatured,
			IsDeal:     payload.IsDeal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name       *string `json:"name"`
	PriceCents *int    `json:"price_cents" validate:"omitempty,min=0"`
	Unit       *string `json:"unit"`
	Category   *string `json:"category"`
	ImageURL   *string `json:"image"`
	IsActive   *bool   `json:"is_active"`
	IsNew      *bool   `json:"is_new"`
	IsFeatured *bool   `json:"is_featured"`
	IsDeal     *bool   `json:"is_deal"`
}

// ProductUpdate handles admin partial updates.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			Name:       payload.Name,
			PriceCents: payload.PriceCents,
			Unit:       payload.Unit,
			Category:   payload.Category,
			ImageURL:   payload.ImageURL,
			IsActive:   payload.IsActive,
			IsNew:      payload.IsNew,
			IsFeatured: payload.IsFeatured,
			IsDeal:     payload.IsDeal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete handles admin catalog removal.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
