// Package catalog implements the storefront product pipeline: tolerant
// ingest of product payloads, category/brand/weight filtering, stable
// ordering and fixed-size pagination.
package catalog

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/vetsoftlabs/vetstore/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Product is the storefront view of a catalog item. Stock here is the
// mirrored value carts decrement speculatively; the domain row keeps the
// authoritative count.
type Product struct {
	ID               int64    `json:"id"`
	Price            float64  `json:"price"`
	Stock            int      `json:"stock"`
	Description      string   `json:"description"`
	Weight           *float64 `json:"weight"`
	Brand            string   `json:"brand"`
	ImageURL         string   `json:"image_url"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory"`
	Installments     int      `json:"installments,omitempty"`
	InstallmentPrice float64  `json:"installment_price,omitempty"`
}

// wireProduct matches the legacy /productos payload, where numeric fields
// may arrive as JSON numbers or as numeric strings.
type wireProduct struct {
	ID           interface{} `json:"id"`
	Precio       interface{} `json:"precio"`
	Stock        interface{} `json:"stock"`
	Descripcion  string      `json:"descripcion"`
	Kg           interface{} `json:"kg"`
	Marca        string      `json:"marca"`
	Imagen       string      `json:"imagen"`
	Categoria    string      `json:"categoria"`
	Subcategoria string      `json:"subcategoria"`
	Cuotas       interface{} `json:"cuotas"`
	PrecioCuotas interface{} `json:"precioCuotas"`
}

// DecodeProducts parses a legacy product list payload, coercing
// string-serialized numbers. A null or absent kg stays nil.
func DecodeProducts(data []byte) ([]Product, error) {
	var wire []wireProduct
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, errors.Wrap(err, "catalog: decode products")
	}
	out := make([]Product, 0, len(wire))
	for i, w := range wire {
		price, err := cast.ToFloat64E(w.Precio)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog: product %d bad precio", i)
		}
		p := Product{
			ID:               cast.ToInt64(w.ID),
			Price:            price,
			Stock:            cast.ToInt(w.Stock),
			Description:      w.Descripcion,
			Brand:            w.Marca,
			ImageURL:         w.Imagen,
			Category:         w.Categoria,
			Subcategory:      w.Subcategoria,
			Installments:     cast.ToInt(w.Cuotas),
			InstallmentPrice: cast.ToFloat64(w.PrecioCuotas),
		}
		if w.Kg != nil {
			kg, err := cast.ToFloat64E(w.Kg)
			if err != nil {
				return nil, errors.Wrapf(err, "catalog: product %d bad kg", i)
			}
			p.Weight = &kg
		}
		out = append(out, p)
	}
	return out, nil
}

// FromRow converts a persisted product into its storefront view.
func FromRow(row domain.Product) Product {
	return Product{
		ID:               row.ID,
		Price:            row.Price,
		Stock:            row.Stock,
		Description:      row.Description,
		Weight:           row.WeightKg,
		Brand:            row.Brand,
		ImageURL:         row.ImageURL,
		Category:         row.Category,
		Subcategory:      row.Subcategory,
		Installments:     row.Installments,
		InstallmentPrice: row.InstallmentPrice,
	}
}

// FromRows converts persisted products preserving order.
func FromRows(rows []domain.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRow(r))
	}
	return out
}
