package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PlaceholderImage is served when a product carries no thumbnail.
const PlaceholderImage = "https://placehold.co/400x300?text=No+Image"

// Product is a catalog entity as seen by the storefront core. All numeric
// fields are definite values: the gateway coerces whatever the backend sent
// (numbers, quoted numbers, null, garbage) before a Product is built, so
// nothing downstream ever parses again. Products are immutable once
// fetched; a re-fetch replaces them wholesale.
type Product struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Category      string  `json:"category"`
	Thumbnail     string  `json:"thumbnail,omitempty"`
	Rating        float64 `json:"rating"`
	Stock         int     `json:"stock"`
	Description   string  `json:"description,omitempty"`
}

// ImageURL resolves the product thumbnail to something renderable: absolute
// URLs pass through, relative paths gain a leading slash, and a missing
// thumbnail falls back to the placeholder.
func (p Product) ImageURL() string {
	if p.Thumbnail == "" {
		return PlaceholderImage
	}
	if strings.HasPrefix(p.Thumbnail, "http") {
		return p.Thumbnail
	}
	if strings.HasPrefix(p.Thumbnail, "/") {
		return p.Thumbnail
	}
	return "/" + p.Thumbnail
}

// flexFloat decodes a JSON number that may arrive as a number, a quoted
// number, or null. Anything unparseable coerces to 0 instead of failing the
// whole payload.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt is flexFloat for integer fields; fractional input truncates.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*i = flexInt(f)
	return nil
}

// flexString decodes a field that may arrive as a string or a bare number
// (legacy backends serialized integer ids unquoted).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	*s = flexString(strings.Trim(trimmed, `"`))
	return nil
}

// wireProduct is the tolerant decode target for backend payloads.
type wireProduct struct {
	ID            flexString `json:"id"`
	Title         string     `json:"title"`
	Price         flexFloat  `json:"price"`
	OriginalPrice flexFloat  `json:"original_price"`
	Category      string     `json:"category"`
	Thumbnail     string     `json:"thumbnail"`
	Rating        flexFloat  `json:"rating"`
	Stock         flexInt    `json:"stock"`
	Description   string     `json:"description"`
}

func (w wireProduct) normalize() Product {
	return Product{
		ID:            string(w.ID),
		Title:         w.Title,
		Price:         float64(w.Price),
		OriginalPrice: float64(w.OriginalPrice),
		Category:      w.Category,
		Thumbnail:     w.Thumbnail,
		Rating:        float64(w.Rating),
		Stock:         int(w.Stock),
		Description:   w.Description,
	}
}
