package models

import (
	"time"
)

// CatalogEntry is the API representation of one approved product.
type CatalogEntry struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Jurisdiction     string    `json:"jurisdiction"`
	Name             string    `json:"name"`
	Brand            string    `json:"brand,omitempty"`
	Size             string    `json:"size,omitempty"`
	Category         string    `json:"category,omitempty"`
	Subcategory      string    `json:"subcategory,omitempty"`
	RestrictionNotes string    `json:"restriction_notes,omitempty"`
	Active           bool      `json:"active"`
	UpdatedAt        time.Time `json:"updated_at"`
}
