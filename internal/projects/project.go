// Package projects manages the customer projects that own guidelines documents,
// ruleset versions, and the reference-data catalog used for rule mapping.
package projects

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Project groups the documents and ruleset versions of one customer mandate.
// Catalog is the customer's reference-data catalog, stored as opaque JSON.
type Project struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Catalog    json.RawMessage `json:"catalog"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateCommand carries the fields for creating a project.
type CreateCommand struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Catalog    json.RawMessage `json:"catalog,omitempty"`
}

// Validate reports ErrInvalidProject when a required field is missing or the
// catalog is not valid JSON.
func (c CreateCommand) Validate() error {
	if c.CustomerID == "" || c.Name == "" {
		return ErrInvalidProject
	}
	if len(c.Catalog) > 0 && !json.Valid(c.Catalog) {
		return ErrInvalidCatalog
	}
	return nil
}
