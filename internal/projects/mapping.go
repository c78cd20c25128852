package projects

import (
	"net/url"

	"github.com/JaimeStill/mandate/pkg/query"
	"github.com/JaimeStill/mandate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("customer_id", "CustomerID").
	Project("name", "Name").
	Project("catalog", "Catalog").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for project queries.
type Filters struct {
	CustomerID *string `json:"customer_id,omitempty"`
	Name       *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("CustomerID", f.CustomerID).
		WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("customer_id"); c != "" {
		f.CustomerID = &c
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}

var errorMap = repository.ErrorMap{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	var catalog []byte
	err := s.Scan(
		&p.ID,
		&p.CustomerID,
		&p.Name,
		&catalog,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	p.Catalog = catalog
	return p, err
}
