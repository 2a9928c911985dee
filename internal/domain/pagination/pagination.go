// Package pagination translates page/size/sort input into a bounded,
// deterministic query descriptor. Normalization never fails: absent or
// malformed input degrades to defaults.
package pagination

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage = 0
	DefaultSize = 20
	MaxSize     = 100
)

// Request is the abstract page/size/sort input as received on the wire.
// Sort tokens have the form "field,direction" (e.g. "id,asc" or "email,desc").
type Request struct {
	Page *int     `json:"page" form:"page"`
	Size *int     `json:"size" form:"size"`
	Sort []string `json:"sort" form:"sort"`
}

// Order is one (field, direction) pair, in input order.
type Order struct {
	Field      string
	Descending bool
}

// Descriptor is the normalized (offset, limit, ordering) triple.
type Descriptor struct {
	Offset int
	Limit  int
	Orders []Order
}

// Normalize produces the descriptor for a request. A nil request yields the
// defaults (page 0, size 20, unsorted). Identical input always yields an
// identical descriptor with field order preserved from the sort list.
func Normalize(req *Request) Descriptor {
	page := DefaultPage
	size := DefaultSize

	if req != nil {
		if req.Page != nil && *req.Page >= 0 {
			page = *req.Page
		}
		if req.Size != nil && *req.Size >= 1 {
			size = *req.Size
		}
	}
	if size > MaxSize {
		size = MaxSize
	}

	d := Descriptor{
		Offset: page * size,
		Limit:  size,
	}
	if req != nil {
		d.Orders = parseOrders(req.Sort)
	}
	return d
}

// parseOrders skips malformed tokens (empty field) and defaults the direction
// to ascending unless it is exactly "desc", case-insensitive.
func parseOrders(sort []string) []Order {
	var orders []Order
	for _, token := range sort {
		parts := strings.SplitN(token, ",", 2)
		field := strings.TrimSpace(parts[0])
		if field == "" {
			continue
		}
		desc := len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc")
		orders = append(orders, Order{Field: field, Descending: desc})
	}
	return orders
}

// Page reconstructs the zero-based page number from the descriptor.
func (d Descriptor) Page() int {
	if d.Limit <= 0 {
		return 0
	}
	return d.Offset / d.Limit
}

// TotalPages computes the page count for a total row count.
func (d Descriptor) TotalPages(total int64) int {
	if d.Limit <= 0 {
		return 0
	}
	pages := int(total) / d.Limit
	if int(total)%d.Limit != 0 {
		pages++
	}
	return pages
}

// Scope applies offset, limit, and whitelisted ordering to a query. Sort
// fields missing from the column map are skipped so caller input can never
// inject identifiers. The map value is the actual column expression.
func (d Descriptor) Scope(columns map[string]string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, o := range d.Orders {
			col, ok := columns[o.Field]
			if !ok {
				continue
			}
			if o.Descending {
				db = db.Order(col + " DESC")
			} else {
				db = db.Order(col + " ASC")
			}
		}
		return db.Offset(d.Offset).Limit(d.Limit)
	}
}
