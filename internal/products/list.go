package products

import (
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
// At most one is applied; Query wins over Category which wins over Featured.
type ListFilters struct {
	Category *enums.ProductCategory
	Featured bool
	Query    string
}
