package pagination

const (
	// DefaultPageSize is the storefront page size.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to >= 1 and the size to the default/max bounds.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Meta describes the returned page.
type Meta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Count    int64 `json:"count"`
	HasNext  bool  `json:"has_next"`
}

// NewMeta builds page metadata from the total row count.
func NewMeta(p Params, count int64) Meta {
	n := p.Normalize()
	return Meta{
		Page:     n.Page,
		PageSize: n.PageSize,
		Count:    count,
		HasNext:  int64(n.Page*n.PageSize) < count,
	}
}
