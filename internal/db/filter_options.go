package db

// SalonFilter holds SQL-level pre-filters for salons. Text search and the
// mode-aware matching live in the in-memory engine; this layer only narrows
// what gets loaded.
type SalonFilter struct {
	City         *string // exact match on the structured city column
	District     *string // exact match on the structured district column
	CategorySlug *string // exact match on the joined category slug
	Sponsored    *bool   // only sponsored (or only unsponsored) listings

	// Pagination
	Limit  *int
	Offset *int
}

// SalonFilterOption is a functional option configuring a SalonFilter.
type SalonFilterOption func(*SalonFilter)

// WithCity filters by exact city name.
func WithCity(city string) SalonFilterOption {
	return func(f *SalonFilter) {
		f.City = &city
	}
}

// WithDistrict filters by exact district name.
func WithDistrict(district string) SalonFilterOption {
	return func(f *SalonFilter) {
		f.District = &district
	}
}

// WithCategorySlug filters by the joined category slug.
func WithCategorySlug(slug string) SalonFilterOption {
	return func(f *SalonFilter) {
		f.CategorySlug = &slug
	}
}

// WithSponsored filters by the sponsorship flag.
func WithSponsored(sponsored bool) SalonFilterOption {
	return func(f *SalonFilter) {
		f.Sponsored = &sponsored
	}
}

// WithPagination adds limit and offset.
func WithPagination(limit, offset int) SalonFilterOption {
	return func(f *SalonFilter) {
		f.Limit = &limit
		f.Offset = &offset
	}
}

// WithLimit adds only a limit.
func WithLimit(limit int) SalonFilterOption {
	return func(f *SalonFilter) {
		f.Limit = &limit
	}
}

// NewSalonFilter builds a filter from the given options.
func NewSalonFilter(opts ...SalonFilterOption) *SalonFilter {
	filter := &SalonFilter{}
	for _, opt := range opts {
		opt(filter)
	}
	return filter
}

// IsEmpty reports whether the filter has no conditions.
func (f *SalonFilter) IsEmpty() bool {
	return f.City == nil &&
		f.District == nil &&
		f.CategorySlug == nil &&
		f.Sponsored == nil
}

// GetLimit returns the limit or the default.
func (f *SalonFilter) GetLimit() int {
	if f.Limit == nil {
		return 100
	}
	return *f.Limit
}

// GetOffset returns the offset or 0.
func (f *SalonFilter) GetOffset() int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}
