package db

import "time"

// Salon is a listing record. CategoryName and CategorySlug are joined in
// from the categories table on every read so the serving layer never does
// a second lookup. Lat/Lng are nullable: many imported records carry no
// usable coordinates and the geo layer treats those as absent.
type Salon struct {
	Id           int64
	Name         string
	CategoryID   int64
	CategoryName string
	CategorySlug string
	City         string
	District     string
	Address      string
	Lat          *float64
	Lng          *float64
	Sponsored    bool
	Rating       float32
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// CreateSalonParams contains the fields for creating a new salon.
type CreateSalonParams struct {
	Name       string
	CategoryID int64
	City       string
	District   string
	Address    string
	Lat        *float64
	Lng        *float64
	Sponsored  bool
	Tags       []string
}

// UpdateSalonParams contains the fields for updating an existing salon.
type UpdateSalonParams struct {
	Name       string
	CategoryID int64
	City       string
	District   string
	Address    string
	Lat        *float64
	Lng        *float64
	Sponsored  bool
	Tags       []string
}

// NewSalonFromCreateRequest builds a Salon from create parameters.
// Id, Rating and timestamps are set by the database.
func NewSalonFromCreateRequest(params CreateSalonParams) *Salon {
	return &Salon{
		Name:       params.Name,
		CategoryID: params.CategoryID,
		City:       params.City,
		District:   params.District,
		Address:    params.Address,
		Lat:        params.Lat,
		Lng:        params.Lng,
		Sponsored:  params.Sponsored,
		Tags:       params.Tags,
	}
}

// ApplyUpdate applies update parameters to an existing salon in memory.
// Id, Rating and CreatedAt never change here; UpdatedAt is set by the store.
func (s *Salon) ApplyUpdate(params UpdateSalonParams) {
	s.Name = params.Name
	s.CategoryID = params.CategoryID
	s.City = params.City
	s.District = params.District
	s.Address = params.Address
	s.Lat = params.Lat
	s.Lng = params.Lng
	s.Sponsored = params.Sponsored
	s.Tags = params.Tags
}

// Category is a salon type: reference data, rarely mutated. Slug is the
// URL-safe identifier the filter layer matches against.
type Category struct {
	Id        int64
	Name      string
	Slug      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCategoryParams contains the fields for creating a category.
type CreateCategoryParams struct {
	Name  string
	Slug  string
	Image string
}

// NewCategory builds a Category from create parameters.
func NewCategory(params CreateCategoryParams) *Category {
	return &Category{
		Name:  params.Name,
		Slug:  params.Slug,
		Image: params.Image,
	}
}

// Service is an offering from the global catalog. Per-salon assignments
// live in the salon_services join table.
type Service struct {
	Id         int64
	Name       string
	CategoryID int64
	CreatedAt  time.Time
}

// CreateServiceParams contains the fields for creating a service.
type CreateServiceParams struct {
	Name       string
	CategoryID int64
}

// Review is a customer review. Creating one recomputes the salon's
// aggregate rating.
type Review struct {
	Id        int64
	SalonID   int64
	Author    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// CreateReviewParams contains the fields for creating a review.
type CreateReviewParams struct {
	SalonID int64
	Author  string
	Rating  int
	Comment string
}

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booking of a service at a salon. Code is the public
// identifier handed to the customer; the numeric Id stays internal.
type Appointment struct {
	Id            int64
	Code          string
	SalonID       int64
	ServiceID     int64
	CustomerName  string
	CustomerPhone string
	StartsAt      time.Time
	Status        string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// CreateAppointmentParams contains the fields for booking an appointment.
type CreateAppointmentParams struct {
	SalonID       int64
	ServiceID     int64
	CustomerName  string
	CustomerPhone string
	StartsAt      time.Time
}
