package server

import (
	"time"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/geo"
)

// PinResponse is a pin position in percentage map coordinates.
type PinResponse struct {
	XPct float64 `json:"x_pct"`
	YPct float64 `json:"y_pct"`
}

// SalonResponse is the public shape of a salon. Pin is set only when the
// salon carries valid coordinates; it is projected against the map center
// of the response it appears in.
type SalonResponse struct {
	Id           int64        `json:"id"`
	Name         string       `json:"name"`
	CategoryName string       `json:"category_name"`
	CategorySlug string       `json:"category_slug"`
	City         string       `json:"city"`
	District     string       `json:"district"`
	Address      string       `json:"address"`
	Lat          *float64     `json:"lat,omitempty"`
	Lng          *float64     `json:"lng,omitempty"`
	Pin          *PinResponse `json:"pin,omitempty"`
	Sponsored    bool         `json:"sponsored"`
	Rating       float32      `json:"rating"`
	Tags         []string     `json:"tags"`
}

// ListSalonsResponse is the listing view: the filtered salons in serving
// order plus the resolved map center they are drawn around.
type ListSalonsResponse struct {
	Salons    []SalonResponse `json:"salons"`
	Total     int             `json:"total"`
	MapCenter geo.Point       `json:"map_center"`
}

// SalonDetailResponse is the detail view, with the salon's service names.
type SalonDetailResponse struct {
	SalonResponse
	Services []string `json:"services"`
}

// CategoryResponse is the public shape of a category.
type CategoryResponse struct {
	Id    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// CitiesResponse lists the known cities with reference coordinates.
type CitiesResponse struct {
	Cities []string `json:"cities"`
	Total  int      `json:"total"`
}

// ReviewResponse is the public shape of a review.
type ReviewResponse struct {
	Id        int64     `json:"id"`
	SalonID   int64     `json:"salon_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// AppointmentResponse is the public shape of a booking. The numeric id
// stays internal; customers identify bookings by code.
type AppointmentResponse struct {
	Code          string    `json:"code"`
	SalonID       int64     `json:"salon_id"`
	ServiceID     int64     `json:"service_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	StartsAt      time.Time `json:"starts_at"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Request bodies. Validated with struct tags before touching the store.

type createSalonRequest struct {
	Name       string   `json:"name" validate:"required"`
	CategoryID int64    `json:"category_id" validate:"required"`
	City       string   `json:"city" validate:"required"`
	District   string   `json:"district"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Sponsored  bool     `json:"sponsored"`
	Tags       []string `json:"tags"`
}

type updateSalonRequest struct {
	Name       string   `json:"name" validate:"required"`
	CategoryID int64    `json:"category_id" validate:"required"`
	City       string   `json:"city" validate:"required"`
	District   string   `json:"district"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Sponsored  bool     `json:"sponsored"`
	Tags       []string `json:"tags"`
}

type positionRequest struct {
	XPct *float64 `json:"x_pct" validate:"required"`
	YPct *float64 `json:"y_pct" validate:"required"`
	// City optionally names the map the click happened on; defaults to the
	// salon's own city.
	City string `json:"city"`
}

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Slug  string `json:"slug" validate:"required"`
	Image string `json:"image"`
}

type createServiceRequest struct {
	Name       string `json:"name" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required"`
}

type createReviewRequest struct {
	Author  string `json:"author" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type createAppointmentRequest struct {
	SalonID       int64     `json:"salon_id" validate:"required"`
	ServiceID     int64     `json:"service_id" validate:"required"`
	CustomerName  string    `json:"customer_name" validate:"required"`
	CustomerPhone string    `json:"customer_phone" validate:"required"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
}

// Mappers.

func salonToResponse(salon *db.Salon, center geo.Point) SalonResponse {
	resp := SalonResponse{
		Id:           salon.Id,
		Name:         salon.Name,
		CategoryName: salon.CategoryName,
		CategorySlug: salon.CategorySlug,
		City:         salon.City,
		District:     salon.District,
		Address:      salon.Address,
		Lat:          salon.Lat,
		Lng:          salon.Lng,
		Sponsored:    salon.Sponsored,
		Rating:       salon.Rating,
		Tags:         salon.Tags,
	}

	if p, ok := salonPoint(salon); ok {
		x, y := geo.Project(p, center)
		resp.Pin = &PinResponse{XPct: x, YPct: y}
	}

	return resp
}

// salonPoint extracts a salon's coordinates when both are present and pass
// validation.
func salonPoint(salon *db.Salon) (geo.Point, bool) {
	if salon == nil || salon.Lat == nil || salon.Lng == nil {
		return geo.Point{}, false
	}
	p := geo.Point{Lat: *salon.Lat, Lng: *salon.Lng}
	return p, p.Valid()
}

func categoryToResponse(category *db.Category) CategoryResponse {
	return CategoryResponse{
		Id:    category.Id,
		Name:  category.Name,
		Slug:  category.Slug,
		Image: category.Image,
	}
}

func reviewToResponse(review *db.Review) ReviewResponse {
	return ReviewResponse{
		Id:        review.Id,
		SalonID:   review.SalonID,
		Author:    review.Author,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func appointmentToResponse(appt *db.Appointment) AppointmentResponse {
	return AppointmentResponse{
		Code:          appt.Code,
		SalonID:       appt.SalonID,
		ServiceID:     appt.ServiceID,
		CustomerName:  appt.CustomerName,
		CustomerPhone: appt.CustomerPhone,
		StartsAt:      appt.StartsAt,
		Status:        appt.Status,
		CreatedAt:     appt.CreatedAt,
	}
}
