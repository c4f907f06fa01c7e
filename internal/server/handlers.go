package server

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/salonatlas/salon-service/internal/dataloader"
	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/geo"
	"github.com/salonatlas/salon-service/internal/search"
	"github.com/salonatlas/salon-service/internal/search/suggest"
	"github.com/salonatlas/salon-service/pkg/metrics"
)

// snapshot returns the serving snapshot, or nil after writing a 503. Before
// the first load there is nothing consistent to serve from.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) *dataloader.Snapshot {
	snap := s.snapshots.Snapshot()
	if snap == nil {
		respondError(w, r, http.StatusServiceUnavailable, "serving data not loaded yet")
		return nil
	}
	return snap
}

// handleListSalons is the listing view: filter the snapshot with the URL
// criteria, resolve the map center from the results, project the pins.
func (s *Server) handleListSalons(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}

	query := r.URL.Query()
	criteria := search.ParseCriteria(query)
	results := s.searcher.Filter(snap.Salons, snap.ServiceNames, criteria)
	metrics.RecordFilterResult(string(criteria.Mode), len(results))

	// The map center is resolved before paging, so page two of an İstanbul
	// search still centers on İstanbul.
	center := geo.ResolveMapCenter(firstResultPoint(results), criteria.City)
	total := len(results)
	results = pageOf(results, query.Get("limit"), query.Get("offset"))

	resp := ListSalonsResponse{
		Salons:    make([]SalonResponse, 0, len(results)),
		Total:     total,
		MapCenter: center,
	}
	for _, salon := range results {
		resp.Salons = append(resp.Salons, salonToResponse(salon, center))
	}

	respondJSON(w, r, http.StatusOK, resp)
}

// pageOf slices the results by the optional limit/offset parameters.
// Unparseable or absent values leave the results untouched.
func pageOf(salons []*db.Salon, limitStr, offsetStr string) []*db.Salon {
	offset, _ := strconv.Atoi(offsetStr)
	if offset > 0 {
		if offset >= len(salons) {
			return []*db.Salon{}
		}
		salons = salons[offset:]
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit > 0 && limit < len(salons) {
		salons = salons[:limit]
	}

	return salons
}

// firstResultPoint returns the first result's coordinates when that result
// carries a usable point. Only the first result counts: when it has no
// point the center falls through to the selected city's reference point,
// never to a later result.
func firstResultPoint(salons []*db.Salon) *geo.Point {
	if len(salons) == 0 {
		return nil
	}
	if p, ok := salonPoint(salons[0]); ok {
		return &p
	}
	return nil
}

// handleGetSalon is the detail view. It reads from the store, not the
// snapshot, so a freshly created salon is visible before the next reload.
func (s *Server) handleGetSalon(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	salon, err := s.store.GetSalonByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	services, err := s.store.GetServiceNamesBySalon(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	center := geo.ResolveMapCenter(firstResultPoint([]*db.Salon{salon}), salon.City)

	respondJSON(w, r, http.StatusOK, SalonDetailResponse{
		SalonResponse: salonToResponse(salon, center),
		Services:      services,
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}

	categories := make([]CategoryResponse, 0, len(snap.Categories))
	for _, category := range snap.Categories {
		if category == nil {
			continue
		}
		categories = append(categories, categoryToResponse(category))
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"categories": categories,
		"total":      len(categories),
	})
}

func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
	cities := geo.CityNames()
	sort.Strings(cities)

	respondJSON(w, r, http.StatusOK, CitiesResponse{
		Cities: cities,
		Total:  len(cities),
	})
}

// handleSuggestions serves autocomplete. The same query parameters as the
// listing view apply, so the client reuses its search state.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}

	query := r.URL.Query()
	term := query.Get("q")
	if term == "" {
		term = query.Get("search")
	}
	req := suggest.Request{
		Query: term,
		Mode:  search.ParseMode(query.Get("mode")),
		City:  query.Get("city"),
	}
	if limit := query.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			req.MaxResults = n
		}
	}

	respondJSON(w, r, http.StatusOK, s.suggester.Suggest(snap.Pools(), req))
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	reviews, err := s.store.ListReviewsBySalon(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	resp := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, reviewToResponse(review))
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"reviews": resp,
		"total":   len(resp),
	})
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	var req createReviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	review, err := s.store.CreateReview(r.Context(), &db.Review{
		SalonID: id,
		Author:  req.Author,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, reviewToResponse(review))
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	appt, err := s.store.CreateAppointment(r.Context(), &db.Appointment{
		Code:          uuid.NewString(),
		SalonID:       req.SalonID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		StartsAt:      req.StartsAt,
		Status:        db.AppointmentPending,
	})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("appointment created",
		"code", appt.Code,
		"salon_id", appt.SalonID,
		"starts_at", appt.StartsAt,
	)

	respondJSON(w, r, http.StatusCreated, appointmentToResponse(appt))
}

func (s *Server) handleGetAppointment(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	appt, err := s.store.GetAppointmentByCode(r.Context(), code)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, appointmentToResponse(appt))
}

func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	current, err := s.store.GetAppointmentByCode(r.Context(), code)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	if current.Status == db.AppointmentCancelled {
		respondError(w, r, http.StatusConflict, "appointment already cancelled")
		return
	}

	appt, err := s.store.UpdateAppointmentStatus(r.Context(), code, db.AppointmentCancelled)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("appointment cancelled", "code", code, "salon_id", appt.SalonID)

	respondJSON(w, r, http.StatusOK, appointmentToResponse(appt))
}
