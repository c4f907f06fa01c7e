package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/salonatlas/salon-service/internal/db"
	"github.com/salonatlas/salon-service/internal/geo"
)

// refreshSnapshot reloads the serving pools in the background after an
// admin write, so changes don't wait for the next refresh tick. Best
// effort; a failed reload keeps the previous snapshot and is logged by the
// loader.
func (s *Server) refreshSnapshot() {
	if s.manager == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.manager.Repair(ctx); err != nil {
			s.log.Warn("post-write snapshot refresh failed", "error", err)
		}
	}()
}

// adminOnly gates the admin subtree behind the bearer token from config.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminTok)) != 1 {
			respondError(w, r, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleAdminListSalons lists salons straight from the database with
// paging, bypassing the serving snapshot. Admins need to see writes before
// the next reload.
func (s *Server) handleAdminListSalons(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var opts []db.SalonFilterOption
	if city := query.Get("city"); city != "" {
		opts = append(opts, db.WithCity(city))
	}
	if district := query.Get("district"); district != "" {
		opts = append(opts, db.WithDistrict(district))
	}
	if slug := query.Get("type"); slug != "" {
		opts = append(opts, db.WithCategorySlug(slug))
	}
	if query.Get("sponsored") == "true" {
		opts = append(opts, db.WithSponsored(true))
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	if limit > 0 {
		opts = append(opts, db.WithPagination(limit, offset))
	}

	salons, err := s.store.GetSalonsWithFilter(r.Context(), db.NewSalonFilter(opts...))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	resp := make([]SalonResponse, 0, len(salons))
	for _, salon := range salons {
		resp = append(resp, salonToResponse(salon, geo.DefaultCenter))
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"salons": resp,
		"total":  len(resp),
	})
}

func (s *Server) handleAdminCreateSalon(w http.ResponseWriter, r *http.Request) {
	var req createSalonRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	salon, err := s.store.CreateSalon(r.Context(), db.NewSalonFromCreateRequest(db.CreateSalonParams{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		City:       req.City,
		District:   req.District,
		Address:    req.Address,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Sponsored:  req.Sponsored,
		Tags:       req.Tags,
	}))
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("salon created", "id", salon.Id, "name", salon.Name, "city", salon.City)
	s.refreshSnapshot()

	respondJSON(w, r, http.StatusCreated, salonToResponse(salon, geo.ResolveMapCenter(nil, salon.City)))
}

func (s *Server) handleAdminUpdateSalon(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	var req updateSalonRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	salon, err := s.store.GetSalonByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	salon.ApplyUpdate(db.UpdateSalonParams{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		City:       req.City,
		District:   req.District,
		Address:    req.Address,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Sponsored:  req.Sponsored,
		Tags:       req.Tags,
	})

	updated, err := s.store.UpdateSalon(r.Context(), salon)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, salonToResponse(updated, geo.ResolveMapCenter(nil, updated.City)))
}

func (s *Server) handleAdminDeleteSalon(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	salon, err := s.store.DeleteSalon(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("salon deleted", "id", salon.Id, "name", salon.Name)
	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": salon.Id})
}

// handleAdminSetPosition places a salon from a click on the city map. The
// click arrives in percentage coordinates and is inverted to a geographic
// point. An inversion outside the service area is rejected with 422 and no
// state changes.
func (s *Server) handleAdminSetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	var req positionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	salon, err := s.store.GetSalonByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	mapCity := req.City
	if mapCity == "" {
		mapCity = salon.City
	}
	center := geo.ResolveMapCenter(nil, mapCity)
	point, ok := geo.Unproject(*req.XPct, *req.YPct, center)
	if !ok {
		respondError(w, r, http.StatusUnprocessableEntity, "click position outside the service area")
		return
	}

	if err := s.store.UpdateSalonPosition(r.Context(), id, point.Lat, point.Lng); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("salon position updated", "id", id, "lat", point.Lat, "lng", point.Lng)
	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, point)
}

// handleAdminGeocode assigns a crude coordinate estimate to a salon with no
// usable point: the city reference point with a deterministic jitter.
func (s *Server) handleAdminGeocode(w http.ResponseWriter, r *http.Request) {
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

	point, ok := geo.JitterGeocode(salon.City, salon.Id)
	if !ok {
		respondError(w, r, http.StatusUnprocessableEntity, "salon city has no reference coordinates")
		return
	}

	if err := s.store.UpdateSalonPosition(r.Context(), id, point.Lat, point.Lng); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.log.Info("salon geocoded", "id", id, "city", salon.City, "lat", point.Lat, "lng", point.Lng)
	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, point)
}

func (s *Server) handleAdminListAppointments(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}

	appts, err := s.store.ListAppointmentsBySalon(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	resp := make([]AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		resp = append(resp, appointmentToResponse(appt))
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"appointments": resp,
		"total":        len(resp),
	})
}

func (s *Server) handleAdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	category := db.NewCategory(db.CreateCategoryParams{
		Name:  req.Name,
		Slug:  req.Slug,
		Image: req.Image,
	})
	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusCreated, categoryToResponse(category))
}

func (s *Server) handleAdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	var req createCategoryRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	category, err := s.store.GetCategoryByID(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.Image = req.Image

	if err := s.store.UpdateCategory(r.Context(), category); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, categoryToResponse(category))
}

func (s *Server) handleAdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleAdminListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.store.ListServices(r.Context())
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(services))
	for _, service := range services {
		resp = append(resp, map[string]any{
			"id":          service.Id,
			"name":        service.Name,
			"category_id": service.CategoryID,
		})
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"services": resp,
		"total":    len(resp),
	})
}

func (s *Server) handleAdminCreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	service := &db.Service{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	}
	if err := s.store.CreateService(r.Context(), service); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"id":          service.Id,
		"name":        service.Name,
		"category_id": service.CategoryID,
	})
}

func (s *Server) handleAdminDeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid service id")
		return
	}

	if err := s.store.DeleteService(r.Context(), id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleAdminAssignService(w http.ResponseWriter, r *http.Request) {
	salonID, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}
	serviceID, err := idParam(r, "serviceID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid service id")
		return
	}

	if err := s.store.AssignService(r.Context(), salonID, serviceID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"salon_id":   salonID,
		"service_id": serviceID,
	})
}

func (s *Server) handleAdminUnassignService(w http.ResponseWriter, r *http.Request) {
	salonID, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid salon id")
		return
	}
	serviceID, err := idParam(r, "serviceID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid service id")
		return
	}

	if err := s.store.UnassignService(r.Context(), salonID, serviceID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	s.refreshSnapshot()

	respondJSON(w, r, http.StatusOK, map[string]any{
		"salon_id":   salonID,
		"service_id": serviceID,
	})
}

// handleAdminSyncStatus reports the drift between the database and the
// serving snapshot, plus the stats of the last load.
func (s *Server) handleAdminSyncStatus(w http.ResponseWriter, r *http.Request) {
	if s.manager == nil {
		respondError(w, r, http.StatusServiceUnavailable, "consistency manager not configured")
		return
	}

	result, err := s.manager.CheckConsistency(r.Context())
	if err != nil {
		s.log.Error("consistency check failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "consistency check failed")
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"consistency": result,
		"last_load":   s.snapshots.Stats(),
	})
}

// handleAdminSyncRepair forces a snapshot reload.
func (s *Server) handleAdminSyncRepair(w http.ResponseWriter, r *http.Request) {
	if s.manager == nil {
		respondError(w, r, http.StatusServiceUnavailable, "consistency manager not configured")
		return
	}

	if err := s.manager.Repair(r.Context()); err != nil {
		s.log.Error("snapshot repair failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "repair failed")
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"repaired":  true,
		"last_load": s.snapshots.Stats(),
	})
}
