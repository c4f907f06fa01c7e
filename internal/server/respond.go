package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/salonatlas/salon-service/internal/db"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, r, status, errorResponse{Error: msg})
}

// pgForeignKeyViolation is the SQLSTATE for a broken reference, e.g. a
// review for a salon that does not exist.
const pgForeignKeyViolation = "23503"

// respondStoreError maps store errors onto HTTP statuses: missing rows to
// 404, booking collisions to 409, broken references to 400, anything else
// to 500. The wrapped error text never reaches the client on 500.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		respondError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, db.ErrSlotTaken):
		respondError(w, r, http.StatusConflict, "time slot already booked")
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			respondError(w, r, http.StatusBadRequest, "referenced record does not exist")
			return
		}
		s.log.Error("store operation failed", "path", r.URL.Path, "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// Returns false after writing the error response.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			respondError(w, r, http.StatusBadRequest, "validation failed on field "+verrs[0].Field())
			return false
		}
		respondError(w, r, http.StatusBadRequest, "validation failed")
		return false
	}
	return true
}

// idParam reads a numeric URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
