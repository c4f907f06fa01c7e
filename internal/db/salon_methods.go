package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/salonatlas/salon-service/pkg/metrics"
)

const (
	createSalonQuery = `INSERT INTO salons (name, category_id, city, district, address, lat, lng, sponsored, tags)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
						RETURNING id, rating, created_at, updated_at`

	updateSalonQuery = `UPDATE salons
						SET name = $1, category_id = $2, city = $3, district = $4, address = $5,
						    lat = $6, lng = $7, sponsored = $8, tags = $9, updated_at = NOW()
						WHERE id = $10
						RETURNING updated_at`

	updateSalonPositionQuery = `UPDATE salons SET lat = $1, lng = $2, updated_at = NOW() WHERE id = $3`

	// Every SELECT joins the category so serving code gets name and slug
	// without a second lookup.
	getSalonsQueryBaseFields = `SELECT s.id, s.name, s.category_id, COALESCE(c.name, ''), COALESCE(c.slug, ''),
						s.city, s.district, s.address, s.lat, s.lng, s.sponsored, s.rating, s.tags,
						s.created_at, s.updated_at
						FROM salons s LEFT JOIN categories c ON c.id = s.category_id`

	// Upstream ranking: sponsored listings first, then rating descending.
	// The in-memory filter layer preserves this order and must not re-sort.
	salonsOrderClause = ` ORDER BY s.sponsored DESC, s.rating DESC, s.id ASC`

	getSalonsQuery    = getSalonsQueryBaseFields + salonsOrderClause
	getSalonByIdQuery = getSalonsQueryBaseFields + ` WHERE s.id = $1`
	deleteSalonQuery  = `DELETE FROM salons WHERE id = $1`
	countSalonsQuery  = `SELECT COUNT(*) FROM salons`
)

// CreateSalon creates a new salon.
func (s *PostgresStore) CreateSalon(parentCtx context.Context, salon *Salon) (*Salon, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := s.db.QueryRow(
		ctx,
		createSalonQuery,
		salon.Name,
		salon.CategoryID,
		salon.City,
		salon.District,
		salon.Address,
		salon.Lat,
		salon.Lng,
		salon.Sponsored,
		salon.Tags,
	).Scan(&salon.Id, &salon.Rating, &salon.CreatedAt, &salon.UpdatedAt)
	metrics.RecordDatabaseOperation("insert", "salons", metrics.StatusFromError(err), time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("failed to create salon: %w", err)
	}

	return salon, nil
}

// UpdateSalon updates an existing salon.
func (s *PostgresStore) UpdateSalon(parentCtx context.Context, salon *Salon) (*Salon, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	var newUpdatedAt time.Time

	err := s.db.QueryRow(
		ctx,
		updateSalonQuery,
		salon.Name,
		salon.CategoryID,
		salon.City,
		salon.District,
		salon.Address,
		salon.Lat,
		salon.Lng,
		salon.Sponsored,
		salon.Tags,
		salon.Id,
	).Scan(&newUpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("salon with ID %d not found for update: %w", salon.Id, err)
		}
		return nil, fmt.Errorf("failed to update salon %d: %w", salon.Id, err)
	}

	salon.UpdatedAt = &newUpdatedAt

	return salon, nil
}

// UpdateSalonPosition sets only the coordinates of a salon. Used by the
// admin location picker and the geocode fallback.
func (s *PostgresStore) UpdateSalonPosition(parentCtx context.Context, id int64, lat, lng float64) error {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	cmdTag, err := s.db.Exec(ctx, updateSalonPositionQuery, lat, lng, id)
	if err != nil {
		return fmt.Errorf("failed to update position for salon %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("salon with ID %d not found: %w", id, pgx.ErrNoRows)
	}

	return nil
}

// GetSalons retrieves all salons in serving order.
func (s *PostgresStore) GetSalons(parentCtx context.Context) ([]*Salon, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	start := time.Now()
	rows, err := s.db.Query(ctx, getSalonsQuery)
	metrics.RecordDatabaseOperation("select_all", "salons", metrics.StatusFromError(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to query salons: %w", err)
	}
	defer rows.Close()

	salons := []*Salon{}
	for rows.Next() {
		salon, err := scanSalon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salon during GetSalons: %w", err)
		}
		salons = append(salons, salon)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salon rows: %w", err)
	}

	return salons, nil
}

// GetSalonByID retrieves a salon by ID.
func (s *PostgresStore) GetSalonByID(parentCtx context.Context, id int64) (*Salon, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	row := s.db.QueryRow(ctx, getSalonByIdQuery, id)
	salon, err := scanSalon(row)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("salon with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get salon by ID %d: %w", id, err)
	}

	return salon, nil
}

// DeleteSalon deletes a salon by ID and returns the deleted record.
func (s *PostgresStore) DeleteSalon(parentCtx context.Context, id int64) (*Salon, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	// Get first so there is something to return. Not atomic with the
	// delete; a concurrent delete surfaces as 0 rows affected below.
	salonToDelete, err := s.GetSalonByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot delete salon, failed to retrieve salon ID %d: %w", id, err)
	}

	cmdTag, err := s.db.Exec(ctx, deleteSalonQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to execute delete for salon %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("salon with ID %d was found but not deleted (0 rows affected)", id)
	}

	return salonToDelete, nil
}

// CountSalons returns the number of salon rows.
func (s *PostgresStore) CountSalons(parentCtx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	start := time.Now()
	var count int64
	err := s.db.QueryRow(ctx, countSalonsQuery).Scan(&count)
	metrics.RecordDatabaseOperation("count", "salons", metrics.StatusFromError(err), time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("failed to count salons: %w", err)
	}

	return count, nil
}

// pgxScanner abstracts pgx.Rows and pgx.Row for the scan helpers.
type pgxScanner interface {
	Scan(dest ...any) error
}

// scanSalon scans one row into a Salon. The column order must match
// getSalonsQueryBaseFields.
func scanSalon(scanner pgxScanner) (*Salon, error) {
	salon := new(Salon)
	err := scanner.Scan(
		&salon.Id,
		&salon.Name,
		&salon.CategoryID,
		&salon.CategoryName,
		&salon.CategorySlug,
		&salon.City,
		&salon.District,
		&salon.Address,
		&salon.Lat,
		&salon.Lng,
		&salon.Sponsored,
		&salon.Rating,
		&salon.Tags,
		&salon.CreatedAt,
		&salon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return salon, nil
}
