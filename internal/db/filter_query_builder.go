package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// buildFilteredQuery builds a SELECT with WHERE conditions from the filter.
// Returns the SQL and the positional arguments.
func (s *PostgresStore) buildFilteredQuery(filter *SalonFilter) (string, []any) {
	baseQuery := getSalonsQueryBaseFields

	var conditions []string
	var args []any
	argIndex := 1

	if filter.City != nil {
		conditions = append(conditions, fmt.Sprintf("s.city = $%d", argIndex))
		args = append(args, *filter.City)
		argIndex++
	}

	if filter.District != nil {
		conditions = append(conditions, fmt.Sprintf("s.district = $%d", argIndex))
		args = append(args, *filter.District)
		argIndex++
	}

	if filter.CategorySlug != nil {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argIndex))
		args = append(args, *filter.CategorySlug)
		argIndex++
	}

	if filter.Sponsored != nil {
		conditions = append(conditions, fmt.Sprintf("s.sponsored = $%d", argIndex))
		args = append(args, *filter.Sponsored)
		argIndex++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	baseQuery += salonsOrderClause

	if filter.Limit != nil {
		baseQuery += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *filter.Limit)
		argIndex++
	}

	if filter.Offset != nil {
		baseQuery += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *filter.Offset)
		argIndex++
	}

	return baseQuery, args
}

// validateFilter checks filter parameters for nonsense values.
func validateFilter(filter *SalonFilter) error {
	if filter == nil {
		return fmt.Errorf("filter cannot be nil")
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got: %d", *filter.Limit)
	}

	if filter.Offset != nil && *filter.Offset < 0 {
		return fmt.Errorf("offset cannot be negative, got: %d", *filter.Offset)
	}

	if filter.Limit != nil && *filter.Limit > 1000 {
		return fmt.Errorf("limit too large, maximum allowed: 1000, got: %d", *filter.Limit)
	}

	return nil
}

// GetSalonsWithFilter retrieves salons matching the SQL-level filter, in
// serving order.
func (s *PostgresStore) GetSalonsWithFilter(parentCtx context.Context, filter *SalonFilter) ([]*Salon, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Second)
	defer cancel()

	query, args := s.buildFilteredQuery(filter)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salons with filter: %w", err)
	}
	defer rows.Close()

	salons := []*Salon{}
	for rows.Next() {
		salon, err := scanSalon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salon during GetSalonsWithFilter: %w", err)
		}
		salons = append(salons, salon)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating filtered salon rows: %w", err)
	}

	return salons, nil
}
