package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *PostgresStore) CreateService(parentCtx context.Context, service *Service) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `INSERT INTO services (name, category_id) VALUES ($1, $2) RETURNING id, created_at`

	err := s.db.QueryRow(ctx, query, service.Name, service.CategoryID).
		Scan(&service.Id, &service.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// ListServices returns the global service catalog.
func (s *PostgresStore) ListServices(parentCtx context.Context) ([]*Service, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `SELECT id, name, category_id, created_at FROM services ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := []*Service{}
	for rows.Next() {
		service := new(Service)
		if err := rows.Scan(&service.Id, &service.Name, &service.CategoryID, &service.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, service)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}

	return services, nil
}

func (s *PostgresStore) DeleteService(parentCtx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("service with ID %d not found: %w", id, pgx.ErrNoRows)
	}

	return nil
}

// GetServiceNamesBySalon returns the names of the services a specific salon
// offers. The dataloader caches these per salon for the serving layer.
func (s *PostgresStore) GetServiceNamesBySalon(parentCtx context.Context, salonID int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `SELECT sv.name FROM salon_services ss
			  JOIN services sv ON sv.id = ss.service_id
			  WHERE ss.salon_id = $1
			  ORDER BY sv.name`

	rows, err := s.db.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query services for salon %d: %w", salonID, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan service name for salon %d: %w", salonID, err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service names for salon %d: %w", salonID, err)
	}

	return names, nil
}

// AssignService links a catalog service to a salon.
func (s *PostgresStore) AssignService(parentCtx context.Context, salonID, serviceID int64) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `INSERT INTO salon_services (salon_id, service_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := s.db.Exec(ctx, query, salonID, serviceID); err != nil {
		return fmt.Errorf("failed to assign service %d to salon %d: %w", serviceID, salonID, err)
	}

	return nil
}

// UnassignService removes a service from a salon.
func (s *PostgresStore) UnassignService(parentCtx context.Context, salonID, serviceID int64) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `DELETE FROM salon_services WHERE salon_id = $1 AND service_id = $2`

	if _, err := s.db.Exec(ctx, query, salonID, serviceID); err != nil {
		return fmt.Errorf("failed to unassign service %d from salon %d: %w", serviceID, salonID, err)
	}

	return nil
}
