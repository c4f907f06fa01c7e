package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotTaken is returned when an appointment collides with an existing
// non-cancelled booking for the same salon and time.
var ErrSlotTaken = errors.New("time slot already booked")

// DBTX abstracts the database methods from pgxpool.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool DBTX) *PostgresStore {
	return &PostgresStore{
		db: pool,
	}
}

// Store defines the persistence methods for the marketplace.
type Store interface {
	CreateSalon(ctx context.Context, salon *Salon) (*Salon, error)
	UpdateSalon(ctx context.Context, salon *Salon) (*Salon, error)
	GetSalons(ctx context.Context) ([]*Salon, error)
	GetSalonsWithFilter(ctx context.Context, filter *SalonFilter) ([]*Salon, error)
	GetSalonByID(ctx context.Context, id int64) (*Salon, error)
	DeleteSalon(ctx context.Context, id int64) (*Salon, error)
	UpdateSalonPosition(ctx context.Context, id int64, lat, lng float64) error
	CountSalons(ctx context.Context) (int64, error)

	CreateCategory(ctx context.Context, category *Category) error
	ListCategories(parentCtx context.Context) ([]*Category, error)
	GetCategoryByID(parentCtx context.Context, id int64) (*Category, error)
	UpdateCategory(parentCtx context.Context, category *Category) error
	DeleteCategory(parentCtx context.Context, id int64) error

	CreateService(ctx context.Context, service *Service) error
	ListServices(ctx context.Context) ([]*Service, error)
	DeleteService(ctx context.Context, id int64) error
	GetServiceNamesBySalon(ctx context.Context, salonID int64) ([]string, error)
	AssignService(ctx context.Context, salonID, serviceID int64) error
	UnassignService(ctx context.Context, salonID, serviceID int64) error

	CreateReview(ctx context.Context, review *Review) (*Review, error)
	ListReviewsBySalon(ctx context.Context, salonID int64) ([]*Review, error)

	CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetAppointmentByCode(ctx context.Context, code string) (*Appointment, error)
	ListAppointmentsBySalon(ctx context.Context, salonID int64) ([]*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, code string, status string) (*Appointment, error)
}

// CreatePostgresPool creates and verifies a PostgreSQL connection pool.
func CreatePostgresPool(parentCtx context.Context, dburl string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	pool, err := pgxpool.New(ctx, dburl)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
