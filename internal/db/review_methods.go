package db

import (
	"context"
	"fmt"
	"time"
)

// CreateReview inserts a review and recomputes the salon's aggregate
// rating in one transaction, so a failed recompute never leaves a
// committed review behind a stale aggregate.
func (s *PostgresStore) CreateReview(parentCtx context.Context, review *Review) (*Review, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin review transaction for salon %d: %w", review.SalonID, err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `INSERT INTO reviews (salon_id, author, rating, comment)
					VALUES ($1, $2, $3, $4)
					RETURNING id, created_at`

	err = tx.QueryRow(ctx, insertQuery, review.SalonID, review.Author, review.Rating, review.Comment).
		Scan(&review.Id, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create review for salon %d: %w", review.SalonID, err)
	}

	ratingQuery := `UPDATE salons
					SET rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE salon_id = $1)
					WHERE id = $1`

	if _, err := tx.Exec(ctx, ratingQuery, review.SalonID); err != nil {
		return nil, fmt.Errorf("failed to recompute rating for salon %d: %w", review.SalonID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit review for salon %d: %w", review.SalonID, err)
	}

	return review, nil
}

// ListReviewsBySalon returns the reviews for a salon, newest first.
func (s *PostgresStore) ListReviewsBySalon(parentCtx context.Context, salonID int64) ([]*Review, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `SELECT id, salon_id, author, rating, comment, created_at
			  FROM reviews WHERE salon_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for salon %d: %w", salonID, err)
	}
	defer rows.Close()

	reviews := []*Review{}
	for rows.Next() {
		review := new(Review)
		if err := rows.Scan(
			&review.Id,
			&review.SalonID,
			&review.Author,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}

	return reviews, nil
}
