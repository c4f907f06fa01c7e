package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *PostgresStore) CreateCategory(parentCtx context.Context, category *Category) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `INSERT INTO categories (name, slug, image) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`

	err := s.db.QueryRow(ctx, query, category.Name, category.Slug, category.Image).
		Scan(&category.Id, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (s *PostgresStore) ListCategories(parentCtx context.Context) ([]*Category, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `SELECT id, name, slug, image, created_at, updated_at FROM categories ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		category := new(Category)
		if err := rows.Scan(
			&category.Id,
			&category.Name,
			&category.Slug,
			&category.Image,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

func (s *PostgresStore) GetCategoryByID(parentCtx context.Context, id int64) (*Category, error) {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `SELECT id, name, slug, image, created_at, updated_at FROM categories WHERE id = $1`

	category := new(Category)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&category.Id,
		&category.Name,
		&category.Slug,
		&category.Image,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}

	return category, nil
}

func (s *PostgresStore) UpdateCategory(parentCtx context.Context, category *Category) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	query := `UPDATE categories SET name = $1, slug = $2, image = $3, updated_at = NOW() WHERE id = $4 RETURNING updated_at`

	err := s.db.QueryRow(ctx, query, category.Name, category.Slug, category.Image, category.Id).
		Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("category with ID %d not found for update: %w", category.Id, err)
		}
		return fmt.Errorf("failed to update category %d: %w", category.Id, err)
	}

	return nil
}

func (s *PostgresStore) DeleteCategory(parentCtx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Second*3)
	defer cancel()

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("category with ID %d not found: %w", id, pgx.ErrNoRows)
	}

	return nil
}
