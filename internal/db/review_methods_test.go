package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records the transaction outcome. Methods the review path doesn't
// touch come from the embedded interface and panic if ever called.
type fakeTx struct {
	pgx.Tx

	execErr    error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*int64)) = 7
		*(dest[1].(*time.Time)) = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		return nil
	}}
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, t.execErr
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type txDB struct {
	tx *fakeTx
}

func (d txDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

func (txDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (txDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (txDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}
}

func TestCreateReviewCommitsInsertAndRecompute(t *testing.T) {
	tx := &fakeTx{}
	store := NewPostgresStore(txDB{tx: tx})

	review, err := store.CreateReview(context.Background(), &Review{
		SalonID: 1,
		Author:  "Ayşe",
		Rating:  5,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), review.Id)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestCreateReviewRollsBackWhenRecomputeFails(t *testing.T) {
	tx := &fakeTx{execErr: errors.New("deadlock detected")}
	store := NewPostgresStore(txDB{tx: tx})

	_, err := store.CreateReview(context.Background(), &Review{
		SalonID: 1,
		Author:  "Ayşe",
		Rating:  5,
	})

	// The insert must not survive a failed rating recompute.
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}
