package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/ports/loadtx"
)

const loadColumns = `id, origin, destination, rate, status, truck_id, dispatcher_id`

// LoadRepo represents load repository.
type LoadRepo struct{ db *pgxpool.Pool }

// NewLoadRepo creates a new LoadRepo.
func NewLoadRepo(db *pgxpool.Pool) *LoadRepo { return &LoadRepo{db: db} }

func scanLoad(row pgx.Row) (domain.Load, error) {
	var l domain.Load
	err := row.Scan(&l.ID, &l.Origin, &l.Destination, &l.Rate, &l.Status, &l.TruckID, &l.DispatcherID)
	return l, err
}

// List returns every load ordered by id.
func (r *LoadRepo) List(ctx context.Context) ([]domain.Load, error) {
	rows, err := r.db.Query(ctx, `SELECT `+loadColumns+` FROM loads ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list loads: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Load, 0)
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Get - returns load by its ID, or nil when there is none.
func (r *LoadRepo) Get(ctx context.Context, id int64) (*domain.Load, error) {
	l, err := scanLoad(r.db.QueryRow(ctx, `SELECT `+loadColumns+` FROM loads WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get load %d: %w", id, err)
	}
	return &l, nil
}

// Create - inserts a load and returns its generated ID.
func (r *LoadRepo) Create(ctx context.Context, l domain.NewLoad) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
        INSERT INTO loads (origin, destination, rate, status, truck_id, dispatcher_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, l.Origin, l.Destination, l.Rate, string(l.Status), l.TruckID, l.DispatcherID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create load: %w", err)
	}
	return id, nil
}

// WithTx opens a transaction and executes fn within it.
func (r *LoadRepo) WithTx(ctx context.Context, fn func(tx loadtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&LoadTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadTx runs load statements inside an open transaction.
type LoadTx struct {
	tx pgx.Tx
}

// GetForUpdate - locks and returns a load row, or nil when there is none.
func (t *LoadTx) GetForUpdate(ctx context.Context, id int64) (*domain.Load, error) {
	l, err := scanLoad(t.tx.QueryRow(ctx, `SELECT `+loadColumns+` FROM loads WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get load %d for update: %w", id, err)
	}
	return &l, nil
}

// UpdateStatus - sets the status of a load.
func (t *LoadTx) UpdateStatus(ctx context.Context, id int64, status domain.LoadStatus) error {
	ct, err := t.tx.Exec(ctx, `
        UPDATE loads
        SET status = $2, updated_at = now()
        WHERE id = $1
    `, id, string(status))
	if err != nil {
		return fmt.Errorf("update load status %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("load %d not found", id)
	}
	return nil
}

var _ loadtx.Runner = (*LoadRepo)(nil)
