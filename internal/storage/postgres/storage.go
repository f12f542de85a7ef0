package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/rewardly/giftvault/internal/domain/errors"
	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
)

// dbPool is the subset of pgxpool.Pool used by the repositories; pgxmock
// satisfies it in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type personRepository struct {
	storage *Storage
}

type giftRepository struct {
	storage *Storage
}

type redemptionRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Persons() repository.PersonRepository {
	return &personRepository{storage: s}
}

func (s *Storage) Gifts() repository.GiftRepository {
	return &giftRepository{storage: s}
}

func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS persons (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            points BIGINT NOT NULL DEFAULT 0,
            fcm_tokens TEXT[] NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS gifts (
            id SERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            points BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS redemptions (
            id SERIAL PRIMARY KEY,
            person_id BIGINT NOT NULL REFERENCES persons(id),
            gift_id BIGINT NOT NULL REFERENCES gifts(id),
            status TEXT NOT NULL DEFAULT 'PENDING',
            is_expired BOOLEAN NOT NULL DEFAULT FALSE,
            points BIGINT NOT NULL,
            claim_code TEXT UNIQUE,
            redeemer_id BIGINT REFERENCES persons(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
            id SERIAL PRIMARY KEY,
            person_id BIGINT NOT NULL REFERENCES persons(id),
            direction TEXT NOT NULL,
            amount BIGINT NOT NULL,
            invoice TEXT UNIQUE,
            detail TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_person ON redemptions(person_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_pending ON redemptions(status, is_expired)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_person ON ledger_entries(person_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- PersonRepository implementation ---

func (r *personRepository) Create(ctx context.Context, name string, points int64, fcmTokens []string) (*model.Person, error) {
	const query = `INSERT INTO persons (name, points, fcm_tokens) VALUES ($1, $2, $3) RETURNING id, created_at`
	if fcmTokens == nil {
		fcmTokens = []string{}
	}
	var p model.Person
	err := r.storage.pool.QueryRow(ctx, query, name, points, fcmTokens).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Points = points
	p.FCMTokens = fcmTokens
	return &p, nil
}

func (r *personRepository) GetByID(ctx context.Context, id int64) (*model.Person, error) {
	const query = `SELECT id, name, points, fcm_tokens, created_at FROM persons WHERE id=$1`
	var p model.Person
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Points, &p.FCMTokens, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *personRepository) AdjustPoints(ctx context.Context, id int64, delta int64) error {
	const query = `UPDATE persons SET points = points + $2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- GiftRepository implementation ---

func (r *giftRepository) Create(ctx context.Context, title string, points int64) (*model.Gift, error) {
	const query = `INSERT INTO gifts (title, points) VALUES ($1, $2) RETURNING id, created_at`
	var g model.Gift
	err := r.storage.pool.QueryRow(ctx, query, title, points).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	g.Title = title
	g.Points = points
	return &g, nil
}

func (r *giftRepository) GetByID(ctx context.Context, id int64) (*model.Gift, error) {
	const query = `SELECT id, title, points, created_at FROM gifts WHERE id=$1`
	var g model.Gift
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Title, &g.Points, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// --- RedemptionRepository implementation ---

const redemptionColumns = `id, person_id, gift_id, status, is_expired, points, claim_code, redeemer_id, created_at, updated_at`

func scanRedemption(row pgx.Row) (*model.Redemption, error) {
	var rd model.Redemption
	err := row.Scan(&rd.ID, &rd.PersonID, &rd.GiftID, &rd.Status, &rd.Expired, &rd.Points, &rd.ClaimCode, &rd.RedeemerID, &rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *redemptionRepository) Create(ctx context.Context, personID, giftID, points int64, claimCode string) (*model.Redemption, error) {
	const query = `INSERT INTO redemptions (person_id, gift_id, points, claim_code)
                   VALUES ($1, $2, $3, $4)
                   RETURNING id, status, is_expired, created_at, updated_at`
	var rd model.Redemption
	err := r.storage.pool.QueryRow(ctx, query, personID, giftID, points, claimCode).
		Scan(&rd.ID, &rd.Status, &rd.Expired, &rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrDuplicateKey
		}
		return nil, err
	}
	rd.PersonID = personID
	rd.GiftID = giftID
	rd.Points = points
	rd.ClaimCode = &claimCode
	return &rd, nil
}

func (r *redemptionRepository) GetByID(ctx context.Context, id int64) (*model.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE id=$1`
	rd, err := scanRedemption(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return rd, nil
}

func (r *redemptionRepository) List(ctx context.Context, filter repository.RedemptionFilter) ([]model.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE TRUE`
	args := make([]any, 0, 3)
	if filter.PersonID != nil {
		args = append(args, *filter.PersonID)
		query += fmt.Sprintf(" AND person_id=$%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.Expired != nil {
		args = append(args, *filter.Expired)
		query += fmt.Sprintf(" AND is_expired=$%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Redemption
	for rows.Next() {
		rd, err := scanRedemption(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *redemptionRepository) ListPendingIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT id FROM redemptions WHERE status='PENDING' AND is_expired=FALSE`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *redemptionRepository) MarkExpired(ctx context.Context, id int64) (bool, error) {
	// One-way flip guarded on the terminal state so concurrent watcher and
	// sweeper applications commute.
	const query = `UPDATE redemptions SET is_expired=TRUE, updated_at=NOW()
                   WHERE id=$1 AND status='PENDING' AND is_expired=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *redemptionRepository) MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE redemptions SET is_expired=TRUE, updated_at=NOW()
                   WHERE id = ANY($1) AND status='PENDING' AND is_expired=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *redemptionRepository) MarkRedeemed(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error) {
	query := `UPDATE redemptions SET status='REDEEMED', redeemer_id=$2, updated_at=NOW()
              WHERE claim_code=$1 AND status='PENDING' AND is_expired=FALSE
              RETURNING ` + redemptionColumns
	rd, err := scanRedemption(r.storage.pool.QueryRow(ctx, query, claimCode, redeemerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInvalidCode
		}
		return nil, err
	}
	return rd, nil
}

func (r *redemptionRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM redemptions WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) Append(ctx context.Context, personID int64, direction model.LedgerDirection, amount int64, invoice *string, detail string) (*model.LedgerEntry, error) {
	const query = `INSERT INTO ledger_entries (person_id, direction, amount, invoice, detail)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, created_at`
	entry := model.LedgerEntry{
		PersonID:  personID,
		Direction: direction,
		Amount:    amount,
		Invoice:   invoice,
		Detail:    detail,
	}
	err := r.storage.pool.QueryRow(ctx, query, personID, direction, amount, invoice, detail).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) ListByPerson(ctx context.Context, personID int64) ([]model.LedgerEntry, error) {
	const query = `SELECT id, person_id, direction, amount, invoice, detail, created_at
                   FROM ledger_entries WHERE person_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.PersonID, &e.Direction, &e.Amount, &e.Invoice, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
