package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

// TxRecordStore implements domain.TxRecordStore using PostgreSQL.
type TxRecordStore struct {
	pool *pgxpool.Pool
}

// NewTxRecordStore creates a new TxRecordStore backed by the given connection pool.
func NewTxRecordStore(pool *pgxpool.Pool) *TxRecordStore {
	return &TxRecordStore{pool: pool}
}

const txRecordSelectCols = `id, chain, tx_hash, from_address, to_address,
	token, amount, status, created_at, updated_at`

func scanTxRecordRows(rows pgx.Rows) ([]domain.TxRecord, error) {
	var recs []domain.TxRecord
	for rows.Next() {
		var r domain.TxRecord
		if err := rows.Scan(
			&r.ID, &r.Chain, &r.TxHash, &r.FromAddress, &r.ToAddress,
			&r.Token, &r.Amount, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Create inserts a new TxRecord.
func (s *TxRecordStore) Create(ctx context.Context, rec domain.TxRecord) error {
	const query = `
		INSERT INTO tx_records (
			id, chain, tx_hash, from_address, to_address, token, amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chain, tx_hash) DO NOTHING`
	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.Chain, rec.TxHash, rec.FromAddress, rec.ToAddress,
		rec.Token, rec.Amount, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("postgres: create tx record: %w", err)
	}
	return nil
}

// UpdateStatus updates the status (and updated_at) of a TxRecord by id.
func (s *TxRecordStore) UpdateStatus(ctx context.Context, id string, status domain.TxStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tx_records SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("postgres: update tx record status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: update tx record status: %w", domain.ErrNotFound)
	}
	return nil
}

// GetByHash looks up a TxRecord by chain and transaction hash.
func (s *TxRecordStore) GetByHash(ctx context.Context, chain domain.ChainType, hash string) (domain.TxRecord, error) {
	query := `SELECT ` + txRecordSelectCols + ` FROM tx_records WHERE chain = $1 AND tx_hash = $2`
	var r domain.TxRecord
	err := s.pool.QueryRow(ctx, query, chain, hash).Scan(
		&r.ID, &r.Chain, &r.TxHash, &r.FromAddress, &r.ToAddress,
		&r.Token, &r.Amount, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return domain.TxRecord{}, fmt.Errorf("postgres: get tx record by hash: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.TxRecord{}, fmt.Errorf("postgres: get tx record by hash: %w", err)
	}
	return r, nil
}

// ListByAddress returns TxRecords where address appears as sender or
// recipient on the given chain, with pagination and optional time filtering.
func (s *TxRecordStore) ListByAddress(ctx context.Context, chain domain.ChainType, address string, opts domain.ListOpts) ([]domain.TxRecord, error) {
	query := `SELECT ` + txRecordSelectCols + ` FROM tx_records WHERE chain = $1 AND (from_address = $2 OR to_address = $2)`
	args := []any{chain, address}
	argIdx := 3

	if opts.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tx records by address: %w", err)
	}
	defer rows.Close()

	recs, err := scanTxRecordRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan tx records by address: %w", err)
	}
	return recs, nil
}

// ListOlderThan returns TxRecords created before cutoff, for archival.
func (s *TxRecordStore) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.TxRecord, error) {
	query := `SELECT ` + txRecordSelectCols + ` FROM tx_records WHERE created_at < $1 ORDER BY created_at ASC`
	args := []any{cutoff}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tx records older than: %w", err)
	}
	defer rows.Close()

	return scanTxRecordRows(rows)
}

// DeleteBatch deletes TxRecords by id, after they've been archived.
func (s *TxRecordStore) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM tx_records WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("postgres: delete tx record batch: %w", err)
	}
	return nil
}
