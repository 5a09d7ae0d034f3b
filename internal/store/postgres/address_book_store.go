package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

// AddressBookStore implements domain.AddressBookStore using PostgreSQL.
type AddressBookStore struct {
	pool *pgxpool.Pool
}

// NewAddressBookStore creates a new AddressBookStore backed by the given
// connection pool.
func NewAddressBookStore(pool *pgxpool.Pool) *AddressBookStore {
	return &AddressBookStore{pool: pool}
}

// Upsert inserts or updates an AddressBookEntry, keyed on (chain, label).
func (s *AddressBookStore) Upsert(ctx context.Context, entry domain.AddressBookEntry) error {
	const query = `
		INSERT INTO address_book_entries (id, chain, label, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chain, label) DO UPDATE SET address = EXCLUDED.address`
	_, err := s.pool.Exec(ctx, query, entry.ID, entry.Chain, entry.Label, entry.Addr)
	if err != nil {
		return fmt.Errorf("postgres: upsert address book entry: %w", err)
	}
	return nil
}

// GetByLabel looks up an AddressBookEntry by chain and label.
func (s *AddressBookStore) GetByLabel(ctx context.Context, chain domain.ChainType, label string) (domain.AddressBookEntry, error) {
	var e domain.AddressBookEntry
	err := s.pool.QueryRow(ctx,
		`SELECT id, chain, label, address FROM address_book_entries WHERE chain = $1 AND label = $2`,
		chain, label,
	).Scan(&e.ID, &e.Chain, &e.Label, &e.Addr)
	if err == pgx.ErrNoRows {
		return domain.AddressBookEntry{}, fmt.Errorf("postgres: get address book entry by label: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.AddressBookEntry{}, fmt.Errorf("postgres: get address book entry by label: %w", err)
	}
	return e, nil
}

// List returns every AddressBookEntry for a chain.
func (s *AddressBookStore) List(ctx context.Context, chain domain.ChainType) ([]domain.AddressBookEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, chain, label, address FROM address_book_entries WHERE chain = $1 ORDER BY label ASC`,
		chain,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list address book entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AddressBookEntry
	for rows.Next() {
		var e domain.AddressBookEntry
		if err := rows.Scan(&e.ID, &e.Chain, &e.Label, &e.Addr); err != nil {
			return nil, fmt.Errorf("postgres: scan address book entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
