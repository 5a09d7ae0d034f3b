package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

// TxRecord is a locally-initiated send tracked for status polling, history
// display, and eventual archival (SPEC_FULL.md §3.1).
type TxRecord struct {
	ID          string
	Chain       ChainType
	TxHash      string
	FromAddress string
	ToAddress   string
	Token       string
	Amount      string
	Status      TxStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TxRecordStore persists TxRecords.
type TxRecordStore interface {
	Create(ctx context.Context, rec TxRecord) error
	UpdateStatus(ctx context.Context, id string, status TxStatus) error
	GetByHash(ctx context.Context, chain ChainType, hash string) (TxRecord, error)
	ListByAddress(ctx context.Context, chain ChainType, address string, opts ListOpts) ([]TxRecord, error)
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]TxRecord, error)
	DeleteBatch(ctx context.Context, ids []string) error
}

// AddressBookEntry is a user-labeled address, for CLI convenience only; it
// carries no protocol significance (SPEC_FULL.md §3.1).
type AddressBookEntry struct {
	ID    string
	Chain ChainType
	Label string
	Addr  string
}

// AddressBookStore persists AddressBookEntries.
type AddressBookStore interface {
	Upsert(ctx context.Context, entry AddressBookEntry) error
	GetByLabel(ctx context.Context, chain ChainType, label string) (AddressBookEntry, error)
	List(ctx context.Context, chain ChainType) ([]AddressBookEntry, error)
}
