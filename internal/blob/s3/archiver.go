package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

// TxRecordArchiveStore provides the narrow read access the archiver needs,
// following the Interface Segregation Principle: it only requires the query
// method it actually calls, not the full domain.TxRecordStore interface.
type TxRecordArchiveStore interface {
	// ListOlderThan returns TxRecords created strictly before the given
	// cutoff time, up to limit records (0 means no limit).
	ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.TxRecord, error)
}

// ArchiveImpl implements domain.Archiver by querying the TxRecord store for
// old records, serializing them to JSONL, and uploading the result to S3.
//
// Deletion of the archived records from the primary store is intentionally
// NOT performed here -- that is a separate, explicit step to be executed
// after the archive has been verified.
type ArchiveImpl struct {
	writer domain.BlobWriter
	txs    TxRecordArchiveStore
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, txs TxRecordArchiveStore) *ArchiveImpl {
	return &ArchiveImpl{writer: writer, txs: txs}
}

// ArchiveTxRecords queries all TxRecords before the cutoff, serializes them
// to JSONL, and uploads the file to S3 at archive/tx_records/YYYY-MM.jsonl.
// The count of archived records is returned.
func (a *ArchiveImpl) ArchiveTxRecords(ctx context.Context, before time.Time) (int64, error) {
	recs, err := a.txs.ListOlderThan(ctx, before, 0)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive tx records query: %w", err)
	}
	if len(recs) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(recs)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive tx records marshal: %w", err)
	}

	path := archivePath("tx_records", before)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive tx records upload: %w", err)
	}

	return int64(len(recs)), nil
}

// archivePath builds the S3 key for an archive file, partitioned by the
// year-month of the cutoff time.
//
//	archive/tx_records/2025-01.jsonl
func archivePath(kind string, before time.Time) string {
	return fmt.Sprintf("archive/%s/%s.jsonl", kind, before.Format("2006-01"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON (JSONL).
// Each element is marshalled as a single compact JSON line followed by '\n'.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
