package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
	"github.com/nocdem/dna-messenger/walletcore/internal/wallet/container"
)

// sendLockTTL bounds how long a (chain, address) send lock is held before it
// is considered abandoned (spec.md §5 notes the core gives no send-race
// guarantee itself; this is the CLI's opt-in convenience on top).
const sendLockTTL = 30 * time.Second

// DeriveWallet derives a deterministic wallet from a mnemonic and writes it
// to outPath. For "cellframe" this produces a .dwallet v1 container; for
// "ethereum" an unencrypted JSON keystore record.
func (a *App) DeriveWallet(ctx context.Context, chain, name, mnemonic, outPath string) (string, error) {
	switch chain {
	case "cellframe":
		w, err := container.DeriveFromMnemonic(name, mnemonic, a.cfg.Cellframe.NetID)
		if err != nil {
			return "", fmt.Errorf("app: derive cellframe wallet: %w", err)
		}
		if err := os.WriteFile(outPath, container.EncodeV1(w), 0o600); err != nil {
			return "", fmt.Errorf("%w: write dwallet: %v", domain.ErrIoError, err)
		}
		return w.Address, nil
	case "ethereum":
		w, err := container.DeriveEthereumFromMnemonic(mnemonic, "")
		if err != nil {
			return "", fmt.Errorf("app: derive ethereum wallet: %w", err)
		}
		if err := container.WriteKeystore(outPath, w, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return "", fmt.Errorf("app: write ethereum keystore: %w", err)
		}
		return "", nil
	default:
		return "", fmt.Errorf("%w: derive-wallet does not support chain %q", domain.ErrInvalidInput, chain)
	}
}

// Balance looks up the given chain's adapter and returns addr's balance.
func (a *App) Balance(ctx context.Context, deps *Dependencies, chain, addr, token string) (string, error) {
	adapter, err := deps.Registry.Get(chain)
	if err != nil {
		return "", err
	}
	return adapter.Balance(ctx, addr, token)
}

// ValidateAddress reports whether addr is well-formed for chain.
func (a *App) ValidateAddress(deps *Dependencies, chain, addr string) (bool, error) {
	adapter, err := deps.Registry.Get(chain)
	if err != nil {
		return false, err
	}
	return adapter.ValidateAddress(addr), nil
}

// TxStatus reports the broadcast status of hash on chain.
func (a *App) TxStatus(ctx context.Context, deps *Dependencies, chain, hash string) (domain.TxStatus, error) {
	adapter, err := deps.Registry.Get(chain)
	if err != nil {
		return "", err
	}
	return adapter.TxStatus(ctx, hash)
}

// History returns addr's transaction history on chain, optionally filtered
// to a single token.
func (a *App) History(ctx context.Context, deps *Dependencies, chain, addr, token string) ([]domain.HistoryEntry, error) {
	adapter, err := deps.Registry.Get(chain)
	if err != nil {
		return nil, err
	}
	return adapter.History(ctx, addr, token)
}

// Send signs and broadcasts a transfer from a raw private key, recording the
// result as a TxRecord and firing the matching notification event. It holds
// a per-(chain, from) send lock for the duration of the call so two
// concurrent sends against the same address don't race the same UTXO set.
func (a *App) Send(ctx context.Context, deps *Dependencies, chain, from, to, amount, token string, privKey []byte, speed domain.Speed) (string, error) {
	adapter, err := deps.Registry.Get(chain)
	if err != nil {
		return "", err
	}

	to = a.resolveAddress(ctx, deps, chain, to)

	unlock, err := deps.LockManager.Acquire(ctx, sendLockKey(chain, from), sendLockTTL)
	if err != nil {
		return "", fmt.Errorf("app: acquire send lock: %w", err)
	}
	defer unlock()

	hash, sendErr := adapter.Send(ctx, from, to, amount, token, privKey, speed)
	return a.recordSendResult(ctx, deps, chain, from, to, amount, token, hash, sendErr)
}

// resolveAddress treats to as an address book label first (SPEC_FULL.md
// §3.1); if no entry matches it falls back to treating to as a literal
// address unchanged.
func (a *App) resolveAddress(ctx context.Context, deps *Dependencies, chain, to string) string {
	if deps.AddrStore == nil {
		return to
	}
	entry, err := deps.AddrStore.GetByLabel(ctx, domain.ChainType(chain), to)
	if err != nil {
		return to
	}
	return entry.Addr
}

// SendFromWallet does the same as Send but resolves keys from a wallet
// container file on disk instead of a raw private key.
func (a *App) SendFromWallet(ctx context.Context, deps *Dependencies, chain, walletPath, to, amount, token, net string, speed domain.Speed) (string, error) {
	adapter, err := deps.Registry.Get(chain)
	if err != nil {
		return "", err
	}

	to = a.resolveAddress(ctx, deps, chain, to)

	unlock, err := deps.LockManager.Acquire(ctx, sendLockKey(chain, walletPath), sendLockTTL)
	if err != nil {
		return "", fmt.Errorf("app: acquire send lock: %w", err)
	}
	defer unlock()

	hash, sendErr := adapter.SendFromWallet(ctx, walletPath, to, amount, token, net, speed)
	return a.recordSendResult(ctx, deps, chain, walletPath, to, amount, token, hash, sendErr)
}

// recordSendResult persists a TxRecord for a completed (or failed) send and
// fires the matching notification event (SPEC_FULL.md §4.15).
func (a *App) recordSendResult(ctx context.Context, deps *Dependencies, chain, from, to, amount, token, hash string, sendErr error) (string, error) {
	chainType := domain.ChainType(chain)
	now := time.Now().UTC()

	if sendErr != nil {
		rec := domain.TxRecord{
			ID:          uuid.NewString(),
			Chain:       chainType,
			TxHash:      "",
			FromAddress: from,
			ToAddress:   to,
			Token:       token,
			Amount:      amount,
			Status:      domain.TxStatusFailed,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := deps.TxStore.Create(ctx, rec); err != nil {
			a.logger.ErrorContext(ctx, "failed to record rejected send", slog.String("error", err.Error()))
		}

		event := "send_rejected"
		if errors.Is(sendErr, domain.ErrInsufficientFunds) {
			event = "insufficient_funds"
		}
		if notifyErr := deps.Notifier.Notify(ctx, event, "send failed",
			fmt.Sprintf("%s send %s %s -> %s failed: %v", chain, amount, token, to, sendErr)); notifyErr != nil {
			a.logger.ErrorContext(ctx, "notify failed", slog.String("error", notifyErr.Error()))
		}
		return "", sendErr
	}

	rec := domain.TxRecord{
		ID:          uuid.NewString(),
		Chain:       chainType,
		TxHash:      hash,
		FromAddress: from,
		ToAddress:   to,
		Token:       token,
		Amount:      amount,
		Status:      domain.TxStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := deps.TxStore.Create(ctx, rec); err != nil {
		a.logger.ErrorContext(ctx, "failed to record broadcast send", slog.String("error", err.Error()))
	}
	if err := deps.Notifier.Notify(ctx, "send_broadcast", "send broadcast",
		fmt.Sprintf("%s send %s %s -> %s: %s", chain, amount, token, to, hash)); err != nil {
		a.logger.ErrorContext(ctx, "notify failed", slog.String("error", err.Error()))
	}
	return hash, nil
}

func sendLockKey(chain, from string) string {
	return fmt.Sprintf("send:%s:%s", chain, from)
}

// Archive moves TxRecords older than before to cold storage and returns how
// many were moved (SPEC_FULL.md §4.14).
func (a *App) Archive(ctx context.Context, deps *Dependencies, before time.Time) (int64, error) {
	return deps.Archiver.ArchiveTxRecords(ctx, before)
}
