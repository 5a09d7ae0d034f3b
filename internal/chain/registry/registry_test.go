package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

type fakeAdapter struct {
	name    string
	initErr error
}

func (f *fakeAdapter) Name() string                   { return f.name }
func (f *fakeAdapter) Type() domain.ChainType         { return domain.ChainType(f.name) }
func (f *fakeAdapter) Init(ctx context.Context) error { return f.initErr }
func (f *fakeAdapter) Cleanup() error                 { return nil }

func (f *fakeAdapter) Balance(ctx context.Context, addr, token string) (string, error) {
	return "0", nil
}

func (f *fakeAdapter) EstimateFee(ctx context.Context, speed domain.Speed) (domain.FeeEstimate, error) {
	return domain.FeeEstimate{Fee: "0"}, nil
}

func (f *fakeAdapter) Send(ctx context.Context, from, to, amount, token string, privKey []byte, speed domain.Speed) (string, error) {
	return "hash", nil
}

func (f *fakeAdapter) SendFromWallet(ctx context.Context, walletPath, to, amount, token, net string, speed domain.Speed) (string, error) {
	return "hash", nil
}

func (f *fakeAdapter) TxStatus(ctx context.Context, hash string) (domain.TxStatus, error) {
	return domain.TxStatusPending, nil
}

func (f *fakeAdapter) ValidateAddress(addr string) bool { return true }

func (f *fakeAdapter) History(ctx context.Context, addr, token string) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeAdapter{name: "cellframe"})

	a, err := r.Get("cellframe")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "cellframe" {
		t.Fatalf("got %q want cellframe", a.Name())
	}
}

func TestRegistryGetMissingReturnsNotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistryListIsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeAdapter{name: "ethereum"})
	r.Register(&fakeAdapter{name: "cellframe"})
	r.Register(&fakeAdapter{name: "tron"})

	names := r.List()
	want := []string{"cellframe", "ethereum", "tron"}
	if len(names) != len(want) {
		t.Fatalf("got %v want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v want %v", names, want)
		}
	}
}

func TestRegistryReRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeAdapter{name: "ethereum"})
	r.Register(&fakeAdapter{name: "ethereum"})
	if len(r.List()) != 1 {
		t.Fatalf("re-registering the same name should not duplicate entries")
	}
}

func TestPingAllSucceedsWhenAllAdaptersInitCleanly(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeAdapter{name: "cellframe"})
	r.Register(&fakeAdapter{name: "ethereum"})

	if err := r.PingAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPingAllSurfacesTheFirstAdapterError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("rpc endpoint unreachable")
	r.Register(&fakeAdapter{name: "cellframe"})
	r.Register(&fakeAdapter{name: "ethereum", initErr: boom})

	err := r.PingAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected PingAll to surface the failing adapter's error, got %v", err)
	}
}

func TestDefaultRegistrySelfRegistration(t *testing.T) {
	Register(&fakeAdapter{name: "test-self-register"})
	a, err := Default().Get("test-self-register")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name() != "test-self-register" {
		t.Fatalf("unexpected adapter returned from default registry")
	}
}
