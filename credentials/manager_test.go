package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// stubGrant is a Grant with scripted results and an optional gate that blocks
// Exchange until released, for exercising concurrent refreshes.
type stubGrant struct {
	creds  Credentials
	expiry time.Time
	err    error

	started chan struct{} // closed when the first Exchange begins, if non-nil
	release chan struct{} // Exchange blocks until closed, if non-nil

	calls int32
}

func (g *stubGrant) Exchange(ctx context.Context) (Credentials, time.Time, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 && g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return Credentials{}, time.Time{}, ctx.Err()
		}
	}
	if g.err != nil {
		return Credentials{}, time.Time{}, g.err
	}
	return g.creds, g.expiry, nil
}

func (g *stubGrant) exchangeCount() int {
	return int(atomic.LoadInt32(&g.calls))
}

func TestManager_StartsEmpty(t *testing.T) {
	m := NewManager(&stubGrant{})

	if _, ok := m.Current(); ok {
		t.Error("new manager should hold no credentials")
	}
}

func TestManager_Refresh(t *testing.T) {
	want := Credentials{
		AccessToken: "fresh-token",
		InstanceURL: "https://instance.example.com",
	}
	grant := &stubGrant{creds: want, expiry: time.Now().Add(time.Hour)}

	m := NewManager(grant)

	got, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got != want {
		t.Errorf("unexpected credentials: %+v", got)
	}

	current, ok := m.Current()
	if !ok {
		t.Fatal("credentials should be held after refresh")
	}
	if current != want {
		t.Errorf("Current returned %+v, want %+v", current, want)
	}
}

func TestManager_Refresh_GrantError(t *testing.T) {
	cause := errors.New("invalid_grant")
	m := NewManager(&stubGrant{err: cause})

	_, err := m.Refresh(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped grant error, got %v", err)
	}

	if _, ok := m.Current(); ok {
		t.Error("failed refresh should not install credentials")
	}
}

func TestManager_Refresh_NilContext(t *testing.T) {
	m := NewManager(&stubGrant{creds: Credentials{AccessToken: "t"}})

	if _, err := m.Refresh(nil); err != nil { //nolint:staticcheck // nil context is tolerated
		t.Fatalf("Refresh with nil context failed: %v", err)
	}
}

func TestManager_ConcurrentRefresh_SingleExchange(t *testing.T) {
	grant := &stubGrant{
		creds:   Credentials{AccessToken: "shared-token"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := NewManager(grant)

	const callers = 8

	results := make([]Credentials, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Refresh(context.Background())
		}(i)
	}

	// Let every caller pile up behind the one in-flight exchange, then
	// release it.
	<-grant.started
	time.Sleep(20 * time.Millisecond)
	close(grant.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].AccessToken != "shared-token" {
			t.Errorf("caller %d got token %q", i, results[i].AccessToken)
		}
	}

	if got := grant.exchangeCount(); got != 1 {
		t.Errorf("expected a single token exchange, got %d", got)
	}
}

func TestManager_Refresh_RevokedBeforeExpiry(t *testing.T) {
	// The seed reports a long remaining lifetime, but the server has revoked
	// it: a Refresh driven by an unauthorized response must exchange anyway.
	grant := &stubGrant{
		creds:  Credentials{AccessToken: "fresh-token"},
		expiry: time.Now().Add(time.Hour),
	}
	seeded := Credentials{AccessToken: "revoked-token"}

	m := NewManager(grant, WithInitialCredentials(seeded))

	got, err := m.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got.AccessToken != "fresh-token" {
		t.Errorf("expected exchanged credentials, got %+v", got)
	}
	if grant.exchangeCount() != 1 {
		t.Errorf("expected one exchange, got %d", grant.exchangeCount())
	}
}

func TestManager_Refresh_SequentialCallsBothExchange(t *testing.T) {
	grant := &stubGrant{creds: Credentials{AccessToken: "fresh-token"}}
	m := NewManager(grant)

	for i := 0; i < 2; i++ {
		if _, err := m.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh %d failed: %v", i, err)
		}
	}

	// Each call saw the then-current credentials rejected, so each must
	// exchange; only overlapping callers share a result.
	if grant.exchangeCount() != 2 {
		t.Errorf("expected two exchanges, got %d", grant.exchangeCount())
	}
}

func TestManager_RefreshedSince(t *testing.T) {
	want := Credentials{AccessToken: "fresh-token"}
	m := NewManager(&stubGrant{creds: want})

	before := m.currentGeneration()

	if _, ok := m.refreshedSince(before); ok {
		t.Error("no refresh has completed yet")
	}

	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	got, ok := m.refreshedSince(before)
	if !ok {
		t.Fatal("a completed refresh should satisfy an older snapshot")
	}
	if got != want {
		t.Errorf("unexpected credentials: %+v", got)
	}

	if _, ok := m.refreshedSince(m.currentGeneration()); ok {
		t.Error("a current snapshot should not be satisfied")
	}
}

func TestManager_Refresh_SurvivesInitiatorCancel(t *testing.T) {
	grant := &stubGrant{
		creds:   Credentials{AccessToken: "shared-token"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := NewManager(grant)

	initiatorCtx, cancel := context.WithCancel(context.Background())

	initiatorErr := make(chan error, 1)
	go func() {
		_, err := m.Refresh(initiatorCtx)
		initiatorErr <- err
	}()
	<-grant.started

	waiterCreds := make(chan Credentials, 1)
	waiterErr := make(chan error, 1)
	go func() {
		creds, err := m.Refresh(context.Background())
		waiterCreds <- creds
		waiterErr <- err
	}()

	// Cancel the caller that started the exchange while a second caller with
	// a live context is collapsed into it.
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(grant.release)

	if err := <-waiterErr; err != nil {
		t.Fatalf("waiter failed after initiator cancel: %v", err)
	}
	if creds := <-waiterCreds; creds.AccessToken != "shared-token" {
		t.Errorf("waiter got token %q", creds.AccessToken)
	}
	if err := <-initiatorErr; err != nil {
		t.Errorf("exchange should be independent of the initiator's cancellation, got %v", err)
	}

	if grant.exchangeCount() != 1 {
		t.Errorf("expected a single exchange, got %d", grant.exchangeCount())
	}
}

func TestManager_WithInitialCredentials(t *testing.T) {
	seeded := Credentials{AccessToken: "seeded-token"}

	m := NewManager(&stubGrant{}, WithInitialCredentials(seeded))

	got, ok := m.Current()
	if !ok {
		t.Fatal("seeded credentials should be present")
	}
	if got != seeded {
		t.Errorf("unexpected credentials: %+v", got)
	}
}

func TestManager_WithInitialCredentials_EmptyToken(t *testing.T) {
	m := NewManager(&stubGrant{}, WithInitialCredentials(Credentials{}))

	if _, ok := m.Current(); ok {
		t.Error("empty seed should leave the manager without credentials")
	}
}

// captureLogger records Printf calls for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *captureLogger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func (l *captureLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func TestManager_WithLogger(t *testing.T) {
	logger := &captureLogger{}
	grant := &stubGrant{
		creds:  Credentials{AccessToken: "fresh-token"},
		expiry: time.Now().Add(time.Hour),
	}

	m := NewManager(grant, WithLogger(logger))

	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if logger.count() == 0 {
		t.Error("expected a log entry after a successful refresh")
	}
}
