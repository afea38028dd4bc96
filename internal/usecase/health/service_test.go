package health

import (
	"context"
	"errors"
	"testing"

	"github.com/dinerank/dinerank/internal/domain/source"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockSourceChecker struct {
	src source.Source
	err error
}

func (m *mockSourceChecker) Source() source.Source { return m.src }

func (m *mockSourceChecker) HealthCheck(_ context.Context) error { return m.err }

type mockNarratorChecker struct {
	err error
}

func (m *mockNarratorChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCachePinger{}, []SourceChecker{
		&mockSourceChecker{src: source.Google},
		&mockSourceChecker{src: source.Yelp},
	}, &mockNarratorChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"cache", "google", "yelp", "narrator"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockCachePinger{err: errors.New("conn refused")}, []SourceChecker{
		&mockSourceChecker{src: source.Google},
	}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["google"] != CheckOK {
		t.Errorf("expected google %q, got %q", CheckOK, r.Checks["google"])
	}
}

func TestCheck_SourceError(t *testing.T) {
	svc := New(&mockCachePinger{}, []SourceChecker{
		&mockSourceChecker{src: source.Google},
		&mockSourceChecker{src: source.Yelp, err: errors.New("timeout")},
	}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["yelp"] != CheckError {
		t.Errorf("expected yelp %q, got %q", CheckError, r.Checks["yelp"])
	}
	if r.Checks["google"] != CheckOK {
		t.Errorf("expected google %q, got %q", CheckOK, r.Checks["google"])
	}
}

func TestCheck_WithoutNarrator(t *testing.T) {
	svc := New(&mockCachePinger{}, []SourceChecker{
		&mockSourceChecker{src: source.Google},
	}, nil)
	r := svc.Check(context.Background())

	if _, ok := r.Checks["narrator"]; ok {
		t.Error("narrator check present without a narrator configured")
	}
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
}

func TestCheck_NarratorError(t *testing.T) {
	svc := New(&mockCachePinger{}, []SourceChecker{
		&mockSourceChecker{src: source.Google},
	}, &mockNarratorChecker{err: errors.New("quota exceeded")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["narrator"] != CheckError {
		t.Errorf("expected narrator %q, got %q", CheckError, r.Checks["narrator"])
	}
}
