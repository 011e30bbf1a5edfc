package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockResponderChecker struct {
	err error
}

func (m *mockResponderChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name          string
		dbErr         error
		responder     ResponderChecker
		wantStatus    Status
		wantDB        CheckResult
		wantResponder CheckResult // "" means absent
	}{
		{"all healthy", nil, &mockResponderChecker{}, Healthy, CheckOK, CheckOK},
		{"db down", down, &mockResponderChecker{}, Unhealthy, CheckError, CheckOK},
		{"responder down", nil, &mockResponderChecker{err: down}, Degraded, CheckOK, CheckError},
		{"both down", down, &mockResponderChecker{err: down}, Unhealthy, CheckError, CheckError},
		{"no responder", nil, nil, Healthy, CheckOK, ""},
		{"no responder, db down", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tc.dbErr}, tc.responder).Check(context.Background())

			if r.Status != tc.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tc.wantStatus)
			}
			if r.Checks[ComponentDatabase] != tc.wantDB {
				t.Errorf("database = %q, want %q", r.Checks[ComponentDatabase], tc.wantDB)
			}
			got, ok := r.Checks[ComponentResponder]
			if tc.wantResponder == "" {
				if ok {
					t.Error("responder check should be absent when responder is nil")
				}
				return
			}
			if got != tc.wantResponder {
				t.Errorf("responder = %q, want %q", got, tc.wantResponder)
			}
		})
	}
}
