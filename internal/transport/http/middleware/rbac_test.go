package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hradmin/internal/domain/auth"
)

type fakePerms struct {
	allowed map[string]bool
	err     error
}

func (f fakePerms) HasPermission(_ context.Context, roleID, permission string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.allowed[roleID+":"+permission], nil
}

func TestRequirePermission(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		user       *auth.UserContext
		perms      fakePerms
		wantStatus int
	}{
		{
			name:       "no user",
			user:       nil,
			perms:      fakePerms{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "permission granted",
			user:       &auth.UserContext{UserID: "u1", RoleID: "r1"},
			perms:      fakePerms{allowed: map[string]bool{"r1:leave.approve": true}},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "permission denied",
			user:       &auth.UserContext{UserID: "u1", RoleID: "r2"},
			perms:      fakePerms{allowed: map[string]bool{}},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequirePermission(auth.PermLeaveApprove, tc.perms)(next)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/leaves/l1/approve", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	anon := httptest.NewRequest(http.MethodPost, "/api/v1/employees/e1/check_in", nil)
	anonRec := httptest.NewRecorder()
	handler.ServeHTTP(anonRec, anon)
	if anonRec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", anonRec.Code)
	}

	authed := httptest.NewRequest(http.MethodPost, "/api/v1/employees/e1/check_in", nil)
	authed = authed.WithContext(WithUser(authed.Context(), auth.UserContext{UserID: "u1"}))
	authedRec := httptest.NewRecorder()
	handler.ServeHTTP(authedRec, authed)
	if authedRec.Code != http.StatusNoContent {
		t.Fatalf("authenticated status = %d, want 204", authedRec.Code)
	}
}
