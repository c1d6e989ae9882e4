package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

func TestIssueAndVerifyToken(t *testing.T) {
	auth := NewAuthMiddleware("test-secret")

	token, err := auth.IssueToken(42, model.RoleRestaurant)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		if !ok || id != 42 {
			t.Errorf("user id from context = %d, %v; want 42, true", id, ok)
		}
		role, ok := GetRoleFromContext(r.Context())
		if !ok || role != model.RoleRestaurant {
			t.Errorf("role from context = %q, %v; want restaurant, true", role, ok)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMiddlewareRejects(t *testing.T) {
	auth := NewAuthMiddleware("test-secret")
	other := NewAuthMiddleware("other-secret")

	foreignToken, err := other.IssueToken(1, model.RoleStudent)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.jwt"},
		{name: "wrong signature", header: "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler reached with invalid auth")
			}))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth := NewAuthMiddleware("test-secret")

	adminToken, err := auth.IssueToken(1, model.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	studentToken, err := auth.IssueToken(2, model.RoleStudent)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	handler := auth.Middleware(auth.RequireRole(model.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "admin allowed", token: adminToken, want: http.StatusOK},
		{name: "student forbidden", token: studentToken, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
