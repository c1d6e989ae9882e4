package navigation

import (
	"testing"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

func TestSurfaceFor(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want Surface
	}{
		{name: "no session", user: nil, want: SurfaceAuth},
		{name: "student", user: &model.User{Role: model.RoleStudent}, want: SurfaceStudent},
		{name: "restaurant", user: &model.User{Role: model.RoleRestaurant}, want: SurfaceRestaurant},
		{name: "admin", user: &model.User{Role: model.RoleAdmin}, want: SurfaceAdmin},
		{name: "unknown role", user: &model.User{Role: "moderator"}, want: SurfaceError},
		{name: "empty role", user: &model.User{}, want: SurfaceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SurfaceFor(tt.user); got != tt.want {
				t.Errorf("SurfaceFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllows(t *testing.T) {
	student := &model.User{Role: model.RoleStudent}

	if !Allows(student, SurfaceStudent) {
		t.Error("Allows(student, SurfaceStudent) = false, want true")
	}
	if Allows(student, SurfaceAdmin) {
		t.Error("Allows(student, SurfaceAdmin) = true, want false")
	}
	if !Allows(nil, SurfaceAuth) {
		t.Error("Allows(nil, SurfaceAuth) = false, want true")
	}
}

func TestSurfaceString(t *testing.T) {
	tests := []struct {
		s    Surface
		want string
	}{
		{SurfaceAuth, "auth"},
		{SurfaceStudent, "student"},
		{SurfaceRestaurant, "restaurant"},
		{SurfaceAdmin, "admin"},
		{SurfaceError, "error"},
		{Surface(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Surface(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
