// Package navigation решает, какой набор экранов доступен текущей сессии.
package navigation

import (
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// Surface описывает верхнеуровневую поверхность навигации.
type Surface int

const (
	// SurfaceAuth — экраны входа и регистрации для неавторизованных.
	SurfaceAuth Surface = iota
	// SurfaceStudent — главная и профиль студента.
	SurfaceStudent
	// SurfaceRestaurant — панель ресторана.
	SurfaceRestaurant
	// SurfaceAdmin — панель администратора.
	SurfaceAdmin
	// SurfaceError — тупиковый экран нераспознанной роли, без восстановления.
	SurfaceError
)

// String возвращает имя поверхности.
func (s Surface) String() string {
	switch s {
	case SurfaceAuth:
		return "auth"
	case SurfaceStudent:
		return "student"
	case SurfaceRestaurant:
		return "restaurant"
	case SurfaceAdmin:
		return "admin"
	case SurfaceError:
		return "error"
	}
	return "unknown"
}

// SurfaceFor отображает сессию на поверхность навигации. Функция чистая и
// не кэшируется: вызывающий обязан переоценивать её при каждой смене сессии.
// Нераспознанная роль даёт SurfaceError вместо падения.
func SurfaceFor(u *model.User) Surface {
	if u == nil {
		return SurfaceAuth
	}

	switch u.Role {
	case model.RoleStudent:
		return SurfaceStudent
	case model.RoleRestaurant:
		return SurfaceRestaurant
	case model.RoleAdmin:
		return SurfaceAdmin
	}
	return SurfaceError
}

// Allows сообщает, доступна ли поверхность текущей сессии.
func Allows(u *model.User, s Surface) bool {
	return SurfaceFor(u) == s
}
