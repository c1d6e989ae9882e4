package stubapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/merictopal/FoodShareHungary-MericTopal/internal/middleware"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
)

// SetupRouter настраивает маршруты заглушки бэкенда FoodShare.
// Маршруты и формы ответов повторяют контракт, который потребляет клиент.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger.Named("http")))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Put("/auth/update", h.UpdateProfile)

		r.Get("/offers", h.Offers)
		r.Post("/offers/create", h.CreateOffer)
		r.Post("/offers/claim", h.Claim)
		r.Post("/claims/verify", h.Verify)

		r.Get("/student/history/{userID}", h.History)
		r.Get("/leaderboard", h.Leaderboard)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Use(h.authMiddleware.RequireRole(model.RoleAdmin))

			r.Get("/admin/stats", h.AdminStats)
			r.Get("/admin/pending", h.AdminPending)
			r.Post("/admin/approve", h.AdminApprove)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
