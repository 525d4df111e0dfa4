package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/expense-tracker-be/internal/api/handlers"
	"github.com/isdelr/expense-tracker-be/internal/auth"
	"github.com/isdelr/expense-tracker-be/internal/logger"
	"github.com/isdelr/expense-tracker-be/internal/services"
)

// Services bundles the business services served over HTTP.
type Services struct {
	Users      services.UserServiceProvider
	Categories services.CategoryServiceProvider
	Items      services.ItemServiceProvider
	Expenses   services.ExpenseServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens *auth.TokenManager, allowedOrigins []string, svc Services) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware())
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(svc.Users)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	itemHandler := handlers.NewItemHandler(svc.Items)
	expenseHandler := handlers.NewExpenseHandler(svc.Expenses)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.Register)
		r.Post("/users/login", userHandler.Login)

		// Everything else needs a bearer token
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware(tokens, svc.Users))

			r.Get("/users/profile", userHandler.Profile)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.GetAll)
				r.Post("/", categoryHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", categoryHandler.Update)
					r.Delete("/", categoryHandler.Delete)
					r.Get("/items", categoryHandler.GetWithItems)
				})
			})

			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemHandler.GetAll)
				r.Post("/", itemHandler.Create)
				r.Get("/category/{categoryId}", itemHandler.GetByCategory)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", itemHandler.Update)
					r.Delete("/", itemHandler.Delete)
				})
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.GetAll)
				r.Post("/", expenseHandler.Create)
				r.Get("/summary", expenseHandler.Summary)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", expenseHandler.Update)
					r.Delete("/", expenseHandler.Delete)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not found"}`))
	})

	return r
}
