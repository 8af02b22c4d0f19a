package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/home-budget-web/backend/internal/http/expense"
	"github.com/home-budget-web/backend/internal/http/income"
	"github.com/home-budget-web/backend/internal/http/meta"
)

func New(
	expensesV1 *expense.Handler,
	incomesV1 *income.Handler,
	metaV1 *meta.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			expensesV1.Routes(r)
		})

		r.Route("/incomes", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			incomesV1.Routes(r)
		})

		metaV1.Routes(r)
	})

	return router
}
