package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "page-assistant/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, settingsHandler *SettingsHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint for the host process to probe.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON routes get a request timeout so client connections
		// cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/settings", settingsHandler.GetSettings)
			r.Post("/settings", settingsHandler.UpdateSettings)

			r.Get("/conversation", chatHandler.GetConversation)
		})

		// Long-running routes must NOT have a timeout: the event stream holds
		// its connection open, and ask/followup block on a provider call.
		r.Group(func(r chi.Router) {
			r.Post("/ask", chatHandler.HandleAsk)
			r.Post("/conversation/followup", chatHandler.HandleFollowUp)
			r.Get("/events", chatHandler.HandleEvents)
		})
	})

	return r
}
