package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mventura/bookstay-be/internal/api/handlers"
	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/config"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	hotelService services.HotelServiceProvider,
	bookingService services.BookingServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	// Only the configured frontend origin may send credentialed requests.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(userService, tokens, cfg.IsProduction())
	hotelHandler := handlers.NewHotelHandler(hotelService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	eventHandler := handlers.NewEventHandler(eventService)

	requireAuth := tokens.Middleware()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(requireAuth).Get("/validate-token", authHandler.ValidateToken)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.With(requireAuth).Get("/me", userHandler.GetMe)
		})

		r.Route("/my-hotels", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", hotelHandler.GetMine)
			r.Post("/", hotelHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", hotelHandler.GetMineByID)
				r.Put("/", hotelHandler.Update)
			})
		})

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/search", hotelHandler.Search)
			r.Get("/{id}", hotelHandler.GetPublic)
			r.With(requireAuth).Post("/{id}/bookings", bookingHandler.Create)
		})

		r.With(requireAuth).Get("/my-bookings", bookingHandler.GetMine)
		r.With(requireAuth).Get("/events", eventHandler.GetRecent)
	})

	// Combined deployment: everything outside /api serves the SPA so
	// client-side routing can take over.
	if cfg.StaticDir != "" {
		r.NotFound(spaFallback(cfg.StaticDir))
	}

	return r
}

// requestLogger logs every request through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// spaFallback serves files from staticDir and falls back to index.html for
// any non-API miss.
func spaFallback(staticDir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(staticDir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			http.NotFound(w, r)
			return
		}
		path := filepath.Join(staticDir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}
}
