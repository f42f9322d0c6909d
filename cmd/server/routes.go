package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/httpx"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/middleware"
)

type authRoutes interface {
	CreateSession(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type imageRoutes interface {
	Upload(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
}

// routes is everything the router mounts.
type routes struct {
	log          zerolog.Logger
	corsOrigins  []string
	graphql      http.Handler
	auth         authRoutes
	images       imageRoutes
	requireAdmin func(http.Handler) http.Handler
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(rt.log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Credentials)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// GET carries the websocket upgrade for subscriptions.
	r.Handle("/graphql", rt.graphql)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/session", rt.auth.CreateSession)
		r.Post("/logout", rt.auth.Logout)
		r.Get("/me", rt.auth.Me)
	})

	r.Route("/api/images", func(r chi.Router) {
		r.Use(rt.requireAdmin)
		r.Post("/upload", rt.images.Upload)
		r.Post("/remove", rt.images.Remove)
	})
	return r
}

// newServer sets no read/write timeouts: subscription websockets stay open
// indefinitely.
func newServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
