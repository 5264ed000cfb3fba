package main

import (
	"net/http"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"duskSkyWeb/handlers"
	"duskSkyWeb/internal/config"
	"duskSkyWeb/middleware"
)

func newRouter(
	cfg config.Config,
	friendshipHandler *handlers.FriendshipHandler,
	auth *middleware.Authenticator,
	limiter *middleware.RateLimiter,
) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "dusksky-web"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// -------------------------------------------------------------------------
	// PUBLIC ROUTES (ANONYMOUS VIEWERS ALLOWED)
	// -------------------------------------------------------------------------
	public := api.PathPrefix("").Subrouter()
	public.Use(auth.OptionalAuth)

	public.HandleFunc("/profiles/{id}/relationship", friendshipHandler.GetProfileRelationship).Methods("GET")
	public.HandleFunc("/search/relationships", friendshipHandler.SearchRelationships).Methods("GET")
	public.HandleFunc("/users/{id}/friends", friendshipHandler.GetUserFriends).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.RequireAuth)

	protected.HandleFunc("/friends", friendshipHandler.GetMyFriends).Methods("GET")
	protected.HandleFunc("/friends/requests", friendshipHandler.GetIncomingRequests).Methods("GET")
	protected.HandleFunc("/friends/requests", friendshipHandler.SendRequest).Methods("POST")
	protected.HandleFunc("/friends/requests/{id}/accept", friendshipHandler.AcceptRequest).Methods("PUT")
	protected.HandleFunc("/friends/requests/{id}/reject", friendshipHandler.RejectRequest).Methods("PUT")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret", middleware.RequestIDHeader}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length", middleware.RequestIDHeader}),
		gorilllaHandlers.AllowCredentials(),
	)
	return corsHandler(r)
}
