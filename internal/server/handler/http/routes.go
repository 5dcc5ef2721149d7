package http

import (
	"net/http"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// corsMiddleware allows the browser frontend to call the API.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", SecretHeader},
		AllowCredentials: true,
	})
}

// NewSourceRouter constructs the data-source HTTP handler.
//
// Routes:
//
//	POST   /auth/register        → authHandler.Register (rate limited)
//	POST   /auth/login           → authHandler.Login    (rate limited)
//	GET    /files/               → filesHandler.List     (bearer token)
//	POST   /files/               → filesHandler.Upload   (bearer token)
//	POST   /files/mkdir          → filesHandler.Mkdir    (bearer token)
//	DELETE /files/               → filesHandler.Delete   (bearer token)
//	GET    /files/download       → filesHandler.Download (bearer token)
//
// Every /files route, download included, sits behind the bearer-token
// middleware.
func NewSourceRouter(
	authHandler *AuthHandler,
	filesHandler *FilesHandler,
	validator middleware.TokenValidator,
	corsOrigin string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(corsMiddleware(corsOrigin))

	// Slow down credential guessing on the public endpoints.
	limiter := middleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter.Limit)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/files", func(r chi.Router) {
		r.Use(middleware.BearerAuth(validator))
		r.Get("/", filesHandler.List)
		r.Post("/", filesHandler.Upload)
		r.Post("/mkdir", filesHandler.Mkdir)
		r.Delete("/", filesHandler.Delete)
		r.Get("/download", filesHandler.Download)
	})

	return r
}

// NewSinkRouter constructs the data-sink HTTP handler.
//
// Routes:
//
//	POST /receive-file       → receiveHandler.ReceiveFile (shared secret header)
//	GET  /received/          → receiveHandler.ListReceived     (bearer token)
//	GET  /received/download  → receiveHandler.DownloadReceived (bearer token)
//
// The receive endpoint is authenticated by the shared secret alone;
// the listing and download endpoints require a user token validated
// against the same credential store as the data source.
func NewSinkRouter(
	receiveHandler *ReceiveHandler,
	validator middleware.TokenValidator,
	corsOrigin string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(corsMiddleware(corsOrigin))

	r.Post("/receive-file", receiveHandler.ReceiveFile)

	r.Route("/received", func(r chi.Router) {
		r.Use(middleware.BearerAuth(validator))
		r.Get("/", receiveHandler.ListReceived)
		r.Get("/download", receiveHandler.DownloadReceived)
	})

	return r
}
