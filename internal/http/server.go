package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
)

const defaultUploadMaxBytes = 100 << 20

// Options configures the HTTP server wiring.
type Options struct {
	Repository       content.Repository
	Tokens           *auth.Tokens
	Resolver         auth.Resolver
	Uploads          *upload.Service
	UploadMaxBytes   int64
	Logger           *logrus.Logger
	SentryHub        *sentry.Hub
	RateLimiter      RateLimiterSettings
	Production       bool
	StrictListErrors bool
	Version          string
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the JSON API via Huma on top of the standard library mux.
type Server struct {
	api              huma.API
	mux              *stdhttp.ServeMux
	repository       content.Repository
	tokens           *auth.Tokens
	resolver         auth.Resolver
	uploads          *upload.Service
	uploadMaxBytes   int64
	logger           *logrus.Logger
	sentry           *sentry.Hub
	rateLimiter      *RateLimiter
	production       bool
	strictListErrors bool
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Repository == nil {
		return nil, eris.New("content repository is required")
	}
	if opts.Tokens == nil {
		return nil, eris.New("session tokens are required")
	}
	if opts.Uploads == nil {
		return nil, eris.New("upload service is required")
	}

	resolver := opts.Resolver
	if resolver == nil {
		sessionResolver, err := auth.NewSessionResolver(opts.Tokens, opts.Repository, opts.Logger)
		if err != nil {
			return nil, err
		}
		resolver = sessionResolver
	}

	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Afterlife companion API", version)

	api := humago.New(mux, config)

	srv := &Server{
		api:              api,
		mux:              mux,
		repository:       opts.Repository,
		tokens:           opts.Tokens,
		resolver:         resolver,
		uploads:          opts.Uploads,
		uploadMaxBytes:   opts.UploadMaxBytes,
		logger:           opts.Logger,
		sentry:           opts.SentryHub,
		production:       opts.Production,
		strictListErrors: opts.StrictListErrors,
	}
	if srv.uploadMaxBytes <= 0 {
		srv.uploadMaxBytes = defaultUploadMaxBytes
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.sessionMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.registerStaticRoutes()

	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerWikiRoutes()
	s.registerFAQRoutes()
	s.registerMediaRoutes()
	s.registerRoadmapRoutes()
	s.registerDevblogRoutes()
	s.registerUploadRoute()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}
