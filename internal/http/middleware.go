package http

import (
	"context"
	"fmt"
	"math"
	"net"
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
)

func (s *Server) requestIDMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reqID := uuid.NewString()
		goCtx := context.WithValue(ctx.Context(), requestIDContextKey, reqID)
		ctx = huma.WithContext(ctx, goCtx)
		ctx.SetHeader("X-Request-ID", reqID)

		if hub := sentry.GetHubFromContext(goCtx); hub != nil {
			hub.Scope().SetTag("request_id", reqID)
		}

		next(ctx)
	}
}

func (s *Server) rateLimitMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.rateLimiter == nil {
			next(ctx)
			return
		}

		req, _ := humago.Unwrap(ctx)
		if req == nil {
			next(ctx)
			return
		}

		ip := clientIPFromRequest(req)
		allowed, wait := s.rateLimiter.Allow(ip)
		if allowed {
			next(ctx)
			return
		}

		fields := logrus.Fields{
			"ip":   ip,
			"path": req.URL.Path,
		}
		if requestID := RequestIDFromContext(ctx.Context()); requestID != "" {
			fields["request_id"] = requestID
		}

		if s.logger != nil {
			s.logger.WithError(eris.New("rate limit exceeded")).WithFields(fields).Warn("request rate limited")
		}

		retryAfter := int(math.Ceil(wait.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		ctx.SetHeader("Retry-After", strconv.Itoa(retryAfter))

		if err := writeJSONError(ctx, stdhttp.StatusTooManyRequests, rateLimitMessage); err != nil && s.logger != nil {
			s.logger.WithError(err).WithFields(fields).Error("rendering rate limit response failed")
		}
	}
}

// sessionMiddleware resolves the caller's session into an identity stored on the context.
// Anonymous and invalid sessions proceed without one; handlers decide whether that is enough.
func (s *Server) sessionMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		req, _ := humago.Unwrap(ctx)
		if req == nil || s.resolver == nil {
			next(ctx)
			return
		}

		token := auth.TokenFromRequest(req)
		if token == "" {
			next(ctx)
			return
		}

		identity := s.resolver.Resolve(ctx.Context(), token)
		if identity == nil {
			next(ctx)
			return
		}

		goCtx := auth.WithIdentity(ctx.Context(), identity)
		if hub := sentry.GetHubFromContext(goCtx); hub != nil {
			hub.Scope().SetUser(sentry.User{ID: strconv.FormatUint(uint64(identity.UserID), 10)})
		}

		next(huma.WithContext(ctx, goCtx))
	}
}

func (s *Server) loggingMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.logger == nil {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = stdhttp.StatusOK
		}

		fields := logrus.Fields{
			"method":      ctx.Method(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		}

		if op := ctx.Operation(); op != nil {
			fields["route"] = op.Path
		}

		if req, _ := humago.Unwrap(ctx); req != nil {
			fields["path"] = req.URL.Path
			fields["remote_addr"] = req.RemoteAddr
		}

		if requestID := RequestIDFromContext(ctx.Context()); requestID != "" {
			fields["request_id"] = requestID
		}

		if identity := auth.FromContext(ctx.Context()); identity != nil {
			fields["user_id"] = identity.UserID
		}

		entry := s.logger.WithFields(fields)
		if status >= 500 {
			entry.Error("request failed")
		} else {
			entry.Info("request completed")
		}
	}
}

func (s *Server) recoveryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			if rec := recover(); rec != nil {
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("panic: %v", v)
				}

				s.recordError(ctx.Context(), err, "panic recovered", nil)

				if hub := sentry.GetHubFromContext(ctx.Context()); hub != nil {
					hub.RecoverWithContext(ctx.Context(), rec)
					hub.Flush(2 * time.Second)
				}

				if writeErr := writeJSONError(ctx, stdhttp.StatusInternalServerError, internalErrorMessage); writeErr != nil && s.logger != nil {
					s.logger.WithError(writeErr).Error("rendering panic response failed")
				}
			}
		}()

		next(ctx)
	}
}

func (s *Server) sentryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.sentry == nil {
			next(ctx)
			return
		}

		hub := s.sentry.Clone()
		scope := hub.Scope()
		scope.SetTag("http.method", ctx.Method())
		if op := ctx.Operation(); op != nil {
			scope.SetTag("http.route", op.Path)
		}

		goCtx := sentry.SetHubOnContext(ctx.Context(), hub)
		ctx = huma.WithContext(ctx, goCtx)

		defer hub.Flush(2 * time.Second)

		next(ctx)
	}
}

func clientIPFromRequest(req *stdhttp.Request) string {
	if req == nil {
		return ""
	}

	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			candidate := strings.TrimSpace(parts[0])
			if candidate != "" {
				return candidate
			}
		}
	}

	if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
