package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
)

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Storage  string `json:"storage"`
	}
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.Storage = "ok"

	if err := s.repository.Ping(ctx); err != nil {
		s.recordError(ctx, err, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if err := s.uploads.Store().Check(ctx); err != nil {
		s.recordError(ctx, err, "checking upload storage", nil)
		resp.Body.Status = "degraded"
		resp.Body.Storage = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}
