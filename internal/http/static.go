package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
)

// registerStaticRoutes serves locally stored uploads. Object-store backends hand out their own
// URLs, so nothing is mounted for them.
func (s *Server) registerStaticRoutes() {
	local, ok := s.uploads.Store().(*upload.LocalStore)
	if !ok {
		return
	}

	files := withoutListings(stdhttp.FileServer(stdhttp.Dir(local.Root())))
	for _, kind := range []upload.Kind{upload.KindImage, upload.KindVideo} {
		s.mux.Handle("GET /"+kind.Dir()+"/", files)
	}
}

func withoutListings(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			stdhttp.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
