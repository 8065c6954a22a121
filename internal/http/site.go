package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
)

func (s *Server) registerFAQRoutes() {
	registerResource(s, resource[content.FAQInput, content.FAQView]{
		Name:      "faq",
		Plural:    "faqs",
		Label:     "FAQ",
		Path:      "/api/faq",
		Tag:       "FAQ",
		WriteRole: auth.RoleAdmin,
		Required:  []string{"question", "answer"},
		List:      s.repository.ListFAQs,
		Create:    s.repository.CreateFAQ,
		Update:    s.repository.UpdateFAQ,
	})
}

func (s *Server) registerMediaRoutes() {
	registerResource(s, resource[content.MediaInput, content.MediaView]{
		Name:      "media",
		Plural:    "media",
		Label:     "Media",
		Path:      "/api/media",
		Tag:       "Media",
		WriteRole: auth.RoleAdmin,
		Required:  []string{"title", "url", "type"},
		List:      s.repository.ListMedia,
		Create:    s.repository.CreateMedia,
		Update:    s.repository.UpdateMedia,
	})
}

func (s *Server) registerRoadmapRoutes() {
	registerResource(s, resource[content.RoadmapInput, content.RoadmapView]{
		Name:      "roadmap-item",
		Plural:    "roadmap-items",
		Label:     "Roadmap item",
		Path:      "/api/roadmap",
		Tag:       "Roadmap",
		WriteRole: auth.RoleAdmin,
		Required:  []string{"title"},
		List:      s.repository.ListRoadmap,
		Create:    s.repository.CreateRoadmapItem,
		Update:    s.repository.UpdateRoadmapItem,
	})
}

func (s *Server) registerDevblogRoutes() {
	registerResource(s, resource[content.DevblogInput, content.DevblogView]{
		Name:        "devblog-post",
		Plural:      "devblog-posts",
		Label:       "Devblog post",
		Path:        "/api/admin/devblog",
		Tag:         "Devblog",
		ReadRole:    auth.RoleAdmin,
		WriteRole:   auth.RoleAdmin,
		AlwaysDraft: true,
		Required:    []string{"title", "content"},
		List:        s.repository.ListDevblogPosts,
		Create:      s.repository.CreateDevblogPost,
		Update:      s.repository.UpdateDevblogPost,
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-published-devblog-posts",
		Method:      stdhttp.MethodGet,
		Path:        "/api/devblog",
		Summary:     "List published devblog posts",
		Tags:        []string{"Devblog"},
	}, s.publicDevblogHandler)
}

func (s *Server) publicDevblogHandler(ctx context.Context, input *limitInput) (*listOutput[content.DevblogView], error) {
	opts := content.ListOptions{Limit: input.Limit}

	posts, err := s.repository.ListDevblogPosts(ctx, opts)
	if err != nil {
		if s.strictListErrors {
			return nil, s.translateError(ctx, err, "fetch devblog posts", errorMessages{Label: "Devblog post"}, nil)
		}
		s.recordError(ctx, err, "fetch devblog posts", nil)
		posts = []content.DevblogView{}
	}

	return &listOutput[content.DevblogView]{Body: posts}, nil
}
