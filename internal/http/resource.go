package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/validate"
)

// resource describes one entity's routes: who may read and write it, which body fields are
// required and which repository calls serve it. Every entity endpoint is registered from one.
type resource[In any, Out any] struct {
	Name        string
	Plural      string
	Label       string
	Path        string
	Tag         string
	ReadRole    auth.Role
	WriteRole   auth.Role
	AlwaysDraft bool
	Required    []string
	Duplicate   string

	List   func(context.Context, content.ListOptions) ([]Out, error)
	Get    func(context.Context, uint, bool) (*Out, error)
	Create func(context.Context, uint, *In) (*Out, error)
	Update func(context.Context, uint, *In) (*Out, error)
}

type listInput struct {
	Limit    int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum number of items to return"`
	Type     string `query:"type" doc:"Filter by type"`
	Featured string `query:"featured" doc:"Filter by featured flag (true or false)"`
	Category string `query:"category" doc:"Filter by category"`
	Status   string `query:"status" doc:"Filter by status"`
	Drafts   bool   `query:"drafts" doc:"Include unpublished items (admins only)"`
}

func (in *listInput) options(identity *auth.Identity) content.ListOptions {
	opts := content.ListOptions{
		Limit:         in.Limit,
		IncludeDrafts: in.Drafts && identity.IsAdmin(),
		Type:          strings.TrimSpace(in.Type),
		Category:      strings.TrimSpace(in.Category),
		Status:        strings.TrimSpace(in.Status),
	}

	if featured, err := strconv.ParseBool(strings.TrimSpace(in.Featured)); err == nil {
		opts.Featured = &featured
	}

	return opts
}

type limitInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"500" doc:"Maximum number of items to return"`
}

type listOutput[Out any] struct {
	Body []Out
}

type idInput struct {
	ID uint `path:"id" doc:"Record identifier"`
}

type itemOutput[Out any] struct {
	Body *Out
}

type createInput[In any] struct {
	Body In
}

type updateInput[In any] struct {
	ID   uint `path:"id" doc:"Record identifier"`
	Body In
}

func (r *resource[In, Out]) messages() errorMessages {
	return errorMessages{Label: r.Label, Duplicate: r.Duplicate}
}

// registerResource registers the list, get, create and update operations the descriptor
// provides funcs for.
func registerResource[In any, Out any](s *Server, res resource[In, Out]) {
	if res.List != nil {
		huma.Register(s.api, huma.Operation{
			OperationID: "list-" + res.Plural,
			Method:      stdhttp.MethodGet,
			Path:        res.Path,
			Summary:     fmt.Sprintf("List %s", res.Plural),
			Tags:        []string{res.Tag},
		}, func(ctx context.Context, input *listInput) (*listOutput[Out], error) {
			identity := auth.FromContext(ctx)
			if res.ReadRole != "" {
				if err := auth.Require(identity, res.ReadRole); err != nil {
					return nil, authError(err)
				}
			}

			opts := input.options(identity)
			if res.AlwaysDraft {
				opts.IncludeDrafts = true
			}

			items, err := res.List(ctx, opts)
			if err != nil {
				action := "fetch " + res.Plural
				if s.strictListErrors {
					return nil, s.translateError(ctx, err, action, res.messages(), nil)
				}
				s.recordError(ctx, err, action, logrus.Fields{"tolerated": true})
				items = []Out{}
			}

			return &listOutput[Out]{Body: items}, nil
		})
	}

	if res.Get != nil {
		huma.Register(s.api, huma.Operation{
			OperationID: "get-" + res.Name,
			Method:      stdhttp.MethodGet,
			Path:        res.Path + "/{id}",
			Summary:     fmt.Sprintf("Get a %s", res.Name),
			Tags:        []string{res.Tag},
		}, func(ctx context.Context, input *idInput) (*itemOutput[Out], error) {
			identity := auth.FromContext(ctx)
			if res.ReadRole != "" {
				if err := auth.Require(identity, res.ReadRole); err != nil {
					return nil, authError(err)
				}
			}

			item, err := res.Get(ctx, input.ID, identity.IsAdmin())
			if err != nil {
				return nil, s.translateError(ctx, err, "fetch "+res.Name, res.messages(), logrus.Fields{"id": input.ID})
			}

			return &itemOutput[Out]{Body: item}, nil
		})
	}

	if res.Create != nil {
		huma.Register(s.api, huma.Operation{
			OperationID:   "create-" + res.Name,
			Method:        stdhttp.MethodPost,
			Path:          res.Path,
			Summary:       fmt.Sprintf("Create a %s", res.Name),
			Tags:          []string{res.Tag},
			DefaultStatus: stdhttp.StatusCreated,
		}, func(ctx context.Context, input *createInput[In]) (*itemOutput[Out], error) {
			identity := auth.FromContext(ctx)
			if err := auth.Require(identity, res.WriteRole); err != nil {
				return nil, authError(err)
			}

			if err := validate.Required(&input.Body, res.Required...); err != nil {
				return nil, s.translateError(ctx, err, "create "+res.Name, res.messages(), nil)
			}

			item, err := res.Create(ctx, identity.UserID, &input.Body)
			if err != nil {
				return nil, s.translateError(ctx, err, "create "+res.Name, res.messages(), logrus.Fields{"user_id": identity.UserID})
			}

			return &itemOutput[Out]{Body: item}, nil
		})
	}

	if res.Update != nil {
		huma.Register(s.api, huma.Operation{
			OperationID: "update-" + res.Name,
			Method:      stdhttp.MethodPut,
			Path:        res.Path + "/{id}",
			Summary:     fmt.Sprintf("Update a %s", res.Name),
			Tags:        []string{res.Tag},
		}, func(ctx context.Context, input *updateInput[In]) (*itemOutput[Out], error) {
			identity := auth.FromContext(ctx)
			if err := auth.Require(identity, res.WriteRole); err != nil {
				return nil, authError(err)
			}

			if err := validate.NotBlank(&input.Body, res.Required...); err != nil {
				return nil, s.translateError(ctx, err, "update "+res.Name, res.messages(), nil)
			}

			item, err := res.Update(ctx, input.ID, &input.Body)
			if err != nil {
				return nil, s.translateError(ctx, err, "update "+res.Name, res.messages(), logrus.Fields{"id": input.ID})
			}

			return &itemOutput[Out]{Body: item}, nil
		})
	}
}
