package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/validate"
)

type roleBody struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Email *string  `json:"email,omitempty"`
	Role  *string  `json:"role,omitempty" doc:"USER or ADMIN"`
}

type roleInput struct {
	Body roleBody
}

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-users",
		Method:      stdhttp.MethodGet,
		Path:        "/api/admin/users",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, s.listUsersHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-user-role",
		Method:      stdhttp.MethodPut,
		Path:        "/api/admin/users",
		Summary:     "Change a user's role",
		Tags:        []string{"Users"},
	}, s.updateUserRoleHandler)
}

func (s *Server) listUsersHandler(ctx context.Context, input *limitInput) (*listOutput[content.UserView], error) {
	if err := auth.Require(auth.FromContext(ctx), auth.RoleAdmin); err != nil {
		return nil, authError(err)
	}

	users, err := s.repository.ListUsers(ctx, content.ListOptions{Limit: input.Limit})
	if err != nil {
		if s.strictListErrors {
			return nil, s.translateError(ctx, err, "fetch users", errorMessages{Label: "User"}, nil)
		}
		s.recordError(ctx, err, "fetch users", nil)
		users = []content.UserView{}
	}

	return &listOutput[content.UserView]{Body: users}, nil
}

func (s *Server) updateUserRoleHandler(ctx context.Context, input *roleInput) (*userOutput, error) {
	identity := auth.FromContext(ctx)
	if err := auth.Require(identity, auth.RoleAdmin); err != nil {
		return nil, authError(err)
	}

	messages := errorMessages{Label: "User"}
	if err := validate.Required(&input.Body, "email", "role"); err != nil {
		return nil, s.translateError(ctx, err, "update user role", messages, nil)
	}

	role, err := auth.ParseRole(*input.Body.Role)
	if err != nil {
		return nil, badRequest("role must be USER or ADMIN")
	}

	user, err := s.repository.UpdateUserRole(ctx, *input.Body.Email, role)
	if err != nil {
		return nil, s.translateError(ctx, err, "update user role", messages, logrus.Fields{"email": *input.Body.Email})
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"role":     user.Role,
			"actor_id": identity.UserID,
		}).Info("user role updated")
	}

	return &userOutput{Body: userBody{User: *user}}, nil
}
