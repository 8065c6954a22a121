package http

import (
	"context"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/validate"
)

const (
	authTag                   = "Auth"
	invalidCredentialsMessage = "Invalid email or password"
)

type registerBody struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Email    *string  `json:"email,omitempty" maxLength:"255"`
	Password *string  `json:"password,omitempty"`
	Name     *string  `json:"name,omitempty" maxLength:"255"`
}

type registerInput struct {
	Body registerBody
}

type credentialsBody struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Email    *string  `json:"email,omitempty"`
	Password *string  `json:"password,omitempty"`
}

type loginInput struct {
	Body credentialsBody
}

type userBody struct {
	User content.UserView `json:"user"`
}

type userOutput struct {
	Body userBody
}

type sessionBody struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      content.UserView `json:"user"`
}

type loginOutput struct {
	SetCookie stdhttp.Cookie `header:"Set-Cookie"`
	Body      sessionBody
}

type logoutOutput struct {
	SetCookie stdhttp.Cookie `header:"Set-Cookie"`
	Body      struct {
		Success bool `json:"success"`
	}
}

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        stdhttp.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register an account",
		Tags:          []string{authTag},
		DefaultStatus: stdhttp.StatusCreated,
	}, s.registerHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      stdhttp.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Sign in and receive a session",
		Tags:        []string{authTag},
	}, s.loginHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      stdhttp.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Clear the session cookie",
		Tags:        []string{authTag},
	}, s.logoutHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-session",
		Method:      stdhttp.MethodGet,
		Path:        "/api/auth/session",
		Summary:     "Current session user",
		Tags:        []string{authTag},
	}, s.sessionHandler)
}

func (s *Server) registerHandler(ctx context.Context, input *registerInput) (*userOutput, error) {
	messages := errorMessages{Label: "User", Duplicate: "Email already registered"}

	if err := validate.Required(&input.Body, "email", "password"); err != nil {
		return nil, s.translateError(ctx, err, "register", messages, nil)
	}

	email := content.NormalizeEmail(*input.Body.Email)
	if !strings.Contains(email, "@") {
		return nil, badRequest("email is invalid")
	}

	password := *input.Body.Password
	if err := auth.ValidatePassword(password); err != nil {
		return nil, badRequest(err.Error())
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, s.translateError(ctx, err, "register", messages, nil)
	}

	user, err := s.repository.CreateUser(ctx, email, hash, input.Body.Name)
	if err != nil {
		return nil, s.translateError(ctx, err, "register", messages, logrus.Fields{"email": email})
	}

	return &userOutput{Body: userBody{User: *user}}, nil
}

func (s *Server) loginHandler(ctx context.Context, input *loginInput) (*loginOutput, error) {
	messages := errorMessages{Label: "User"}

	if err := validate.Required(&input.Body, "email", "password"); err != nil {
		return nil, s.translateError(ctx, err, "sign in", messages, nil)
	}

	user, err := s.repository.UserByEmail(ctx, *input.Body.Email)
	if err != nil {
		if eris.Is(err, content.ErrNotFound) {
			return nil, unauthorized(invalidCredentialsMessage)
		}
		return nil, s.translateError(ctx, err, "sign in", messages, nil)
	}

	if !auth.CheckPassword(user.Password, *input.Body.Password) {
		return nil, unauthorized(invalidCredentialsMessage)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, s.translateError(ctx, err, "sign in", messages, logrus.Fields{"user_id": user.ID})
	}

	view, err := s.repository.GetUser(ctx, user.ID)
	if err != nil {
		return nil, s.translateError(ctx, err, "sign in", messages, logrus.Fields{"user_id": user.ID})
	}

	return &loginOutput{
		SetCookie: s.sessionCookie(token, expiresAt),
		Body: sessionBody{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      *view,
		},
	}, nil
}

func (s *Server) logoutHandler(_ context.Context, _ *struct{}) (*logoutOutput, error) {
	out := &logoutOutput{SetCookie: s.sessionCookie("", time.Unix(0, 0))}
	out.SetCookie.MaxAge = -1
	out.Body.Success = true
	return out, nil
}

func (s *Server) sessionHandler(ctx context.Context, _ *struct{}) (*userOutput, error) {
	identity := auth.FromContext(ctx)
	if err := auth.Require(identity, auth.RoleUser); err != nil {
		return nil, authError(err)
	}

	user, err := s.repository.GetUser(ctx, identity.UserID)
	if err != nil {
		if eris.Is(err, content.ErrNotFound) {
			return nil, unauthorized(authRequiredMessage)
		}
		return nil, s.translateError(ctx, err, "fetch session", errorMessages{Label: "User"}, nil)
	}

	return &userOutput{Body: userBody{User: *user}}, nil
}

func (s *Server) sessionCookie(value string, expires time.Time) stdhttp.Cookie {
	return stdhttp.Cookie{
		Name:     auth.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.production,
		SameSite: stdhttp.SameSiteLaxMode,
	}
}
