package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/db"
	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
)

func TestCreateCharacterWithoutNameIsRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "player@example.com", auth.RoleUser)

	rec := env.do(t, "POST", "/api/wiki/characters", token, map[string]any{"title": "Nameless"})
	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}

	if message := errorMessage(t, rec); message != "name is required" {
		t.Fatalf("expected missing name message, got %q", message)
	}

	characters, err := env.repo.ListCharacters(context.Background(), content.ListOptions{})
	if err != nil {
		t.Fatalf("ListCharacters returned error: %v", err)
	}
	if len(characters) != 0 {
		t.Fatalf("expected no character to be written, got %d", len(characters))
	}
}

func TestBlankRequiredFieldIsRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "writer@example.com", auth.RoleUser)

	rec := env.do(t, "POST", "/api/wiki/stories", token, map[string]any{"title": "Untold", "content": "   "})
	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	if message := errorMessage(t, rec); message != "content is required" {
		t.Fatalf("expected missing content message, got %q", message)
	}
}

func TestAdminEndpointsRejectOtherCallers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "player@example.com", auth.RoleUser)

	cases := []struct {
		path    string
		body    map[string]any
		token   string
		message string
	}{
		{path: "/api/wiki/races", body: map[string]any{"name": "Elf"}, token: token, message: adminRequiredMessage},
		{path: "/api/faq", body: map[string]any{"question": "q", "answer": "a"}, token: token, message: adminRequiredMessage},
		{path: "/api/media", body: map[string]any{"title": "t", "url": "/u", "type": "image"}, token: token, message: adminRequiredMessage},
		{path: "/api/roadmap", body: map[string]any{"title": "t"}, token: token, message: adminRequiredMessage},
		{path: "/api/admin/devblog", body: map[string]any{"title": "t", "content": "c"}, token: token, message: adminRequiredMessage},
		{path: "/api/wiki/races", body: map[string]any{"name": "Elf"}, message: authRequiredMessage},
		{path: "/api/wiki/characters", body: map[string]any{"name": "Anon"}, message: authRequiredMessage},
	}

	for _, tc := range cases {
		rec := env.do(t, "POST", tc.path, tc.token, tc.body)
		if rec.Code != 401 {
			t.Fatalf("%s: expected status 401, got %d", tc.path, rec.Code)
		}
		if message := errorMessage(t, rec); message != tc.message {
			t.Fatalf("%s: expected message %q, got %q", tc.path, tc.message, message)
		}
	}

	races, err := env.repo.ListRaces(context.Background(), content.ListOptions{})
	if err != nil {
		t.Fatalf("ListRaces returned error: %v", err)
	}
	if len(races) != 0 {
		t.Fatalf("expected no race to be written, got %d", len(races))
	}

	faqs, err := env.repo.ListFAQs(context.Background(), content.ListOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("ListFAQs returned error: %v", err)
	}
	if len(faqs) != 0 {
		t.Fatalf("expected no faq to be written, got %d", len(faqs))
	}

	media, err := env.repo.ListMedia(context.Background(), content.ListOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("ListMedia returned error: %v", err)
	}
	if len(media) != 0 {
		t.Fatalf("expected no media to be written, got %d", len(media))
	}

	roadmap, err := env.repo.ListRoadmap(context.Background(), content.ListOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("ListRoadmap returned error: %v", err)
	}
	if len(roadmap) != 0 {
		t.Fatalf("expected no roadmap item to be written, got %d", len(roadmap))
	}

	posts, err := env.repo.ListDevblogPosts(context.Background(), content.ListOptions{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("ListDevblogPosts returned error: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no devblog post to be written, got %d", len(posts))
	}

	characters, err := env.repo.ListCharacters(context.Background(), content.ListOptions{})
	if err != nil {
		t.Fatalf("ListCharacters returned error: %v", err)
	}
	if len(characters) != 0 {
		t.Fatalf("expected no anonymous character to be written, got %d", len(characters))
	}
}

func TestDuplicateRaceNameIsRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "admin@example.com", auth.RoleAdmin)

	rec := env.do(t, "POST", "/api/wiki/races", token, map[string]any{"name": "Dwarf"})
	if rec.Code != 201 {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "POST", "/api/wiki/races", token, map[string]any{"name": "Dwarf"})
	if rec.Code != 400 {
		t.Fatalf("expected status 400 for duplicate race, got %d", rec.Code)
	}

	races, err := env.repo.ListRaces(context.Background(), content.ListOptions{})
	if err != nil {
		t.Fatalf("ListRaces returned error: %v", err)
	}
	if len(races) != 1 {
		t.Fatalf("expected exactly one race, got %d", len(races))
	}
}

func TestUploadPartitionsByMediaKind(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "editor@example.com", auth.RoleUser)

	rec := env.upload(t, token, "manual.pdf", "application/pdf", []byte("%PDF-1.4"))
	if rec.Code != 400 {
		t.Fatalf("expected status 400 for pdf, got %d", rec.Code)
	}
	if message := errorMessage(t, rec); !strings.Contains(message, "image/png") || !strings.Contains(message, "video/mp4") {
		t.Fatalf("expected accepted formats in message, got %q", message)
	}

	cases := []struct {
		name        string
		contentType string
		prefix      string
	}{
		{name: "shot.png", contentType: "image/png", prefix: "/uploads/"},
		{name: "trailer.mp4", contentType: "video/mp4", prefix: "/videos/"},
	}

	for _, tc := range cases {
		payload := []byte("payload of " + tc.name)
		rec := env.upload(t, token, tc.name, tc.contentType, payload)
		if rec.Code != 200 {
			t.Fatalf("%s: expected status 200, got %d: %s", tc.name, rec.Code, rec.Body.String())
		}

		var body struct {
			URL string `json:"url"`
		}
		decode(t, rec, &body)

		if !strings.HasPrefix(body.URL, tc.prefix) || filepath.Ext(body.URL) != filepath.Ext(tc.name) {
			t.Fatalf("%s: unexpected url %q", tc.name, body.URL)
		}

		stored, err := os.ReadFile(filepath.Join(env.publicDir, filepath.FromSlash(body.URL)))
		if err != nil {
			t.Fatalf("%s: reading stored file: %v", tc.name, err)
		}
		if !bytes.Equal(stored, payload) {
			t.Fatalf("%s: stored bytes differ", tc.name)
		}

		served := env.do(t, "GET", body.URL, "", nil)
		if served.Code != 200 || served.Body.String() != string(payload) {
			t.Fatalf("%s: expected file to be served statically, got %d", tc.name, served.Code)
		}
	}
}

func TestUploadRequiresSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.upload(t, "", "shot.png", "image/png", []byte("png"))
	if rec.Code != 401 {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestCharactersListedByNameWithRaceName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	admin := env.user(t, "admin@example.com", auth.RoleAdmin)

	rec := env.do(t, "POST", "/api/wiki/races", admin, map[string]any{"name": "Elf"})
	if rec.Code != 201 {
		t.Fatalf("expected race to be created, got %d", rec.Code)
	}
	var race content.RaceView
	decode(t, rec, &race)

	for _, body := range []map[string]any{
		{"name": "Zed", "raceId": race.ID},
		{"name": "Aria", "race": "Human", "tags": []string{"hero"}, "unknownField": true},
	} {
		rec := env.do(t, "POST", "/api/wiki/characters", admin, body)
		if rec.Code != 201 {
			t.Fatalf("expected character to be created, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = env.do(t, "GET", "/api/wiki/characters", "", nil)
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var characters []map[string]any
	decode(t, rec, &characters)

	if len(characters) != 2 {
		t.Fatalf("expected two characters, got %d", len(characters))
	}
	if characters[0]["name"] != "Aria" || characters[1]["name"] != "Zed" {
		t.Fatalf("expected characters ordered by name, got %v then %v", characters[0]["name"], characters[1]["name"])
	}
	if characters[1]["race"] != "Elf" {
		t.Fatalf("expected linked race name, got %v", characters[1]["race"])
	}
	for _, character := range characters {
		if _, ok := character["raceEntity"]; ok {
			t.Fatalf("expected raw race relation to be hidden")
		}
		if _, ok := character["_count"]; !ok {
			t.Fatalf("expected relation counts in %v", character)
		}
	}
}

func TestGetCharacterNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, "GET", "/api/wiki/characters/41", "", nil)
	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if message := errorMessage(t, rec); message != "Character not found" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestFAQListShowsPublishedByCategoryThenPriority(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	admin := env.user(t, "admin@example.com", auth.RoleAdmin)

	for _, body := range []map[string]any{
		{"question": "b1", "answer": "x", "category": "b", "priority": 1, "published": true},
		{"question": "a1", "answer": "x", "category": "a", "priority": 1, "published": true},
		{"question": "a5", "answer": "x", "category": "a", "priority": 5, "published": true},
		{"question": "draft", "answer": "x", "category": "a", "priority": 9},
	} {
		rec := env.do(t, "POST", "/api/faq", admin, body)
		if rec.Code != 201 {
			t.Fatalf("expected faq to be created, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, "GET", "/api/faq", "", nil)
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var faqs []content.FAQView
	decode(t, rec, &faqs)

	got := make([]string, 0, len(faqs))
	for _, faq := range faqs {
		got = append(got, faq.Question)
	}
	if strings.Join(got, ",") != "a5,a1,b1" {
		t.Fatalf("unexpected faq order %v", got)
	}

	rec = env.do(t, "GET", "/api/faq?drafts=true", admin, nil)
	decode(t, rec, &faqs)
	if len(faqs) != 4 {
		t.Fatalf("expected admins to see drafts, got %d entries", len(faqs))
	}

	rec = env.do(t, "GET", "/api/faq?drafts=true", "", nil)
	decode(t, rec, &faqs)
	if len(faqs) != 3 {
		t.Fatalf("expected anonymous drafts request to be ignored, got %d entries", len(faqs))
	}
}

func TestStoryWithUnknownCharacterIsRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "writer@example.com", auth.RoleUser)

	rec := env.do(t, "POST", "/api/wiki/stories", token, map[string]any{
		"title":        "Lost",
		"content":      "<p>text</p>",
		"characterIds": []uint{77},
	})
	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if message := errorMessage(t, rec); !strings.Contains(message, "characterIds") {
		t.Fatalf("expected message to name the field, got %q", message)
	}
}

func TestUpdateRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "writer@example.com", auth.RoleUser)

	rec := env.do(t, "POST", "/api/wiki/places", token, map[string]any{"name": "Harbor"})
	if rec.Code != 201 {
		t.Fatalf("expected place to be created, got %d", rec.Code)
	}
	var place content.PlaceView
	decode(t, rec, &place)

	rec = env.do(t, "PUT", fmt.Sprintf("/api/wiki/places/%d", place.ID), token, map[string]any{"description": "Salt and rope"})
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &place)
	if place.Name != "Harbor" || place.Description == nil || *place.Description != "Salt and rope" {
		t.Fatalf("unexpected place after update: %+v", place)
	}

	rec = env.do(t, "PUT", fmt.Sprintf("/api/wiki/places/%d", place.ID), token, map[string]any{"name": ""})
	if rec.Code != 400 {
		t.Fatalf("expected blank name to be rejected, got %d", rec.Code)
	}

	rec = env.do(t, "PUT", "/api/wiki/places/999", token, map[string]any{"name": "Nowhere"})
	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestMalformedBodyIsRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	token := env.user(t, "writer@example.com", auth.RoleUser)

	req := httptest.NewRequest("POST", "/api/wiki/characters", strings.NewReader(`{"name": `))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/wiki/characters", token, map[string]any{"name": 42})
	if rec.Code != 400 {
		t.Fatalf("expected wrong type to be rejected, got %d", rec.Code)
	}
	if message := errorMessage(t, rec); message != invalidBodyMessage {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestRegisterLoginAndSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, "POST", "/api/auth/register", "", map[string]any{"email": "New@Example.com", "password": "short"})
	if rec.Code != 400 {
		t.Fatalf("expected short password to be rejected, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/auth/register", "", map[string]any{"email": "New@Example.com", "password": "correct horse", "name": "Newcomer"})
	if rec.Code != 201 {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "POST", "/api/auth/register", "", map[string]any{"email": "new@example.com", "password": "correct horse"})
	if rec.Code != 400 {
		t.Fatalf("expected duplicate email to be rejected, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]any{"email": "new@example.com", "password": "wrong password"})
	if rec.Code != 401 {
		t.Fatalf("expected wrong password to be rejected, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/auth/login", "", map[string]any{"email": "new@example.com", "password": "correct horse"})
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var session *stdhttp.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookieName {
			session = cookie
		}
	}
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("expected an http-only session cookie, got %+v", session)
	}

	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		User content.UserView `json:"user"`
	}
	decode(t, rec, &body)
	if body.User.Email != "new@example.com" || body.User.Role != auth.RoleUser {
		t.Fatalf("unexpected session user %+v", body.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("expected password hash to stay private")
	}

	rec = env.do(t, "GET", "/api/auth/session", "not-a-token", nil)
	if rec.Code != 401 {
		t.Fatalf("expected invalid token to be anonymous, got %d", rec.Code)
	}
}

func TestAdminUpdatesUserRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	admin := env.user(t, "admin@example.com", auth.RoleAdmin)
	player := env.user(t, "player@example.com", auth.RoleUser)

	rec := env.do(t, "PUT", "/api/admin/users", player, map[string]any{"email": "player@example.com", "role": "ADMIN"})
	if rec.Code != 401 {
		t.Fatalf("expected non-admin role change to be rejected, got %d", rec.Code)
	}

	rec = env.do(t, "PUT", "/api/admin/users", admin, map[string]any{"email": "player@example.com", "role": "admin"})
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "POST", "/api/wiki/races", player, map[string]any{"name": "Giant"})
	if rec.Code != 201 {
		t.Fatalf("expected promoted user to act as admin on the existing session, got %d", rec.Code)
	}

	rec = env.do(t, "GET", "/api/admin/users", admin, nil)
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var users []content.UserView
	decode(t, rec, &users)
	if len(users) != 2 {
		t.Fatalf("expected two users, got %d", len(users))
	}

	rec = env.do(t, "PUT", "/api/admin/users", admin, map[string]any{"email": "ghost@example.com", "role": "USER"})
	if rec.Code != 404 {
		t.Fatalf("expected unknown email to return 404, got %d", rec.Code)
	}
}

func TestDevblogPublicListHidesDrafts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	admin := env.user(t, "admin@example.com", auth.RoleAdmin)

	for _, body := range []map[string]any{
		{"title": "Live", "content": "<p>Out now</p>", "published": true},
		{"title": "Draft", "content": "<p>Soon</p>"},
	} {
		rec := env.do(t, "POST", "/api/admin/devblog", admin, body)
		if rec.Code != 201 {
			t.Fatalf("expected post to be created, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	var posts []content.DevblogView

	rec := env.do(t, "GET", "/api/devblog", "", nil)
	decode(t, rec, &posts)
	if len(posts) != 1 || posts[0].Title != "Live" || posts[0].PublishedAt == nil {
		t.Fatalf("expected only the published post, got %+v", posts)
	}

	rec = env.do(t, "GET", "/api/admin/devblog", admin, nil)
	decode(t, rec, &posts)
	if len(posts) != 2 {
		t.Fatalf("expected admin list to include drafts, got %d", len(posts))
	}

	rec = env.do(t, "GET", "/api/admin/devblog", "", nil)
	if rec.Code != 401 {
		t.Fatalf("expected anonymous admin list to be rejected, got %d", rec.Code)
	}
}

func TestListFailuresAreToleratedUnlessStrict(t *testing.T) {
	t.Parallel()

	tolerant := newTestEnv(t, nil)
	if err := db.Close(tolerant.db); err != nil {
		t.Fatalf("closing database: %v", err)
	}

	rec := tolerant.do(t, "GET", "/api/wiki/characters", "", nil)
	if rec.Code != 200 || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected tolerant empty list, got %d: %s", rec.Code, rec.Body.String())
	}

	strict := newTestEnv(t, func(opts *Options) {
		opts.StrictListErrors = true
	})
	if err := db.Close(strict.db); err != nil {
		t.Fatalf("closing database: %v", err)
	}

	rec = strict.do(t, "GET", "/api/wiki/characters", "", nil)
	if rec.Code != 500 {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body apiError
	decode(t, rec, &body)
	if body.Message != "Failed to fetch characters" || body.Details == "" {
		t.Fatalf("unexpected error body %+v", body)
	}

	production := newTestEnv(t, func(opts *Options) {
		opts.StrictListErrors = true
		opts.Production = true
	})
	if err := db.Close(production.db); err != nil {
		t.Fatalf("closing database: %v", err)
	}

	rec = production.do(t, "GET", "/api/wiki/characters", "", nil)
	decode(t, rec, &body)
	if rec.Code != 500 || body.Details != "" {
		t.Fatalf("expected details to be hidden in production, got %d %+v", rec.Code, body)
	}
}

func TestRateLimitedRequestsGetJSON429(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(opts *Options) {
		opts.RateLimiter = RateLimiterSettings{RequestsPerSecond: 0.001, Burst: 1, ClientTTL: time.Minute}
	})

	if rec := env.do(t, "GET", "/api/faq", "", nil); rec.Code != 200 {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	rec := env.do(t, "GET", "/api/faq", "", nil)
	if rec.Code != 429 {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if message := errorMessage(t, rec); message != rateLimitMessage {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestHealthRouteReportsOK(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rec := env.do(t, "GET", "/healthz", "", nil)
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"database":"ok"`) {
		t.Fatalf("expected database status in body, got %s", rec.Body.String())
	}
}

// helper utilities

type testEnv struct {
	srv       *Server
	repo      *content.GormRepository
	db        *gorm.DB
	tokens    *auth.Tokens
	publicDir string
}

func newTestEnv(t *testing.T, configure func(*Options)) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	database, err := db.Open(db.Options{Path: filepath.Join(t.TempDir(), "api.db")})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	if err := content.Migrate(context.Background(), database, logger); err != nil {
		t.Fatalf("migrating database: %v", err)
	}

	repo, err := content.NewRepository(database, logger)
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}

	tokens, err := auth.NewTokens(auth.TokenOptions{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("creating tokens: %v", err)
	}

	publicDir := filepath.Join(t.TempDir(), "public")
	store, err := upload.NewLocalStore(publicDir)
	if err != nil {
		t.Fatalf("creating upload store: %v", err)
	}

	uploads, err := upload.NewService(store, logger)
	if err != nil {
		t.Fatalf("creating upload service: %v", err)
	}

	opts := Options{
		Repository:     repo,
		Tokens:         tokens,
		Uploads:        uploads,
		UploadMaxBytes: 1 << 20,
		Logger:         logger,
		RateLimiter: RateLimiterSettings{
			RequestsPerSecond: 1000,
			Burst:             1000,
			ClientTTL:         time.Minute,
		},
		Version: "test",
	}
	if configure != nil {
		configure(&opts)
	}

	srv, err := NewServer(opts)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:       srv,
		repo:      repo,
		db:        database,
		tokens:    tokens,
		publicDir: publicDir,
	}
}

// user creates an account with role and returns a bearer token for it.
func (e *testEnv) user(t *testing.T, email string, role auth.Role) string {
	t.Helper()

	ctx := context.Background()
	created, err := e.repo.CreateUser(ctx, email, "unused-hash", nil)
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}

	if role != auth.RoleUser {
		if _, err := e.repo.UpdateUserRole(ctx, email, role); err != nil {
			t.Fatalf("setting role for %s: %v", email, err)
		}
	}

	token, _, err := e.tokens.Issue(created.ID, auth.RoleUser)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, token, filename, contentType string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("creating multipart part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("writing multipart part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body apiError
	decode(t, rec, &body)
	return body.Message
}
