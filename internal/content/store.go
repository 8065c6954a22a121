package content

import (
	"context"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
)

// Repository is the persistence gateway used by the HTTP layer.
type Repository interface {
	auth.RoleLookup

	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, email, passwordHash string, name *string) (*UserView, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, id uint) (*UserView, error)
	ListUsers(ctx context.Context, opts ListOptions) ([]UserView, error)
	UpdateUserRole(ctx context.Context, email string, role auth.Role) (*UserView, error)

	ListCharacters(ctx context.Context, opts ListOptions) ([]CharacterView, error)
	GetCharacter(ctx context.Context, id uint, includeDrafts bool) (*CharacterView, error)
	CreateCharacter(ctx context.Context, authorID uint, in *CharacterInput) (*CharacterView, error)
	UpdateCharacter(ctx context.Context, id uint, in *CharacterInput) (*CharacterView, error)

	ListPlaces(ctx context.Context, opts ListOptions) ([]PlaceView, error)
	GetPlace(ctx context.Context, id uint, includeDrafts bool) (*PlaceView, error)
	CreatePlace(ctx context.Context, authorID uint, in *PlaceInput) (*PlaceView, error)
	UpdatePlace(ctx context.Context, id uint, in *PlaceInput) (*PlaceView, error)

	ListRaces(ctx context.Context, opts ListOptions) ([]RaceView, error)
	GetRace(ctx context.Context, id uint, includeDrafts bool) (*RaceView, error)
	CreateRace(ctx context.Context, authorID uint, in *RaceInput) (*RaceView, error)
	UpdateRace(ctx context.Context, id uint, in *RaceInput) (*RaceView, error)

	ListStories(ctx context.Context, opts ListOptions) ([]StoryView, error)
	GetStory(ctx context.Context, id uint, includeDrafts bool) (*StoryView, error)
	CreateStory(ctx context.Context, authorID uint, in *StoryInput) (*StoryView, error)
	UpdateStory(ctx context.Context, id uint, in *StoryInput) (*StoryView, error)

	ListFAQs(ctx context.Context, opts ListOptions) ([]FAQView, error)
	CreateFAQ(ctx context.Context, authorID uint, in *FAQInput) (*FAQView, error)
	UpdateFAQ(ctx context.Context, id uint, in *FAQInput) (*FAQView, error)

	ListMedia(ctx context.Context, opts ListOptions) ([]MediaView, error)
	CreateMedia(ctx context.Context, authorID uint, in *MediaInput) (*MediaView, error)
	UpdateMedia(ctx context.Context, id uint, in *MediaInput) (*MediaView, error)

	ListRoadmap(ctx context.Context, opts ListOptions) ([]RoadmapView, error)
	CreateRoadmapItem(ctx context.Context, authorID uint, in *RoadmapInput) (*RoadmapView, error)
	UpdateRoadmapItem(ctx context.Context, id uint, in *RoadmapInput) (*RoadmapView, error)

	ListDevblogPosts(ctx context.Context, opts ListOptions) ([]DevblogView, error)
	CreateDevblogPost(ctx context.Context, authorID uint, in *DevblogInput) (*DevblogView, error)
	UpdateDevblogPost(ctx context.Context, id uint, in *DevblogInput) (*DevblogView, error)
}

var _ Repository = (*GormRepository)(nil)
