package http

import (
	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
)

const wikiTag = "Wiki"

func (s *Server) registerWikiRoutes() {
	registerResource(s, resource[content.CharacterInput, content.CharacterView]{
		Name:      "character",
		Plural:    "characters",
		Label:     "Character",
		Path:      "/api/wiki/characters",
		Tag:       wikiTag,
		WriteRole: auth.RoleUser,
		Required:  []string{"name"},
		List:      s.repository.ListCharacters,
		Get:       s.repository.GetCharacter,
		Create:    s.repository.CreateCharacter,
		Update:    s.repository.UpdateCharacter,
	})

	registerResource(s, resource[content.PlaceInput, content.PlaceView]{
		Name:      "place",
		Plural:    "places",
		Label:     "Place",
		Path:      "/api/wiki/places",
		Tag:       wikiTag,
		WriteRole: auth.RoleUser,
		Required:  []string{"name"},
		List:      s.repository.ListPlaces,
		Get:       s.repository.GetPlace,
		Create:    s.repository.CreatePlace,
		Update:    s.repository.UpdatePlace,
	})

	registerResource(s, resource[content.RaceInput, content.RaceView]{
		Name:      "race",
		Plural:    "races",
		Label:     "Race",
		Path:      "/api/wiki/races",
		Tag:       wikiTag,
		WriteRole: auth.RoleAdmin,
		Required:  []string{"name"},
		Duplicate: "A race with this name already exists",
		List:      s.repository.ListRaces,
		Get:       s.repository.GetRace,
		Create:    s.repository.CreateRace,
		Update:    s.repository.UpdateRace,
	})

	registerResource(s, resource[content.StoryInput, content.StoryView]{
		Name:      "story",
		Plural:    "stories",
		Label:     "Story",
		Path:      "/api/wiki/stories",
		Tag:       wikiTag,
		WriteRole: auth.RoleUser,
		Required:  []string{"title", "content"},
		List:      s.repository.ListStories,
		Get:       s.repository.GetStory,
		Create:    s.repository.CreateStory,
		Update:    s.repository.UpdateStory,
	})
}
