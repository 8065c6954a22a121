package content

import (
	"time"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
)

// AuthorView is the author summary embedded in every authored entity.
type AuthorView struct {
	ID   uint    `json:"id"`
	Name *string `json:"name"`
}

// NamedRef is a relation summary for characters and places.
type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TitledRef is a relation summary for stories.
type TitledRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// UserView is the public shape of an account. The password hash is never part of it.
type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CharacterCount holds the relation counts of a character.
type CharacterCount struct {
	Places  int `json:"places"`
	Stories int `json:"stories"`
}

// CharacterView is the response shape of a character. Race carries the linked race's name
// when one is set.
type CharacterView struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	LastName    *string        `json:"lastName"`
	Title       *string        `json:"title"`
	Race        *string        `json:"race"`
	RaceID      *uint          `json:"raceId"`
	Class       *string        `json:"class"`
	Faction     *string        `json:"faction"`
	Alignment   *string        `json:"alignment"`
	Background  *string        `json:"background"`
	Description *string        `json:"description"`
	Image       *string        `json:"image"`
	Video       *string        `json:"video"`
	Images      []string       `json:"images"`
	Videos      []string       `json:"videos"`
	Tags        []string       `json:"tags"`
	AuthorID    uint           `json:"authorId"`
	Author      AuthorView     `json:"author"`
	Places      []NamedRef     `json:"places"`
	Stories     []TitledRef    `json:"stories"`
	Count       CharacterCount `json:"_count"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// PlaceCount holds the relation counts of a place.
type PlaceCount struct {
	Characters int `json:"characters"`
	Stories    int `json:"stories"`
}

// PlaceView is the response shape of a place.
type PlaceView struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Content     *string     `json:"content"`
	Image       *string     `json:"image"`
	Images      []string    `json:"images"`
	Tags        []string    `json:"tags"`
	AuthorID    uint        `json:"authorId"`
	Author      AuthorView  `json:"author"`
	Characters  []NamedRef  `json:"characters"`
	Stories     []TitledRef `json:"stories"`
	Count       PlaceCount  `json:"_count"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// RaceCount holds the relation counts of a race.
type RaceCount struct {
	Characters int `json:"characters"`
}

// RaceView is the response shape of a race.
type RaceView struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	AuthorID    uint       `json:"authorId"`
	Author      AuthorView `json:"author"`
	Count       RaceCount  `json:"_count"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// StoryCount holds the relation counts of a story.
type StoryCount struct {
	Characters int `json:"characters"`
	Places     int `json:"places"`
}

// StoryView is the response shape of a story.
type StoryView struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Summary    *string    `json:"summary"`
	Content    string     `json:"content"`
	Image      *string    `json:"image"`
	Images     []string   `json:"images"`
	Tags       []string   `json:"tags"`
	Published  bool       `json:"published"`
	AuthorID   uint       `json:"authorId"`
	Author     AuthorView `json:"author"`
	Characters []NamedRef `json:"characters"`
	Places     []NamedRef `json:"places"`
	Count      StoryCount `json:"_count"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// FAQView is the response shape of a FAQ entry.
type FAQView struct {
	ID        uint       `json:"id"`
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Category  string     `json:"category"`
	Priority  int        `json:"priority"`
	Published bool       `json:"published"`
	AuthorID  uint       `json:"authorId"`
	Author    AuthorView `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// MediaView is the response shape of a media gallery entry.
type MediaView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	URL         string     `json:"url"`
	Thumbnail   *string    `json:"thumbnail"`
	Type        string     `json:"type"`
	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	AuthorID    uint       `json:"authorId"`
	Author      AuthorView `json:"author"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RoadmapView is the response shape of a roadmap item.
type RoadmapView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Category    *string    `json:"category"`
	Priority    int        `json:"priority"`
	TargetDate  *time.Time `json:"targetDate"`
	AuthorID    uint       `json:"authorId"`
	Author      AuthorView `json:"author"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// DevblogView is the response shape of a devblog post.
type DevblogView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	CoverImage  *string    `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	AuthorID    uint       `json:"authorId"`
	Author      AuthorView `json:"author"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toUserView(user *User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func toAuthorView(id uint, author *User) AuthorView {
	view := AuthorView{ID: id}
	if author != nil {
		view.Name = author.Name
	}
	return view
}

func toCharacterView(record *Character) CharacterView {
	race := record.Race
	if record.RaceEntity != nil {
		name := record.RaceEntity.Name
		race = &name
	}

	places := make([]NamedRef, 0, len(record.Places))
	for _, place := range record.Places {
		places = append(places, NamedRef{ID: place.ID, Name: place.Name})
	}

	stories := make([]TitledRef, 0, len(record.Stories))
	for _, story := range record.Stories {
		stories = append(stories, TitledRef{ID: story.ID, Title: story.Title})
	}

	return CharacterView{
		ID:          record.ID,
		Name:        record.Name,
		LastName:    record.LastName,
		Title:       record.Title,
		Race:        race,
		RaceID:      record.RaceID,
		Class:       record.Class,
		Faction:     record.Faction,
		Alignment:   record.Alignment,
		Background:  record.Background,
		Description: record.Description,
		Image:       record.Image,
		Video:       record.Video,
		Images:      fromList(record.Images),
		Videos:      fromList(record.Videos),
		Tags:        fromList(record.Tags),
		AuthorID:    record.AuthorID,
		Author:      toAuthorView(record.AuthorID, record.Author),
		Places:      places,
		Stories:     stories,
		Count:       CharacterCount{Places: len(places), Stories: len(stories)},
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toPlaceView(record *Place) PlaceView {
	characters := make([]NamedRef, 0, len(record.Characters))
	for _, character := range record.Characters {
		characters = append(characters, NamedRef{ID: character.ID, Name: character.Name})
	}

	stories := make([]TitledRef, 0, len(record.Stories))
	for _, story := range record.Stories {
		stories = append(stories, TitledRef{ID: story.ID, Title: story.Title})
	}

	return PlaceView{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Content:     record.Content,
		Image:       record.Image,
		Images:      fromList(record.Images),
		Tags:        fromList(record.Tags),
		AuthorID:    record.AuthorID,
		Author:      toAuthorView(record.AuthorID, record.Author),
		Characters:  characters,
		Stories:     stories,
		Count:       PlaceCount{Characters: len(characters), Stories: len(stories)},
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toRaceView(record *Race, characters int) RaceView {
	return RaceView{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Image:       record.Image,
		AuthorID:    record.AuthorID,
		Author:      toAuthorView(record.AuthorID, record.Author),
		Count:       RaceCount{Characters: characters},
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toStoryView(record *Story) StoryView {
	characters := make([]NamedRef, 0, len(record.Characters))
	for _, character := range record.Characters {
		characters = append(characters, NamedRef{ID: character.ID, Name: character.Name})
	}

	places := make([]NamedRef, 0, len(record.Places))
	for _, place := range record.Places {
		places = append(places, NamedRef{ID: place.ID, Name: place.Name})
	}

	return StoryView{
		ID:         record.ID,
		Title:      record.Title,
		Summary:    record.Summary,
		Content:    record.Content,
		Image:      record.Image,
		Images:     fromList(record.Images),
		Tags:       fromList(record.Tags),
		Published:  record.Published,
		AuthorID:   record.AuthorID,
		Author:     toAuthorView(record.AuthorID, record.Author),
		Characters: characters,
		Places:     places,
		Count:      StoryCount{Characters: len(characters), Places: len(places)},
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func toFAQView(record *FAQ) FAQView {
	return FAQView{
		ID:        record.ID,
		Question:  record.Question,
		Answer:    record.Answer,
		Category:  record.Category,
		Priority:  record.Priority,
		Published: record.Published,
		AuthorID:  record.AuthorID,
		Author:    toAuthorView(record.AuthorID, record.Author),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func toMediaView(record *Media) MediaView {
	return MediaView{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		URL:         record.URL,
		Thumbnail:   record.Thumbnail,
		Type:        record.Type,
		Featured:    record.Featured,
		Published:   record.Published,
		AuthorID:    record.AuthorID,
		Author:      toAuthorView(record.AuthorID, record.Author),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toRoadmapView(record *RoadmapItem) RoadmapView {
	return RoadmapView{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Status:      record.Status,
		Category:    record.Category,
		Priority:    record.Priority,
		TargetDate:  record.TargetDate,
		AuthorID:    record.AuthorID,
		Author:      toAuthorView(record.AuthorID, record.Author),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toDevblogView(record *DevblogPost) DevblogView {
	return DevblogView{
		ID:          record.ID,
		Title:       record.Title,
		Content:     record.Content,
		Excerpt:     record.Excerpt,
		CoverImage:  record.CoverImage,
		Tags:        fromList(record.Tags),
		Published:   record.Published,
		PublishedAt: record.PublishedAt,
		AuthorID:    record.AuthorID,
		Author:      toAuthorView(record.AuthorID, record.Author),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
