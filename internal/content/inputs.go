package content

import "time"

// ListOptions narrows and bounds a list read. Filters that do not apply to an entity are ignored.
type ListOptions struct {
	Limit         int
	IncludeDrafts bool
	Type          string
	Featured      *bool
	Category      string
	Status        string
}

// CharacterInput is the write shape of a character. Absent fields are left untouched on update.
type CharacterInput struct {
	_           struct{}  `json:"-" additionalProperties:"true"`
	Name        *string   `json:"name,omitempty" maxLength:"255"`
	LastName    *string   `json:"lastName,omitempty" maxLength:"255"`
	Title       *string   `json:"title,omitempty" maxLength:"255"`
	Race        *string   `json:"race,omitempty" maxLength:"255"`
	RaceID      *uint     `json:"raceId,omitempty"`
	Class       *string   `json:"class,omitempty" maxLength:"255"`
	Faction     *string   `json:"faction,omitempty" maxLength:"255"`
	Alignment   *string   `json:"alignment,omitempty" maxLength:"255"`
	Background  *string   `json:"background,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Video       *string   `json:"video,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Videos      *[]string `json:"videos,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	PlaceIDs    *[]uint   `json:"placeIds,omitempty"`
	StoryIDs    *[]uint   `json:"storyIds,omitempty"`
}

// PlaceInput is the write shape of a place.
type PlaceInput struct {
	_            struct{}  `json:"-" additionalProperties:"true"`
	Name         *string   `json:"name,omitempty" maxLength:"255"`
	Description  *string   `json:"description,omitempty"`
	Content      *string   `json:"content,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Images       *[]string `json:"images,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	CharacterIDs *[]uint   `json:"characterIds,omitempty"`
	StoryIDs     *[]uint   `json:"storyIds,omitempty"`
}

// RaceInput is the write shape of a race.
type RaceInput struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Name        *string  `json:"name,omitempty" maxLength:"255"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// StoryInput is the write shape of a story.
type StoryInput struct {
	_            struct{}  `json:"-" additionalProperties:"true"`
	Title        *string   `json:"title,omitempty" maxLength:"255"`
	Summary      *string   `json:"summary,omitempty"`
	Content      *string   `json:"content,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Images       *[]string `json:"images,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Published    *bool     `json:"published,omitempty"`
	CharacterIDs *[]uint   `json:"characterIds,omitempty"`
	PlaceIDs     *[]uint   `json:"placeIds,omitempty"`
}

// FAQInput is the write shape of a FAQ entry.
type FAQInput struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	Question  *string  `json:"question,omitempty"`
	Answer    *string  `json:"answer,omitempty"`
	Category  *string  `json:"category,omitempty" maxLength:"128"`
	Priority  *int     `json:"priority,omitempty"`
	Published *bool    `json:"published,omitempty"`
}

// MediaInput is the write shape of a media gallery entry.
type MediaInput struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Title       *string  `json:"title,omitempty" maxLength:"255"`
	Description *string  `json:"description,omitempty"`
	URL         *string  `json:"url,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Type        *string  `json:"type,omitempty" enum:"image,video,artwork,screenshot,wallpaper"`
	Featured    *bool    `json:"featured,omitempty"`
	Published   *bool    `json:"published,omitempty"`
}

// RoadmapInput is the write shape of a roadmap item.
type RoadmapInput struct {
	_           struct{}   `json:"-" additionalProperties:"true"`
	Title       *string    `json:"title,omitempty" maxLength:"255"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty" enum:"planned,in-progress,done"`
	Category    *string    `json:"category,omitempty" maxLength:"128"`
	Priority    *int       `json:"priority,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
}

// DevblogInput is the write shape of a devblog post.
type DevblogInput struct {
	_          struct{}  `json:"-" additionalProperties:"true"`
	Title      *string   `json:"title,omitempty" maxLength:"255"`
	Content    *string   `json:"content,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	CoverImage *string   `json:"coverImage,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Published  *bool     `json:"published,omitempty"`
}

const (
	MediaTypeImage      = "image"
	MediaTypeVideo      = "video"
	MediaTypeArtwork    = "artwork"
	MediaTypeScreenshot = "screenshot"
	MediaTypeWallpaper  = "wallpaper"

	RoadmapPlanned    = "planned"
	RoadmapInProgress = "in-progress"
	RoadmapDone       = "done"

	DefaultFAQCategory = "general"
)
