package content

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
)

// StringList is a list column stored as serialized JSON text.
type StringList = datatypes.JSONSlice[string]

// User is a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"size:255;not null"`
	Name      *string   `gorm:"size:255"`
	Role      auth.Role `gorm:"size:16;not null;default:USER;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName defines the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Race is an admin-curated people of the game world, referenced by characters.
type Race struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;uniqueIndex;not null"`
	Description *string `gorm:"type:text"`
	Image       *string `gorm:"size:1024"`
	AuthorID    uint    `gorm:"not null;index"`
	Author      *User   `gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the Race model.
func (Race) TableName() string {
	return "races"
}

// Character is a wiki entry for a person of the game world.
type Character struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null;index"`
	LastName    *string `gorm:"size:255"`
	Title       *string `gorm:"size:255"`
	Race        *string `gorm:"size:255"`
	Class       *string `gorm:"size:255"`
	Faction     *string `gorm:"size:255"`
	Alignment   *string `gorm:"size:255"`
	Background  *string `gorm:"type:text"`
	Description *string `gorm:"type:text"`
	Image       *string `gorm:"size:1024"`
	Video       *string `gorm:"size:1024"`
	Images      StringList
	Videos      StringList
	Tags        StringList
	RaceID      *uint   `gorm:"index"`
	RaceEntity  *Race   `gorm:"foreignKey:RaceID;constraint:OnDelete:SET NULL"`
	AuthorID    uint    `gorm:"not null;index"`
	Author      *User   `gorm:"foreignKey:AuthorID"`
	Places      []Place `gorm:"many2many:character_places"`
	Stories     []Story `gorm:"many2many:story_characters"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the Character model.
func (Character) TableName() string {
	return "characters"
}

// Place is a wiki entry for a location.
type Place struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null;index"`
	Description *string `gorm:"type:text"`
	Content     *string `gorm:"type:text"`
	Image       *string `gorm:"size:1024"`
	Images      StringList
	Tags        StringList
	AuthorID    uint        `gorm:"not null;index"`
	Author      *User       `gorm:"foreignKey:AuthorID"`
	Characters  []Character `gorm:"many2many:character_places"`
	Stories     []Story     `gorm:"many2many:place_stories"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the Place model.
func (Place) TableName() string {
	return "places"
}

// Story is a piece of lore linking characters and places.
type Story struct {
	ID         uint    `gorm:"primaryKey"`
	Title      string  `gorm:"size:255;not null"`
	Summary    *string `gorm:"type:text"`
	Content    string  `gorm:"type:text;not null"`
	Image      *string `gorm:"size:1024"`
	Images     StringList
	Tags       StringList
	Published  bool        `gorm:"not null;default:false;index"`
	AuthorID   uint        `gorm:"not null;index"`
	Author     *User       `gorm:"foreignKey:AuthorID"`
	Characters []Character `gorm:"many2many:story_characters"`
	Places     []Place     `gorm:"many2many:place_stories"`
	CreatedAt  time.Time
	UpdatedAt  time.Time `gorm:"index"`
}

// TableName defines the table name for the Story model.
func (Story) TableName() string {
	return "stories"
}

// FAQ is a frequently asked question shown on the help page.
type FAQ struct {
	ID        uint   `gorm:"primaryKey"`
	Question  string `gorm:"type:text;not null"`
	Answer    string `gorm:"type:text;not null"`
	Category  string `gorm:"size:128;not null;default:general;index"`
	Priority  int    `gorm:"not null;default:0"`
	Published bool   `gorm:"not null;default:false;index"`
	AuthorID  uint   `gorm:"not null;index"`
	Author    *User  `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName defines the table name for the FAQ model.
func (FAQ) TableName() string {
	return "faqs"
}

// Media is an entry of the media gallery.
type Media struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`
	URL         string  `gorm:"size:1024;not null"`
	Thumbnail   *string `gorm:"size:1024"`
	Type        string  `gorm:"size:32;not null;index"`
	Featured    bool    `gorm:"not null;default:false;index"`
	Published   bool    `gorm:"not null;default:false;index"`
	AuthorID    uint    `gorm:"not null;index"`
	Author      *User   `gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the Media model.
func (Media) TableName() string {
	return "media"
}

// RoadmapItem is a planned milestone of the game.
type RoadmapItem struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:255;not null"`
	Description *string    `gorm:"type:text"`
	Status      string     `gorm:"size:32;not null;default:planned;index"`
	Category    *string    `gorm:"size:128"`
	Priority    int        `gorm:"not null;default:0"`
	TargetDate  *time.Time `gorm:"index"`
	AuthorID    uint       `gorm:"not null;index"`
	Author      *User      `gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the RoadmapItem model.
func (RoadmapItem) TableName() string {
	return "roadmap_items"
}

// DevblogPost is a development blog article.
type DevblogPost struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"size:255;not null"`
	Content     string  `gorm:"type:text;not null"`
	Excerpt     *string `gorm:"type:text"`
	CoverImage  *string `gorm:"size:1024"`
	Tags        StringList
	Published   bool       `gorm:"not null;default:false;index"`
	PublishedAt *time.Time `gorm:"index"`
	AuthorID    uint       `gorm:"not null;index"`
	Author      *User      `gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName defines the table name for the DevblogPost model.
func (DevblogPost) TableName() string {
	return "devblog_posts"
}
