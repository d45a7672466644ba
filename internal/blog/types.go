package blog

import (
	"encoding/json"
	"time"

	"github.com/travelbookhq/travelbook-gateway/pkg/types"
)

// Post is a published blog article. The travel api serves the author either
// as a display name or as an embedded profile object.
type Post struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Content     string        `json:"content,omitempty"`
	Author      types.FlexRef `json:"author"`
	Image       string        `json:"image,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	PublishedAt time.Time     `json:"publishedAt,omitempty"`
}

func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	aux := struct {
		*alias
		AltID      string    `json:"_id"`
		CreatedAt  time.Time `json:"createdAt"`
		CoverImage string    `json:"coverImage"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = types.FirstNonEmpty(p.ID, aux.AltID)
	p.Image = types.FirstNonEmpty(p.Image, aux.CoverImage)
	if p.PublishedAt.IsZero() {
		p.PublishedAt = aux.CreatedAt
	}
	return nil
}

// AuthorName returns the display name, with a neutral fallback for posts
// whose author the api omitted.
func (p Post) AuthorName() string {
	if name := p.Author.String(); name != "" {
		return name
	}
	return "TravelBook Team"
}
