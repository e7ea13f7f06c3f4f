package posts

import (
	"time"
)

type Status string

const (
	Draft     Status = "draft"
	Published Status = "published"
)

const (
	MaxTitleLength = 120
	MaxTagLength   = 30
)

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveRequest is the body of save-draft and publish. Tags travel as a
// comma-separated string and are split by the service.
type SaveRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags,omitempty"`
}

// Update is a full overwrite of the editable fields. A nil Status keeps the
// stored one.
type Update struct {
	Title     string
	Content   string
	Tags      []string
	Status    *Status
	UpdatedAt time.Time
}

func (p *Post) normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

func (p *Post) apply(u Update) {
	p.Title = u.Title
	p.Content = u.Content
	p.Tags = append([]string{}, u.Tags...)
	if u.Status != nil {
		p.Status = *u.Status
	}
	p.UpdatedAt = u.UpdatedAt
}

func (p *Post) clone() *Post {
	cp := *p
	cp.Tags = append([]string{}, p.Tags...)
	return &cp
}
