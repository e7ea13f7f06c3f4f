package events

import (
	"time"
)

const TypePostPublished = "post.published"

type PostPublishedPayload struct {
	PostID string   `json:"post_id"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags"`
}

type PostPublished struct {
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   PostPublishedPayload `json:"payload"`
}

func NewPostPublished(postID, title string, tags []string) PostPublished {
	if tags == nil {
		tags = []string{}
	}
	return PostPublished{
		Type:      TypePostPublished,
		Timestamp: time.Now().UTC(),
		Payload: PostPublishedPayload{
			PostID: postID,
			Title:  title,
			Tags:   tags,
		},
	}
}
