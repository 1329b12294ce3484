package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePostCreated Type = "post.created"
	TypePostUpdated Type = "post.updated"
	TypePostDeleted Type = "post.deleted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	PostID    string    `json:"post_id"`
	ActorID   string    `json:"actor_id"` // Who triggered the event
	Timestamp time.Time `json:"timestamp"`
}

func New(t Type, postID string, actorID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		PostID:    postID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
