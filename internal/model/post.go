package model

import "time"

type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	URL       string     `json:"url"`
	Likes     int        `json:"likes"`
	Owner     PublicUser `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p Post) Summary() PostSummary {
	return PostSummary{ID: p.ID, Title: p.Title, Author: p.Author, URL: p.URL}
}

type PostSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// NewPost is the create payload. A nil Likes stores 0.
type NewPost struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	URL    string `json:"url" validate:"required"`
	Likes  *int   `json:"likes" validate:"omitempty,gte=0"`
}

// PostPatch is a partial update; nil fields keep the stored value.
type PostPatch struct {
	Title  *string `json:"title" validate:"omitempty,min=1"`
	Author *string `json:"author"`
	URL    *string `json:"url" validate:"omitempty,min=1"`
	Likes  *int    `json:"likes" validate:"omitempty,gte=0"`
}

func (p PostPatch) Apply(current Post) Post {
	if p.Title != nil {
		current.Title = *p.Title
	}
	if p.Author != nil {
		current.Author = *p.Author
	}
	if p.URL != nil {
		current.URL = *p.URL
	}
	if p.Likes != nil {
		current.Likes = *p.Likes
	}
	return current
}

func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.URL == nil && p.Likes == nil
}
