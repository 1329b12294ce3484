package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the stored account. Blogs holds the ids of owned posts in
// creation order.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Blogs        []string  `json:"blogs"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Name: u.Name}
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, Name: u.Name}
}

type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type UserWithPosts struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Blogs    []PostSummary `json:"blogs"`
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type TokenClaims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`
	jwt.RegisteredClaims
}
