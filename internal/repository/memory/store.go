// Package memory is a map-backed store for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"blog-api/internal/model"
	"blog-api/internal/repository"
)

type state struct {
	users      map[string]model.User
	byUsername map[string]string
	userOrder  []string
	posts      map[string]model.Post
	postOrder  []string
}

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data state
}

func New() *Store {
	return &Store{
		data: state{
			users:      map[string]model.User{},
			byUsername: map[string]string{},
			posts:      map[string]model.Post{},
		},
	}
}

func (s *Store) Users() repository.UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Posts() repository.PostRepository {
	return &PostRepository{s: s}
}

// WithinTx serialises transactions and, when fn fails, reverts the writes
// made through tx in reverse order. Writes made outside the transaction are
// left alone. Reads outside a transaction may observe its partial writes.
func (s *Store) WithinTx(_ context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	if err := fn(txStore{Store: s, j: j}); err != nil {
		s.mu.Lock()
		j.rollback(&s.data)
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

type txStore struct {
	*Store
	j *journal
}

func (t txStore) Users() repository.UserRepository {
	return &UserRepository{s: t.Store, j: t.j}
}

func (t txStore) Posts() repository.PostRepository {
	return &PostRepository{s: t.Store, j: t.j}
}

func (t txStore) WithinTx(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(t)
}

// journal holds the inverse of every write made inside one transaction.
// Entries run with s.mu held.
type journal struct {
	undo []func(*state)
}

// record is a no-op outside a transaction.
func (j *journal) record(fn func(*state)) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback(st *state) {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i](st)
	}
	j.undo = nil
}

// populate resolves the owner of p. Callers hold s.mu.
func (s *Store) populate(p model.Post) model.Post {
	if u, ok := s.data.users[p.Owner.ID]; ok {
		p.Owner = u.Public()
	}
	return p
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}

func insertID(ids []string, at int, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	if at < 0 || at > len(ids) {
		at = len(ids)
	}
	return slices.Insert(slices.Clone(ids), at, id)
}
