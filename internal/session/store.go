// Package session keeps login sessions in Redis with a sliding idle timeout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/craftelio/storefront/internal/config"
	"github.com/craftelio/storefront/internal/domain"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists sessions as JSON values keyed by session ID.
type Store struct {
	client *redis.Client
	prefix string
	idle   time.Duration
	now    func() time.Time
}

// NewStore builds a store on top of an existing client.
func NewStore(client *redis.Client, cfg config.SessionConfig) *Store {
	return &Store{
		client: client,
		prefix: cfg.KeyPrefix,
		idle:   cfg.IdleTimeout(),
		now:    time.Now,
	}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Create opens a session for the user.
func (s *Store) Create(ctx context.Context, userID string, roles []string) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Roles:     roles,
		CreatedAt: s.now().UTC(),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), payload, s.idle).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Touch loads a session and pushes its expiry out by the idle timeout.
func (s *Store) Touch(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.GetEx(ctx, s.key(id), s.idle).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
