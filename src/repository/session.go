package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cfg "fakeddit/src/configuration"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ErrNoToken is returned by GetToken when the slot is empty.
var ErrNoToken = errors.New("no session token stored")

type (
	// SessionStore is the single durable string slot holding the bearer token.
	SessionStore interface {
		GetToken(ctx context.Context) (string, error)
		SetToken(ctx context.Context, token string) error
		ClearToken(ctx context.Context) error
	}

	InMemorySession struct {
		mu    sync.RWMutex
		token string
	}

	FileSession struct {
		mu   sync.Mutex
		path string
	}

	RedisSession struct {
		client *redis.Client
		key    string
	}
)

func NewSessionStore(config *cfg.Properties) (SessionStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config is not valid")
	}
	switch config.Session.Backend {
	case cfg.SessionBackendMemory:
		return &InMemorySession{}, nil
	case cfg.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: config.Session.RedisAddr,
			DB:   config.Session.RedisDB,
		})
		return NewRedisSession(client, config.Session.Key), nil
	default:
		path := config.Session.Path
		if path == "" {
			dir, err := os.UserConfigDir()
			if err != nil {
				return nil, fmt.Errorf("locate config dir: %w", err)
			}
			path = filepath.Join(dir, "fakeddit", config.Session.Key)
		}
		return NewFileSession(path), nil
	}
}

func (s *InMemorySession) GetToken(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *InMemorySession) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *InMemorySession) ClearToken(_ context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func NewFileSession(path string) *FileSession {
	return &FileSession{path: path}
}

func (s *FileSession) GetToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	return string(data), nil
}

// SetToken replaces the slot through a temp file and rename so a reader never sees a
// partial token.
func (s *FileSession) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store session file: %w", err)
	}
	log.Debugf("stored session token in %s", s.path)
	return nil
}

func (s *FileSession) ClearToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func NewRedisSession(client *redis.Client, key string) *RedisSession {
	return &RedisSession{client: client, key: key}
}

func (s *RedisSession) GetToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return token, nil
}

func (s *RedisSession) SetToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisSession) ClearToken(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
