package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/chores/internal/store/jsonstore"
)

const (
	sessionFileName = "session.json"

	// EnvSession overrides the stored session cookie value.
	EnvSession = "CHORES_SESSION"
	// CookieName is the cookie the chore server issues on login.
	CookieName = "session_id"
)

type Session struct {
	Cookie    string     `json:"cookie"`
	Username  string     `json:"username"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the Set-Cookie header, if any
}

// Expired reports whether the session carries an expiry that has passed.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Store keeps the session under Dir (normally ~/.chores).
type Store struct {
	Dir string
}

func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &Store{Dir: filepath.Join(home, ".chores")}, nil
}

func (s *Store) path() string { return filepath.Join(s.Dir, sessionFileName) }

// Get returns the active session, or nil when not logged in.
func (s *Store) Get() (*Session, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvSession)); env != "" {
		return &Session{Cookie: stripCookieName(env), Source: "env"}, nil
	}

	// 2) file
	var sess Session
	if err := jsonstore.Load(s.path(), &sess); err != nil {
		if errors.Is(err, jsonstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	sess.Cookie = stripCookieName(sess.Cookie)
	if sess.Cookie == "" {
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) Set(username, cookie string, expires *time.Time) error {
	cookie = stripCookieName(strings.TrimSpace(cookie))
	if cookie == "" {
		return fmt.Errorf("empty session cookie")
	}
	sess := Session{
		Cookie:    cookie,
		Username:  username,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	if err := jsonstore.Save(s.path(), sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Delete() error {
	return jsonstore.Remove(s.path())
}

// stripCookieName accepts both "abc123" and "session_id=abc123".
func stripCookieName(v string) string {
	if strings.HasPrefix(v, CookieName+"=") {
		return strings.TrimSpace(v[len(CookieName)+1:])
	}
	return v
}
