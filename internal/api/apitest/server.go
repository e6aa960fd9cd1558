// Package apitest runs an in-memory chore server for tests.
//
// It follows the real server's observable behaviour: JSON reads, form posts,
// a session_id cookie, 401 for unauthenticated reads and a redirect to
// /login for unauthenticated posts.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/idilsaglam/chores/internal/auth"
	"github.com/idilsaglam/chores/internal/model"
)

const (
	Username = "alice"
	Password = "hunter2"
)

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	sessionID string
	chores    []model.Chore
	points    model.PointsData
	fail      map[string]int
	holds     map[string]chan struct{}
	posts     map[string][]url.Values
	hits      map[string]int
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		sessionID: uuid.NewString(),
		points: model.PointsData{
			DailyData:  make([]int, 7),
			WeeklyData: make([]int, 4),
		},
		fail:  map[string]int{},
		holds: map[string]chan struct{}{},
		posts: map[string][]url.Values{},
		hits:  map[string]int{},
	}

	r := mux.NewRouter()
	r.Use(s.count, s.hold, s.failing)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/chores", s.authed(s.handleChores, false)).Methods(http.MethodGet)
	r.HandleFunc("/points", s.authed(s.handlePoints, false)).Methods(http.MethodGet)
	r.HandleFunc("/chore/update", s.authed(s.handleUpdate, true)).Methods(http.MethodPost)
	r.HandleFunc("/chore/claim", s.authed(s.handleClaim, true)).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SessionID is a cookie value the server accepts.
func (s *Server) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Server) SetChores(chores ...model.Chore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chores = append([]model.Chore(nil), chores...)
}

func (s *Server) Chores() []model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Chore(nil), s.chores...)
}

func (s *Server) SetPoints(p model.PointsData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = p
}

// Fail makes every request to path answer with status until Unfail.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path] = status
}

func (s *Server) Unfail(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fail, path)
}

// Hold blocks requests to path until the returned release func is called.
func (s *Server) Hold(path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[path] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[path] == ch {
				delete(s.holds, path)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Posts returns the form bodies received on path, in order.
func (s *Server) Posts(path string) []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.posts[path]...)
}

// Hits counts requests to path, including failed ones.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) hold(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ch := s.holds[r.URL.Path]
		s.mu.Unlock()
		if ch != nil {
			select {
			case <-ch:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.fail[r.URL.Path]
		s.mu.Unlock()
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(h http.HandlerFunc, redirect bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(auth.CookieName)
		if err != nil || ck.Value != s.SessionID() {
			if redirect {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			http.Error(w, "User not logged in", http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("username") != Username || r.FormValue("password") != Password {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    s.SessionID(),
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "", MaxAge: -1, Path: "/"})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleChores(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.Chores())
}

func (s *Server) handlePoints(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	p := s.points
	s.mu.Unlock()
	writeJSON(w, p)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("chore_id"))
	if err != nil {
		http.Error(w, "Invalid chore ID", http.StatusBadRequest)
		return
	}
	completed := r.FormValue("completed") == "true"

	s.mu.Lock()
	s.posts[r.URL.Path] = append(s.posts[r.URL.Path], cloneForm(r.PostForm))
	for i := range s.chores {
		c := &s.chores[i]
		if c.ID != id || !c.IsAssigned {
			continue
		}
		if c.Completed != completed && len(s.points.DailyData) > 0 {
			last := len(s.points.DailyData) - 1
			if completed {
				s.points.DailyData[last] += c.Points
			} else {
				s.points.DailyData[last] -= c.Points
			}
		}
		c.Completed = completed
	}
	out := append([]model.Chore(nil), s.chores...)
	s.mu.Unlock()

	writeJSON(w, out)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.FormValue("chore_id"))
	if err != nil {
		http.Error(w, "Invalid chore ID", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.posts[r.URL.Path] = append(s.posts[r.URL.Path], cloneForm(r.PostForm))
	for i := range s.chores {
		c := &s.chores[i]
		if c.ID == id {
			c.IsAssigned = true
			c.IsClaimable = false
			c.Completed = false
		}
	}
	out := append([]model.Chore(nil), s.chores...)
	s.mu.Unlock()

	writeJSON(w, out)
}

func cloneForm(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
