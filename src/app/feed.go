package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fakeddit/src/api"
)

type SortMode string

const (
	SortNone   SortMode = ""
	SortAZ     SortMode = "az"
	SortZA     SortMode = "za"
	SortNewest SortMode = "newest"
)

func ParseSortMode(s string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case SortNone, SortAZ, SortZA, SortNewest:
		return mode, nil
	default:
		return SortNone, fmt.Errorf("unknown sort mode %q", s)
	}
}

// Feed is the home page: every post visible to the user, filtered by title and sorted.
type Feed struct {
	backend  Backend
	session  *Session
	pageSize int

	mu         sync.Mutex
	posts      []api.Post
	query      string
	sort       SortMode
	generation uint64
	closed     bool
}

func NewFeed(backend Backend, session *Session, pageSize int) *Feed {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Feed{backend: backend, session: session, pageSize: pageSize}
}

// Load fetches the posts. Without a session token it returns an *AuthError and makes no
// request.
func (f *Feed) Load(ctx context.Context) error {
	if _, ok := f.session.Token(ctx); !ok {
		return loginRequired(nil)
	}
	f.mu.Lock()
	f.generation++
	generation := f.generation
	f.mu.Unlock()

	posts, err := f.backend.ListPosts(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || generation != f.generation {
		return ErrStale
	}
	f.posts = posts
	return nil
}

func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *Feed) SetQuery(query string) {
	f.mu.Lock()
	f.query = query
	f.mu.Unlock()
}

func (f *Feed) SetSort(mode SortMode) {
	f.mu.Lock()
	f.sort = mode
	f.mu.Unlock()
}

// View returns the loaded posts whose title contains the query, in the selected order.
func (f *Feed) View() []api.Post {
	f.mu.Lock()
	posts, query, mode := f.posts, f.query, f.sort
	f.mu.Unlock()
	return SortPosts(FilterPosts(posts, query), mode)
}

// Page returns the 1-based page n of View and the total number of pages.
func (f *Feed) Page(n int) ([]api.Post, int) {
	view := f.View()
	pages := (len(view) + f.pageSize - 1) / f.pageSize
	if n < 1 || n > pages {
		return []api.Post{}, pages
	}
	start := (n - 1) * f.pageSize
	end := start + f.pageSize
	if end > len(view) {
		end = len(view)
	}
	return view[start:end], pages
}

// FilterPosts keeps posts whose title contains query, ignoring case. The result is a new
// slice even when query is empty.
func FilterPosts(posts []api.Post, query string) []api.Post {
	needle := strings.ToLower(query)
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SortPosts orders posts in place with a stable sort, so equal keys keep fetch order.
func SortPosts(posts []api.Post, mode SortMode) []api.Post {
	switch mode {
	case SortAZ:
		sort.SliceStable(posts, func(i, j int) bool { return compareTitles(posts[i].Title, posts[j].Title) < 0 })
	case SortZA:
		sort.SliceStable(posts, func(i, j int) bool { return compareTitles(posts[i].Title, posts[j].Title) > 0 })
	case SortNewest:
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt.Time) })
	}
	return posts
}

// compareTitles orders case-insensitively and falls back to byte order, so only
// identical titles compare equal.
func compareTitles(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
