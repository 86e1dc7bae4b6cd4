package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type (
	// ID is an entity identifier. The backend may send it as a JSON number or string.
	ID string

	// Counter is a like/dislike tally. The backend sends either a count or the list of
	// users who reacted; either way the value is the count.
	Counter int

	// Timestamp accepts RFC 3339 and the zone-less layout some backends emit.
	Timestamp struct {
		time.Time
	}

	// Post pictures are data URLs, bare base64 payloads or http(s) URLs, in display order.
	Post struct {
		ID          ID        `json:"id" yaml:"id"`
		Title       string    `json:"title" yaml:"title"`
		Description string    `json:"description" yaml:"description"`
		Pictures    []string  `json:"pictures" yaml:"pictures"`
		Likes       Counter   `json:"likes" yaml:"likes"`
		Dislikes    Counter   `json:"dislikes" yaml:"dislikes"`
		CreatedAt   Timestamp `json:"createdAt" yaml:"createdAt"`
		UserID      ID        `json:"userId,omitempty" yaml:"userId,omitempty"`
	}

	Comment struct {
		ID        ID        `json:"id" yaml:"id"`
		PostID    ID        `json:"postId,omitempty" yaml:"postId,omitempty"`
		Content   string    `json:"content" yaml:"content"`
		OwnerID   ID        `json:"ownerId" yaml:"ownerId"`
		CreatedAt Timestamp `json:"createdAt" yaml:"createdAt"`
		Replies   []Reply   `json:"replies" yaml:"replies"`
	}

	Reply struct {
		ID        ID        `json:"id" yaml:"id"`
		CommentID ID        `json:"commentId,omitempty" yaml:"commentId,omitempty"`
		Content   string    `json:"content" yaml:"content"`
		OwnerID   ID        `json:"ownerId" yaml:"ownerId"`
		CreatedAt Timestamp `json:"createdAt" yaml:"createdAt"`
	}

	User struct {
		ID             ID     `json:"id" yaml:"id"`
		Username       string `json:"username" yaml:"username"`
		Email          string `json:"email,omitempty" yaml:"email,omitempty"`
		ProfilePicture string `json:"profilePicture,omitempty" yaml:"profilePicture,omitempty"`
	}

	LoginRequest struct {
		Username string `json:"username" yaml:"username"`
		Password string `json:"password" yaml:"password"`
	}

	LoginResponse struct {
		Token string `json:"token" yaml:"token"`
	}

	RegisterRequest struct {
		Username string `json:"username" yaml:"username"`
		Email    string `json:"email" yaml:"email"`
		Password string `json:"password" yaml:"password"`
	}

	NewPost struct {
		Title       string   `json:"title" yaml:"title"`
		Description string   `json:"description" yaml:"description"`
		Pictures    []string `json:"pictures" yaml:"pictures"`
	}

	NewComment struct {
		Content string `json:"content" yaml:"content"`
		OwnerID ID     `json:"ownerId" yaml:"ownerId"`
	}

	ContentUpdate struct {
		Content string `json:"content" yaml:"content"`
	}
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

func (c *Counter) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*c = 0
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("counter: %w", err)
		}
		*c = Counter(len(list))
	default:
		n, err := strconv.Atoi(string(trimmed))
		if err != nil {
			return fmt.Errorf("counter: %w", err)
		}
		*c = Counter(n)
	}
	return nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if bytes.Equal(data, []byte("null")) {
			t.Time = time.Time{}
			return nil
		}
		return fmt.Errorf("timestamp: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t Timestamp) MarshalYAML() (any, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.Time.Format(time.RFC3339), nil
}
