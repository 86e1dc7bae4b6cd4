package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"fakeddit/src/api"
	app "fakeddit/src/app"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"

	pictureEllipsis = 60
)

// routeCommands maps page routes to the command that renders them.
var routeCommands = map[string]string{
	app.FeedRoute:     "feed",
	app.LoginRoute:    "login",
	app.RegisterRoute: "register",
}

type (
	outcomeView struct {
		Message  string `json:"message,omitempty" yaml:"message,omitempty"`
		Redirect string `json:"redirect" yaml:"redirect"`
	}

	feedView struct {
		Posts []api.Post `json:"posts" yaml:"posts"`
		Page  int        `json:"page" yaml:"page"`
		Pages int        `json:"pages" yaml:"pages"`
	}
)

func validFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q, want text, json or yaml", format)
}

// render writes v as json or yaml, or calls text for the human form.
func (c *cli) render(v any, text func(w io.Writer)) error {
	switch c.format {
	case formatJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(c.out)
		return nil
	}
}

// follow shows a form outcome, holds the message for its delay and names the next page.
func (c *cli) follow(ctx context.Context, o app.Outcome) error {
	if c.format != formatText {
		return c.render(outcomeView{Message: o.Message, Redirect: o.RedirectTo}, nil)
	}
	if o.Message != "" {
		fmt.Fprintln(c.out, o.Message)
	}
	if o.After > 0 {
		select {
		case <-time.After(o.After):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if next, ok := routeCommands[o.RedirectTo]; ok {
		fmt.Fprintf(c.out, "next: fakeddit %s\n", next)
	}
	return nil
}

func shorten(picture string) string {
	if len(picture) <= pictureEllipsis {
		return picture
	}
	return picture[:pictureEllipsis] + "..."
}

func writePostLine(w io.Writer, p api.Post) {
	fmt.Fprintf(w, "%-6s %-40s +%d -%d\n", p.ID, p.Title, p.Likes, p.Dislikes)
}

func writeFeed(w io.Writer, v feedView) {
	if len(v.Posts) == 0 {
		fmt.Fprintln(w, "no posts")
		return
	}
	for _, p := range v.Posts {
		writePostLine(w, p)
	}
	fmt.Fprintf(w, "page %d of %d\n", v.Page, v.Pages)
}

func writeDetail(w io.Writer, v app.DetailView) {
	fmt.Fprintf(w, "%s\n%s\n", v.Post.Title, v.Post.Description)
	if v.Owner != nil {
		fmt.Fprintf(w, "by %s\n", v.Owner.Username)
	}
	if !v.Post.CreatedAt.IsZero() {
		fmt.Fprintf(w, "posted %s\n", v.Post.CreatedAt.Format(time.RFC822))
	}
	fmt.Fprintf(w, "likes %d, dislikes %d\n", v.Post.Likes, v.Post.Dislikes)
	if len(v.Post.Pictures) > 0 {
		fmt.Fprintf(w, "picture %d/%d: %s\n", v.PictureIndex+1, len(v.Post.Pictures), shorten(v.Picture))
	}
}

// ownerMark flags the entries the viewer may edit or delete.
func ownerMark(canModify bool) string {
	if canModify {
		return "*"
	}
	return " "
}

func writeComments(w io.Writer, comments []app.CommentView) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "no comments")
		return
	}
	for _, c := range comments {
		fmt.Fprintf(w, "%s [%s] %s\n", ownerMark(c.CanModify), c.ID, c.Content)
		for _, r := range c.Replies {
			fmt.Fprintf(w, "  %s [%s] %s\n", ownerMark(r.CanModify), r.ID, r.Content)
		}
	}
}

func writeSettings(w io.Writer, v app.SettingsView) {
	fmt.Fprintf(w, "%s <%s>\n", v.User.Username, v.User.Email)
	if v.User.ProfilePicture != "" {
		fmt.Fprintf(w, "picture: %s\n", shorten(v.User.ProfilePicture))
	}
	fmt.Fprintln(w, strings.Repeat("-", 20))
	for _, p := range v.Posts {
		writePostLine(w, p)
	}
}
