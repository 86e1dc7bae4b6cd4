package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"fakeddit/src/api"
	app "fakeddit/src/app"
	"fakeddit/src/server"

	"github.com/spf13/cobra"
)

type cli struct {
	load   func(ctx context.Context) (*app.Environment, error)
	env    *app.Environment
	in     *bufio.Reader
	out    io.Writer
	format string
	yes    bool
}

func (c *cli) confirmer() app.Confirmer {
	if c.yes {
		return app.AlwaysConfirm
	}
	return &promptConfirmer{in: c.in, out: c.out}
}

func newRootCommand(load func(ctx context.Context) (*app.Environment, error), in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{load: load, in: bufio.NewReader(in), out: out}
	root := &cobra.Command{
		Use:           "fakeddit",
		Short:         "Client for the fakeddit social board",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(c.format); err != nil {
				return err
			}
			env, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			c.env = env
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.format, "output", "o", formatText, "output format: text, json or yaml")
	root.PersistentFlags().BoolVarP(&c.yes, "yes", "y", false, "answer yes to confirmation prompts")

	root.AddCommand(
		c.loginCommand(),
		c.registerCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.feedCommand(),
		c.postCommand(),
		c.commentsCommand(),
		c.commentCommand(),
		c.replyCommand(),
		c.settingsCommand(),
		c.serveCommand(),
	)
	return root
}

func (c *cli) loginCommand() *cobra.Command {
	var form app.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := c.env.AuthForms().Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			return c.follow(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var form app.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := c.env.AuthForms().Register(cmd.Context(), form)
			if err != nil {
				return err
			}
			return c.follow(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := c.env.AuthForms().Logout(cmd.Context())
			if err != nil {
				return err
			}
			return c.follow(cmd.Context(), o)
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := c.env.Session.Identity(cmd.Context())
			return c.render(id, func(w io.Writer) {
				switch {
				case !id.LoggedIn:
					fmt.Fprintln(w, "not logged in")
				case id.UserID == "":
					fmt.Fprintln(w, "logged in")
				default:
					fmt.Fprintf(w, "logged in as %s\n", id.UserID)
				}
			})
		},
	}
}

func (c *cli) feedCommand() *cobra.Command {
	var (
		query string
		sort  string
		page  int
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := app.ParseSortMode(sort)
			if err != nil {
				return err
			}
			feed := c.env.Feed()
			defer feed.Close()
			if err := feed.Load(cmd.Context()); err != nil {
				return err
			}
			feed.SetQuery(query)
			feed.SetSort(mode)
			posts, pages := feed.Page(page)
			view := feedView{Posts: posts, Page: page, Pages: pages}
			return c.render(view, func(w io.Writer) { writeFeed(w, view) })
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive title search")
	cmd.Flags().StringVar(&sort, "sort", "", "sort order: az, za or newest")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (c *cli) postCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "post", Short: "Show and act on a single post"}

	var picture int
	show := &cobra.Command{
		Use:   "show POST_ID",
		Short: "Show a post and one of its pictures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPost(cmd.Context(), args[0], func(d *app.PostDetail) error {
				view := d.SeekPicture(picture)
				return c.render(view, func(w io.Writer) { writeDetail(w, view) })
			})
		},
	}
	show.Flags().IntVar(&picture, "picture", 0, "picture index, wraps around")

	reaction := func(use, short string, act func(*app.PostDetail, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " POST_ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withPost(cmd.Context(), args[0], func(d *app.PostDetail) error {
					if err := act(d, cmd.Context()); err != nil {
						return err
					}
					view, _ := d.View()
					return c.render(view, func(w io.Writer) { writeDetail(w, view) })
				})
			},
		}
	}

	del := &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPost(cmd.Context(), args[0], func(d *app.PostDetail) error {
				if err := d.Delete(cmd.Context()); err != nil {
					return err
				}
				return c.follow(cmd.Context(), app.Outcome{Message: "Post deleted", RedirectTo: app.FeedRoute})
			})
		},
	}

	cmd.AddCommand(
		show,
		reaction("like", "Like a post", (*app.PostDetail).Like),
		reaction("dislike", "Dislike a post", (*app.PostDetail).Dislike),
		del,
		c.createPostCommand(),
	)
	return cmd
}

func (c *cli) withPost(ctx context.Context, id string, fn func(*app.PostDetail) error) error {
	detail := c.env.PostDetail(c.confirmer())
	defer detail.Close()
	if err := detail.Load(ctx, api.ID(id)); err != nil {
		return err
	}
	return fn(detail)
}

func (c *cli) createPostCommand() *cobra.Command {
	var (
		draft    app.Draft
		files    []string
		prefixes []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pictures, err := c.env.Files.Pictures(ctx, files...)
			if err != nil {
				return err
			}
			if len(prefixes) > 0 {
				if c.env.Bucket == nil {
					return fmt.Errorf("picture bucket not configured, set S3_HOST")
				}
				stored, err := c.env.Bucket.Pictures(ctx, prefixes...)
				if err != nil {
					return err
				}
				pictures = append(pictures, stored...)
			}
			draft.Pictures = pictures
			created, err := c.env.Composer().Submit(ctx, draft)
			if err != nil {
				return err
			}
			return c.render(created, func(w io.Writer) { writePostLine(w, created) })
		},
	}
	cmd.Flags().StringVarP(&draft.Title, "title", "t", "", "post title")
	cmd.Flags().StringVarP(&draft.Description, "description", "d", "", "post body")
	cmd.Flags().StringArrayVar(&files, "picture", nil, "image file to attach, repeatable")
	cmd.Flags().StringArrayVar(&prefixes, "bucket-prefix", nil, "attach every image under this bucket prefix, repeatable")
	return cmd
}

func (c *cli) withTree(ctx context.Context, postID string, fn func(*app.CommentTree) error) error {
	tree := c.env.CommentTree(api.ID(postID), c.confirmer())
	defer tree.Close()
	if err := tree.Load(ctx); err != nil {
		return err
	}
	if err := fn(tree); err != nil {
		return err
	}
	views := tree.Views(ctx)
	return c.render(views, func(w io.Writer) { writeComments(w, views) })
}

func (c *cli) commentsCommand() *cobra.Command {
	list := &cobra.Command{
		Use:   "list POST_ID",
		Short: "List the comments of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTree(cmd.Context(), args[0], func(*app.CommentTree) error { return nil })
		},
	}
	cmd := &cobra.Command{Use: "comments", Short: "Read comments"}
	cmd.AddCommand(list)
	return cmd
}

func (c *cli) commentCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "comment", Short: "Write, edit and delete comments"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add POST_ID CONTENT",
			Short: "Comment on a post",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.ValidateContent(args[1]); err != nil {
					return err
				}
				return c.withTree(cmd.Context(), args[0], func(t *app.CommentTree) error {
					_, err := t.AddComment(cmd.Context(), args[1])
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "edit POST_ID COMMENT_ID CONTENT",
			Short: "Change a comment",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withTree(cmd.Context(), args[0], func(t *app.CommentTree) error {
					return t.EditComment(cmd.Context(), api.ID(args[1]), args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "delete POST_ID COMMENT_ID",
			Short: "Delete a comment and its replies",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withTree(cmd.Context(), args[0], func(t *app.CommentTree) error {
					return t.DeleteComment(cmd.Context(), api.ID(args[1]))
				})
			},
		},
	)
	return cmd
}

func (c *cli) replyCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "reply", Short: "Write, edit and delete replies"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add POST_ID COMMENT_ID CONTENT",
			Short: "Reply to a comment",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.ValidateContent(args[2]); err != nil {
					return err
				}
				return c.withTree(cmd.Context(), args[0], func(t *app.CommentTree) error {
					_, err := t.AddReply(cmd.Context(), api.ID(args[1]), args[2])
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "edit POST_ID COMMENT_ID REPLY_ID CONTENT",
			Short: "Change a reply",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withTree(cmd.Context(), args[0], func(t *app.CommentTree) error {
					return t.EditReply(cmd.Context(), api.ID(args[1]), api.ID(args[2]), args[3])
				})
			},
		},
		&cobra.Command{
			Use:   "delete POST_ID COMMENT_ID REPLY_ID",
			Short: "Delete a reply",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withTree(cmd.Context(), args[0], func(t *app.CommentTree) error {
					return t.DeleteReply(cmd.Context(), api.ID(args[1]), api.ID(args[2]))
				})
			},
		},
	)
	return cmd
}

func (c *cli) withSettings(ctx context.Context, fn func(*app.Settings) error) error {
	settings := c.env.Settings(c.confirmer())
	if err := settings.Load(ctx); err != nil {
		return err
	}
	if err := fn(settings); err != nil {
		return err
	}
	view := settings.View()
	return c.render(view, func(w io.Writer) { writeSettings(w, view) })
}

func (c *cli) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "Profile and own posts"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the profile and own posts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withSettings(cmd.Context(), func(*app.Settings) error { return nil })
			},
		},
		&cobra.Command{
			Use:   "picture FILE",
			Short: "Upload a new profile picture",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSettings(cmd.Context(), func(s *app.Settings) error {
					data, err := os.ReadFile(args[0])
					if err != nil {
						return err
					}
					picture, err := app.DataURL(data)
					if err != nil {
						return err
					}
					return s.UploadProfilePicture(cmd.Context(), picture)
				})
			},
		},
		&cobra.Command{
			Use:   "delete-post POST_ID",
			Short: "Delete one of your posts",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withSettings(cmd.Context(), func(s *app.Settings) error {
					return s.DeletePost(cmd.Context(), api.ID(args[0]))
				})
			},
		},
	)
	return cmd
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the page server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.RunServer(c.env.Config, c.env)
		},
	}
}
