package server

import (
	"context"
	"net/http"
	"strconv"

	"fakeddit/src/api"
	app "fakeddit/src/app"

	"github.com/gin-gonic/gin"
)

type feedPage struct {
	Posts []api.Post   `json:"posts"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
	Query string       `json:"query"`
	Sort  app.SortMode `json:"sort"`
}

func (h *Handler) Feed(c *gin.Context) {
	mode, err := app.ParseSortMode(c.Query("sort"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "page must be a number"})
		return
	}
	feed := h.env.Feed()
	defer feed.Close()
	if err := feed.Load(c.Request.Context()); err != nil {
		failure(c, err)
		return
	}
	feed.SetQuery(c.Query("q"))
	feed.SetSort(mode)
	posts, pages := feed.Page(page)
	success(c, feedPage{Posts: posts, Page: page, Pages: pages, Query: c.Query("q"), Sort: mode})
}

// loadPost loads the detail page named by the :id path parameter.
func (h *Handler) loadPost(c *gin.Context) (*app.PostDetail, bool) {
	detail := h.env.PostDetail(confirmation(c))
	if err := detail.Load(c.Request.Context(), api.ID(c.Param("id"))); err != nil {
		failure(c, err)
		return nil, false
	}
	return detail, true
}

func (h *Handler) Post(c *gin.Context) {
	detail, ok := h.loadPost(c)
	if !ok {
		return
	}
	defer detail.Close()
	view, _ := detail.View()
	if index, err := strconv.Atoi(c.Query("picture")); err == nil {
		view = detail.SeekPicture(index)
	}
	switch c.Query("move") {
	case "next":
		view = detail.NextPicture()
	case "prev":
		view = detail.PrevPicture()
	}
	success(c, view)
}

func (h *Handler) LikePost(c *gin.Context) {
	h.react(c, (*app.PostDetail).Like)
}

func (h *Handler) DislikePost(c *gin.Context) {
	h.react(c, (*app.PostDetail).Dislike)
}

func (h *Handler) react(c *gin.Context, action func(*app.PostDetail, context.Context) error) {
	detail, ok := h.loadPost(c)
	if !ok {
		return
	}
	defer detail.Close()
	if err := action(detail, c.Request.Context()); err != nil {
		failure(c, err)
		return
	}
	view, _ := detail.View()
	success(c, view)
}

func (h *Handler) DeletePost(c *gin.Context) {
	detail, ok := h.loadPost(c)
	if !ok {
		return
	}
	defer detail.Close()
	if err := detail.Delete(c.Request.Context()); err != nil {
		failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "redirect": app.FeedRoute})
}

func (h *Handler) CreatePost(c *gin.Context) {
	var draft app.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "can not read post"})
		return
	}
	created, err := h.env.Composer().Submit(c.Request.Context(), draft)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, created)
}
