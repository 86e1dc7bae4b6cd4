package server

import (
	"net/http"

	"fakeddit/src/api"
	app "fakeddit/src/app"

	"github.com/gin-gonic/gin"
)

type contentBody struct {
	Content string `json:"content" form:"content"`
}

// loadTree loads the comment tree for the :id post.
func (h *Handler) loadTree(c *gin.Context) (*app.CommentTree, bool) {
	tree := h.env.CommentTree(api.ID(c.Param("id")), confirmation(c))
	if err := tree.Load(c.Request.Context()); err != nil {
		failure(c, err)
		return nil, false
	}
	return tree, true
}

func bindContent(c *gin.Context) (string, bool) {
	var body contentBody
	if err := c.ShouldBind(&body); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "can not read content"})
		return "", false
	}
	return body.Content, true
}

// bindNewContent also rejects blank text before the tree is fetched.
func bindNewContent(c *gin.Context) (string, bool) {
	content, ok := bindContent(c)
	if !ok {
		return "", false
	}
	if err := app.ValidateContent(content); err != nil {
		failure(c, err)
		return "", false
	}
	return content, true
}

func (h *Handler) renderTree(c *gin.Context, tree *app.CommentTree) {
	success(c, tree.Views(c.Request.Context()))
}

func (h *Handler) Comments(c *gin.Context) {
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	h.renderTree(c, tree)
}

func (h *Handler) AddComment(c *gin.Context) {
	content, ok := bindNewContent(c)
	if !ok {
		return
	}
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	if _, err := tree.AddComment(c.Request.Context(), content); err != nil {
		failure(c, err)
		return
	}
	h.renderTree(c, tree)
}

func (h *Handler) EditComment(c *gin.Context) {
	content, ok := bindContent(c)
	if !ok {
		return
	}
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	if err := tree.EditComment(c.Request.Context(), api.ID(c.Param("cid")), content); err != nil {
		failure(c, err)
		return
	}
	h.renderTree(c, tree)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	if err := tree.DeleteComment(c.Request.Context(), api.ID(c.Param("cid"))); err != nil {
		failure(c, err)
		return
	}
	h.renderTree(c, tree)
}

func (h *Handler) AddReply(c *gin.Context) {
	content, ok := bindNewContent(c)
	if !ok {
		return
	}
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	if _, err := tree.AddReply(c.Request.Context(), api.ID(c.Param("cid")), content); err != nil {
		failure(c, err)
		return
	}
	h.renderTree(c, tree)
}

func (h *Handler) EditReply(c *gin.Context) {
	content, ok := bindContent(c)
	if !ok {
		return
	}
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	err := tree.EditReply(c.Request.Context(), api.ID(c.Param("cid")), api.ID(c.Param("rid")), content)
	if err != nil {
		failure(c, err)
		return
	}
	h.renderTree(c, tree)
}

func (h *Handler) DeleteReply(c *gin.Context) {
	tree, ok := h.loadTree(c)
	if !ok {
		return
	}
	defer tree.Close()
	if err := tree.DeleteReply(c.Request.Context(), api.ID(c.Param("cid")), api.ID(c.Param("rid"))); err != nil {
		failure(c, err)
		return
	}
	h.renderTree(c, tree)
}
