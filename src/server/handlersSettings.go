package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"fakeddit/src/api"
	app "fakeddit/src/app"

	"github.com/gin-gonic/gin"
)

const prefixQueryParam = "prefix"

type uploadPictureBody struct {
	Picture string `json:"picture"`
}

func (h *Handler) Settings(c *gin.Context) {
	settings := h.env.Settings(confirmation(c))
	if err := settings.Load(c.Request.Context()); err != nil {
		failure(c, err)
		return
	}
	success(c, settings.View())
}

// UploadProfilePicture accepts a multipart "picture" file or a JSON data URL.
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	picture, err := readPicture(c)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	settings := h.env.Settings(nil)
	if err := settings.UploadProfilePicture(c.Request.Context(), picture); err != nil {
		failure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Profile picture updated successfully!"})
}

func readPicture(c *gin.Context) (string, error) {
	if file, _, err := c.Request.FormFile("picture"); err == nil {
		defer file.Close()
		var buffer bytes.Buffer
		if _, err := io.Copy(&buffer, file); err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return app.DataURL(buffer.Bytes())
	}
	var body uploadPictureBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return "", fmt.Errorf("can not find picture in request: %w", err)
	}
	return body.Picture, nil
}

func (h *Handler) DeleteOwnPost(c *gin.Context) {
	settings := h.env.Settings(confirmation(c))
	if err := settings.DeletePost(c.Request.Context(), api.ID(c.Param("id"))); err != nil {
		failure(c, err)
		return
	}
	success(c, settings.View())
}

// GetPictureList resolves a bucket prefix to picture URLs for the post composer.
func (h *Handler) GetPictureList(c *gin.Context) {
	if h.env.Bucket == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"status": "error", "message": "no picture bucket configured"})
		return
	}
	prefix, ok := c.GetQuery(prefixQueryParam)
	if !ok {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "no prefix in query"})
		return
	}
	pictures, err := h.env.Bucket.Pictures(c.Request.Context(), prefix)
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError,
			gin.H{"status": "error", "message": fmt.Sprintf("can not fetch pictures: %v", err)})
		return
	}
	success(c, pictures)
}
