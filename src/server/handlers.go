package server

import (
	"context"
	"errors"
	"net/http"

	"fakeddit/src/api"
	app "fakeddit/src/app"

	"github.com/gin-gonic/gin"
)

const confirmQueryParam = "confirm"

type Handler struct {
	env *app.Environment
}

func NewHandler(env *app.Environment) *Handler {
	return &Handler{env: env}
}

// confirmation answers the delete prompt from the ?confirm=yes query parameter.
func confirmation(c *gin.Context) app.Confirmer {
	answer := c.Query(confirmQueryParam)
	return app.ConfirmFunc(func(_ context.Context, _ string) bool {
		return answer == "yes" || answer == "true"
	})
}

func success(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "payload": payload})
}

// failure writes err as the message shown in the page's status area.
func failure(c *gin.Context, err error) {
	message, redirect := app.Describe(err)
	status := http.StatusInternalServerError
	var (
		validation *app.ValidationError
		backend    *api.Error
	)
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case redirect != "":
		status = http.StatusUnauthorized
	case errors.Is(err, app.ErrDeclined), errors.Is(err, app.ErrStale):
		status = http.StatusConflict
	case errors.Is(err, app.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &backend):
		status = backend.Status
	}
	body := gin.H{"status": "error", "message": message}
	if redirect != "" {
		body["redirect"] = redirect
	}
	c.IndentedJSON(status, body)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// WhoAmI feeds the navbar.
func (h *Handler) WhoAmI(c *gin.Context) {
	success(c, h.env.Session.Identity(c.Request.Context()))
}
