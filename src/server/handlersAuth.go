package server

import (
	"net/http"

	app "fakeddit/src/app"

	"github.com/gin-gonic/gin"
)

func outcome(c *gin.Context, o app.Outcome) {
	body := gin.H{"status": "success", "redirect": o.RedirectTo}
	if o.Message != "" {
		body["message"] = o.Message
	}
	if o.After > 0 {
		body["redirect_after_ms"] = o.After.Milliseconds()
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) Login(c *gin.Context) {
	var form app.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "can not read login form"})
		return
	}
	o, err := h.env.AuthForms().Login(c.Request.Context(), form)
	if err != nil {
		failure(c, err)
		return
	}
	outcome(c, o)
}

func (h *Handler) Register(c *gin.Context) {
	var form app.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"status": "error", "message": "can not read register form"})
		return
	}
	o, err := h.env.AuthForms().Register(c.Request.Context(), form)
	if err != nil {
		failure(c, err)
		return
	}
	outcome(c, o)
}

func (h *Handler) Logout(c *gin.Context) {
	o, err := h.env.AuthForms().Logout(c.Request.Context())
	if err != nil {
		failure(c, err)
		return
	}
	outcome(c, o)
}
