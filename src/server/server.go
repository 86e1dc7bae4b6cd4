package server

import (
	"fmt"
	"net/http"
	"time"

	app "fakeddit/src/app"
	cfg "fakeddit/src/configuration"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewRouter registers every page of the site on a gin engine.
func NewRouter(config *cfg.Properties, env *app.Environment) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if len(config.Server.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     config.Server.AllowOrigins,
			AllowMethods:     []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Cache-Control"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if config.Server.Pprof {
		pprof.Register(router)
	}

	handler := NewHandler(env)

	router.GET("/health", handler.GetHealth)
	router.GET("/whoami", handler.WhoAmI)

	router.POST("/login", handler.Login)
	router.POST("/register", handler.Register)
	router.POST("/logout", handler.Logout)

	router.GET("/", handler.Feed)
	router.POST("/posts", handler.CreatePost)
	router.GET("/post/:id", handler.Post)
	router.DELETE("/post/:id", handler.DeletePost)
	router.POST("/post/:id/like", handler.LikePost)
	router.POST("/post/:id/dislike", handler.DislikePost)

	router.GET("/post/:id/comments", handler.Comments)
	router.POST("/post/:id/comments", handler.AddComment)
	router.PUT("/post/:id/comments/:cid", handler.EditComment)
	router.DELETE("/post/:id/comments/:cid", handler.DeleteComment)
	router.POST("/post/:id/comments/:cid/replies", handler.AddReply)
	router.PUT("/post/:id/comments/:cid/replies/:rid", handler.EditReply)
	router.DELETE("/post/:id/comments/:cid/replies/:rid", handler.DeleteReply)

	router.GET("/settings", handler.Settings)
	router.POST("/settings/picture", handler.UploadProfilePicture)
	router.DELETE("/settings/posts/:id", handler.DeleteOwnPost)
	router.GET("/pictures", handler.GetPictureList)

	router.NoRoute(func(ctx *gin.Context) { ctx.JSON(http.StatusNotFound, gin.H{}) })
	return router
}

func RunServer(config *cfg.Properties, env *app.Environment) error {
	router := NewRouter(config, env)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: config.Server.ReadTimeout,
	}
	log.Infof("page server listening on %s, backend %s", srv.Addr, config.API.BaseURL)
	return srv.ListenAndServe()
}
