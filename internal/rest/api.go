package rest

import (
	"net/http"
	"time"

	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/gin-gonic/gin"
)

// Api serves the build index as JSON.
type Api struct {
	posts  domain.PostRepository
	images domain.ImageRepository
}

func NewApi(router *gin.Engine, posts domain.PostRepository, images domain.ImageRepository) *Api {
	a := &Api{posts: posts, images: images}

	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", a.GetPosts)
		postsV1.GET("/:postId", a.GetPost)
	}

	imagesV1 := router.Group("images/v1")
	{
		imagesV1.GET("/", a.GetImages)
	}

	return a
}

// NewRouter builds the preview server: the JSON API plus the generated site.
func NewRouter(outputRoot string, posts domain.PostRepository, images domain.ImageRepository, handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handlers...)

	if posts != nil && images != nil {
		NewApi(router, posts, images)
	}
	ServeSite(router, outputRoot)

	return router
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func abortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
}
