package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/benjination/portfolio-blog/api"
	"github.com/benjination/portfolio-blog/blog/domain"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

func (a *Api) GetPosts(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxLimit)})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}

	posts, err := a.posts.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	latest, err := a.posts.GetLatestGeneratedTime(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	out := api.PostList{
		Posts:       make([]api.Post, 0, len(posts)),
		Limit:       limit,
		Offset:      offset,
		GeneratedAt: formatTime(latest),
	}
	for _, p := range posts {
		out.Posts = append(out.Posts, toPost(p))
	}

	c.JSON(http.StatusOK, out)
}

func (a *Api) GetPost(c *gin.Context) {
	postID := c.Param("postId")

	post, err := a.posts.GetPost(c.Request.Context(), postID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, toPost(post))
}

func toPost(p *domain.GeneratedPost) api.Post {
	return api.Post{
		ID:          p.ID,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Author:      p.Author,
		DateCreated: p.DateCreated,
		DateUpdated: p.DateUpdated,
		URL:         "/blog/" + p.ID,
		ContentHash: p.ContentHash,
		GeneratedAt: formatTime(p.GeneratedAt),
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
