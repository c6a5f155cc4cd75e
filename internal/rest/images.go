package rest

import (
	"net/http"

	"github.com/benjination/portfolio-blog/api"
	"github.com/gin-gonic/gin"
)

func (a *Api) GetImages(c *gin.Context) {
	images, err := a.images.ListImages(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]api.Image, 0, len(images))
	for _, img := range images {
		out = append(out, api.Image{
			File:      img.File,
			Label:     img.Label,
			Path:      img.Path,
			Hash:      img.Hash,
			UpdatedAt: formatTime(img.UpdatedAt),
		})
	}

	c.JSON(http.StatusOK, out)
}
