package comments

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Repo *Repo
	log  *zap.Logger
}

func NewHandler(repo *Repo, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Repo: repo, log: logger.Named("comments")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/films/:id/comments", h.listByFilm)
}

func (h *Handler) listByFilm(c *gin.Context) {
	filmID := strings.TrimSpace(c.Param("id"))
	if filmID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "film id required"})
		return
	}

	items, err := h.Repo.ForFilm(c.Request.Context(), filmID)
	if errors.Is(err, ErrFilmNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		h.log.Error("list failed", zap.String("film_id", filmID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"film_id":  filmID,
		"comments": items,
	})
}
