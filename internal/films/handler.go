package films

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filmcatalog/internal/metrics"
	"filmcatalog/internal/sync"
	"filmcatalog/pkg/models"
)

const maxFormMemory = 8 << 20

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
	log  *zap.Logger
}

func NewHandler(repo *Repo, hub *sync.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Repo: repo, Hub: hub, log: logger.Named("films")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/films", h.list)
	rg.GET("/films/:id", h.getByID)
}

// RegisterFormRoutes mounts the add-film endpoint at the path the public
// form posts to.
func (h *Handler) RegisterFormRoutes(r gin.IRoutes) {
	r.POST("/addFilm", h.add)
}

func (h *Handler) list(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	docs, err := h.Repo.Page(c.Request.Context(), page)
	if err != nil {
		h.log.Error("list failed", zap.Int("page", page), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"films": docs})
}

func (h *Handler) getByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	doc, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// add stores the submitted fields as they arrive. Unlike seeded films these
// records skip normalization.
func (h *Handler) add(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(doc, "_id")
	if len(doc) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "film fields required"})
		return
	}

	id, err := h.Repo.Insert(c.Request.Context(), doc)
	if err != nil {
		h.log.Error("insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "insert failed"})
		return
	}

	metrics.FilmsAdded.Inc()
	if h.Hub != nil {
		h.Hub.BroadcastJSON(sync.NewFilmAdded(id, titleOf(doc)))
	}
	h.log.Info("film added", zap.String("id", id))

	c.JSON(http.StatusCreated, gin.H{"_id": id})
}

func bindDocument(c *gin.Context) (models.Document, error) {
	doc := models.Document{}

	switch c.ContentType() {
	case gin.MIMEJSON:
		if err := c.ShouldBindJSON(&doc); err != nil {
			return nil, fmt.Errorf("invalid json")
		}
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("invalid form")
		}
		copyForm(doc, c.Request.PostForm)
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form")
		}
		copyForm(doc, c.Request.PostForm)
	}

	return doc, nil
}

// copyForm keeps single values as strings and repeated keys as lists.
func copyForm(doc models.Document, form map[string][]string) {
	for k, vs := range form {
		switch len(vs) {
		case 0:
		case 1:
			doc[k] = vs[0]
		default:
			doc[k] = append([]string(nil), vs...)
		}
	}
}

func titleOf(doc models.Document) string {
	for _, k := range []string{"title", "Title"} {
		if s, ok := doc[k].(string); ok {
			return s
		}
	}
	return ""
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
