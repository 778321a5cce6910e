package posts

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/internal/middleware"
	"github.com/anchor-ministry/backend/internal/models"
	"github.com/anchor-ministry/backend/internal/sessions"
	"github.com/anchor-ministry/backend/pkg/queue"
	"github.com/anchor-ministry/backend/pkg/response"
)

// PostRequest is the body for creating or updating a blog post.
type PostRequest struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	Excerpt  *string `json:"excerpt,omitempty"`
	CoverURL *string `json:"cover_url,omitempty"`
}

// NovelRequest is the body for creating a novel.
type NovelRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	CoverURL    *string `json:"cover_url,omitempty"`
}

// ChapterRequest is the body for adding a chapter.
type ChapterRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Handler handles blog and novel HTTP endpoints.
type Handler struct {
	repo   *Repository
	jobs   *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a posts handler.
func NewHandler(repo *Repository, jobs *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jobs: jobs, logger: logger}
}

func (h *Handler) authorName(c *gin.Context) string {
	v, _ := c.Get(middleware.ContextName)
	name, _ := v.(string)
	return name
}

// ListPosts handles GET /posts. Visitors see published posts; pastors see
// drafts too.
func (h *Handler) ListPosts(c *gin.Context) {
	list, err := h.repo.ListPosts(c.Request.Context(), !middleware.IsPastor(c))
	if err != nil {
		response.ServiceUnavailable(c, "failed to list posts, try again")
		return
	}
	response.OK(c, gin.H{"posts": list})
}

// GetPost handles GET /posts/:id. Drafts are hidden from visitors.
func (h *Handler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	p, err := h.repo.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load post, try again")
		return
	}
	if !p.Published && !middleware.IsPastor(c) {
		response.NotFound(c, "post not found")
		return
	}
	response.OK(c, p)
}

// CreatePost handles POST /posts (pastor only). Posts start as drafts.
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.BlogPost{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Author:   h.authorName(c),
		CoverURL: req.CoverURL,
	}
	if err := h.repo.CreatePost(c.Request.Context(), p); err != nil {
		h.logger.Error("create post failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to create post, try again")
		return
	}
	response.Created(c, p)
}

// UpdatePost handles PUT /posts/:id (pastor only).
func (h *Handler) UpdatePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.BlogPost{
		ID:       id,
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		CoverURL: req.CoverURL,
	}
	if err := h.repo.UpdatePost(c.Request.Context(), p); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.ServiceUnavailable(c, "failed to update post, try again")
		return
	}
	response.OK(c, p)
}

// PublishPost handles POST /posts/:id/publish (pastor only). Publishing for
// the first time notifies email subscribers.
func (h *Handler) PublishPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	before, err := h.repo.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load post, try again")
		return
	}
	p, err := h.repo.SetPostPublished(c.Request.Context(), id, true)
	if err != nil {
		response.ServiceUnavailable(c, "failed to publish post, try again")
		return
	}
	if !before.Published && h.jobs != nil {
		excerpt := ""
		if p.Excerpt != nil {
			excerpt = *p.Excerpt
		}
		if err := h.jobs.EnqueueContentPublished(c.Request.Context(), queue.ContentPublishedPayload{
			ContentKind: "post",
			ContentID:   p.ID,
			Title:       p.Title,
			Excerpt:     excerpt,
		}); err != nil {
			h.logger.Warn("enqueue content notification failed", zap.Error(err), zap.String("post_id", p.ID.String()))
		}
	}
	response.OK(c, p)
}

// UnpublishPost handles POST /posts/:id/unpublish (pastor only).
func (h *Handler) UnpublishPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	p, err := h.repo.SetPostPublished(c.Request.Context(), id, false)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.ServiceUnavailable(c, "failed to unpublish post, try again")
		return
	}
	response.OK(c, p)
}

// DeletePost handles DELETE /posts/:id (pastor only).
func (h *Handler) DeletePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	if err := h.repo.DeletePost(c.Request.Context(), id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.ServiceUnavailable(c, "failed to delete post, try again")
		return
	}
	response.NoContent(c)
}

// ListNovels handles GET /novels.
func (h *Handler) ListNovels(c *gin.Context) {
	list, err := h.repo.ListNovels(c.Request.Context(), !middleware.IsPastor(c))
	if err != nil {
		response.ServiceUnavailable(c, "failed to list novels, try again")
		return
	}
	response.OK(c, gin.H{"novels": list})
}

// CreateNovel handles POST /novels (pastor only).
func (h *Handler) CreateNovel(c *gin.Context) {
	var req NovelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	n := &models.Novel{
		Title:       req.Title,
		Description: req.Description,
		Author:      h.authorName(c),
		CoverURL:    req.CoverURL,
	}
	if err := h.repo.CreateNovel(c.Request.Context(), n); err != nil {
		h.logger.Error("create novel failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to create novel, try again")
		return
	}
	response.Created(c, n)
}

// PublishNovel handles POST /novels/:id/publish (pastor only).
func (h *Handler) PublishNovel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid novel id")
		return
	}
	before, err := h.repo.GetNovel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "novel not found")
			return
		}
		response.ServiceUnavailable(c, "failed to load novel, try again")
		return
	}
	n, err := h.repo.SetNovelPublished(c.Request.Context(), id, true)
	if err != nil {
		response.ServiceUnavailable(c, "failed to publish novel, try again")
		return
	}
	if !before.Published && h.jobs != nil {
		if err := h.jobs.EnqueueContentPublished(c.Request.Context(), queue.ContentPublishedPayload{
			ContentKind: "novel",
			ContentID:   n.ID,
			Title:       n.Title,
			Excerpt:     n.Description,
		}); err != nil {
			h.logger.Warn("enqueue content notification failed", zap.Error(err), zap.String("novel_id", n.ID.String()))
		}
	}
	response.OK(c, n)
}

// Chapters handles GET /novels/:id/chapters.
func (h *Handler) Chapters(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid novel id")
		return
	}
	list, err := h.repo.ListChapters(c.Request.Context(), id, !middleware.IsPastor(c))
	if err != nil {
		response.ServiceUnavailable(c, "failed to list chapters, try again")
		return
	}
	response.OK(c, gin.H{"chapters": list})
}

// AddChapter handles POST /novels/:id/chapters (pastor only).
func (h *Handler) AddChapter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid novel id")
		return
	}
	var req ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ch := &models.NovelChapter{
		NovelID: id,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.repo.CreateChapter(c.Request.Context(), ch); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "novel not found")
			return
		}
		h.logger.Error("add chapter failed", zap.Error(err))
		response.ServiceUnavailable(c, "failed to add chapter, try again")
		return
	}
	response.Created(c, ch)
}

// PublishChapter handles POST /chapters/:id/publish (pastor only).
func (h *Handler) PublishChapter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid chapter id")
		return
	}
	ch, err := h.repo.SetChapterPublished(c.Request.Context(), id, true)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			response.NotFound(c, "chapter not found")
			return
		}
		response.ServiceUnavailable(c, "failed to publish chapter, try again")
		return
	}
	response.OK(c, ch)
}
