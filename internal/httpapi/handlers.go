package httpapi

import (
	"net/http"

	"dovakin0007.com/notes-moderation/internal/auth"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"dovakin0007.com/notes-moderation/internal/notes"
	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	svc *notes.Service
}

func NewNoteHandler(svc *notes.Service) *NoteHandler {
	return &NoteHandler{svc: svc}
}

type listQuery struct {
	Scope string `form:"scope"`
	Page  int    `form:"page"`
}

type updateBody struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

type reviewBody struct {
	ReviewNotes *string `json:"review_notes"`
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

func (h *NoteHandler) list(c *gin.Context, scope moderation.Scope) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, moderation.Validation("list", map[string]string{"page": "page must be a number"}))
		return
	}
	if scope == "" && q.Scope != "" {
		parsed, ok := moderation.ParseScope(q.Scope)
		if !ok {
			abortWithError(c, moderation.Validation("list", map[string]string{"scope": "unknown scope " + q.Scope}))
			return
		}
		scope = parsed
	}
	ctx := c.Request.Context()
	page, err := h.svc.List(ctx, auth.ActorFrom(ctx), scope, q.Page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

func (h *NoteHandler) ListNotes(c *gin.Context)    { h.list(c, "") }
func (h *NoteHandler) PublicNotes(c *gin.Context)  { h.list(c, moderation.ScopePublic) }
func (h *NoteHandler) PendingNotes(c *gin.Context) { h.list(c, moderation.ScopePending) }

func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req models.CreateNoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	view, err := h.svc.Create(ctx, auth.ActorFrom(ctx), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewResponse(view))
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.svc.Get(ctx, auth.ActorFrom(ctx), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewResponse(view))
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req updateBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	view, err := h.svc.Update(ctx, auth.ActorFrom(ctx), models.UpdateNoteInput{
		NoteID: c.Param("id"),
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewResponse(view))
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.svc.Delete(ctx, auth.ActorFrom(ctx), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NoteHandler) SubmitNote(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.svc.Submit(ctx, auth.ActorFrom(ctx), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewResponse(view))
}

// review binds an optional {"review_notes": ...} body; an empty body is fine.
func (h *NoteHandler) review(c *gin.Context) (models.ReviewInput, bool) {
	var req reviewBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return models.ReviewInput{}, false
		}
	}
	return models.ReviewInput{NoteID: c.Param("id"), Notes: req.ReviewNotes}, true
}

func (h *NoteHandler) ApproveNote(c *gin.Context) {
	in, ok := h.review(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	view, err := h.svc.Approve(ctx, auth.ActorFrom(ctx), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewResponse(view))
}

func (h *NoteHandler) RejectNote(c *gin.Context) {
	in, ok := h.review(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	view, err := h.svc.Reject(ctx, auth.ActorFrom(ctx), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewResponse(view))
}
