package httpapi

import (
	"context"
	"errors"
	"net/http"

	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"dovakin0007.com/notes-moderation/internal/notes"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

type NoteJSON struct {
	models.Note
	StatusLabel string `json:"status_label"`
}

type NoteResponse struct {
	Note             NoteJSON                `json:"note"`
	Capabilities     moderation.Capabilities `json:"capabilities"`
	AvailableActions []moderation.Action     `json:"available_actions"`
}

type PageResponse struct {
	Notes    []NoteJSON `json:"notes"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Total    int64      `json:"total"`
	HasMore  bool       `json:"has_more"`
}

func noteJSON(n models.Note) NoteJSON {
	return NoteJSON{Note: n, StatusLabel: n.Status.Label()}
}

func viewResponse(v *notes.NoteView) NoteResponse {
	actions := v.Actions
	if actions == nil {
		actions = []moderation.Action{}
	}
	return NoteResponse{
		Note:             noteJSON(v.Note),
		Capabilities:     v.Capabilities,
		AvailableActions: actions,
	}
}

func pageResponse(p *models.Page) PageResponse {
	out := make([]NoteJSON, 0, len(p.Notes))
	for _, n := range p.Notes {
		out = append(out, noteJSON(n))
	}
	return PageResponse{
		Notes:    out,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasMore:  p.HasMore,
	}
}

var kindStatus = map[moderation.Kind]int{
	moderation.KindValidation:        http.StatusUnprocessableEntity,
	moderation.KindForbidden:         http.StatusForbidden,
	moderation.KindNotFound:          http.StatusNotFound,
	moderation.KindInvalidTransition: http.StatusConflict,
	moderation.KindConflict:          http.StatusConflict,
	moderation.KindUnauthenticated:   http.StatusUnauthorized,
}

// abortWithError writes the JSON error body for err and records it on the
// gin context for the logging middleware.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	var merr *moderation.Error
	if errors.As(err, &merr) {
		if code, ok := kindStatus[merr.Kind]; ok {
			c.AbortWithStatusJSON(code, ErrorResponse{
				Error:  merr.Error(),
				Kind:   merr.Kind.String(),
				Fields: merr.Fields,
			})
			return
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request cancelled"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
