// Package notes holds the wire messages and the gRPC service description of
// notes.v1.NoteService. Messages travel as JSON (content-subtype "json");
// timestamps and update masks use the protobuf well-known types.
package notes

import (
	"google.golang.org/protobuf/types/known/fieldmaskpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Actor struct {
	Id          string  `json:"id"`
	DisplayName *string `json:"display_name,omitempty"`
	Role        string  `json:"role"`
}

type Capabilities struct {
	CanView     bool `json:"can_view"`
	CanEdit     bool `json:"can_edit"`
	CanDelete   bool `json:"can_delete"`
	CanModerate bool `json:"can_moderate"`
}

type Note struct {
	Id          string                 `json:"id"`
	OwnerId     string                 `json:"owner_id"`
	Owner       *Actor                 `json:"owner,omitempty"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	Status      string                 `json:"status"`
	StatusLabel string                 `json:"status_label"`
	PublishedAt *timestamppb.Timestamp `json:"published_at,omitempty"`
	ReviewerId  *string                `json:"reviewer_id,omitempty"`
	ReviewNotes *string                `json:"review_notes,omitempty"`
	Version     int64                  `json:"version"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt   *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

func (x *Note) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Note) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

type NoteResponse struct {
	Note             *Note         `json:"note"`
	Capabilities     *Capabilities `json:"capabilities,omitempty"`
	AvailableActions []string      `json:"available_actions,omitempty"`
}

func (x *NoteResponse) GetNote() *Note {
	if x != nil {
		return x.Note
	}
	return nil
}

type CreateNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (x *CreateNoteRequest) GetTitle() string {
	if x != nil {
		return x.Title
	}
	return ""
}

func (x *CreateNoteRequest) GetBody() string {
	if x != nil {
		return x.Body
	}
	return ""
}

type GetNoteRequest struct {
	Id string `json:"id"`
}

func (x *GetNoteRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

// UpdateNoteRequest changes the fields named in UpdateMask ("title", "body").
type UpdateNoteRequest struct {
	Id         string                 `json:"id"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	UpdateMask *fieldmaskpb.FieldMask `json:"update_mask"`
}

func (x *UpdateNoteRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *UpdateNoteRequest) GetUpdateMask() *fieldmaskpb.FieldMask {
	if x != nil {
		return x.UpdateMask
	}
	return nil
}

type DeleteNoteRequest struct {
	Id string `json:"id"`
}

func (x *DeleteNoteRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type DeleteNoteResponse struct {
	Success bool `json:"success"`
}

// ListNotesRequest selects a scope ("mine", "all", "public", "pending") and
// a 1-based page. An empty scope picks the caller's default.
type ListNotesRequest struct {
	Scope string `json:"scope,omitempty"`
	Page  int32  `json:"page,omitempty"`
}

func (x *ListNotesRequest) GetScope() string {
	if x != nil {
		return x.Scope
	}
	return ""
}

func (x *ListNotesRequest) GetPage() int32 {
	if x != nil {
		return x.Page
	}
	return 0
}

type ListNotesResponse struct {
	Notes    []*Note `json:"notes"`
	Page     int32   `json:"page"`
	PageSize int32   `json:"page_size"`
	Total    int64   `json:"total"`
	HasMore  bool    `json:"has_more"`
}

type SubmitNoteRequest struct {
	Id string `json:"id"`
}

func (x *SubmitNoteRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

// ReviewNoteRequest carries an approve or reject decision.
type ReviewNoteRequest struct {
	Id          string  `json:"id"`
	ReviewNotes *string `json:"review_notes,omitempty"`
}

func (x *ReviewNoteRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *ReviewNoteRequest) GetReviewNotes() *string {
	if x != nil {
		return x.ReviewNotes
	}
	return nil
}
