package editor

import "github.com/handywriterz/core/internal/models"

// OpenDTO is the body of POST /admin/editor/sessions. An empty PostID starts a new post.
type OpenDTO struct {
	PostID string `json:"postId"`
}

// ModeDTO is the body of PUT .../mode.
type ModeDTO struct {
	Mode models.BodyKind `json:"mode" binding:"required,oneof=markdown blocks"`
}

// BlockFormDTO is the body of POST .../block-form.
type BlockFormDTO struct {
	Type models.BlockType `json:"type" binding:"required"`
}

// MoveDTO is the body of POST .../blocks/:index/move.
type MoveDTO struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// SubmitDTO is the body of POST .../submit.
type SubmitDTO struct {
	Intent string `json:"intent"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	View
}

type previewResponse struct {
	HTML string `json:"html"`
	View
}

type uploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	View
}

type submitResponse struct {
	Result *Result `json:"result"`
	View
}
