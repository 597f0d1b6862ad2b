package message

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/handywriterz/core/internal/models"
)

// SendDTO is a message from a visitor or signed-in user.
type SendDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (d SendDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Length(0, 255)),
		validation.Field(&d.Email, validation.Required, is.EmailFormat),
		validation.Field(&d.Subject, validation.Length(0, 255)),
		validation.Field(&d.Body, validation.Required, validation.Length(1, 10000)),
	)
}

func (d *SendDTO) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Subject = strings.TrimSpace(d.Subject)
	d.Body = strings.TrimSpace(d.Body)
}

type ReplyDTO struct {
	Body string `json:"body" binding:"required"`
}

type ListQuery struct {
	Unread bool `form:"unread"`
}

type messageResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	FromAdmin bool       `json:"fromAdmin"`
	ParentID  *string    `json:"parentId,omitempty"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

type threadResponse struct {
	*messageResponse
	Replies []*messageResponse `json:"replies"`
}

func toResponse(m *models.MessageModel) *messageResponse {
	return &messageResponse{
		ID: m.ID, Name: m.Name, Email: m.Email, Subject: m.Subject, Body: m.Body,
		FromAdmin: m.FromAdmin, ParentID: m.ParentID, ReadAt: m.ReadAt, CreatedAt: m.CreatedAt,
	}
}

func toResponses(ms []models.MessageModel) []*messageResponse {
	out := make([]*messageResponse, 0, len(ms))
	for i := range ms {
		out = append(out, toResponse(&ms[i]))
	}
	return out
}
