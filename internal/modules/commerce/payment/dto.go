package payment

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/handywriterz/core/internal/models"
)

var currencies = []interface{}{"USD", "EUR", "GBP", "KES"}

// CheckoutDTO starts a checkout. Amount is in the currency's minor unit.
type CheckoutDTO struct {
	Email       string `json:"email"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
}

func (d CheckoutDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Email, validation.Required, is.EmailFormat),
		validation.Field(&d.Service, validation.Required, validation.Length(1, 64)),
		validation.Field(&d.Amount, validation.Required, validation.Min(int64(1))),
		validation.Field(&d.Currency, validation.Required, validation.In(currencies...)),
		validation.Field(&d.Method, validation.In("card", "mpesa", "paypal", "crypto")),
	)
}

func (d *CheckoutDTO) normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Service = strings.TrimSpace(d.Service)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	d.Method = strings.ToLower(strings.TrimSpace(d.Method))
	if d.Method == "" {
		d.Method = "card"
	}
}

// ConfirmDTO reports the outcome of the mocked payment step.
type ConfirmDTO struct {
	Outcome string `json:"outcome" binding:"required,oneof=success failure"`
}

type ListQuery struct {
	Status string `form:"status"`
	Email  string `form:"email"`
}

type paymentResponse struct {
	ID          string               `json:"id"`
	Reference   string               `json:"reference"`
	Email       string               `json:"email"`
	Service     string               `json:"service"`
	Description string               `json:"description"`
	Amount      int64                `json:"amount"`
	Currency    string               `json:"currency"`
	Method      string               `json:"method"`
	Status      models.PaymentStatus `json:"status"`
	CompletedAt *time.Time           `json:"completedAt"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func toResponse(p *models.PaymentModel) *paymentResponse {
	return &paymentResponse{
		ID: p.ID, Reference: p.Reference, Email: p.Email, Service: p.Service,
		Description: p.Description, Amount: p.Amount, Currency: p.Currency, Method: p.Method,
		Status: p.Status, CompletedAt: p.CompletedAt, CreatedAt: p.CreatedAt,
	}
}

func toResponses(ps []models.PaymentModel) []*paymentResponse {
	out := make([]*paymentResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toResponse(&ps[i]))
	}
	return out
}
