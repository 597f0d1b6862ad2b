package editor

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/handywriterz/core/internal/models"
)

// Field keys of the validation error mapping.
const (
	FieldTitle        = "title"
	FieldSlug         = "slug"
	FieldContent      = "content"
	FieldService      = "service"
	FieldCategory     = "category"
	FieldScheduledFor = "scheduledFor"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Rules carries the context a draft is validated against.
type Rules struct {
	// Status overrides the draft's own status, e.g. the status a submit intent resolves to.
	Status models.PostStatus
	Now    time.Time
	Loc    *time.Location
	// Categories lists the category names of the draft's service. Nil skips the membership check.
	Categories []string
}

// Validate checks the draft and returns validation.Errors keyed by field, or nil.
func (d *Draft) Validate(r Rules) error {
	status := r.Status
	if status == "" {
		status = d.Status
	}
	loc := r.Loc
	if loc == nil {
		loc = time.UTC
	}

	categoryRules := []validation.Rule{validation.Required.Error("category is required")}
	if r.Categories != nil {
		in := make([]interface{}, len(r.Categories))
		for i, name := range r.Categories {
			in[i] = name
		}
		categoryRules = append(categoryRules, validation.In(in...).Error("category does not belong to the selected service"))
	}

	errs := validation.Errors{
		FieldTitle: validation.Validate(strings.TrimSpace(d.Title),
			validation.Required.Error("title is required")),
		FieldSlug: validation.Validate(d.Slug,
			validation.Required.Error("slug is required"),
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, numbers and hyphens")),
		FieldService: validation.Validate(strings.TrimSpace(d.Service),
			validation.Required.Error("service is required")),
		FieldCategory: validation.Validate(d.Category, categoryRules...),
	}
	if d.Body.Empty() {
		errs[FieldContent] = validation.NewError("validation_content_required", "content is required")
	}
	if status == models.PostScheduled {
		errs[FieldScheduledFor] = d.validateSchedule(r.Now, loc)
	}
	return errs.Filter()
}

func (d *Draft) validateSchedule(now time.Time, loc *time.Location) error {
	if strings.TrimSpace(d.ScheduledDate) == "" || strings.TrimSpace(d.ScheduledTime) == "" {
		return validation.NewError("validation_schedule_required", "scheduled date and time are required")
	}
	at, err := d.ScheduledFor(loc)
	if err != nil {
		return validation.NewError("validation_schedule_invalid", "scheduled date or time is invalid")
	}
	if at.Before(now.Truncate(time.Minute)) {
		return validation.NewError("validation_schedule_past", "scheduled time must be in the future")
	}
	return nil
}

// FieldErrors flattens a validation result into field to message.
func FieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, e := range errs {
		out[field] = e.Error()
	}
	return out
}
