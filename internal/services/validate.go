package services

import (
	"strings"

	"github.com/adanyl0v/tasklist/internal/models"
)

// ValidateDraft checks the draft before it is turned into a task.
func ValidateDraft(d models.Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if !models.ValidDueDate(d.DueDate) {
		return &ValidationError{Field: "dueDate", Err: ErrInvalidDueDate}
	}
	if !d.Priority.Valid() {
		return &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
	if !d.Status.Valid() {
		return &ValidationError{Field: "status", Err: ErrInvalidStatus}
	}
	return nil
}
