package services

import "github.com/adanyl0v/tasklist/internal/models"

type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// FormState is Closed, Open(Create) or Open(Edit(TaskID)).
type FormState struct {
	Open   bool     `json:"open"`
	Mode   FormMode `json:"mode,omitempty"`
	TaskID string   `json:"taskId,omitempty"`
}

// ViewState is Closed or Open(TaskID).
type ViewState struct {
	Open   bool   `json:"open"`
	TaskID string `json:"taskId,omitempty"`
}

type State struct {
	Tasks     []models.Task `json:"tasks"`
	Form      FormState     `json:"form"`
	Draft     models.Draft  `json:"draft"`
	View      ViewState     `json:"view"`
	Selection *models.Task  `json:"selection,omitempty"`

	// PersistenceError is the error of the latest completed save, if it failed.
	PersistenceError string `json:"persistenceError,omitempty"`
}
