package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/tasklist/internal/models"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrFormClosed       = errors.New("form is closed")
	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrInvalidDueDate   = errors.New("due date must be a non-zero date between years 0 and 9999")
	ErrInvalidPriority  = errors.New("invalid task priority")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrMalformedTasks   = errors.New("malformed stored tasks")
	ErrSaveQueueClosed  = errors.New("save queue closed")
	ErrTokenUnavailable = errors.New("token signing key not configured")
)

// ValidationError rejects a draft edit or submit. The draft and the
// collection are left as they were.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed read or write of the stored
// collection. It never invalidates the in-memory state.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s tasks under key %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type TaskStore interface {
	// Load reads the stored collection. It returns an empty collection
	// and no error when nothing has been stored yet, and a
	// *PersistenceError when the stored value is malformed or cannot
	// be read.
	Load(ctx context.Context) ([]models.Task, error)

	// Save replaces the stored collection with tasks.
	Save(ctx context.Context, tasks []models.Task) error
}

// ErrorReporter is notified of persistence failures that happen
// outside of the caller's control flow.
type ErrorReporter interface {
	ReportPersistenceError(err error)
}

type ErrorReporterFunc func(err error)

func (f ErrorReporterFunc) ReportPersistenceError(err error) {
	f(err)
}

type DatePicker interface {
	// PickDate returns the chosen date or false if the user cancelled.
	PickDate(ctx context.Context, current time.Time) (time.Time, bool)
}

type OptionPicker interface {
	// PickOption returns one of options or false if the user cancelled.
	PickOption(ctx context.Context, title string, options []string, current string) (string, bool)
}

// TaskList owns the task collection, the edit form and the detail view.
//
// Its methods must not be called concurrently; the caller provides the
// single UI thread. Saves are issued in the background after every
// mutation and never block the caller.
type TaskList interface {
	// Initialize replaces the collection with the stored one. On failure
	// the collection stays empty and the error is returned.
	Initialize(ctx context.Context) error

	// BeginCreate opens the form with a default draft.
	BeginCreate()

	// BeginEdit opens the form with the fields of the task with the given id.
	// It returns ErrTaskNotFound without touching the form if there is none.
	BeginEdit(id string) error

	// BeginView opens the detail view for the task with the given id.
	// It returns ErrTaskNotFound without touching the view if there is none.
	BeginView(id string) error

	SetDraftTitle(title string) error
	SetDraftCategory(category string) error
	SetDraftDescription(description string) error
	PickDueDate(ctx context.Context, picker DatePicker) error
	PickPriority(ctx context.Context, picker OptionPicker) error
	PickStatus(ctx context.Context, picker OptionPicker) error

	// SubmitDraft adds or updates a task from the draft and closes the form.
	// A draft with a blank title or an unstorable due date is rejected
	// with a *ValidationError and the form stays open.
	SubmitDraft() error

	// CancelDraft discards the draft and closes the form.
	CancelDraft()

	// DeleteTask removes the task with the given id. It reports whether
	// a task was removed.
	DeleteTask(id string) bool

	CloseView()

	Tasks() []models.Task
	Task(id string) (models.Task, bool)
	State() State

	// Subscribe registers fn to be called with the new state after every
	// change. The returned function removes the subscription.
	Subscribe(fn func(State)) func()

	// AddErrorReporter registers r for failures of background saves. r
	// is called from the save goroutine, not the UI thread. The returned
	// function removes it.
	AddErrorReporter(r ErrorReporter) func()

	// Flush waits until every save issued so far has completed and
	// returns the error of the latest write.
	Flush(ctx context.Context) error

	// Close flushes outstanding saves and stops the save queue.
	Close(ctx context.Context) error
}

type TokenService interface {
	// IssueToken signs an access token for the given subject.
	IssueToken(subject string) (string, time.Time, error)

	// ParseToken parses the given token and returns the registered
	// claims or an error wrapping jwt.ErrTokenExpired if it is expired.
	ParseToken(token string) (*jwt.RegisteredClaims, error)
}
