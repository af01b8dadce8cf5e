package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasklist/internal/models"
)

type TaskListOption func(*taskListImpl)

// WithIDGenerator replaces the uuid based task id generator.
func WithIDGenerator(newID func() string) TaskListOption {
	return func(l *taskListImpl) {
		l.newID = newID
	}
}

// WithClock replaces time.Now as the source of default due dates.
func WithClock(now func() time.Time) TaskListOption {
	return func(l *taskListImpl) {
		l.now = now
	}
}

func NewTaskID() string {
	return uuid.NewString()
}

type subscriber struct {
	id int
	fn func(State)
}

type taskListImpl struct {
	logger zerolog.Logger
	store  TaskStore
	saves  *SaveQueue
	newID  func() string
	now    func() time.Time

	tasks     []models.Task
	form      FormState
	draft     models.Draft
	view      ViewState
	selection *models.Task

	subscribers []subscriber
	nextSubID   int
}

func NewTaskList(
	logger zerolog.Logger,
	store TaskStore,
	reporter ErrorReporter,
	opts ...TaskListOption,
) TaskList {
	l := &taskListImpl{
		logger: logger,
		store:  store,
		newID:  NewTaskID,
		now:    time.Now,
		tasks:  []models.Task{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.draft = models.NewDraft(l.now())
	l.saves = NewSaveQueue(logger, store, reporter)
	return l
}

func (l *taskListImpl) Initialize(ctx context.Context) error {
	tasks, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Error().
			Err(err).
			Msg("failed to initialize task list")
		l.tasks = []models.Task{}
		l.notify()
		return err
	}

	l.tasks = tasks
	l.logger.Info().
		Int("count", len(tasks)).
		Msg("initialized task list")
	l.notify()
	return nil
}

func (l *taskListImpl) BeginCreate() {
	l.draft = models.NewDraft(l.now())
	l.form = FormState{Open: true, Mode: FormModeCreate}
	l.logger.Debug().Msg("opened create form")
	l.notify()
}

func (l *taskListImpl) BeginEdit(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		l.logger.Warn().
			Str("task_id", id).
			Msg("task to edit not found")
		return ErrTaskNotFound
	}

	l.draft = models.DraftFromTask(l.tasks[idx])
	l.form = FormState{Open: true, Mode: FormModeEdit, TaskID: id}
	l.logger.Debug().
		Str("task_id", id).
		Msg("opened edit form")
	l.notify()
	return nil
}

func (l *taskListImpl) BeginView(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		l.logger.Warn().
			Str("task_id", id).
			Msg("task to view not found")
		return ErrTaskNotFound
	}

	task := l.tasks[idx]
	l.selection = &task
	l.view = ViewState{Open: true, TaskID: id}
	l.logger.Debug().
		Str("task_id", id).
		Msg("opened detail view")
	l.notify()
	return nil
}

func (l *taskListImpl) SetDraftTitle(title string) error {
	return l.editDraft(func(d *models.Draft) { d.Title = title })
}

func (l *taskListImpl) SetDraftCategory(category string) error {
	return l.editDraft(func(d *models.Draft) { d.Category = category })
}

func (l *taskListImpl) SetDraftDescription(description string) error {
	return l.editDraft(func(d *models.Draft) { d.Description = description })
}

func (l *taskListImpl) PickDueDate(ctx context.Context, picker DatePicker) error {
	if !l.form.Open {
		return ErrFormClosed
	}

	dueDate, ok := picker.PickDate(ctx, l.draft.DueDate)
	if !ok {
		l.logger.Debug().Msg("due date selection cancelled")
		return nil
	}
	if !models.ValidDueDate(dueDate) {
		l.logger.Warn().
			Time("due_date", dueDate).
			Msg("invalid due date picked")
		return &ValidationError{Field: "dueDate", Err: ErrInvalidDueDate}
	}
	return l.editDraft(func(d *models.Draft) { d.DueDate = models.NormalizeDueDate(dueDate) })
}

func (l *taskListImpl) PickPriority(ctx context.Context, picker OptionPicker) error {
	if !l.form.Open {
		return ErrFormClosed
	}

	options := make([]string, 0, len(models.Priorities()))
	for _, p := range models.Priorities() {
		options = append(options, string(p))
	}

	value, ok := picker.PickOption(ctx, "Priority", options, string(l.draft.Priority))
	if !ok {
		l.logger.Debug().Msg("priority selection cancelled")
		return nil
	}
	priority := models.Priority(value)
	if !priority.Valid() {
		l.logger.Warn().
			Str("priority", value).
			Msg("invalid priority picked")
		return &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
	return l.editDraft(func(d *models.Draft) { d.Priority = priority })
}

func (l *taskListImpl) PickStatus(ctx context.Context, picker OptionPicker) error {
	if !l.form.Open {
		return ErrFormClosed
	}

	options := make([]string, 0, len(models.Statuses()))
	for _, s := range models.Statuses() {
		options = append(options, string(s))
	}

	value, ok := picker.PickOption(ctx, "Status", options, string(l.draft.Status))
	if !ok {
		l.logger.Debug().Msg("status selection cancelled")
		return nil
	}
	status := models.Status(value)
	if !status.Valid() {
		l.logger.Warn().
			Str("status", value).
			Msg("invalid status picked")
		return &ValidationError{Field: "status", Err: ErrInvalidStatus}
	}
	return l.editDraft(func(d *models.Draft) { d.Status = status })
}

func (l *taskListImpl) SubmitDraft() error {
	if !l.form.Open {
		return ErrFormClosed
	}

	err := ValidateDraft(l.draft)
	if err != nil {
		l.logger.Debug().
			Err(err).
			Msg("rejected draft")
		return err
	}

	if l.draft.EditingID == "" {
		l.addTask(l.draft)
	} else {
		l.updateTask(l.draft)
	}

	l.resetForm()
	l.notify()
	return nil
}

func (l *taskListImpl) CancelDraft() {
	l.resetForm()
	l.logger.Debug().Msg("cancelled draft")
	l.notify()
}

func (l *taskListImpl) DeleteTask(id string) bool {
	idx := l.indexOf(id)
	if idx < 0 {
		l.logger.Warn().
			Str("task_id", id).
			Msg("task to delete not found")
		return false
	}

	tasks := make([]models.Task, 0, len(l.tasks)-1)
	tasks = append(tasks, l.tasks[:idx]...)
	tasks = append(tasks, l.tasks[idx+1:]...)
	l.tasks = tasks
	l.saves.Enqueue(l.tasks)

	l.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	l.notify()
	return true
}

func (l *taskListImpl) CloseView() {
	l.selection = nil
	l.view = ViewState{}
	l.logger.Debug().Msg("closed detail view")
	l.notify()
}

func (l *taskListImpl) Tasks() []models.Task {
	tasks := make([]models.Task, len(l.tasks))
	copy(tasks, l.tasks)
	return tasks
}

func (l *taskListImpl) Task(id string) (models.Task, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return models.Task{}, false
	}
	return l.tasks[idx], true
}

func (l *taskListImpl) State() State {
	state := State{
		Tasks: l.Tasks(),
		Form:  l.form,
		Draft: l.draft,
		View:  l.view,
	}
	if l.selection != nil {
		selection := *l.selection
		state.Selection = &selection
	}
	if err := l.saves.LastErr(); err != nil {
		state.PersistenceError = err.Error()
	}
	return state
}

func (l *taskListImpl) Subscribe(fn func(State)) func() {
	id := l.nextSubID
	l.nextSubID++
	l.subscribers = append(l.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range l.subscribers {
			if s.id == id {
				l.subscribers = append(l.subscribers[:i:i], l.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (l *taskListImpl) AddErrorReporter(r ErrorReporter) func() {
	return l.saves.AddReporter(r)
}

func (l *taskListImpl) Flush(ctx context.Context) error {
	return l.saves.Flush(ctx)
}

func (l *taskListImpl) Close(ctx context.Context) error {
	return l.saves.Close(ctx)
}

func (l *taskListImpl) addTask(draft models.Draft) {
	task := draft.Task(l.uniqueID())

	tasks := make([]models.Task, 0, len(l.tasks)+1)
	tasks = append(tasks, l.tasks...)
	l.tasks = append(tasks, task)
	l.saves.Enqueue(l.tasks)

	l.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
}

func (l *taskListImpl) updateTask(draft models.Draft) {
	idx := l.indexOf(draft.EditingID)
	if idx < 0 {
		l.logger.Warn().
			Str("task_id", draft.EditingID).
			Msg("task to update not found")
		return
	}

	task := draft.Task(draft.EditingID)
	tasks := l.Tasks()
	tasks[idx] = task
	l.tasks = tasks
	l.saves.Enqueue(l.tasks)

	if l.selection != nil && l.selection.ID == task.ID {
		l.selection = &task
	}

	l.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
}

// uniqueID retries the generator until it yields an id that is not
// already in the collection.
func (l *taskListImpl) uniqueID() string {
	for {
		id := l.newID()
		if id != "" && l.indexOf(id) < 0 {
			return id
		}
		l.logger.Warn().
			Str("task_id", id).
			Msg("generated task id is taken")
	}
}

func (l *taskListImpl) editDraft(edit func(d *models.Draft)) error {
	if !l.form.Open {
		return ErrFormClosed
	}
	edit(&l.draft)
	l.notify()
	return nil
}

func (l *taskListImpl) resetForm() {
	l.draft = models.NewDraft(l.now())
	l.form = FormState{}
}

func (l *taskListImpl) indexOf(id string) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *taskListImpl) notify() {
	if len(l.subscribers) == 0 {
		return
	}
	state := l.State()
	for _, s := range l.subscribers {
		s.fn(state)
	}
}
