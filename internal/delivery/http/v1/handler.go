package v1

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasklist/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleGetState(c *gin.Context)
	HandleEvents(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleBeginCreate(c *gin.Context)
	HandleBeginEdit(c *gin.Context)
	HandleUpdateDraft(c *gin.Context)
	HandlePickDueDate(c *gin.Context)
	HandlePickPriority(c *gin.Context)
	HandlePickStatus(c *gin.Context)
	HandleSubmitDraft(c *gin.Context)
	HandleCancelDraft(c *gin.Context)

	HandleBeginView(c *gin.Context)
	HandleCloseView(c *gin.Context)

	HandleExport(c *gin.Context)

	// Close ends all event streams and detaches from the task list.
	Close()
}

type handlerImpl struct {
	logger zerolog.Logger
	tokens services.TokenService
	events *stateBroker

	// mu serializes every call into tasks; it is the UI thread.
	mu             sync.Mutex
	tasks          services.TaskList
	unsubscribe    func()
	removeReporter func()
	closeOnce      sync.Once
}

// New returns the v1 handler. A nil token service disables
// authentication.
func New(
	logger zerolog.Logger,
	taskList services.TaskList,
	tokenService services.TokenService,
) Handler {
	h := &handlerImpl{
		logger: logger,
		tokens: tokenService,
		events: newStateBroker(),
		tasks:  taskList,
	}
	h.unsubscribe = taskList.Subscribe(h.events.publish)
	h.removeReporter = taskList.AddErrorReporter(services.ErrorReporterFunc(h.publishPersistenceError))
	return h
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.Use(h.HandleAuthMiddleware)

	router.GET("/state", h.HandleGetState)
	router.GET("/events", h.HandleEvents)

	tasksRouter := router.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)

	formRouter := router.Group("/form")
	formRouter.POST("/create", h.HandleBeginCreate)
	formRouter.POST("/edit/:id", h.HandleBeginEdit)
	formRouter.PATCH("", h.HandleUpdateDraft)
	formRouter.POST("/due-date", h.HandlePickDueDate)
	formRouter.POST("/priority", h.HandlePickPriority)
	formRouter.POST("/status", h.HandlePickStatus)
	formRouter.POST("/submit", h.HandleSubmitDraft)
	formRouter.POST("/cancel", h.HandleCancelDraft)

	viewRouter := router.Group("/view")
	viewRouter.POST("/:id", h.HandleBeginView)
	viewRouter.DELETE("", h.HandleCloseView)

	router.GET("/export", h.HandleExport)
}

func (h *handlerImpl) Close() {
	h.closeOnce.Do(func() {
		h.removeReporter()

		h.mu.Lock()
		h.unsubscribe()
		h.mu.Unlock()

		h.events.close()
		h.logger.Info().Msg("closed v1 handler")
	})
}

// withTasks runs fn on the UI thread.
func (h *handlerImpl) withTasks(fn func(tasks services.TaskList)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.tasks)
}

// publishPersistenceError pushes the state carrying a failed background
// save to event streams. It runs on the save goroutine.
func (h *handlerImpl) publishPersistenceError(err error) {
	h.logger.Warn().
		Err(err).
		Msg("publishing failed save")
	h.withTasks(func(tasks services.TaskList) {
		h.events.publish(tasks.State())
	})
}
