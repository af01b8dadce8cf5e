package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasklist/internal/models"
	"github.com/adanyl0v/tasklist/internal/services"
)

type taskSummaryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTaskSummaryResponse(task *models.Task) taskSummaryResponse {
	return taskSummaryResponse{
		ID:    task.ID,
		Title: task.Title,
	}
}

func (h *handlerImpl) HandleGetState(c *gin.Context) {
	var state services.State
	h.withTasks(func(tasks services.TaskList) {
		state = tasks.State()
	})
	c.JSON(http.StatusOK, state)
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	var tasks []models.Task
	h.withTasks(func(list services.TaskList) {
		tasks = list.Tasks()
	})

	response := make([]taskSummaryResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskSummaryResponse(&task)
	}

	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID := c.Param("id")

	var (
		task  models.Task
		found bool
	)
	h.withTasks(func(list services.TaskList) {
		task, found = list.Task(taskID)
	})
	if !found {
		h.logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID := c.Param("id")

	var deleted bool
	h.withTasks(func(list services.TaskList) {
		deleted = list.DeleteTask(taskID)
	})
	if !deleted {
		// The task is already gone, which is what the caller asked for.
		h.logger.Debug().
			Str("task_id", taskID).
			Msg("task to delete not found")
	}

	c.Status(http.StatusNoContent)
}
