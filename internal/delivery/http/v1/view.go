package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasklist/internal/services"
)

func (h *handlerImpl) HandleBeginView(c *gin.Context) {
	h.respond(c, func(tasks services.TaskList) error {
		return tasks.BeginView(c.Param("id"))
	})
}

func (h *handlerImpl) HandleCloseView(c *gin.Context) {
	var state services.State
	h.withTasks(func(tasks services.TaskList) {
		tasks.CloseView()
		state = tasks.State()
	})
	c.JSON(http.StatusOK, state)
}
