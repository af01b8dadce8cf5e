package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasklist/internal/export"
	"github.com/adanyl0v/tasklist/internal/models"
	"github.com/adanyl0v/tasklist/internal/services"
)

func (h *handlerImpl) HandleExport(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatJSON)

	var tasks []models.Task
	h.withTasks(func(list services.TaskList) {
		tasks = list.Tasks()
	})

	b, err := export.Export(tasks, format, time.Now())
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			h.logger.Error().
				Str("format", format).
				Msg("unknown export format")
			abort(c, newBadRequestError(err.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Str("format", format).
			Msg("failed to export tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Int("count", len(tasks)).
		Str("format", format).
		Msg("exported tasks")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, format))
	c.Data(http.StatusOK, export.ContentType(format), b)
}
