package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasklist/internal/services"
)

type updateDraftRequest struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

// pickRequest is the answer of a picker widget.
type pickRequest struct {
	Value     *string `json:"value,omitempty"`
	Cancelled bool    `json:"cancelled"`
}

type pickedDate struct {
	value     time.Time
	cancelled bool
}

func (p pickedDate) PickDate(context.Context, time.Time) (time.Time, bool) {
	return p.value, !p.cancelled
}

type pickedOption struct {
	value     string
	cancelled bool
}

func (p pickedOption) PickOption(context.Context, string, []string, string) (string, bool) {
	return p.value, !p.cancelled
}

func (h *handlerImpl) HandleBeginCreate(c *gin.Context) {
	var state services.State
	h.withTasks(func(tasks services.TaskList) {
		tasks.BeginCreate()
		state = tasks.State()
	})
	c.JSON(http.StatusOK, state)
}

func (h *handlerImpl) HandleBeginEdit(c *gin.Context) {
	h.respond(c, func(tasks services.TaskList) error {
		return tasks.BeginEdit(c.Param("id"))
	})
}

func (h *handlerImpl) HandleUpdateDraft(c *gin.Context) {
	var req updateDraftRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	h.respond(c, func(tasks services.TaskList) error {
		if !tasks.State().Form.Open {
			return services.ErrFormClosed
		}
		if req.Title != nil {
			err := tasks.SetDraftTitle(*req.Title)
			if err != nil {
				return err
			}
		}
		if req.Category != nil {
			err := tasks.SetDraftCategory(*req.Category)
			if err != nil {
				return err
			}
		}
		if req.Description != nil {
			err := tasks.SetDraftDescription(*req.Description)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *handlerImpl) HandlePickDueDate(c *gin.Context) {
	req, ok := h.bindPick(c)
	if !ok {
		return
	}

	picked := pickedDate{cancelled: req.Cancelled}
	if !req.Cancelled {
		dueDate, err := time.Parse(time.RFC3339Nano, *req.Value)
		if err != nil {
			h.logger.Error().
				Err(err).
				Str("value", *req.Value).
				Msg("failed to parse due date")
			abort(c, newBadRequestError("due date must be an ISO-8601 timestamp"))
			return
		}
		picked.value = dueDate
	}

	h.respond(c, func(tasks services.TaskList) error {
		return tasks.PickDueDate(c, picked)
	})
}

func (h *handlerImpl) HandlePickPriority(c *gin.Context) {
	req, ok := h.bindPick(c)
	if !ok {
		return
	}

	h.respond(c, func(tasks services.TaskList) error {
		return tasks.PickPriority(c, newPickedOption(req))
	})
}

func (h *handlerImpl) HandlePickStatus(c *gin.Context) {
	req, ok := h.bindPick(c)
	if !ok {
		return
	}

	h.respond(c, func(tasks services.TaskList) error {
		return tasks.PickStatus(c, newPickedOption(req))
	})
}

func (h *handlerImpl) HandleSubmitDraft(c *gin.Context) {
	h.respond(c, func(tasks services.TaskList) error {
		return tasks.SubmitDraft()
	})
}

func (h *handlerImpl) HandleCancelDraft(c *gin.Context) {
	var state services.State
	h.withTasks(func(tasks services.TaskList) {
		tasks.CancelDraft()
		state = tasks.State()
	})
	c.JSON(http.StatusOK, state)
}

func newPickedOption(req pickRequest) pickedOption {
	picked := pickedOption{cancelled: req.Cancelled}
	if req.Value != nil {
		picked.value = *req.Value
	}
	return picked
}

func (h *handlerImpl) bindPick(c *gin.Context) (pickRequest, bool) {
	var req pickRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return req, false
	}
	if !req.Cancelled && req.Value == nil {
		h.logger.Error().Msg("picked value missing")
		abort(c, newBadRequestError(errMissingValue.Error()))
		return req, false
	}
	return req, true
}

// respond runs op on the UI thread and answers with the resulting
// state, or with the mapped error if op failed.
func (h *handlerImpl) respond(c *gin.Context, op func(tasks services.TaskList) error) {
	var (
		state services.State
		err   error
	)
	h.withTasks(func(tasks services.TaskList) {
		err = op(tasks)
		state = tasks.State()
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("path", c.FullPath()).
			Msg("task list rejected request")
		abort(c, newTaskListError(err))
		return
	}
	c.JSON(http.StatusOK, state)
}
