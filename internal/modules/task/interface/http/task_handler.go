package handler

import (
	"strconv"

	"midorisky/internal/modules/task/application/service"
	"midorisky/internal/modules/task/domain/entity"
	"midorisky/pkg/back"
	"midorisky/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	Assignees   []string `json:"assignees"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, err.Error())
		return
	}

	task := &entity.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      entity.TaskStatusOutstanding,
		CreatedBy:   c.GetString("username"),
	}
	err := h.svc.CreateTask(c.Request.Context(), task, req.Assignees)
	back.Result(c, task, err)
}

type updateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      int    `json:"status"`
	Priority    int    `json:"priority"`
	Hidden      bool   `json:"hidden"`
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		back.Error(c, xerr.BadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, err.Error())
		return
	}

	task := &entity.Task{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Hidden:      req.Hidden,
	}
	err = h.svc.UpdateTask(c.Request.Context(), task)
	back.Result(c, task, err)
}

type assignTaskRequest struct {
	Assignees []string `json:"assignees" binding:"required"`
}

func (h *TaskHandler) Assign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		back.Error(c, xerr.BadRequest, "invalid task id")
		return
	}

	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, err.Error())
		return
	}

	err = h.svc.AssignTask(c.Request.Context(), id, req.Assignees)
	back.Result(c, nil, err)
}

type addCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (h *TaskHandler) Comment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		back.Error(c, xerr.BadRequest, "invalid task id")
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, err.Error())
		return
	}

	comment := &entity.TaskComment{
		TaskID:    id,
		Comment:   req.Comment,
		CreatedBy: c.GetString("username"),
	}
	err = h.svc.AddComment(c.Request.Context(), comment)
	back.Result(c, comment, err)
}
