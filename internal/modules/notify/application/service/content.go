package service

import (
	"fmt"

	"midorisky/internal/modules/notify/domain/event"
)

// Content is the rendered (title, body) pair for one task-change action.
type Content struct {
	Title string
	Body  string
}

// RenderContent maps a task-change action to its notification content.
// Pure function; returns false for actions with no task-change rendering.
func RenderContent(action event.Action, taskTitle string) (Content, bool) {
	switch action {
	case event.ActionCreate:
		return Content{
			Title: "Task Created",
			Body:  fmt.Sprintf("A new task has been created: %s.", taskTitle),
		}, true
	case event.ActionUpdate:
		return Content{
			Title: "Task Updated",
			Body:  "A task you are assigned to has been updated.",
		}, true
	case event.ActionAssignee:
		return Content{
			Title: "Task Assigned",
			Body:  fmt.Sprintf("You have been assigned to a task: %s.", taskTitle),
		}, true
	}
	return Content{}, false
}

// RenderCommentContent builds the fixed comment notification. The comment
// text goes into the body verbatim.
func RenderCommentContent(taskTitle, comment string) Content {
	return Content{
		Title: taskTitle + " - New Task Comment",
		Body:  comment,
	}
}

// TaskURL is the action target for every task-related notification.
func TaskURL(taskID int64) string {
	return fmt.Sprintf("/staff/tasks?task=%d", taskID)
}
