package todo_dto

import "time"

type CreateTodoRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	AssigneeID  string     `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

type UpdateTodoStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress done"`
}
