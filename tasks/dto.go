// Package tasks, as part of the task management module.
// This file, `dto.go`, defines the request payload shared by task creation and update.
package tasks

// TaskRequest carries the mutable fields of a task.
//
// Updates are full replacements: a field missing from the JSON body keeps its
// zero value here (empty title, null description/priority/dueDate, completed
// false) and that zero value is what gets stored.
type TaskRequest struct {
	Title       string  `json:"title" example:"Buy milk"`
	Description *string `json:"description" example:"Two litres"`
	Priority    *string `json:"priority" example:"LOW"`
	DueDate     *Date   `json:"dueDate" swaggertype:"string" format:"date" example:"2025-01-01"`
	Completed   bool    `json:"completed" example:"false"`
}

// ToTask builds a new, unowned task from the request.
func (r TaskRequest) ToTask() *Task {
	t := &Task{}
	t.Apply(r)
	return t
}
