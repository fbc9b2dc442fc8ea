package tasks

// Task is a unit of work owned by at most one user.
//
// UserID is a plain foreign key value. It is nil for tasks created through the
// flat /api/tasks path and is never serialized.
type Task struct {
	ID          int64   `json:"id" example:"1"`
	Title       string  `json:"title" example:"Buy milk"`
	Description *string `json:"description" example:"Two litres"`
	Priority    *string `json:"priority" example:"LOW"`
	DueDate     *Date   `json:"dueDate" swaggertype:"string" format:"date" example:"2025-01-01"`
	Completed   bool    `json:"completed" example:"false"`
	UserID      *int64  `json:"-"`
}

// Apply overwrites every mutable field of t with the values in req.
// Identity and ownership are left as they are.
func (t *Task) Apply(req TaskRequest) {
	t.Title = req.Title
	t.Description = req.Description
	t.Priority = req.Priority
	t.DueDate = req.DueDate
	t.Completed = req.Completed
}
