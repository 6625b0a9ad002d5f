package model

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     int64  `json:"due_date"`
	Priority    int    `json:"priority"`
}

// UpdateTaskRequest is a partial patch; nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *int64  `json:"due_date"`
	Priority    *int    `json:"priority"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}
