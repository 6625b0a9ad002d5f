package model

// APIResponse is the uniform envelope returned by every endpoint.
// Status is "success" or "error"; Errors carries detail text on failure.
type APIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Data    any     `json:"data"`
	Errors  *string `json:"errors"`
}

type UserOut struct {
	User        PublicUser `json:"user"`
	AccessToken string     `json:"accessToken"`
}

type TaskOut struct {
	Task Task `json:"task"`
}

type TaskListOut struct {
	Tasks []Task `json:"tasks"`
}
