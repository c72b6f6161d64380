package handler

const (
	errInternalServer     = "Internal server error"
	errTodoNotFound       = "Todo not found"
	errUsernameTaken      = "A user with that username already exists"
	errInvalidCredentials = "No active account found with the given credentials"
)
