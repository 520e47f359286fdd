package oauth

import "net/http"

// Action tells the host how to continue after Authenticate.
type Action int

const (
	// ActionError aborts the request with an error.
	ActionError Action = iota
	// ActionRedirect sends the user agent to Location.
	ActionRedirect
	// ActionSuccess completes the login with User.
	ActionSuccess
	// ActionFail rejects the login with Message and Status.
	ActionFail
)

func (a Action) String() string {
	switch a {
	case ActionRedirect:
		return "redirect"
	case ActionSuccess:
		return "success"
	case ActionFail:
		return "fail"
	default:
		return "error"
	}
}

// Result is the outcome of a single Authenticate call.
type Result struct {
	User     any
	Err      error
	Location string
	Message  string
	Action   Action
	Status   int
}

// Redirect reports that the user agent must be sent to location.
func Redirect(location string) Result {
	return Result{Action: ActionRedirect, Location: location, Status: http.StatusFound}
}

// Success reports an authenticated user.
func Success(user any) Result {
	return Result{Action: ActionSuccess, User: user}
}

// Failed reports rejected credentials.
func Failed(message string, status int) Result {
	if status == 0 {
		status = http.StatusUnauthorized
	}
	return Result{Action: ActionFail, Message: message, Status: status}
}

// Errored reports an error that prevented authentication.
func Errored(err error) Result {
	return Result{Action: ActionError, Err: err}
}
