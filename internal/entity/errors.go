package entity

import "errors"

// Domain errors
var (
	// Precondition errors
	ErrMissingFile = errors.New("resume file is missing")
	ErrMissingRole = errors.New("role is missing")
	ErrNotUploaded = errors.New("resume has not been uploaded")

	// Backend errors
	ErrUploadFailed    = errors.New("upload resume failed")
	ErrAskFailed       = errors.New("ask question failed")
	ErrFitFailed       = errors.New("fit score failed")
	ErrInvalidResponse = errors.New("invalid backend response")
)

// User-visible messages
const (
	MsgMissingFile  = "Please upload a resume"
	MsgMissingRole  = "Please enter a role before uploading"
	MsgNotUploaded  = "Please upload a resume first"
	MsgUploadFailed = "Failed to upload resume. Check backend connection."
	MsgAskFailed    = "Failed to get answer. Try again later."
	MsgFitFailed    = "Failed to get fit score. Please check your backend."
	MsgFileTooLarge = "The resume file is too large"
	MsgGeneric      = "Something went wrong. Try again."
)

// AlertError carries the message a view shows to the user, while Err keeps the cause for logs
type AlertError struct {
	Message string
	Err     error
}

func NewAlert(message string, err error) *AlertError {
	return &AlertError{Message: message, Err: err}
}

func (e *AlertError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// AlertMessage returns the user-facing text of err, or an empty string for nil
func AlertMessage(err error) string {
	if err == nil {
		return ""
	}

	var alert *AlertError
	if errors.As(err, &alert) {
		return alert.Message
	}
	return MsgGeneric
}
