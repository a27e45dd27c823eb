package render

import (
	"fmt"
	"strings"

	"github.com/futig/resume-assistant/internal/entity"
)

const (
	MsgWelcome = `Upload and Chat with Your Resume

1. Send the job role you are applying for (e.g. Data Scientist)
2. Send your resume as a PDF document
3. Ask questions about it or tap "Check Role Fit & Suggestions"`

	MsgHelp = `Commands:
/role <job role> - set the role to score against
/ask <question> - ask about the uploaded resume
/fit - check role fit and get suggestions
/help - show this message

Plain text sets the role until a resume is uploaded, after that it is sent as a question.
A caption on the document also sets the role.`

	MsgRoleUsage       = "Usage: /role <job role>"
	MsgAskUsage        = "Usage: /ask <question>"
	MsgUnknownCommand  = "Unknown command. Send /help for the list of commands."
	MsgUnsupported     = "Send a PDF document, a role or a question."
	MsgRateLimited     = "Too many messages. Please wait a moment."
	MsgDownloadFailed  = "Could not download the file from Telegram. Try again."
	MsgRoleQuestionTip = "Now send your resume as a PDF document."
)

// ErrGeneric is sent when a handler fails outside the workflow
const ErrGeneric = entity.MsgGeneric

func RoleSet(role string) string {
	return fmt.Sprintf("Role set: %s\n%s", role, MsgRoleQuestionTip)
}

func RoleUpdated(role string) string {
	return fmt.Sprintf("Role set: %s", role)
}

func Uploaded(filename string) string {
	return fmt.Sprintf("Uploaded: %s\nAsk something about your resume or tap %q.", filename, "Check Role Fit & Suggestions")
}

func Answer(answer string) string {
	return "Answer: " + answer
}

// FitResult renders the score and the suggestions, one per line
func FitResult(score, suggestions string) string {
	var b strings.Builder
	b.WriteString("Fit Score: ")
	b.WriteString(score)
	b.WriteString("\n\nSuggestions to Improve Resume:\n")
	b.WriteString(suggestions)
	return b.String()
}
