package keyboard

import (
	"github.com/futig/resume-assistant/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ButtonCheckFit is sent back as plain text when the user taps the fit button
const ButtonCheckFit = "Check Role Fit & Suggestions"

// Builder creates reply keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// ForStage returns the keyboard for a workflow stage. The fit button only
// exists once a resume is uploaded, before that the keyboard is removed.
func (b *Builder) ForStage(stage entity.Stage) any {
	if stage == entity.StageUploaded {
		return b.UploadedKeyboard()
	}
	return tgbotapi.NewRemoveKeyboard(false)
}

// UploadedKeyboard offers the fit check; questions are typed freely
func (b *Builder) UploadedKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonCheckFit),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
