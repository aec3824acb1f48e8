package bot

import (
	"errors"

	"github.com/dvloznov/firefly-bot/internal/firefly"
	"github.com/dvloznov/firefly-bot/internal/parse"
)

// replyForError maps every failure to exactly one user-facing message.
// Nothing here is fatal: the user corrects their input or configuration and
// tries again.
func replyForError(err error) string {
	var apiErr *firefly.APIError

	switch {
	case errors.Is(err, parse.ErrNoMatch):
		return "Invalid input! Run /help to see the message format."
	case errors.Is(err, parse.ErrCategoryNotFound):
		return "Add the category to Firefly III and run /update first!"
	case errors.Is(err, parse.ErrSourceNotFound):
		return "Add the source account to Firefly III and run /update first!"
	case errors.Is(err, parse.ErrDestinationNotFound):
		return "Add the destination account to Firefly III and run /update first!"
	case errors.Is(err, parse.ErrSessionNotInitialized):
		return "Run /start first!"
	case errors.Is(err, parse.ErrUnsafeExpression), errors.Is(err, parse.ErrBadExpression):
		return "Invalid amount! Only numbers and + - * / ( ) are allowed."
	case errors.As(err, &apiErr):
		return "Operation failed, please try again."
	default:
		return "Operation failed, please try again."
	}
}
