package messenger

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage rejects a send whose content is empty after trimming.
// Raised before any network call.
var ErrEmptyMessage = errors.New("message content is empty")

// SendFailure is a recoverable failed send. The optimistic entry has already
// been rolled back; Content carries the original text so the UI may restore
// the draft. This component never restores it itself.
type SendFailure struct {
	ConversationID string
	Content        string
	Err            error
}

func (f *SendFailure) Error() string {
	return fmt.Sprintf("failed to send message to conversation %s: %v", f.ConversationID, f.Err)
}

func (f *SendFailure) Unwrap() error {
	return f.Err
}
