package mail

import (
	"context"
	"errors"
	"fmt"
)

// Notifier delivers a day's pick to the configured recipient.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// SendError marks a mail transport failure. Delivery is best-effort: the
// scheduler logs these and drops the day's notification instead of retrying.
type SendError struct {
	StatusCode int
	Err        error
}

func (e *SendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("mail: send failed (status=%d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mail: send failed: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// AsSendError attempts to unwrap an error into a SendError.
func AsSendError(err error) (*SendError, bool) {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr, true
	}
	return nil, false
}
