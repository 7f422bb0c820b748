package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"chainchat/internal/logging"
)

// SubmitFunc submits a confirm/reject decision for an action. txData is nil
// for rejections.
type SubmitFunc func(ctx context.Context, actionID string, txData json.RawMessage, confirm bool) error

// ErrDecisionInFlight is returned when a confirm/reject submission is started
// while another one is still outstanding.
var ErrDecisionInFlight = errors.New("confirmation already in flight")

// ErrNotReviewing is returned when a decision targets an action that is not
// awaiting confirmation.
var ErrNotReviewing = errors.New("action is not awaiting confirmation")

// ValidationError marks a locally detected problem with an edited payload.
// Nothing was sent to the backend.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid transaction payload: " + e.Reason
}

// IsValidationError reports whether err is a local payload validation failure.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ConfirmController tracks the action awaiting user confirmation, the inline
// edit buffer for its transaction payload, and the single-flight gate on
// decision submissions. At most one action has an open edit buffer at a time;
// the buffer is keyed to that action's identifier.
type ConfirmController struct {
	submit  SubmitFunc
	refresh func()

	mu           sync.Mutex
	editActionID string
	buffer       string
	inFlight     bool
}

// NewConfirmController builds a controller. refresh is invoked after a
// successful submission to re-fetch the transcript out of band; it may be nil.
func NewConfirmController(submit SubmitFunc, refresh func()) *ConfirmController {
	return &ConfirmController{submit: submit, refresh: refresh}
}

// OpenEditor opens the edit buffer for the given action, seeded with the
// pretty-printed task payload. It reports false, with no effect on an already
// open buffer, when the action is not in the reviewing state or another
// action's buffer is open. Reopening the same action's editor returns the
// current buffer with edits intact.
func (c *ConfirmController) OpenEditor(a Action) (string, bool) {
	if !a.State.Editable() || a.Task == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editActionID == a.ID {
		return c.buffer, true
	}
	if c.editActionID != "" {
		return "", false
	}
	seed, err := json.MarshalIndent(a.Task.Tx, "", "  ")
	if err != nil {
		return "", false
	}
	c.editActionID = a.ID
	c.buffer = string(seed)
	return c.buffer, true
}

// CloseEditor discards the edit buffer.
func (c *ConfirmController) CloseEditor() {
	c.mu.Lock()
	c.editActionID = ""
	c.buffer = ""
	c.mu.Unlock()
}

// SetBuffer replaces the edit buffer content. It reports false when no editor
// is open for the given action.
func (c *ConfirmController) SetBuffer(actionID, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editActionID != actionID || actionID == "" {
		return false
	}
	c.buffer = text
	return true
}

// Editing reports whether the edit buffer is open for the given action.
func (c *ConfirmController) Editing(actionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return actionID != "" && c.editActionID == actionID
}

// InFlight reports whether a decision submission is outstanding. The UI
// disables the confirm/reject controls while this is true.
func (c *ConfirmController) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Decide submits a confirm or reject decision for the action.
//
// On confirm, the edit buffer (when open for this action) is validated as JSON
// and sent as the transaction payload; with no open buffer the action's
// original task payload is sent unchanged. On reject a null payload is sent.
// A malformed edit buffer aborts before any network call and leaves both the
// action state and the buffer untouched.
//
// Only one decision may be in flight at a time; a second call no-ops with
// ErrDecisionInFlight. On success the edit buffer is cleared and the
// transcript re-fetched out of band; on failure the buffer is preserved so
// the user's edits survive, and the gate is released for retry.
func (c *ConfirmController) Decide(ctx context.Context, a Action, confirm bool) error {
	if a.State != StateReviewing {
		return ErrNotReviewing
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrDecisionInFlight
	}

	var txData json.RawMessage
	if confirm {
		if c.editActionID == a.ID && c.buffer != "" {
			if !json.Valid([]byte(c.buffer)) {
				c.mu.Unlock()
				return &ValidationError{Reason: "edited payload is not valid JSON"}
			}
			txData = json.RawMessage(c.buffer)
		} else {
			if a.Task == nil {
				c.mu.Unlock()
				return &ValidationError{Reason: "action has no task payload"}
			}
			raw, err := json.Marshal(a.Task.Tx)
			if err != nil {
				c.mu.Unlock()
				return &ValidationError{Reason: fmt.Sprintf("cannot serialize task payload: %v", err)}
			}
			txData = raw
		}
	}
	c.inFlight = true
	c.mu.Unlock()

	log := logging.L(logging.CategoryChat)
	err := c.submit(ctx, a.ID, txData, confirm)

	c.mu.Lock()
	c.inFlight = false
	if err == nil {
		c.editActionID = ""
		c.buffer = ""
	}
	c.mu.Unlock()

	if err != nil {
		log.Warnw("confirmation submission failed", "action_id", a.ID, "confirm", confirm, "error", err)
		return fmt.Errorf("failed to submit decision: %w", err)
	}

	log.Infow("confirmation submitted", "action_id", a.ID, "confirm", confirm)
	if c.refresh != nil {
		c.refresh()
	}
	return nil
}
