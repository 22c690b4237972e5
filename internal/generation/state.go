package generation

import (
	"errors"

	apperrors "github.com/docuflow/docuflow/internal/errors"
)

// State is the terminal state a Generate call ended in
type State string

const (
	// Succeeded means the document was returned and saved.
	StateSucceeded State = "succeeded"
	// SessionExpired means the service rejected the token (or it had expired
	// locally) and the stored session was cleared.
	StateSessionExpired State = "session_expired"
	// ServerRejected means the service answered with a non-2xx status other than 401.
	StateServerRejected State = "server_rejected"
	// Unreachable means no response was received.
	StateUnreachable State = "unreachable"
	// Rejected means the request failed local checks and was never sent.
	StateRejected State = "rejected"
	// Failed means the document arrived but could not be saved.
	StateFailed State = "failed"
)

// StateOf maps the error returned by Generate onto its terminal state
func StateOf(err error) State {
	if err == nil {
		return StateSucceeded
	}
	if errors.Is(err, apperrors.ErrSessionExpired) {
		return StateSessionExpired
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindServer:
		return StateServerRejected
	case apperrors.KindNetwork:
		return StateUnreachable
	case apperrors.KindValidation, apperrors.KindAuth:
		return StateRejected
	default:
		return StateFailed
	}
}
