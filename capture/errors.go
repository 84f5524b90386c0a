package capture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPermissionDenied reports that the platform or user refused access to
// the input device. It is not retryable without new user consent.
var ErrPermissionDenied = errors.New("capture: input device access denied")

// ErrReleased reports a read on a released device.
var ErrReleased = errors.New("capture: device released")

// classifyOpenError maps PortAudio open failures onto the analyzer's
// error taxonomy.
func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"denied", "permission", "not authorized"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("capture: open default input: %w", err)
}
