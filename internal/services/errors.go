package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrArtifact      = errors.New("artifact error")
	ErrNotFound      = errors.New("not found")
	ErrInterrupted   = errors.New("interrupted")
)

// Wrap builds an error message that includes job context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, job, operation, message string, err error) error {
	detail := buildDetail(job, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Message returns a human-readable failure message with the sentinel prefix
// stripped, suitable for run reports and persisted job records.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	for _, marker := range []error{ErrExternalTool, ErrConfiguration, ErrArtifact, ErrNotFound, ErrInterrupted} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(msg, prefix))
		}
	}
	return msg
}

func buildDetail(job, operation, message string) string {
	parts := make([]string, 0, 3)
	if job = strings.TrimSpace(job); job != "" {
		parts = append(parts, job)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
