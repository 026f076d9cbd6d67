package evaluate

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates the model's response contained no parseable
// JSON verdict array. The evaluation produced no verdicts.
var ErrMalformedResponse = errors.New("evaluation response contains no parseable JSON array")

// BackendError indicates the generation backend call itself failed
// (network, quota, timeout). The evaluation produced no verdicts.
type BackendError struct {
	Cause error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("evaluation backend call failed: %v", e.Cause)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}
