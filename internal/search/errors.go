package search

import (
	"errors"
	"fmt"
)

// ErrSessionActive is returned when a new session is requested while another
// session is still live. At most one session runs at a time.
var ErrSessionActive = errors.New("another search session is already running")

// Step names for StepError, matching the workflow order.
const (
	StepEnroll           = "enroll"
	StepTrain            = "train"
	StepStartRecognition = "startRecognition"
	StepPoll             = "poll"
)

// StepError reports which remote workflow step failed. Failures in the three
// setup steps abort the session with no automatic retry; only the poll step
// retries transient failures internally before giving up.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("recognition step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
