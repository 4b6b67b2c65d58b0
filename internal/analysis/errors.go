package analysis

import (
	"errors"
	"fmt"
)

// EmptyGroupError indicates a statistics group with no values.
type EmptyGroupError struct {
	Group string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %q has no values", e.Group)
}

// InsufficientDataError indicates too few values for a statistic.
type InsufficientDataError struct {
	What string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs at least %d values, got %d", e.What, e.Need, e.Got)
}

// ErrZeroVariance is returned when a regression predictor or response is constant.
var ErrZeroVariance = errors.New("zero variance")
