package jobshop

import (
	"errors"
	"fmt"
)

const (
	MatrixProcessingTimes = "processing_times"
	MatrixRouting         = "routing"
)

// ErrInvalidInstance - базовая ошибка для всех ошибок Build.
var ErrInvalidInstance = errors.New("invalid instance")

// InvalidInstanceError указывает на ошибочную ячейку. Job и Stage равны -1,
// если правило относится ко всей матрице или строке.
type InvalidInstanceError struct {
	Matrix string
	Job    int
	Stage  int
	Reason string
}

func (e *InvalidInstanceError) Error() string {
	switch {
	case e.Job < 0:
		return fmt.Sprintf("invalid instance: %s: %s", e.Matrix, e.Reason)
	case e.Stage < 0:
		return fmt.Sprintf("invalid instance: %s[%d]: %s", e.Matrix, e.Job, e.Reason)
	default:
		return fmt.Sprintf("invalid instance: %s[%d][%d]: %s", e.Matrix, e.Job, e.Stage, e.Reason)
	}
}

func (e *InvalidInstanceError) Unwrap() error { return ErrInvalidInstance }

func invalid(matrix string, job, stage int, format string, args ...any) *InvalidInstanceError {
	return &InvalidInstanceError{
		Matrix: matrix,
		Job:    job,
		Stage:  stage,
		Reason: fmt.Sprintf(format, args...),
	}
}
