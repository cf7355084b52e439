package internals

import (
	"github.com/hashicorp/go-multierror"
)

// This file handles an error collector obj, shared by the parser front and the checker

type ErrorCollector struct {
	Errors []error
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		Errors: make([]error, 0),
	}
}

func (ec *ErrorCollector) Add(err error) {
	ec.Errors = append(ec.Errors, err)
}

func (ec *ErrorCollector) AddAll(errs []error) {
	ec.Errors = append(ec.Errors, errs...)
}

func (ec *ErrorCollector) Len() int {
	return len(ec.Errors)
}

// ErrorOrNil folds everything collected so far into one error, nil when empty
func (ec *ErrorCollector) ErrorOrNil() error {
	if len(ec.Errors) == 0 {
		return nil
	}
	var merr *multierror.Error
	merr = multierror.Append(merr, ec.Errors...)
	return merr.ErrorOrNil()
}
