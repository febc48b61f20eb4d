package pin

import "github.com/pkg/errors"

var (
	DirectionError   = errors.New("invalid direction")
	IsDirectionError = isErrorFunc(DirectionError)

	maskAny = errors.WithStack
)

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
