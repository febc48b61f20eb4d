package bridge

import "github.com/pkg/errors"

var (
	AcquisitionError     = errors.New("chip or line unavailable")
	IsAcquisitionError   = isErrorFunc(AcquisitionError)
	ConfigurationError   = errors.New("direction request failed")
	IsConfigurationError = isErrorFunc(ConfigurationError)

	maskAny = errors.WithStack
)

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
