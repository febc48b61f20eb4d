//go:build !linux

package bridge

import (
	"github.com/pkg/errors"
)

// NewChardevBridge is only supported on linux.
func NewChardevBridge(chipName string) (API, error) {
	return nil, errors.Wrap(AcquisitionError, "GPIO character device is only supported on linux")
}
