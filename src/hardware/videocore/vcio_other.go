//go:build !linux

package videocore

import "github.com/juju/errors"

const DefaultVcioPath = "/dev/vcio"

// Vcio only exists on Linux.
type Vcio struct{}

func OpenVcio(path string) (*Vcio, error) {
	return nil, errors.NotSupportedf("%s outside linux", path)
}

func (v *Vcio) Close() error {
	return nil
}

func (v *Vcio) Exchange(b *CommandBuffer) error {
	return errors.NotSupportedf("vcio exchange")
}
