package sweep

import "fmt"

// UsageError reports a command used outside the context it is meaningful in,
// e.g. an attach-only command replayed against a detached turtle or a 3D
// rotation inside a shape recording. These abort the enclosing operation.
type UsageError struct {
	Command string
	Context string
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("command %s not valid in %s context: %s", e.Command, e.Context, e.Reason)
}

func usageError(op Op, context, reason string) error {
	return &UsageError{Command: op.String(), Context: context, Reason: reason}
}

// ErrNoBoundary is returned when a face group has no extractable boundary
// loop, which makes clone-face extrusion impossible.
var ErrNoBoundary = fmt.Errorf("face group has no closed boundary loop")
