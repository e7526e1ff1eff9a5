package abstraction

import (
	"fmt"

	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// InvalidParameterError reports an input that cannot be used: an
// unresolvable reference, a structural precondition that is not met, or
// two scope parameters that must differ but are equal.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter: %s", e.Reason)
}

// InvalidParameter builds an InvalidParameterError
func InvalidParameter(reason string) error {
	return &InvalidParameterError{Reason: reason}
}

// ConversionError reports a downcast of a graph element whose kind tag
// does not match the destination type. It names the offending element
// and the requested destination for diagnostics.
type ConversionError struct {
	Kind elemgraph.Kind
	Name string
	Dest string
}

func (e *ConversionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cannot convert %s %q to %s", e.Kind, e.Name, e.Dest)
	}
	return fmt.Sprintf("cannot convert %s element to %s", e.Kind, e.Dest)
}

// NewConversionError builds a ConversionError describing elem
func NewConversionError(elem elemgraph.Element, dest string) error {
	kind, err := elem.Kind()
	if err != nil {
		return err
	}
	name, _ := elem.Name()
	return &ConversionError{Kind: kind, Name: name, Dest: dest}
}

// ValueConversionError reports an enumerated value read from the graph
// that does not map to any recognized domain value.
type ValueConversionError struct {
	Value string
	Dest  string
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("cannot convert value %q to %s", e.Value, e.Dest)
}
