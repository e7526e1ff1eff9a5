package system

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// EcuInstance represents one electronic control unit of the network.
// Its communication connectors attach it to physical channels and own
// the port elements created when triggerings are wired to it.
type EcuInstance struct {
	elem elemgraph.Element
}

// CreateEcuInstance creates a new ECU instance in the given package
func CreateEcuInstance(pkg *abstraction.Package, name string) (*EcuInstance, error) {
	elements, err := pkg.Elements()
	if err != nil {
		return nil, err
	}
	elem, err := elements.CreateNamedSubElement(elemgraph.KindEcuInstance, name)
	if err != nil {
		return nil, err
	}
	return &EcuInstance{elem: elem}, nil
}

// EcuInstanceFromElement converts a graph element back into an EcuInstance
func EcuInstanceFromElement(elem elemgraph.Element) (*EcuInstance, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindEcuInstance {
		return nil, abstraction.NewConversionError(elem, "EcuInstance")
	}
	return &EcuInstance{elem: elem}, nil
}

// Element returns the underlying graph element
func (e *EcuInstance) Element() elemgraph.Element {
	return e.elem
}

// Name returns the ECU's short name
func (e *EcuInstance) Name() (string, error) {
	return e.elem.Name()
}

// Equal reports whether two wrappers view the same ECU element
func (e *EcuInstance) Equal(other *EcuInstance) bool {
	if other == nil {
		return false
	}
	return e.elem.Equal(other.elem)
}
