package abstraction

import (
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// Package is a named scope owning model elements. Signals, PDUs, ECUs
// and channels are all created below a package's element container.
type Package struct {
	elem elemgraph.Element
}

// CreatePackage creates a new top-level package in the model
func CreatePackage(model *elemgraph.Model, name string) (*Package, error) {
	elem, err := model.CreateNamedElement(elemgraph.KindPackage, name)
	if err != nil {
		return nil, err
	}
	return &Package{elem: elem}, nil
}

// PackageFromElement converts a graph element back into a Package
func PackageFromElement(elem elemgraph.Element) (*Package, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindPackage {
		return nil, NewConversionError(elem, "Package")
	}
	return &Package{elem: elem}, nil
}

// Element returns the underlying graph element
func (p *Package) Element() elemgraph.Element {
	return p.elem
}

// Name returns the package name
func (p *Package) Name() (string, error) {
	return p.elem.Name()
}

// Equal reports whether two packages are views onto the same element
func (p *Package) Equal(other *Package) bool {
	if other == nil {
		return false
	}
	return p.elem.Equal(other.elem)
}

// Elements returns the package's element container, creating it on
// first use.
func (p *Package) Elements() (elemgraph.Element, error) {
	return p.elem.GetOrCreateSubElement(elemgraph.KindElements)
}
