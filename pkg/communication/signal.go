package communication

import (
	"errors"

	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// ErrNotImplemented is returned by operations whose API exists but
// whose behavior is not available yet.
var ErrNotImplemented = errors.New("not implemented")

// Signal is the combination of a transport signal and its paired system
// signal. The two halves must live in different packages: the transport
// side belongs to the network description, the system side to the
// application description.
type Signal struct {
	elem elemgraph.Element
}

// CreateSignal creates a signal of bitLength bits. The transport half is
// created in sigPackage, the paired system signal in sysPackage; using
// the same package for both fails with an invalid parameter error.
func CreateSignal(name string, bitLength uint64, sigPackage, sysPackage *abstraction.Package) (*Signal, error) {
	if sigPackage.Equal(sysPackage) {
		return nil, abstraction.InvalidParameter("the signal and its system signal must use different packages")
	}

	sigElements, err := sigPackage.Elements()
	if err != nil {
		return nil, err
	}
	sigElem, err := sigElements.CreateNamedSubElement(elemgraph.KindISignal, name)
	if err != nil {
		return nil, err
	}

	sysElements, err := sysPackage.Elements()
	if err != nil {
		return nil, err
	}
	sysElem, err := sysElements.CreateNamedSubElement(elemgraph.KindSystemSignal, name)
	if err != nil {
		return nil, err
	}

	lengthElem, err := sigElem.CreateSubElement(elemgraph.KindLength)
	if err != nil {
		return nil, err
	}
	if err := lengthElem.SetCharacterData(elemgraph.IntData(bitLength)); err != nil {
		return nil, err
	}

	sysRef, err := sigElem.CreateSubElement(elemgraph.KindSystemSignalRef)
	if err != nil {
		return nil, err
	}
	if err := sysRef.SetReferenceTarget(sysElem); err != nil {
		return nil, err
	}

	policy, err := sigElem.CreateSubElement(elemgraph.KindDataTypePolicy)
	if err != nil {
		return nil, err
	}
	if err := policy.SetCharacterData(elemgraph.EnumData(elemgraph.EnumOverride)); err != nil {
		return nil, err
	}

	return &Signal{elem: sigElem}, nil
}

// SignalFromElement converts a graph element back into a Signal
func SignalFromElement(elem elemgraph.Element) (*Signal, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindISignal {
		return nil, abstraction.NewConversionError(elem, "Signal")
	}
	return &Signal{elem: elem}, nil
}

// Element returns the underlying graph element
func (s *Signal) Element() elemgraph.Element {
	return s.elem
}

// Name returns the signal's short name
func (s *Signal) Name() (string, error) {
	return s.elem.Name()
}

// BitLength returns the signal's length in bits
func (s *Signal) BitLength() (uint64, bool) {
	lengthElem, ok := s.elem.GetSubElement(elemgraph.KindLength)
	if !ok {
		return 0, false
	}
	data, err := lengthElem.CharacterData()
	if err != nil {
		return 0, false
	}
	return data.AsInt()
}

// SystemSignal resolves the paired system signal element
func (s *Signal) SystemSignal() (elemgraph.Element, error) {
	ref, ok := s.elem.GetSubElement(elemgraph.KindSystemSignalRef)
	if !ok {
		return elemgraph.Element{}, abstraction.InvalidParameter("signal has no system signal reference")
	}
	return ref.ReferenceTarget()
}

// SetDatatype attaches an application datatype to the signal.
// Datatyping belongs to a later modeling stage and is not available yet.
func (s *Signal) SetDatatype() error {
	return ErrNotImplemented
}

// SetTransformation attaches a transformation chain to the signal.
// Transformation chains belong to a later modeling stage and are not
// available yet.
func (s *Signal) SetTransformation() error {
	return ErrNotImplemented
}

// SignalGroup is the combination of a transport signal group and its
// paired system signal group, under the same dual-package rule as
// Signal. It aggregates references to member signals.
type SignalGroup struct {
	elem elemgraph.Element
}

// CreateSignalGroup creates a signal group, pairing a transport group in
// sigPackage with a system group in sysPackage.
func CreateSignalGroup(name string, sigPackage, sysPackage *abstraction.Package) (*SignalGroup, error) {
	if sigPackage.Equal(sysPackage) {
		return nil, abstraction.InvalidParameter("the signal group and its system signal group must use different packages")
	}

	sigElements, err := sigPackage.Elements()
	if err != nil {
		return nil, err
	}
	grpElem, err := sigElements.CreateNamedSubElement(elemgraph.KindISignalGroup, name)
	if err != nil {
		return nil, err
	}

	sysElements, err := sysPackage.Elements()
	if err != nil {
		return nil, err
	}
	sysElem, err := sysElements.CreateNamedSubElement(elemgraph.KindSystemSignalGroup, name)
	if err != nil {
		return nil, err
	}

	sysRef, err := grpElem.CreateSubElement(elemgraph.KindSystemSignalGroupRef)
	if err != nil {
		return nil, err
	}
	if err := sysRef.SetReferenceTarget(sysElem); err != nil {
		return nil, err
	}

	return &SignalGroup{elem: grpElem}, nil
}

// SignalGroupFromElement converts a graph element back into a SignalGroup
func SignalGroupFromElement(elem elemgraph.Element) (*SignalGroup, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindISignalGroup {
		return nil, abstraction.NewConversionError(elem, "SignalGroup")
	}
	return &SignalGroup{elem: elem}, nil
}

// Element returns the underlying graph element
func (g *SignalGroup) Element() elemgraph.Element {
	return g.elem
}

// Name returns the group's short name
func (g *SignalGroup) Name() (string, error) {
	return g.elem.Name()
}

// AddSignal adds a signal to the group.
// TODO: needs group-to-PDU mapping support before membership can be
// wired consistently.
func (g *SignalGroup) AddSignal(_ *Signal) error {
	return ErrNotImplemented
}

// Signals returns the member signals of this group
func (g *SignalGroup) Signals() []*Signal {
	signalsElem, ok := g.elem.GetSubElement(elemgraph.KindSignals)
	if !ok {
		return nil
	}
	var signals []*Signal
	for _, ref := range signalsElem.SubElements() {
		target, err := ref.ReferenceTarget()
		if err != nil {
			continue
		}
		if signal, err := SignalFromElement(target); err == nil {
			signals = append(signals, signal)
		}
	}
	return signals
}
