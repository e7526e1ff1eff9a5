package communication

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
	"github.com/busgraph/busgraph/pkg/system"
)

// IPduPort is the directional endpoint of a PDU triggering at one ECU's
// communication connector. At most one port exists per (triggering,
// ECU, direction) triple.
type IPduPort struct {
	elem elemgraph.Element
}

// IPduPortFromElement converts a graph element back into an IPduPort
func IPduPortFromElement(elem elemgraph.Element) (*IPduPort, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindIPduPort {
		return nil, abstraction.NewConversionError(elem, "IPduPort")
	}
	return &IPduPort{elem: elem}, nil
}

// Element returns the underlying graph element
func (p *IPduPort) Element() elemgraph.Element {
	return p.elem
}

// Name returns the port's name
func (p *IPduPort) Name() (string, error) {
	return p.elem.Name()
}

// Ecu returns the ECU owning the connector this port lives under
func (p *IPduPort) Ecu() (*system.EcuInstance, error) {
	return portEcu(p.elem)
}

// CommunicationDirection returns the port's direction
func (p *IPduPort) CommunicationDirection() (CommunicationDirection, error) {
	return portDirection(p.elem)
}

// ISignalPort is the directional endpoint of a signal triggering at one
// ECU's communication connector.
type ISignalPort struct {
	elem elemgraph.Element
}

// ISignalPortFromElement converts a graph element back into an ISignalPort
func ISignalPortFromElement(elem elemgraph.Element) (*ISignalPort, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindISignalPort {
		return nil, abstraction.NewConversionError(elem, "ISignalPort")
	}
	return &ISignalPort{elem: elem}, nil
}

// Element returns the underlying graph element
func (p *ISignalPort) Element() elemgraph.Element {
	return p.elem
}

// Name returns the port's name
func (p *ISignalPort) Name() (string, error) {
	return p.elem.Name()
}

// Ecu returns the ECU owning the connector this port lives under
func (p *ISignalPort) Ecu() (*system.EcuInstance, error) {
	return portEcu(p.elem)
}

// CommunicationDirection returns the port's direction
func (p *ISignalPort) CommunicationDirection() (CommunicationDirection, error) {
	return portDirection(p.elem)
}

// portEcu walks from a port to its owning ECU: the port's named parent
// is the communication connector, whose named parent is the ECU.
func portEcu(port elemgraph.Element) (*system.EcuInstance, error) {
	connector, err := port.NamedParent()
	if err != nil {
		return nil, err
	}
	ecuElem, err := connector.NamedParent()
	if err != nil {
		return nil, err
	}
	return system.EcuInstanceFromElement(ecuElem)
}

func portDirection(port elemgraph.Element) (CommunicationDirection, error) {
	directionElem, ok := port.GetSubElement(elemgraph.KindCommunicationDirection)
	if !ok {
		return DirectionIn, abstraction.InvalidParameter("port has no communication direction")
	}
	data, err := directionElem.CharacterData()
	if err != nil {
		return DirectionIn, err
	}
	item, ok := data.AsEnum()
	if !ok {
		return DirectionIn, &abstraction.ValueConversionError{Value: data.AsString(), Dest: "CommunicationDirection"}
	}
	return directionFromEnum(item)
}
