package system

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// PhysicalChannel represents one communication medium instance. It owns
// the triggerings of the PDUs and signals transmitted on it, and it
// records which ECUs are attached through their connectors.
type PhysicalChannel struct {
	elem elemgraph.Element
}

// CreatePhysicalChannel creates a new physical channel in the given package
func CreatePhysicalChannel(pkg *abstraction.Package, name string) (*PhysicalChannel, error) {
	elements, err := pkg.Elements()
	if err != nil {
		return nil, err
	}
	elem, err := elements.CreateNamedSubElement(elemgraph.KindPhysicalChannel, name)
	if err != nil {
		return nil, err
	}
	return &PhysicalChannel{elem: elem}, nil
}

// PhysicalChannelFromElement converts a graph element back into a PhysicalChannel
func PhysicalChannelFromElement(elem elemgraph.Element) (*PhysicalChannel, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindPhysicalChannel {
		return nil, abstraction.NewConversionError(elem, "PhysicalChannel")
	}
	return &PhysicalChannel{elem: elem}, nil
}

// Element returns the underlying graph element
func (c *PhysicalChannel) Element() elemgraph.Element {
	return c.elem
}

// Name returns the channel's short name
func (c *PhysicalChannel) Name() (string, error) {
	return c.elem.Name()
}

// ConnectEcu attaches an ECU to this channel by creating a
// communication connector below the ECU and referencing it from the
// channel. Connecting the same ECU again returns the existing
// connector.
func (c *PhysicalChannel) ConnectEcu(ecu *EcuInstance) (elemgraph.Element, error) {
	if connector, ok := c.EcuConnector(ecu); ok {
		return connector, nil
	}

	channelName, err := c.elem.Name()
	if err != nil {
		return elemgraph.Element{}, err
	}
	ecuPath, err := ecu.Element().Path()
	if err != nil {
		return elemgraph.Element{}, abstraction.InvalidParameter("invalid ecu")
	}

	connectorName := abstraction.MakeUniqueName(c.elem.GraphModel(), ecuPath, "Cn_"+channelName)
	connector, err := ecu.Element().CreateNamedSubElement(elemgraph.KindCommunicationConnector, connectorName)
	if err != nil {
		return elemgraph.Element{}, err
	}

	connectors, err := c.elem.GetOrCreateSubElement(elemgraph.KindConnectors)
	if err != nil {
		return elemgraph.Element{}, err
	}
	ref, err := connectors.CreateSubElement(elemgraph.KindConnectorRef)
	if err != nil {
		return elemgraph.Element{}, err
	}
	if err := ref.SetReferenceTarget(connector); err != nil {
		return elemgraph.Element{}, err
	}
	return connector, nil
}

// EcuConnector returns the communication connector that attaches the
// given ECU to this channel. The second return value is false when the
// ECU is not connected.
func (c *PhysicalChannel) EcuConnector(ecu *EcuInstance) (elemgraph.Element, bool) {
	connectors, ok := c.elem.GetSubElement(elemgraph.KindConnectors)
	if !ok {
		return elemgraph.Element{}, false
	}
	for _, ref := range connectors.SubElements() {
		connector, err := ref.ReferenceTarget()
		if err != nil {
			continue
		}
		owner, err := connector.NamedParent()
		if err != nil {
			continue
		}
		if owner.Equal(ecu.Element()) {
			return connector, true
		}
	}
	return elemgraph.Element{}, false
}

// Ecus returns the ECU instances attached to this channel
func (c *PhysicalChannel) Ecus() []*EcuInstance {
	connectors, ok := c.elem.GetSubElement(elemgraph.KindConnectors)
	if !ok {
		return nil
	}
	var ecus []*EcuInstance
	for _, ref := range connectors.SubElements() {
		connector, err := ref.ReferenceTarget()
		if err != nil {
			continue
		}
		owner, err := connector.NamedParent()
		if err != nil {
			continue
		}
		if ecu, err := EcuInstanceFromElement(owner); err == nil {
			ecus = append(ecus, ecu)
		}
	}
	return ecus
}
