package communication

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
	"github.com/busgraph/busgraph/pkg/system"
)

// PduTriggering binds one PDU to one physical channel: "this PDU is
// transmitted here". It owns one signal triggering per mapped signal
// and one port per connected (ECU, direction) pair. The central
// consistency rule: the port sets of a PDU triggering and of all its
// child signal triggerings always describe the same (ECU, direction)
// pairs.
type PduTriggering struct {
	elem elemgraph.Element
}

// NewPduTriggering triggers a PDU on a channel. The triggering is named
// PT_<pdu-name>, disambiguated when the PDU is triggered on the same
// channel more than once. If the PDU is an ISignalIPdu, one signal
// triggering per already-mapped signal is created immediately, so every
// mapped signal has a triggering from the moment the PDU itself does.
func NewPduTriggering(pdu Pdu, channel *system.PhysicalChannel) (*PduTriggering, error) {
	model := channel.Element().GraphModel()
	basePath, err := channel.Element().Path()
	if err != nil {
		return nil, err
	}
	pduName, err := pdu.Element().Name()
	if err != nil {
		return nil, abstraction.InvalidParameter("invalid pdu")
	}
	ptName := abstraction.MakeUniqueName(model, basePath, "PT_"+pduName)

	triggerings, err := channel.Element().GetOrCreateSubElement(elemgraph.KindPduTriggerings)
	if err != nil {
		return nil, err
	}
	ptElem, err := triggerings.CreateNamedSubElement(elemgraph.KindPduTriggering, ptName)
	if err != nil {
		return nil, err
	}
	pduRef, err := ptElem.CreateSubElement(elemgraph.KindIPduRef)
	if err != nil {
		return nil, err
	}
	if err := pduRef.SetReferenceTarget(pdu.Element()); err != nil {
		return nil, err
	}

	pt := &PduTriggering{elem: ptElem}

	if signalIPdu, ok := pdu.(*ISignalIPdu); ok {
		for _, mapping := range signalIPdu.MappedSignals() {
			signal, err := mapping.Signal()
			if err != nil {
				continue
			}
			if _, err := pt.AddSignalTriggering(signal); err != nil {
				return nil, err
			}
		}
	}

	return pt, nil
}

// PduTriggeringFromElement converts a graph element back into a PduTriggering
func PduTriggeringFromElement(elem elemgraph.Element) (*PduTriggering, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindPduTriggering {
		return nil, abstraction.NewConversionError(elem, "PduTriggering")
	}
	return &PduTriggering{elem: elem}, nil
}

// Element returns the underlying graph element
func (pt *PduTriggering) Element() elemgraph.Element {
	return pt.elem
}

// Name returns the triggering's name
func (pt *PduTriggering) Name() (string, error) {
	return pt.elem.Name()
}

// PhysicalChannel returns the channel that contains this triggering
func (pt *PduTriggering) PhysicalChannel() (*system.PhysicalChannel, error) {
	channelElem, err := pt.elem.NamedParent()
	if err != nil {
		return nil, err
	}
	return system.PhysicalChannelFromElement(channelElem)
}

// Pdu resolves the triggered PDU
func (pt *PduTriggering) Pdu() (Pdu, error) {
	ref, ok := pt.elem.GetSubElement(elemgraph.KindIPduRef)
	if !ok {
		return nil, abstraction.InvalidParameter("triggering has no pdu reference")
	}
	target, err := ref.ReferenceTarget()
	if err != nil {
		return nil, err
	}
	return PduFromElement(target)
}

// PduPorts returns the ports of this triggering in creation order
func (pt *PduTriggering) PduPorts() []*IPduPort {
	refs, ok := pt.elem.GetSubElement(elemgraph.KindIPduPortRefs)
	if !ok {
		return nil
	}
	var ports []*IPduPort
	for _, ref := range refs.SubElements() {
		target, err := ref.ReferenceTarget()
		if err != nil {
			continue
		}
		if port, err := IPduPortFromElement(target); err == nil {
			ports = append(ports, port)
		}
	}
	return ports
}

// SignalTriggerings returns the child signal triggerings in creation order
func (pt *PduTriggering) SignalTriggerings() []*ISignalTriggering {
	conditionals, ok := pt.elem.GetSubElement(elemgraph.KindISignalTriggerings)
	if !ok {
		return nil
	}
	var triggerings []*ISignalTriggering
	for _, cond := range conditionals.SubElements() {
		ref, ok := cond.GetSubElement(elemgraph.KindISignalTriggeringRef)
		if !ok {
			continue
		}
		target, err := ref.ReferenceTarget()
		if err != nil {
			continue
		}
		if st, err := ISignalTriggeringFromElement(target); err == nil {
			triggerings = append(triggerings, st)
		}
	}
	return triggerings
}

// AddSignalTriggering creates a signal triggering for signal on this
// triggering's channel and registers it as a child. The new triggering
// inherits the PDU triggering's current port set: one signal port per
// existing (ECU, direction) pair.
func (pt *PduTriggering) AddSignalTriggering(signal *Signal) (*ISignalTriggering, error) {
	channel, err := pt.PhysicalChannel()
	if err != nil {
		return nil, err
	}
	st, err := newISignalTriggering(signal, channel)
	if err != nil {
		return nil, err
	}

	conditionals, err := pt.elem.GetOrCreateSubElement(elemgraph.KindISignalTriggerings)
	if err != nil {
		return nil, err
	}
	cond, err := conditionals.CreateSubElement(elemgraph.KindISignalTriggeringRefConditional)
	if err != nil {
		return nil, err
	}
	ref, err := cond.CreateSubElement(elemgraph.KindISignalTriggeringRef)
	if err != nil {
		return nil, err
	}
	if err := ref.SetReferenceTarget(st.elem); err != nil {
		return nil, err
	}

	for _, port := range pt.PduPorts() {
		ecu, err := port.Ecu()
		if err != nil {
			continue
		}
		direction, err := port.CommunicationDirection()
		if err != nil {
			continue
		}
		if _, err := st.ConnectToEcu(ecu, direction); err != nil {
			return nil, err
		}
	}

	return st, nil
}

// ConnectToEcu creates a port connecting this triggering to an ECU with
// the given direction. Requesting an existing (ECU, direction) pair
// returns the existing port. The ECU must already be attached to the
// triggering's channel.
//
// Connecting a PDU triggering propagates to every child signal
// triggering, so all of them end up with a port for the same pair. The
// propagation applies child by child without rollback: a failure
// partway leaves earlier children connected.
func (pt *PduTriggering) ConnectToEcu(ecu *system.EcuInstance, direction CommunicationDirection) (*IPduPort, error) {
	for _, port := range pt.PduPorts() {
		existingEcu, err := port.Ecu()
		if err != nil {
			continue
		}
		existingDirection, err := port.CommunicationDirection()
		if err != nil {
			continue
		}
		if existingEcu.Equal(ecu) && existingDirection == direction {
			return port, nil
		}
	}

	portElem, err := createTriggeringPort(pt.elem, ecu, direction, elemgraph.KindIPduPort, elemgraph.KindIPduPortRefs, elemgraph.KindIPduPortRef)
	if err != nil {
		return nil, err
	}

	for _, st := range pt.SignalTriggerings() {
		if _, err := st.ConnectToEcu(ecu, direction); err != nil {
			return nil, err
		}
	}

	return &IPduPort{elem: portElem}, nil
}

// ISignalTriggering binds one signal to one physical channel, named
// ST_<signal-name>. It owns one signal port per connected (ECU,
// direction) pair.
type ISignalTriggering struct {
	elem elemgraph.Element
}

func newISignalTriggering(signal *Signal, channel *system.PhysicalChannel) (*ISignalTriggering, error) {
	model := channel.Element().GraphModel()
	basePath, err := channel.Element().Path()
	if err != nil {
		return nil, err
	}
	signalName, err := signal.Name()
	if err != nil {
		return nil, abstraction.InvalidParameter("invalid signal")
	}
	stName := abstraction.MakeUniqueName(model, basePath, "ST_"+signalName)

	triggerings, err := channel.Element().GetOrCreateSubElement(elemgraph.KindISignalTriggerings)
	if err != nil {
		return nil, err
	}
	stElem, err := triggerings.CreateNamedSubElement(elemgraph.KindISignalTriggering, stName)
	if err != nil {
		return nil, err
	}
	sigRef, err := stElem.CreateSubElement(elemgraph.KindISignalRef)
	if err != nil {
		return nil, err
	}
	if err := sigRef.SetReferenceTarget(signal.Element()); err != nil {
		return nil, err
	}

	model.Record("signal_triggering", elemgraph.KindISignalTriggering.String())
	return &ISignalTriggering{elem: stElem}, nil
}

// ISignalTriggeringFromElement converts a graph element back into an
// ISignalTriggering
func ISignalTriggeringFromElement(elem elemgraph.Element) (*ISignalTriggering, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindISignalTriggering {
		return nil, abstraction.NewConversionError(elem, "ISignalTriggering")
	}
	return &ISignalTriggering{elem: elem}, nil
}

// Element returns the underlying graph element
func (st *ISignalTriggering) Element() elemgraph.Element {
	return st.elem
}

// Name returns the triggering's name
func (st *ISignalTriggering) Name() (string, error) {
	return st.elem.Name()
}

// PhysicalChannel returns the channel that contains this triggering
func (st *ISignalTriggering) PhysicalChannel() (*system.PhysicalChannel, error) {
	channelElem, err := st.elem.NamedParent()
	if err != nil {
		return nil, err
	}
	return system.PhysicalChannelFromElement(channelElem)
}

// Signal resolves the triggered signal
func (st *ISignalTriggering) Signal() (*Signal, error) {
	ref, ok := st.elem.GetSubElement(elemgraph.KindISignalRef)
	if !ok {
		return nil, abstraction.InvalidParameter("triggering has no signal reference")
	}
	target, err := ref.ReferenceTarget()
	if err != nil {
		return nil, err
	}
	return SignalFromElement(target)
}

// SignalPorts returns the ports of this triggering in creation order
func (st *ISignalTriggering) SignalPorts() []*ISignalPort {
	refs, ok := st.elem.GetSubElement(elemgraph.KindISignalPortRefs)
	if !ok {
		return nil
	}
	var ports []*ISignalPort
	for _, ref := range refs.SubElements() {
		target, err := ref.ReferenceTarget()
		if err != nil {
			continue
		}
		if port, err := ISignalPortFromElement(target); err == nil {
			ports = append(ports, port)
		}
	}
	return ports
}

// ConnectToEcu creates a port connecting this triggering to an ECU with
// the given direction. Requesting an existing (ECU, direction) pair
// returns the existing port. The ECU must already be attached to the
// triggering's channel.
func (st *ISignalTriggering) ConnectToEcu(ecu *system.EcuInstance, direction CommunicationDirection) (*ISignalPort, error) {
	for _, port := range st.SignalPorts() {
		existingEcu, err := port.Ecu()
		if err != nil {
			continue
		}
		existingDirection, err := port.CommunicationDirection()
		if err != nil {
			continue
		}
		if existingEcu.Equal(ecu) && existingDirection == direction {
			return port, nil
		}
	}

	portElem, err := createTriggeringPort(st.elem, ecu, direction, elemgraph.KindISignalPort, elemgraph.KindISignalPortRefs, elemgraph.KindISignalPortRef)
	if err != nil {
		return nil, err
	}
	return &ISignalPort{elem: portElem}, nil
}

// createTriggeringPort creates a directional port element named
// <triggering>_<Rx|Tx> under the ECU's connector on the triggering's
// channel and registers it in the triggering's port reference list.
func createTriggeringPort(
	triggering elemgraph.Element,
	ecu *system.EcuInstance,
	direction CommunicationDirection,
	portKind, refsKind, refKind elemgraph.Kind,
) (elemgraph.Element, error) {
	channelElem, err := triggering.NamedParent()
	if err != nil {
		return elemgraph.Element{}, err
	}
	channel, err := system.PhysicalChannelFromElement(channelElem)
	if err != nil {
		return elemgraph.Element{}, err
	}
	connector, ok := channel.EcuConnector(ecu)
	if !ok {
		return elemgraph.Element{}, abstraction.InvalidParameter("the ECU is not connected to the channel")
	}

	name, err := triggering.Name()
	if err != nil {
		return elemgraph.Element{}, err
	}
	portName := name + "_" + direction.portSuffix()

	portInstances, err := connector.GetOrCreateSubElement(elemgraph.KindEcuCommPortInstances)
	if err != nil {
		return elemgraph.Element{}, err
	}
	portElem, err := portInstances.CreateNamedSubElement(portKind, portName)
	if err != nil {
		return elemgraph.Element{}, err
	}
	directionElem, err := portElem.CreateSubElement(elemgraph.KindCommunicationDirection)
	if err != nil {
		return elemgraph.Element{}, err
	}
	if err := directionElem.SetCharacterData(elemgraph.EnumData(direction.enumItem())); err != nil {
		return elemgraph.Element{}, err
	}

	refs, err := triggering.GetOrCreateSubElement(refsKind)
	if err != nil {
		return elemgraph.Element{}, err
	}
	ref, err := refs.CreateSubElement(refKind)
	if err != nil {
		return elemgraph.Element{}, err
	}
	if err := ref.SetReferenceTarget(portElem); err != nil {
		return elemgraph.Element{}, err
	}

	triggering.GraphModel().Record("connect_to_ecu", portKind.String())
	return portElem, nil
}
