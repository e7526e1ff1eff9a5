package communication

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// ISignalToIPduMapping records the bit placement of one signal inside
// one ISignalIPdu. It belongs to exactly one PDU; the signal itself is
// only referenced.
type ISignalToIPduMapping struct {
	elem elemgraph.Element
}

func newISignalToIPduMapping(
	name string,
	mappings elemgraph.Element,
	signal *Signal,
	startPosition uint32,
	byteOrder ByteOrder,
	updateBit *uint32,
	transferProperty TransferProperty,
) (*ISignalToIPduMapping, error) {
	elem, err := mappings.CreateNamedSubElement(elemgraph.KindISignalToIPduMapping, name)
	if err != nil {
		return nil, err
	}

	sigRef, err := elem.CreateSubElement(elemgraph.KindISignalRef)
	if err != nil {
		return nil, err
	}
	if err := sigRef.SetReferenceTarget(signal.Element()); err != nil {
		return nil, err
	}

	orderElem, err := elem.CreateSubElement(elemgraph.KindPackingByteOrder)
	if err != nil {
		return nil, err
	}
	if err := orderElem.SetCharacterData(elemgraph.EnumData(byteOrder.enumItem())); err != nil {
		return nil, err
	}

	startElem, err := elem.CreateSubElement(elemgraph.KindStartPosition)
	if err != nil {
		return nil, err
	}
	if err := startElem.SetCharacterData(elemgraph.IntData(uint64(startPosition))); err != nil {
		return nil, err
	}

	propElem, err := elem.CreateSubElement(elemgraph.KindTransferProperty)
	if err != nil {
		return nil, err
	}
	if err := propElem.SetCharacterData(elemgraph.EnumData(transferProperty.enumItem())); err != nil {
		return nil, err
	}

	if updateBit != nil {
		updateElem, err := elem.CreateSubElement(elemgraph.KindUpdateIndicationBitPosition)
		if err != nil {
			return nil, err
		}
		if err := updateElem.SetCharacterData(elemgraph.IntData(uint64(*updateBit))); err != nil {
			return nil, err
		}
	}

	return &ISignalToIPduMapping{elem: elem}, nil
}

// ISignalToIPduMappingFromElement converts a graph element back into a mapping
func ISignalToIPduMappingFromElement(elem elemgraph.Element) (*ISignalToIPduMapping, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	if kind != elemgraph.KindISignalToIPduMapping {
		return nil, abstraction.NewConversionError(elem, "ISignalToIPduMapping")
	}
	return &ISignalToIPduMapping{elem: elem}, nil
}

// Element returns the underlying graph element
func (m *ISignalToIPduMapping) Element() elemgraph.Element {
	return m.elem
}

// Name returns the mapping's name
func (m *ISignalToIPduMapping) Name() (string, error) {
	return m.elem.Name()
}

// Signal resolves the mapped signal. The signal reference is mandatory;
// an unresolvable reference is an error.
func (m *ISignalToIPduMapping) Signal() (*Signal, error) {
	ref, ok := m.elem.GetSubElement(elemgraph.KindISignalRef)
	if !ok {
		return nil, abstraction.InvalidParameter("mapping has no signal reference")
	}
	target, err := ref.ReferenceTarget()
	if err != nil {
		return nil, err
	}
	return SignalFromElement(target)
}

// StartPosition returns the bit position of the signal inside the PDU
func (m *ISignalToIPduMapping) StartPosition() (uint32, bool) {
	startElem, ok := m.elem.GetSubElement(elemgraph.KindStartPosition)
	if !ok {
		return 0, false
	}
	data, err := startElem.CharacterData()
	if err != nil {
		return 0, false
	}
	value, ok := data.AsInt()
	if !ok {
		return 0, false
	}
	return uint32(value), true
}

// ByteOrder returns the packing byte order of the mapped signal
func (m *ISignalToIPduMapping) ByteOrder() (ByteOrder, error) {
	orderElem, ok := m.elem.GetSubElement(elemgraph.KindPackingByteOrder)
	if !ok {
		return ByteOrderMostSignificantByteFirst, abstraction.InvalidParameter("mapping has no byte order")
	}
	data, err := orderElem.CharacterData()
	if err != nil {
		return ByteOrderMostSignificantByteFirst, err
	}
	item, ok := data.AsEnum()
	if !ok {
		return ByteOrderMostSignificantByteFirst, &abstraction.ValueConversionError{Value: data.AsString(), Dest: "ByteOrder"}
	}
	return byteOrderFromEnum(item)
}

// UpdateBit returns the bit position of the update bit. Not all signals
// use an update bit; the second return value is false when none is set.
func (m *ISignalToIPduMapping) UpdateBit() (uint32, bool) {
	updateElem, ok := m.elem.GetSubElement(elemgraph.KindUpdateIndicationBitPosition)
	if !ok {
		return 0, false
	}
	data, err := updateElem.CharacterData()
	if err != nil {
		return 0, false
	}
	value, ok := data.AsInt()
	if !ok {
		return 0, false
	}
	return uint32(value), true
}

// TransferProperty returns the send-triggering policy of the mapped signal
func (m *ISignalToIPduMapping) TransferProperty() (TransferProperty, error) {
	propElem, ok := m.elem.GetSubElement(elemgraph.KindTransferProperty)
	if !ok {
		return TransferPropertyPending, abstraction.InvalidParameter("mapping has no transfer property")
	}
	data, err := propElem.CharacterData()
	if err != nil {
		return TransferPropertyPending, err
	}
	item, ok := data.AsEnum()
	if !ok {
		return TransferPropertyPending, &abstraction.ValueConversionError{Value: data.AsString(), Dest: "TransferProperty"}
	}
	return transferPropertyFromEnum(item)
}

// MappedSignals returns all signal mappings of this PDU in creation order
func (p *ISignalIPdu) MappedSignals() []*ISignalToIPduMapping {
	mappingsElem, ok := p.elem.GetSubElement(elemgraph.KindISignalToPduMappings)
	if !ok {
		return nil
	}
	var mappings []*ISignalToIPduMapping
	for _, child := range mappingsElem.SubElements() {
		if mapping, err := ISignalToIPduMappingFromElement(child); err == nil {
			mappings = append(mappings, mapping)
		}
	}
	return mappings
}

// PduTriggerings returns every triggering of this PDU, across all
// channels, discovered through the reverse-reference index.
func (p *ISignalIPdu) PduTriggerings() []*PduTriggering {
	path, err := p.elem.Path()
	if err != nil {
		return nil
	}
	return pduTriggeringsReferencing(p.elem.GraphModel(), path)
}

// pduTriggeringsReferencing resolves the PduTriggerings whose IPduRef
// points at the element identified by path.
func pduTriggeringsReferencing(model *elemgraph.Model, path string) []*PduTriggering {
	var triggerings []*PduTriggering
	for _, ref := range model.ReferencesTo(path) {
		kind, err := ref.Kind()
		if err != nil || kind != elemgraph.KindIPduRef {
			continue
		}
		owner, err := ref.NamedParent()
		if err != nil {
			continue
		}
		if pt, err := PduTriggeringFromElement(owner); err == nil {
			triggerings = append(triggerings, pt)
		}
	}
	return triggerings
}

// MapSignal places a signal at a bit offset inside this PDU and records
// the packing attributes. For every channel where the PDU is already
// triggered, a signal triggering is fanned out and inherits the PDU
// triggering's current port set, so the new signal picks up the
// existing ECU wiring without further calls.
//
// The fan-out mutates the graph step by step: when it fails partway the
// earlier triggerings remain, so callers must treat a failure as
// leaving the model partially updated.
//
// Bit ranges of sibling mappings are not checked for overlap.
func (p *ISignalIPdu) MapSignal(
	signal *Signal,
	startPosition uint32,
	byteOrder ByteOrder,
	updateBit *uint32,
	transferProperty TransferProperty,
) (*ISignalToIPduMapping, error) {
	signalName, err := signal.Name()
	if err != nil {
		return nil, abstraction.InvalidParameter("invalid signal")
	}

	for _, pt := range p.PduTriggerings() {
		if _, err := pt.AddSignalTriggering(signal); err != nil {
			return nil, err
		}
	}

	model := p.elem.GraphModel()
	basePath, err := p.elem.Path()
	if err != nil {
		return nil, err
	}
	name := abstraction.MakeUniqueName(model, basePath, signalName)

	mappings, err := p.elem.GetOrCreateSubElement(elemgraph.KindISignalToPduMappings)
	if err != nil {
		return nil, err
	}
	model.Record("map_signal", elemgraph.KindISignalIPdu.String())

	return newISignalToIPduMapping(name, mappings, signal, startPosition, byteOrder, updateBit, transferProperty)
}
