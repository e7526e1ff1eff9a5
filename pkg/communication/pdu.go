package communication

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// Pdu is the closed union over all PDU variants. Every variant wraps a
// single graph element tagged with the variant's kind; only ISignalIPdu
// carries signal mappings. The variant set is fixed: PduFromElement is
// the only way to obtain a Pdu from a raw element, and it dispatches
// exhaustively on the element's kind tag.
type Pdu interface {
	abstraction.Wrapper
	isPdu()
}

// newPduElement creates the graph element shared by all PDU
// constructors: a named element of the variant's kind plus a byte
// length attribute.
func newPduElement(kind elemgraph.Kind, name string, pkg *abstraction.Package, length uint32) (elemgraph.Element, error) {
	elements, err := pkg.Elements()
	if err != nil {
		return elemgraph.Element{}, err
	}
	elem, err := elements.CreateNamedSubElement(kind, name)
	if err != nil {
		return elemgraph.Element{}, err
	}
	lengthElem, err := elem.CreateSubElement(elemgraph.KindLength)
	if err != nil {
		return elemgraph.Element{}, err
	}
	if err := lengthElem.SetCharacterData(elemgraph.IntData(uint64(length))); err != nil {
		return elemgraph.Element{}, err
	}
	return elem, nil
}

// pduLength reads the byte length attribute of a PDU element
func pduLength(elem elemgraph.Element) (uint32, bool) {
	lengthElem, ok := elem.GetSubElement(elemgraph.KindLength)
	if !ok {
		return 0, false
	}
	data, err := lengthElem.CharacterData()
	if err != nil {
		return 0, false
	}
	value, ok := data.AsInt()
	if !ok {
		return 0, false
	}
	return uint32(value), true
}

func pduFromTypedElement(elem elemgraph.Element, kind elemgraph.Kind, dest string) (elemgraph.Element, error) {
	actual, err := elem.Kind()
	if err != nil {
		return elemgraph.Element{}, err
	}
	if actual != kind {
		return elemgraph.Element{}, abstraction.NewConversionError(elem, dest)
	}
	return elem, nil
}

// ISignalIPdu is the PDU variant handled by the communication stack's
// signal layer. It is the only variant that carries signal mappings.
type ISignalIPdu struct{ elem elemgraph.Element }

// NmPdu is a network management PDU
type NmPdu struct{ elem elemgraph.Element }

// NPdu is a transport layer PDU, used to segment and reassemble IPdus
type NPdu struct{ elem elemgraph.Element }

// DcmIPdu is the PDU variant handled by the diagnostic stack
type DcmIPdu struct{ elem elemgraph.Element }

// GeneralPurposePdu is a PDU without additional attributes that is
// routed by a bus interface
type GeneralPurposePdu struct{ elem elemgraph.Element }

// GeneralPurposeIPdu is a PDU without additional attributes that is
// routed by the PDU router
type GeneralPurposeIPdu struct{ elem elemgraph.Element }

// ContainerIPdu collects several IPdus into one unit
type ContainerIPdu struct{ elem elemgraph.Element }

// SecuredIPdu wraps an IPdu to protect it from unauthorized manipulation
type SecuredIPdu struct{ elem elemgraph.Element }

// MultiplexedIPdu carries one of several alternative signal PDUs
type MultiplexedIPdu struct{ elem elemgraph.Element }

func NewISignalIPdu(name string, pkg *abstraction.Package, length uint32) (*ISignalIPdu, error) {
	elem, err := newPduElement(elemgraph.KindISignalIPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &ISignalIPdu{elem: elem}, nil
}

func NewNmPdu(name string, pkg *abstraction.Package, length uint32) (*NmPdu, error) {
	elem, err := newPduElement(elemgraph.KindNmPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &NmPdu{elem: elem}, nil
}

func NewNPdu(name string, pkg *abstraction.Package, length uint32) (*NPdu, error) {
	elem, err := newPduElement(elemgraph.KindNPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &NPdu{elem: elem}, nil
}

func NewDcmIPdu(name string, pkg *abstraction.Package, length uint32) (*DcmIPdu, error) {
	elem, err := newPduElement(elemgraph.KindDcmIPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &DcmIPdu{elem: elem}, nil
}

func NewGeneralPurposePdu(name string, pkg *abstraction.Package, length uint32) (*GeneralPurposePdu, error) {
	elem, err := newPduElement(elemgraph.KindGeneralPurposePdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &GeneralPurposePdu{elem: elem}, nil
}

func NewGeneralPurposeIPdu(name string, pkg *abstraction.Package, length uint32) (*GeneralPurposeIPdu, error) {
	elem, err := newPduElement(elemgraph.KindGeneralPurposeIPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &GeneralPurposeIPdu{elem: elem}, nil
}

func NewContainerIPdu(name string, pkg *abstraction.Package, length uint32) (*ContainerIPdu, error) {
	elem, err := newPduElement(elemgraph.KindContainerIPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &ContainerIPdu{elem: elem}, nil
}

func NewSecuredIPdu(name string, pkg *abstraction.Package, length uint32) (*SecuredIPdu, error) {
	elem, err := newPduElement(elemgraph.KindSecuredIPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &SecuredIPdu{elem: elem}, nil
}

func NewMultiplexedIPdu(name string, pkg *abstraction.Package, length uint32) (*MultiplexedIPdu, error) {
	elem, err := newPduElement(elemgraph.KindMultiplexedIPdu, name, pkg, length)
	if err != nil {
		return nil, err
	}
	return &MultiplexedIPdu{elem: elem}, nil
}

func ISignalIPduFromElement(elem elemgraph.Element) (*ISignalIPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindISignalIPdu, "ISignalIPdu")
	if err != nil {
		return nil, err
	}
	return &ISignalIPdu{elem: typed}, nil
}

func NmPduFromElement(elem elemgraph.Element) (*NmPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindNmPdu, "NmPdu")
	if err != nil {
		return nil, err
	}
	return &NmPdu{elem: typed}, nil
}

func NPduFromElement(elem elemgraph.Element) (*NPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindNPdu, "NPdu")
	if err != nil {
		return nil, err
	}
	return &NPdu{elem: typed}, nil
}

func DcmIPduFromElement(elem elemgraph.Element) (*DcmIPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindDcmIPdu, "DcmIPdu")
	if err != nil {
		return nil, err
	}
	return &DcmIPdu{elem: typed}, nil
}

func GeneralPurposePduFromElement(elem elemgraph.Element) (*GeneralPurposePdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindGeneralPurposePdu, "GeneralPurposePdu")
	if err != nil {
		return nil, err
	}
	return &GeneralPurposePdu{elem: typed}, nil
}

func GeneralPurposeIPduFromElement(elem elemgraph.Element) (*GeneralPurposeIPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindGeneralPurposeIPdu, "GeneralPurposeIPdu")
	if err != nil {
		return nil, err
	}
	return &GeneralPurposeIPdu{elem: typed}, nil
}

func ContainerIPduFromElement(elem elemgraph.Element) (*ContainerIPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindContainerIPdu, "ContainerIPdu")
	if err != nil {
		return nil, err
	}
	return &ContainerIPdu{elem: typed}, nil
}

func SecuredIPduFromElement(elem elemgraph.Element) (*SecuredIPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindSecuredIPdu, "SecuredIPdu")
	if err != nil {
		return nil, err
	}
	return &SecuredIPdu{elem: typed}, nil
}

func MultiplexedIPduFromElement(elem elemgraph.Element) (*MultiplexedIPdu, error) {
	typed, err := pduFromTypedElement(elem, elemgraph.KindMultiplexedIPdu, "MultiplexedIPdu")
	if err != nil {
		return nil, err
	}
	return &MultiplexedIPdu{elem: typed}, nil
}

func (p *ISignalIPdu) Element() elemgraph.Element        { return p.elem }
func (p *NmPdu) Element() elemgraph.Element              { return p.elem }
func (p *NPdu) Element() elemgraph.Element               { return p.elem }
func (p *DcmIPdu) Element() elemgraph.Element            { return p.elem }
func (p *GeneralPurposePdu) Element() elemgraph.Element  { return p.elem }
func (p *GeneralPurposeIPdu) Element() elemgraph.Element { return p.elem }
func (p *ContainerIPdu) Element() elemgraph.Element      { return p.elem }
func (p *SecuredIPdu) Element() elemgraph.Element        { return p.elem }
func (p *MultiplexedIPdu) Element() elemgraph.Element    { return p.elem }

func (p *ISignalIPdu) isPdu()        {}
func (p *NmPdu) isPdu()              {}
func (p *NPdu) isPdu()               {}
func (p *DcmIPdu) isPdu()            {}
func (p *GeneralPurposePdu) isPdu()  {}
func (p *GeneralPurposeIPdu) isPdu() {}
func (p *ContainerIPdu) isPdu()      {}
func (p *SecuredIPdu) isPdu()        {}
func (p *MultiplexedIPdu) isPdu()    {}

func (p *ISignalIPdu) Name() (string, error)        { return p.elem.Name() }
func (p *NmPdu) Name() (string, error)              { return p.elem.Name() }
func (p *NPdu) Name() (string, error)               { return p.elem.Name() }
func (p *DcmIPdu) Name() (string, error)            { return p.elem.Name() }
func (p *GeneralPurposePdu) Name() (string, error)  { return p.elem.Name() }
func (p *GeneralPurposeIPdu) Name() (string, error) { return p.elem.Name() }
func (p *ContainerIPdu) Name() (string, error)      { return p.elem.Name() }
func (p *SecuredIPdu) Name() (string, error)        { return p.elem.Name() }
func (p *MultiplexedIPdu) Name() (string, error)    { return p.elem.Name() }

func (p *ISignalIPdu) Length() (uint32, bool)        { return pduLength(p.elem) }
func (p *NmPdu) Length() (uint32, bool)              { return pduLength(p.elem) }
func (p *NPdu) Length() (uint32, bool)               { return pduLength(p.elem) }
func (p *DcmIPdu) Length() (uint32, bool)            { return pduLength(p.elem) }
func (p *GeneralPurposePdu) Length() (uint32, bool)  { return pduLength(p.elem) }
func (p *GeneralPurposeIPdu) Length() (uint32, bool) { return pduLength(p.elem) }
func (p *ContainerIPdu) Length() (uint32, bool)      { return pduLength(p.elem) }
func (p *SecuredIPdu) Length() (uint32, bool)        { return pduLength(p.elem) }
func (p *MultiplexedIPdu) Length() (uint32, bool)    { return pduLength(p.elem) }

// PduFromElement converts a graph element into the matching Pdu
// variant. An element of any other kind fails with a ConversionError
// naming the element and the requested destination.
func PduFromElement(elem elemgraph.Element) (Pdu, error) {
	kind, err := elem.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case elemgraph.KindISignalIPdu:
		return ISignalIPduFromElement(elem)
	case elemgraph.KindNmPdu:
		return NmPduFromElement(elem)
	case elemgraph.KindNPdu:
		return NPduFromElement(elem)
	case elemgraph.KindDcmIPdu:
		return DcmIPduFromElement(elem)
	case elemgraph.KindGeneralPurposePdu:
		return GeneralPurposePduFromElement(elem)
	case elemgraph.KindGeneralPurposeIPdu:
		return GeneralPurposeIPduFromElement(elem)
	case elemgraph.KindContainerIPdu:
		return ContainerIPduFromElement(elem)
	case elemgraph.KindSecuredIPdu:
		return SecuredIPduFromElement(elem)
	case elemgraph.KindMultiplexedIPdu:
		return MultiplexedIPduFromElement(elem)
	default:
		return nil, abstraction.NewConversionError(elem, "Pdu")
	}
}
