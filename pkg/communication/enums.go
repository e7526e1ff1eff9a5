package communication

import (
	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// CommunicationDirection describes whether an ECU receives or sends a
// PDU or signal at one of its ports.
type CommunicationDirection uint8

const (
	// DirectionIn marks a receiving (Rx) endpoint
	DirectionIn CommunicationDirection = iota
	// DirectionOut marks a sending (Tx) endpoint
	DirectionOut
)

func (d CommunicationDirection) String() string {
	if d == DirectionOut {
		return "Out"
	}
	return "In"
}

// portSuffix is the name suffix of port elements for this direction
func (d CommunicationDirection) portSuffix() string {
	if d == DirectionOut {
		return "Tx"
	}
	return "Rx"
}

func (d CommunicationDirection) enumItem() elemgraph.EnumItem {
	if d == DirectionOut {
		return elemgraph.EnumOut
	}
	return elemgraph.EnumIn
}

func directionFromEnum(item elemgraph.EnumItem) (CommunicationDirection, error) {
	switch item {
	case elemgraph.EnumIn:
		return DirectionIn, nil
	case elemgraph.EnumOut:
		return DirectionOut, nil
	default:
		return DirectionIn, &abstraction.ValueConversionError{Value: item.String(), Dest: "CommunicationDirection"}
	}
}

// ByteOrder describes the bit packing of a signal inside a PDU
type ByteOrder uint8

const (
	ByteOrderMostSignificantByteFirst ByteOrder = iota
	ByteOrderMostSignificantByteLast
	ByteOrderOpaque
)

func (b ByteOrder) String() string {
	switch b {
	case ByteOrderMostSignificantByteLast:
		return "MostSignificantByteLast"
	case ByteOrderOpaque:
		return "Opaque"
	default:
		return "MostSignificantByteFirst"
	}
}

func (b ByteOrder) enumItem() elemgraph.EnumItem {
	switch b {
	case ByteOrderMostSignificantByteLast:
		return elemgraph.EnumMostSignificantByteLast
	case ByteOrderOpaque:
		return elemgraph.EnumOpaque
	default:
		return elemgraph.EnumMostSignificantByteFirst
	}
}

func byteOrderFromEnum(item elemgraph.EnumItem) (ByteOrder, error) {
	switch item {
	case elemgraph.EnumMostSignificantByteFirst:
		return ByteOrderMostSignificantByteFirst, nil
	case elemgraph.EnumMostSignificantByteLast:
		return ByteOrderMostSignificantByteLast, nil
	case elemgraph.EnumOpaque:
		return ByteOrderOpaque, nil
	default:
		return ByteOrderMostSignificantByteFirst, &abstraction.ValueConversionError{Value: item.String(), Dest: "ByteOrder"}
	}
}

// TransferProperty is the policy governing when a transmitted signal
// value counts as changed for send-triggering purposes.
type TransferProperty uint8

const (
	TransferPropertyPending TransferProperty = iota
	TransferPropertyTriggered
	TransferPropertyTriggeredOnChange
	TransferPropertyTriggeredOnChangeWithoutRepetition
	TransferPropertyTriggeredWithoutRepetition
)

func (t TransferProperty) String() string {
	switch t {
	case TransferPropertyTriggered:
		return "Triggered"
	case TransferPropertyTriggeredOnChange:
		return "TriggeredOnChange"
	case TransferPropertyTriggeredOnChangeWithoutRepetition:
		return "TriggeredOnChangeWithoutRepetition"
	case TransferPropertyTriggeredWithoutRepetition:
		return "TriggeredWithoutRepetition"
	default:
		return "Pending"
	}
}

func (t TransferProperty) enumItem() elemgraph.EnumItem {
	switch t {
	case TransferPropertyTriggered:
		return elemgraph.EnumTriggered
	case TransferPropertyTriggeredOnChange:
		return elemgraph.EnumTriggeredOnChange
	case TransferPropertyTriggeredOnChangeWithoutRepetition:
		return elemgraph.EnumTriggeredOnChangeWithoutRepetition
	case TransferPropertyTriggeredWithoutRepetition:
		return elemgraph.EnumTriggeredWithoutRepetition
	default:
		return elemgraph.EnumPending
	}
}

func transferPropertyFromEnum(item elemgraph.EnumItem) (TransferProperty, error) {
	switch item {
	case elemgraph.EnumPending:
		return TransferPropertyPending, nil
	case elemgraph.EnumTriggered:
		return TransferPropertyTriggered, nil
	case elemgraph.EnumTriggeredOnChange:
		return TransferPropertyTriggeredOnChange, nil
	case elemgraph.EnumTriggeredOnChangeWithoutRepetition:
		return TransferPropertyTriggeredOnChangeWithoutRepetition, nil
	case elemgraph.EnumTriggeredWithoutRepetition:
		return TransferPropertyTriggeredWithoutRepetition, nil
	default:
		return TransferPropertyPending, &abstraction.ValueConversionError{Value: item.String(), Dest: "TransferProperty"}
	}
}

// PduCollectionTrigger controls whether a contained PDU triggers
// transmission of its container.
type PduCollectionTrigger uint8

const (
	PduCollectionTriggerAlways PduCollectionTrigger = iota
	PduCollectionTriggerNever
)

func (p PduCollectionTrigger) String() string {
	if p == PduCollectionTriggerNever {
		return "Never"
	}
	return "Always"
}
