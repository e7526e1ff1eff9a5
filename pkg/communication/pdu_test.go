package communication

import (
	"errors"
	"testing"

	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
)

func TestPduVariants_RoundTrip(t *testing.T) {
	netPkg, _ := testPackages(t)

	tests := []struct {
		name   string
		create func(name string) (Pdu, error)
		kind   elemgraph.Kind
	}{
		{"ISignalIPdu", func(n string) (Pdu, error) { return NewISignalIPdu(n, netPkg, 8) }, elemgraph.KindISignalIPdu},
		{"NmPdu", func(n string) (Pdu, error) { return NewNmPdu(n, netPkg, 8) }, elemgraph.KindNmPdu},
		{"NPdu", func(n string) (Pdu, error) { return NewNPdu(n, netPkg, 8) }, elemgraph.KindNPdu},
		{"DcmIPdu", func(n string) (Pdu, error) { return NewDcmIPdu(n, netPkg, 8) }, elemgraph.KindDcmIPdu},
		{"GeneralPurposePdu", func(n string) (Pdu, error) { return NewGeneralPurposePdu(n, netPkg, 8) }, elemgraph.KindGeneralPurposePdu},
		{"GeneralPurposeIPdu", func(n string) (Pdu, error) { return NewGeneralPurposeIPdu(n, netPkg, 8) }, elemgraph.KindGeneralPurposeIPdu},
		{"ContainerIPdu", func(n string) (Pdu, error) { return NewContainerIPdu(n, netPkg, 8) }, elemgraph.KindContainerIPdu},
		{"SecuredIPdu", func(n string) (Pdu, error) { return NewSecuredIPdu(n, netPkg, 8) }, elemgraph.KindSecuredIPdu},
		{"MultiplexedIPdu", func(n string) (Pdu, error) { return NewMultiplexedIPdu(n, netPkg, 8) }, elemgraph.KindMultiplexedIPdu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdu, err := tt.create("Pdu_" + tt.name)
			if err != nil {
				t.Fatalf("constructor failed: %v", err)
			}

			kind, err := pdu.Element().Kind()
			if err != nil || kind != tt.kind {
				t.Errorf("element kind = %v, want %v", kind, tt.kind)
			}

			// Downcasting the raw element yields the same variant
			roundTripped, err := PduFromElement(pdu.Element())
			if err != nil {
				t.Fatalf("PduFromElement failed: %v", err)
			}
			if !roundTripped.Element().Equal(pdu.Element()) {
				t.Error("round trip should yield a view onto the same element")
			}
		})
	}
}

func TestPduLength(t *testing.T) {
	netPkg, _ := testPackages(t)

	pdu, err := NewISignalIPdu("EngineData", netPkg, 64)
	if err != nil {
		t.Fatalf("NewISignalIPdu failed: %v", err)
	}
	length, ok := pdu.Length()
	if !ok || length != 64 {
		t.Errorf("Length() = %d, %v, want 64, true", length, ok)
	}
}

func TestPduFromElement_WrongKind(t *testing.T) {
	netPkg, sysPkg := testPackages(t)
	signal, err := CreateSignal("EngineSpeed", 16, netPkg, sysPkg)
	if err != nil {
		t.Fatalf("CreateSignal failed: %v", err)
	}

	_, err = PduFromElement(signal.Element())
	var convErr *abstraction.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("signal element to Pdu: got %v, want ConversionError", err)
	}
	if convErr.Dest != "Pdu" {
		t.Errorf("ConversionError.Dest = %q, want Pdu", convErr.Dest)
	}
	if convErr.Kind != elemgraph.KindISignal {
		t.Errorf("ConversionError.Kind = %v, want ISignal", convErr.Kind)
	}
	if convErr.Name != "EngineSpeed" {
		t.Errorf("ConversionError.Name = %q, want EngineSpeed", convErr.Name)
	}
}

func TestVariantFromElement_WrongVariant(t *testing.T) {
	netPkg, _ := testPackages(t)
	nmPdu, err := NewNmPdu("Alive", netPkg, 8)
	if err != nil {
		t.Fatalf("NewNmPdu failed: %v", err)
	}

	var convErr *abstraction.ConversionError
	if _, err := ISignalIPduFromElement(nmPdu.Element()); !errors.As(err, &convErr) {
		t.Fatalf("NmPdu element to ISignalIPdu: got %v, want ConversionError", err)
	}
	if convErr.Dest != "ISignalIPdu" {
		t.Errorf("ConversionError.Dest = %q, want ISignalIPdu", convErr.Dest)
	}
}

func TestEnumRoundTrips(t *testing.T) {
	byteOrders := []ByteOrder{
		ByteOrderMostSignificantByteFirst,
		ByteOrderMostSignificantByteLast,
		ByteOrderOpaque,
	}
	for _, order := range byteOrders {
		got, err := byteOrderFromEnum(order.enumItem())
		if err != nil || got != order {
			t.Errorf("byte order %v did not round trip: %v, %v", order, got, err)
		}
	}

	transferProperties := []TransferProperty{
		TransferPropertyPending,
		TransferPropertyTriggered,
		TransferPropertyTriggeredOnChange,
		TransferPropertyTriggeredOnChangeWithoutRepetition,
		TransferPropertyTriggeredWithoutRepetition,
	}
	for _, prop := range transferProperties {
		got, err := transferPropertyFromEnum(prop.enumItem())
		if err != nil || got != prop {
			t.Errorf("transfer property %v did not round trip: %v, %v", prop, got, err)
		}
	}

	for _, direction := range []CommunicationDirection{DirectionIn, DirectionOut} {
		got, err := directionFromEnum(direction.enumItem())
		if err != nil || got != direction {
			t.Errorf("direction %v did not round trip: %v, %v", direction, got, err)
		}
	}
}

func TestEnumConversion_UnknownToken(t *testing.T) {
	var valueErr *abstraction.ValueConversionError

	if _, err := transferPropertyFromEnum(elemgraph.EnumOverride); !errors.As(err, &valueErr) {
		t.Errorf("unknown transfer property token: got %v, want ValueConversionError", err)
	}
	if _, err := byteOrderFromEnum(elemgraph.EnumPending); !errors.As(err, &valueErr) {
		t.Errorf("unknown byte order token: got %v, want ValueConversionError", err)
	}
	if _, err := directionFromEnum(elemgraph.EnumAlways); !errors.As(err, &valueErr) {
		t.Errorf("unknown direction token: got %v, want ValueConversionError", err)
	}
}
