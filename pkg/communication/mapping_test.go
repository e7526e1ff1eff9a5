package communication

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/system"
)

func TestMapSignal_Attributes(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	speed := h.signal(t, "EngineSpeed", 16)

	updateBit := uint32(47)
	mapping, err := pdu.MapSignal(speed, 8, ByteOrderMostSignificantByteFirst, &updateBit, TransferPropertyTriggeredOnChange)
	require.NoError(t, err)

	name, err := mapping.Name()
	require.NoError(t, err)
	require.Equal(t, "EngineSpeed", name)

	signal, err := mapping.Signal()
	require.NoError(t, err)
	require.True(t, signal.Element().Equal(speed.Element()))

	start, ok := mapping.StartPosition()
	require.True(t, ok)
	require.Equal(t, uint32(8), start)

	order, err := mapping.ByteOrder()
	require.NoError(t, err)
	require.Equal(t, ByteOrderMostSignificantByteFirst, order)

	bit, ok := mapping.UpdateBit()
	require.True(t, ok)
	require.Equal(t, uint32(47), bit)

	prop, err := mapping.TransferProperty()
	require.NoError(t, err)
	require.Equal(t, TransferPropertyTriggeredOnChange, prop)
}

func TestMapSignal_NoUpdateBit(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	temp := h.signal(t, "CoolantTemp", 8)

	mapping, err := pdu.MapSignal(temp, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyPending)
	require.NoError(t, err)

	_, ok := mapping.UpdateBit()
	require.False(t, ok)
}

func TestMapSignal_UniqueNames(t *testing.T) {
	model := newTestHarness(t)
	pkgA, err := abstraction.CreatePackage(model.model, "SensorsA")
	require.NoError(t, err)
	pkgB, err := abstraction.CreatePackage(model.model, "SensorsB")
	require.NoError(t, err)

	// Two signals may share a short name as long as they live in
	// different packages.
	speedA, err := CreateSignal("Speed", 16, pkgA, model.sysPkg)
	require.NoError(t, err)
	speedB, err := CreateSignal("Speed", 16, pkgB, model.sysPkg)
	require.NoError(t, err)

	pdu := model.signalIPdu(t, "EngineData", 8)
	first, err := pdu.MapSignal(speedA, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)
	second, err := pdu.MapSignal(speedB, 16, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)

	// Mapping names live in the PDU's scope, so the second gets a
	// numeric suffix.
	firstName, err := first.Name()
	require.NoError(t, err)
	secondName, err := second.Name()
	require.NoError(t, err)
	require.Equal(t, "Speed", firstName)
	require.Equal(t, "Speed_1", secondName)

	require.Len(t, pdu.MappedSignals(), 2)
}

func TestMapSignal_FanOut(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)

	// Trigger the PDU on two channels with different wiring
	can2, err := system.CreatePhysicalChannel(h.netPkg, "Can2")
	require.NoError(t, err)
	_, err = can2.ConnectEcu(h.ecuB)
	require.NoError(t, err)

	pt1, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)
	pt2, err := NewPduTriggering(pdu, can2)
	require.NoError(t, err)

	_, err = pt1.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)
	_, err = pt1.ConnectToEcu(h.ecuB, DirectionOut)
	require.NoError(t, err)
	_, err = pt2.ConnectToEcu(h.ecuB, DirectionOut)
	require.NoError(t, err)

	speed := h.signal(t, "EngineSpeed", 8)
	_, err = pdu.MapSignal(speed, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)

	// Exactly one signal triggering per existing PDU triggering, each
	// inheriting its parent's port set.
	for _, pt := range []*PduTriggering{pt1, pt2} {
		triggerings := pt.SignalTriggerings()
		require.Len(t, triggerings, 1)
		require.Equal(t, ipduPortSet(t, pt), signalPortSet(t, triggerings[0]))
	}
}

func TestMapSignal_NoTriggerings(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	speed := h.signal(t, "EngineSpeed", 8)

	_, err := pdu.MapSignal(speed, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)

	require.Empty(t, pdu.PduTriggerings())
	require.Len(t, pdu.MappedSignals(), 1)
}

func TestMapSignal_InvalidSignal(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	speed := h.signal(t, "EngineSpeed", 8)

	// A deleted signal is rejected before the graph is touched
	require.NoError(t, h.model.RemoveElement(speed.Element()))

	_, err := pdu.MapSignal(speed, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	var paramErr *abstraction.InvalidParameterError
	require.True(t, errors.As(err, &paramErr), "got %v, want InvalidParameterError", err)
	require.Empty(t, pdu.MappedSignals())
}
