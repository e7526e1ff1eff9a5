package communication

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/elemgraph"
	"github.com/busgraph/busgraph/pkg/system"
)

// testHarness provides a model with one channel and two attached ECUs
type testHarness struct {
	model   *elemgraph.Model
	netPkg  *abstraction.Package
	sysPkg  *abstraction.Package
	channel *system.PhysicalChannel
	ecuA    *system.EcuInstance
	ecuB    *system.EcuInstance
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	model := elemgraph.NewModel()
	netPkg, err := abstraction.CreatePackage(model, "Network")
	require.NoError(t, err)
	sysPkg, err := abstraction.CreatePackage(model, "System")
	require.NoError(t, err)

	channel, err := system.CreatePhysicalChannel(netPkg, "Can1")
	require.NoError(t, err)
	ecuA, err := system.CreateEcuInstance(netPkg, "EcuA")
	require.NoError(t, err)
	ecuB, err := system.CreateEcuInstance(netPkg, "EcuB")
	require.NoError(t, err)
	_, err = channel.ConnectEcu(ecuA)
	require.NoError(t, err)
	_, err = channel.ConnectEcu(ecuB)
	require.NoError(t, err)

	return &testHarness{
		model:   model,
		netPkg:  netPkg,
		sysPkg:  sysPkg,
		channel: channel,
		ecuA:    ecuA,
		ecuB:    ecuB,
	}
}

func (h *testHarness) signal(t *testing.T, name string, bits uint64) *Signal {
	t.Helper()
	signal, err := CreateSignal(name, bits, h.netPkg, h.sysPkg)
	require.NoError(t, err)
	return signal
}

func (h *testHarness) signalIPdu(t *testing.T, name string, length uint32) *ISignalIPdu {
	t.Helper()
	pdu, err := NewISignalIPdu(name, h.netPkg, length)
	require.NoError(t, err)
	return pdu
}

// portSet renders a triggering's ports as "Ecu/Direction" strings
func ipduPortSet(t *testing.T, pt *PduTriggering) map[string]bool {
	t.Helper()
	set := make(map[string]bool)
	for _, port := range pt.PduPorts() {
		set[portKey(t, port.Ecu, port.CommunicationDirection)] = true
	}
	return set
}

func signalPortSet(t *testing.T, st *ISignalTriggering) map[string]bool {
	t.Helper()
	set := make(map[string]bool)
	for _, port := range st.SignalPorts() {
		set[portKey(t, port.Ecu, port.CommunicationDirection)] = true
	}
	return set
}

func portKey(t *testing.T, ecuFn func() (*system.EcuInstance, error), dirFn func() (CommunicationDirection, error)) string {
	t.Helper()
	ecu, err := ecuFn()
	require.NoError(t, err)
	name, err := ecu.Name()
	require.NoError(t, err)
	direction, err := dirFn()
	require.NoError(t, err)
	return name + "/" + direction.String()
}

func TestNewPduTriggering(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)

	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)

	name, err := pt.Name()
	require.NoError(t, err)
	require.Equal(t, "PT_EngineData", name)

	channel, err := pt.PhysicalChannel()
	require.NoError(t, err)
	require.True(t, channel.Element().Equal(h.channel.Element()))

	triggered, err := pt.Pdu()
	require.NoError(t, err)
	require.True(t, triggered.Element().Equal(pdu.Element()))

	require.Empty(t, pt.SignalTriggerings())
	require.Empty(t, pt.PduPorts())
}

func TestNewPduTriggering_NameDisambiguation(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)

	first, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)
	second, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)

	firstName, err := first.Name()
	require.NoError(t, err)
	secondName, err := second.Name()
	require.NoError(t, err)
	require.Equal(t, "PT_EngineData", firstName)
	require.Equal(t, "PT_EngineData_1", secondName)

	// Both are discoverable through the reverse-reference index
	require.Len(t, pdu.PduTriggerings(), 2)
}

func TestNewPduTriggering_Backfill(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	speed := h.signal(t, "EngineSpeed", 16)
	temp := h.signal(t, "CoolantTemp", 8)

	_, err := pdu.MapSignal(speed, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)
	_, err = pdu.MapSignal(temp, 16, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)

	// Triggering the PDU after mapping back-fills one signal
	// triggering per mapped signal.
	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)

	triggerings := pt.SignalTriggerings()
	require.Len(t, triggerings, 2)

	var names []string
	for _, st := range triggerings {
		name, err := st.Name()
		require.NoError(t, err)
		names = append(names, name)
	}
	require.Equal(t, []string{"ST_EngineSpeed", "ST_CoolantTemp"}, names)

	// The back-filled triggerings resolve their signals
	signal, err := triggerings[0].Signal()
	require.NoError(t, err)
	require.True(t, signal.Element().Equal(speed.Element()))
}

func TestNewPduTriggering_NonSignalPdu(t *testing.T) {
	h := newTestHarness(t)
	nmPdu, err := NewNmPdu("Alive", h.netPkg, 8)
	require.NoError(t, err)

	pt, err := NewPduTriggering(nmPdu, h.channel)
	require.NoError(t, err)
	require.Empty(t, pt.SignalTriggerings())
}

func TestConnectToEcu_Idempotent(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)

	first, err := pt.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)
	second, err := pt.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)

	// Identity equality, not just equal attributes
	require.True(t, first.Element().Equal(second.Element()))
	require.Len(t, pt.PduPorts(), 1)

	// A different direction creates a second port
	_, err = pt.ConnectToEcu(h.ecuA, DirectionOut)
	require.NoError(t, err)
	require.Len(t, pt.PduPorts(), 2)
}

func TestConnectToEcu_PortPlacement(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)

	port, err := pt.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)

	name, err := port.Name()
	require.NoError(t, err)
	require.Equal(t, "PT_EngineData_Rx", name)

	path, err := port.Element().Path()
	require.NoError(t, err)
	require.Equal(t, "/Network/EcuA/Cn_Can1/PT_EngineData_Rx", path)

	ecu, err := port.Ecu()
	require.NoError(t, err)
	require.True(t, ecu.Equal(h.ecuA))

	direction, err := port.CommunicationDirection()
	require.NoError(t, err)
	require.Equal(t, DirectionIn, direction)
}

func TestConnectToEcu_NotConnected(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)

	stray, err := system.CreateEcuInstance(h.netPkg, "Stray")
	require.NoError(t, err)

	_, err = pt.ConnectToEcu(stray, DirectionIn)
	var paramErr *abstraction.InvalidParameterError
	require.True(t, errors.As(err, &paramErr), "got %v, want InvalidParameterError", err)
	require.Empty(t, pt.PduPorts())
}

func TestConnectToEcu_Propagation(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	speed := h.signal(t, "EngineSpeed", 16)
	temp := h.signal(t, "CoolantTemp", 8)

	_, err := pdu.MapSignal(speed, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)
	_, err = pdu.MapSignal(temp, 16, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)

	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)
	require.Len(t, pt.SignalTriggerings(), 2)

	_, err = pt.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)
	_, err = pt.ConnectToEcu(h.ecuB, DirectionOut)
	require.NoError(t, err)

	// Every child signal triggering carries the same (ECU, direction)
	// pairs as the PDU triggering.
	want := ipduPortSet(t, pt)
	require.Equal(t, map[string]bool{"EcuA/In": true, "EcuB/Out": true}, want)
	for _, st := range pt.SignalTriggerings() {
		require.Equal(t, want, signalPortSet(t, st))
	}
}

func TestSignalTriggering_ConnectIdempotent(t *testing.T) {
	h := newTestHarness(t)
	pdu := h.signalIPdu(t, "EngineData", 8)
	speed := h.signal(t, "EngineSpeed", 16)

	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)
	st, err := pt.AddSignalTriggering(speed)
	require.NoError(t, err)

	first, err := st.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)
	second, err := st.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)
	require.True(t, first.Element().Equal(second.Element()))
	require.Len(t, st.SignalPorts(), 1)
}

// TestDeploymentScenario walks the full deployment flow: topology
// first, then triggering, then wiring, then a late signal mapping that
// must inherit everything.
func TestDeploymentScenario(t *testing.T) {
	h := newTestHarness(t)

	// PDU with no mapped signals yet, triggered on the channel
	pdu := h.signalIPdu(t, "EngineData", 8)
	pt, err := NewPduTriggering(pdu, h.channel)
	require.NoError(t, err)
	require.Empty(t, pt.SignalTriggerings())

	// Wire the PDU triggering to both ECUs
	_, err = pt.ConnectToEcu(h.ecuA, DirectionIn)
	require.NoError(t, err)
	_, err = pt.ConnectToEcu(h.ecuB, DirectionOut)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"EcuA/In": true, "EcuB/Out": true}, ipduPortSet(t, pt))

	// Map a signal into the already-deployed PDU
	speed := h.signal(t, "EngineSpeed", 8)
	mapping, err := pdu.MapSignal(speed, 0, ByteOrderMostSignificantByteLast, nil, TransferPropertyTriggered)
	require.NoError(t, err)

	// A signal triggering appeared under the PDU triggering and
	// inherited the full port set without further calls.
	triggerings := pt.SignalTriggerings()
	require.Len(t, triggerings, 1)
	stName, err := triggerings[0].Name()
	require.NoError(t, err)
	require.Equal(t, "ST_EngineSpeed", stName)
	require.Equal(t, map[string]bool{"EcuA/In": true, "EcuB/Out": true}, signalPortSet(t, triggerings[0]))

	// The mapping record is in place
	mappings := pdu.MappedSignals()
	require.Len(t, mappings, 1)
	require.True(t, mappings[0].Element().Equal(mapping.Element()))
	start, ok := mapping.StartPosition()
	require.True(t, ok)
	require.Equal(t, uint32(0), start)
}
