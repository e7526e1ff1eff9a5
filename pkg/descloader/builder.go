package descloader

import (
	"fmt"

	"github.com/busgraph/busgraph/pkg/abstraction"
	"github.com/busgraph/busgraph/pkg/communication"
	"github.com/busgraph/busgraph/pkg/elemgraph"
	"github.com/busgraph/busgraph/pkg/system"
)

// System holds the typed wrappers built from a description, indexed by
// the names used in the description file.
type System struct {
	Model       *elemgraph.Model
	Packages    map[string]*abstraction.Package
	Ecus        map[string]*system.EcuInstance
	Channels    map[string]*system.PhysicalChannel
	Signals     map[string]*communication.Signal
	Pdus        map[string]communication.Pdu
	Triggerings []*communication.PduTriggering
	Mappings    []*communication.ISignalToIPduMapping
}

// Build applies a description to an empty model section by section.
// Mutations apply directly; a failure leaves the model partially
// built, mirroring the behavior of the underlying operations.
func Build(model *elemgraph.Model, desc *Description) (*System, error) {
	sys := &System{
		Model:    model,
		Packages: make(map[string]*abstraction.Package),
		Ecus:     make(map[string]*system.EcuInstance),
		Channels: make(map[string]*system.PhysicalChannel),
		Signals:  make(map[string]*communication.Signal),
		Pdus:     make(map[string]communication.Pdu),
	}

	for _, name := range desc.Packages {
		pkg, err := abstraction.CreatePackage(model, name)
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", name, err)
		}
		sys.Packages[name] = pkg
	}

	for _, ecuDesc := range desc.Ecus {
		pkg, err := sys.packageByName(ecuDesc.Package)
		if err != nil {
			return nil, fmt.Errorf("ecu %q: %w", ecuDesc.Name, err)
		}
		ecu, err := system.CreateEcuInstance(pkg, ecuDesc.Name)
		if err != nil {
			return nil, fmt.Errorf("ecu %q: %w", ecuDesc.Name, err)
		}
		sys.Ecus[ecuDesc.Name] = ecu
	}

	for _, channelDesc := range desc.Channels {
		pkg, err := sys.packageByName(channelDesc.Package)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", channelDesc.Name, err)
		}
		channel, err := system.CreatePhysicalChannel(pkg, channelDesc.Name)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", channelDesc.Name, err)
		}
		for _, ecuName := range channelDesc.Ecus {
			ecu, ok := sys.Ecus[ecuName]
			if !ok {
				return nil, fmt.Errorf("channel %q: unknown ecu %q", channelDesc.Name, ecuName)
			}
			if _, err := channel.ConnectEcu(ecu); err != nil {
				return nil, fmt.Errorf("channel %q: %w", channelDesc.Name, err)
			}
		}
		sys.Channels[channelDesc.Name] = channel
	}

	for _, signalDesc := range desc.Signals {
		sigPkg, err := sys.packageByName(signalDesc.Package)
		if err != nil {
			return nil, fmt.Errorf("signal %q: %w", signalDesc.Name, err)
		}
		sysPkg, err := sys.packageByName(signalDesc.SystemPackage)
		if err != nil {
			return nil, fmt.Errorf("signal %q: %w", signalDesc.Name, err)
		}
		signal, err := communication.CreateSignal(signalDesc.Name, signalDesc.BitLength, sigPkg, sysPkg)
		if err != nil {
			return nil, fmt.Errorf("signal %q: %w", signalDesc.Name, err)
		}
		sys.Signals[signalDesc.Name] = signal
	}

	for _, pduDesc := range desc.Pdus {
		pkg, err := sys.packageByName(pduDesc.Package)
		if err != nil {
			return nil, fmt.Errorf("pdu %q: %w", pduDesc.Name, err)
		}
		pdu, err := buildPdu(pduDesc, pkg)
		if err != nil {
			return nil, fmt.Errorf("pdu %q: %w", pduDesc.Name, err)
		}
		sys.Pdus[pduDesc.Name] = pdu
	}

	for _, triggerDesc := range desc.Triggerings {
		pdu, ok := sys.Pdus[triggerDesc.Pdu]
		if !ok {
			return nil, fmt.Errorf("triggering: unknown pdu %q", triggerDesc.Pdu)
		}
		channel, ok := sys.Channels[triggerDesc.Channel]
		if !ok {
			return nil, fmt.Errorf("triggering: unknown channel %q", triggerDesc.Channel)
		}
		pt, err := communication.NewPduTriggering(pdu, channel)
		if err != nil {
			return nil, fmt.Errorf("triggering of %q on %q: %w", triggerDesc.Pdu, triggerDesc.Channel, err)
		}
		for _, conn := range triggerDesc.Connections {
			ecu, ok := sys.Ecus[conn.Ecu]
			if !ok {
				return nil, fmt.Errorf("triggering of %q: unknown ecu %q", triggerDesc.Pdu, conn.Ecu)
			}
			if _, err := pt.ConnectToEcu(ecu, conn.direction()); err != nil {
				return nil, fmt.Errorf("triggering of %q: %w", triggerDesc.Pdu, err)
			}
		}
		sys.Triggerings = append(sys.Triggerings, pt)
	}

	for _, mappingDesc := range desc.Mappings {
		pdu, ok := sys.Pdus[mappingDesc.Pdu]
		if !ok {
			return nil, fmt.Errorf("mapping: unknown pdu %q", mappingDesc.Pdu)
		}
		signalIPdu, ok := pdu.(*communication.ISignalIPdu)
		if !ok {
			return nil, fmt.Errorf("mapping: pdu %q does not carry signal mappings", mappingDesc.Pdu)
		}
		signal, ok := sys.Signals[mappingDesc.Signal]
		if !ok {
			return nil, fmt.Errorf("mapping: unknown signal %q", mappingDesc.Signal)
		}
		mapping, err := signalIPdu.MapSignal(
			signal,
			mappingDesc.StartPosition,
			mappingDesc.byteOrder(),
			mappingDesc.UpdateBit,
			mappingDesc.transferProperty(),
		)
		if err != nil {
			return nil, fmt.Errorf("mapping of %q into %q: %w", mappingDesc.Signal, mappingDesc.Pdu, err)
		}
		sys.Mappings = append(sys.Mappings, mapping)
	}

	return sys, nil
}

// Load is the one-call form: parse a description file and build it into
// a fresh system on the given model.
func Load(model *elemgraph.Model, path string) (*System, error) {
	desc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(model, desc)
}

func (s *System) packageByName(name string) (*abstraction.Package, error) {
	pkg, ok := s.Packages[name]
	if !ok {
		return nil, fmt.Errorf("unknown package %q", name)
	}
	return pkg, nil
}

func buildPdu(desc PduDescription, pkg *abstraction.Package) (communication.Pdu, error) {
	switch desc.Kind {
	case "isignal-ipdu":
		return communication.NewISignalIPdu(desc.Name, pkg, desc.Length)
	case "nm-pdu":
		return communication.NewNmPdu(desc.Name, pkg, desc.Length)
	case "n-pdu":
		return communication.NewNPdu(desc.Name, pkg, desc.Length)
	case "dcm-ipdu":
		return communication.NewDcmIPdu(desc.Name, pkg, desc.Length)
	case "general-purpose-pdu":
		return communication.NewGeneralPurposePdu(desc.Name, pkg, desc.Length)
	case "general-purpose-ipdu":
		return communication.NewGeneralPurposeIPdu(desc.Name, pkg, desc.Length)
	case "container-ipdu":
		return communication.NewContainerIPdu(desc.Name, pkg, desc.Length)
	case "secured-ipdu":
		return communication.NewSecuredIPdu(desc.Name, pkg, desc.Length)
	case "multiplexed-ipdu":
		return communication.NewMultiplexedIPdu(desc.Name, pkg, desc.Length)
	default:
		return nil, fmt.Errorf("unknown pdu kind %q", desc.Kind)
	}
}
