// busgraph-demo builds a communication model - either from a YAML
// system description or a built-in example - and reports how PDU and
// signal triggerings were fanned out over the channels.
package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/busgraph/busgraph/pkg/communication"
	"github.com/busgraph/busgraph/pkg/descloader"
	"github.com/busgraph/busgraph/pkg/elemgraph"
	"github.com/busgraph/busgraph/pkg/metrics"
	"github.com/busgraph/busgraph/pkg/snapshot"
)

const exampleDescription = `
packages: [Network, System]
ecus:
  - name: EcuA
    package: Network
  - name: EcuB
    package: Network
channels:
  - name: Can1
    package: Network
    ecus: [EcuA, EcuB]
signals:
  - name: EngineSpeed
    bitLength: 16
    package: Network
    systemPackage: System
  - name: CoolantTemp
    bitLength: 8
    package: Network
    systemPackage: System
pdus:
  - name: EngineData
    kind: isignal-ipdu
    length: 8
    package: Network
triggerings:
  - pdu: EngineData
    channel: Can1
    connections:
      - ecu: EcuA
        direction: out
      - ecu: EcuB
        direction: in
mappings:
  - pdu: EngineData
    signal: EngineSpeed
    startPosition: 0
    byteOrder: most-significant-byte-last
    transferProperty: triggered
  - pdu: EngineData
    signal: CoolantTemp
    startPosition: 16
    transferProperty: triggered-on-change
`

func main() {
	descPath := flag.String("desc", "", "system description YAML file (built-in example when empty)")
	snapshotPath := flag.String("snapshot", "", "write a model snapshot to this file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	registry := metrics.NewRegistry()
	model := elemgraph.NewModelWithConfig(elemgraph.Config{Recorder: registry})

	var desc *descloader.Description
	if *descPath != "" {
		desc, err = descloader.ParseFile(*descPath)
		if err != nil {
			logger.Fatal("Failed to load description", zap.Error(err))
		}
		logger.Info("Description loaded", zap.String("file", *descPath))
	} else {
		desc, err = descloader.Parse([]byte(exampleDescription))
		if err != nil {
			logger.Fatal("Failed to parse built-in description", zap.Error(err))
		}
		logger.Info("Using built-in example description")
	}

	sys, err := descloader.Build(model, desc)
	if err != nil {
		logger.Fatal("Failed to build system", zap.Error(err))
	}
	logger.Info("System built",
		zap.String("model", model.UUID().String()),
		zap.Int("elements", model.ElementCount()),
		zap.Int("ecus", len(sys.Ecus)),
		zap.Int("channels", len(sys.Channels)),
		zap.Int("pdus", len(sys.Pdus)),
		zap.Int("signals", len(sys.Signals)),
	)

	for _, pt := range sys.Triggerings {
		reportTriggering(logger, pt)
	}

	logger.Info("Fan-out activity",
		zap.Float64("signalTriggerings", registry.OpCount("signal_triggering", "ISignalTriggering")),
		zap.Float64("pduPorts", registry.OpCount("connect_to_ecu", "IPduPort")),
		zap.Float64("signalPorts", registry.OpCount("connect_to_ecu", "ISignalPort")),
	)

	if *snapshotPath != "" {
		if err := snapshot.Save(model, *snapshotPath); err != nil {
			logger.Fatal("Failed to write snapshot", zap.Error(err))
		}
		logger.Info("Snapshot written", zap.String("file", *snapshotPath))
	}
}

func reportTriggering(logger *zap.Logger, pt *communication.PduTriggering) {
	name, err := pt.Name()
	if err != nil {
		logger.Warn("Triggering vanished", zap.Error(err))
		return
	}
	var ports []string
	for _, port := range pt.PduPorts() {
		ports = append(ports, describePort(port))
	}
	var signals []string
	for _, st := range pt.SignalTriggerings() {
		stName, err := st.Name()
		if err != nil {
			continue
		}
		signals = append(signals, stName)
	}
	logger.Info("PDU triggering",
		zap.String("name", name),
		zap.Strings("ports", ports),
		zap.Strings("signalTriggerings", signals),
	)
}

func describePort(port *communication.IPduPort) string {
	ecu, err := port.Ecu()
	if err != nil {
		return "?"
	}
	ecuName, err := ecu.Name()
	if err != nil {
		return "?"
	}
	direction, err := port.CommunicationDirection()
	if err != nil {
		return ecuName
	}
	return ecuName + "/" + direction.String()
}
