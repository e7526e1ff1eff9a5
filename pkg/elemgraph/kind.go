package elemgraph

// Kind identifies the schema role of an element in the graph.
// The set is closed: every element created through the store carries
// exactly one of these tags, and downcasts in the wrapper layers
// dispatch on it.
type Kind uint16

const (
	KindInvalid Kind = iota

	// Containment / structural kinds
	KindPackage
	KindElements
	KindLength

	// Signal kinds
	KindISignal
	KindSystemSignal
	KindISignalGroup
	KindSystemSignalGroup
	KindSystemSignalRef
	KindSystemSignalGroupRef
	KindDataTypePolicy
	KindSignals
	KindISignalRef

	// Pdu kinds
	KindISignalIPdu
	KindNmPdu
	KindNPdu
	KindDcmIPdu
	KindGeneralPurposePdu
	KindGeneralPurposeIPdu
	KindContainerIPdu
	KindSecuredIPdu
	KindMultiplexedIPdu

	// Signal-to-PDU mapping kinds
	KindISignalToPduMappings
	KindISignalToIPduMapping
	KindStartPosition
	KindPackingByteOrder
	KindTransferProperty
	KindUpdateIndicationBitPosition

	// Triggering kinds
	KindPduTriggerings
	KindPduTriggering
	KindIPduRef
	KindISignalTriggerings
	KindISignalTriggering
	KindISignalTriggeringRefConditional
	KindISignalTriggeringRef
	KindIPduPortRefs
	KindIPduPortRef
	KindIPduPort
	KindISignalPortRefs
	KindISignalPortRef
	KindISignalPort
	KindCommunicationDirection

	// Topology kinds
	KindEcuInstance
	KindPhysicalChannel
	KindConnectors
	KindConnectorRef
	KindCommunicationConnector
	KindEcuCommPortInstances
)

var kindNames = map[Kind]string{
	KindInvalid:                         "Invalid",
	KindPackage:                         "Package",
	KindElements:                        "Elements",
	KindLength:                          "Length",
	KindISignal:                         "ISignal",
	KindSystemSignal:                    "SystemSignal",
	KindISignalGroup:                    "ISignalGroup",
	KindSystemSignalGroup:               "SystemSignalGroup",
	KindSystemSignalRef:                 "SystemSignalRef",
	KindSystemSignalGroupRef:            "SystemSignalGroupRef",
	KindDataTypePolicy:                  "DataTypePolicy",
	KindSignals:                         "Signals",
	KindISignalRef:                      "ISignalRef",
	KindISignalIPdu:                     "ISignalIPdu",
	KindNmPdu:                           "NmPdu",
	KindNPdu:                            "NPdu",
	KindDcmIPdu:                         "DcmIPdu",
	KindGeneralPurposePdu:               "GeneralPurposePdu",
	KindGeneralPurposeIPdu:              "GeneralPurposeIPdu",
	KindContainerIPdu:                   "ContainerIPdu",
	KindSecuredIPdu:                     "SecuredIPdu",
	KindMultiplexedIPdu:                 "MultiplexedIPdu",
	KindISignalToPduMappings:            "ISignalToPduMappings",
	KindISignalToIPduMapping:            "ISignalToIPduMapping",
	KindStartPosition:                   "StartPosition",
	KindPackingByteOrder:                "PackingByteOrder",
	KindTransferProperty:                "TransferProperty",
	KindUpdateIndicationBitPosition:     "UpdateIndicationBitPosition",
	KindPduTriggerings:                  "PduTriggerings",
	KindPduTriggering:                   "PduTriggering",
	KindIPduRef:                         "IPduRef",
	KindISignalTriggerings:              "ISignalTriggerings",
	KindISignalTriggering:               "ISignalTriggering",
	KindISignalTriggeringRefConditional: "ISignalTriggeringRefConditional",
	KindISignalTriggeringRef:            "ISignalTriggeringRef",
	KindIPduPortRefs:                    "IPduPortRefs",
	KindIPduPortRef:                     "IPduPortRef",
	KindIPduPort:                        "IPduPort",
	KindISignalPortRefs:                 "ISignalPortRefs",
	KindISignalPortRef:                  "ISignalPortRef",
	KindISignalPort:                     "ISignalPort",
	KindCommunicationDirection:          "CommunicationDirection",
	KindEcuInstance:                     "EcuInstance",
	KindPhysicalChannel:                 "PhysicalChannel",
	KindConnectors:                      "Connectors",
	KindConnectorRef:                    "ConnectorRef",
	KindCommunicationConnector:          "CommunicationConnector",
	KindEcuCommPortInstances:            "EcuCommPortInstances",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// KindFromName resolves a kind by its canonical name. Used when
// rebuilding a model from a snapshot.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindInvalid, false
}
