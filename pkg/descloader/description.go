package descloader

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/busgraph/busgraph/pkg/communication"
)

// validate is a singleton validator instance
var validate = validator.New()

// Description is the declarative form of a system description. Sections
// are applied in a fixed order: packages, ECUs, channels, signals, PDUs,
// triggerings, mappings. Later sections may reference names introduced
// by earlier ones.
type Description struct {
	Packages    []string               `yaml:"packages" validate:"required,min=1,dive,min=1,max=100"`
	Ecus        []EcuDescription       `yaml:"ecus" validate:"omitempty,dive"`
	Channels    []ChannelDescription   `yaml:"channels" validate:"omitempty,dive"`
	Signals     []SignalDescription    `yaml:"signals" validate:"omitempty,dive"`
	Pdus        []PduDescription       `yaml:"pdus" validate:"omitempty,dive"`
	Triggerings []TriggerDescription   `yaml:"triggerings" validate:"omitempty,dive"`
	Mappings    []MappingDescription   `yaml:"mappings" validate:"omitempty,dive"`
}

// EcuDescription declares one ECU instance
type EcuDescription struct {
	Name    string `yaml:"name" validate:"required"`
	Package string `yaml:"package" validate:"required"`
}

// ChannelDescription declares one physical channel and the ECUs
// attached to it
type ChannelDescription struct {
	Name    string   `yaml:"name" validate:"required"`
	Package string   `yaml:"package" validate:"required"`
	Ecus    []string `yaml:"ecus" validate:"omitempty,dive,required"`
}

// SignalDescription declares one signal pair. The transport half lives
// in Package, the system half in SystemPackage; the two must differ.
type SignalDescription struct {
	Name          string `yaml:"name" validate:"required"`
	BitLength     uint64 `yaml:"bitLength" validate:"required,min=1"`
	Package       string `yaml:"package" validate:"required"`
	SystemPackage string `yaml:"systemPackage" validate:"required"`
}

// PduDescription declares one PDU of any variant
type PduDescription struct {
	Name    string `yaml:"name" validate:"required"`
	Kind    string `yaml:"kind" validate:"required,oneof=isignal-ipdu nm-pdu n-pdu dcm-ipdu general-purpose-pdu general-purpose-ipdu container-ipdu secured-ipdu multiplexed-ipdu"`
	Length  uint32 `yaml:"length" validate:"required,min=1"`
	Package string `yaml:"package" validate:"required"`
}

// TriggerDescription declares that a PDU is transmitted on a channel,
// optionally wired to ECUs
type TriggerDescription struct {
	Pdu         string                  `yaml:"pdu" validate:"required"`
	Channel     string                  `yaml:"channel" validate:"required"`
	Connections []ConnectionDescription `yaml:"connections" validate:"omitempty,dive"`
}

// ConnectionDescription declares one (ECU, direction) endpoint of a
// triggering
type ConnectionDescription struct {
	Ecu       string `yaml:"ecu" validate:"required"`
	Direction string `yaml:"direction" validate:"required,oneof=in out"`
}

// MappingDescription declares the placement of a signal inside a PDU
type MappingDescription struct {
	Pdu              string  `yaml:"pdu" validate:"required"`
	Signal           string  `yaml:"signal" validate:"required"`
	StartPosition    uint32  `yaml:"startPosition"`
	ByteOrder        string  `yaml:"byteOrder" validate:"omitempty,oneof=most-significant-byte-first most-significant-byte-last opaque"`
	UpdateBit        *uint32 `yaml:"updateBit" validate:"omitempty"`
	TransferProperty string  `yaml:"transferProperty" validate:"omitempty,oneof=pending triggered triggered-on-change triggered-on-change-without-repetition triggered-without-repetition"`
}

// Parse decodes and validates a YAML system description
func Parse(data []byte) (*Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse description: %w", err)
	}
	if err := validate.Struct(&desc); err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}
	return &desc, nil
}

// ParseFile reads, decodes and validates a YAML system description file
func ParseFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description file: %w", err)
	}
	return Parse(data)
}

func (d *MappingDescription) byteOrder() communication.ByteOrder {
	switch d.ByteOrder {
	case "most-significant-byte-last":
		return communication.ByteOrderMostSignificantByteLast
	case "opaque":
		return communication.ByteOrderOpaque
	default:
		return communication.ByteOrderMostSignificantByteFirst
	}
}

func (d *MappingDescription) transferProperty() communication.TransferProperty {
	switch d.TransferProperty {
	case "triggered":
		return communication.TransferPropertyTriggered
	case "triggered-on-change":
		return communication.TransferPropertyTriggeredOnChange
	case "triggered-on-change-without-repetition":
		return communication.TransferPropertyTriggeredOnChangeWithoutRepetition
	case "triggered-without-repetition":
		return communication.TransferPropertyTriggeredWithoutRepetition
	default:
		return communication.TransferPropertyPending
	}
}

func (d *ConnectionDescription) direction() communication.CommunicationDirection {
	if d.Direction == "out" {
		return communication.DirectionOut
	}
	return communication.DirectionIn
}
