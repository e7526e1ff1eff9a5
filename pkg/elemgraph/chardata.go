package elemgraph

import "strconv"

// CharDataType represents the encoding of an element's character data
type CharDataType uint8

const (
	TypeString CharDataType = iota
	TypeInt
	TypeEnum
)

// EnumItem is a token from the closed vocabulary of enumerated
// character data values.
type EnumItem uint8

const (
	EnumInvalid EnumItem = iota
	EnumOverride
	EnumPending
	EnumTriggered
	EnumTriggeredOnChange
	EnumTriggeredOnChangeWithoutRepetition
	EnumTriggeredWithoutRepetition
	EnumIn
	EnumOut
	EnumMostSignificantByteFirst
	EnumMostSignificantByteLast
	EnumOpaque
	EnumAlways
	EnumNever
)

var enumNames = map[EnumItem]string{
	EnumOverride:                           "Override",
	EnumPending:                            "Pending",
	EnumTriggered:                          "Triggered",
	EnumTriggeredOnChange:                  "TriggeredOnChange",
	EnumTriggeredOnChangeWithoutRepetition: "TriggeredOnChangeWithoutRepetition",
	EnumTriggeredWithoutRepetition:         "TriggeredWithoutRepetition",
	EnumIn:                                 "In",
	EnumOut:                                "Out",
	EnumMostSignificantByteFirst:           "MostSignificantByteFirst",
	EnumMostSignificantByteLast:            "MostSignificantByteLast",
	EnumOpaque:                             "Opaque",
	EnumAlways:                             "Always",
	EnumNever:                              "Never",
}

func (e EnumItem) String() string {
	if name, ok := enumNames[e]; ok {
		return name
	}
	return "Invalid"
}

// EnumItemFromName resolves an enum token by its canonical name.
func EnumItemFromName(name string) (EnumItem, bool) {
	for e, n := range enumNames {
		if n == name {
			return e, true
		}
	}
	return EnumInvalid, false
}

// CharData is the typed character data payload of an element
type CharData struct {
	Type CharDataType
	Str  string
	Int  uint64
	Enum EnumItem
}

func StringData(s string) CharData {
	return CharData{Type: TypeString, Str: s}
}

func IntData(i uint64) CharData {
	return CharData{Type: TypeInt, Int: i}
}

func EnumData(e EnumItem) CharData {
	return CharData{Type: TypeEnum, Enum: e}
}

// AsString renders any character data as text
func (c CharData) AsString() string {
	switch c.Type {
	case TypeInt:
		return strconv.FormatUint(c.Int, 10)
	case TypeEnum:
		return c.Enum.String()
	default:
		return c.Str
	}
}

// AsInt decodes integer character data
func (c CharData) AsInt() (uint64, bool) {
	if c.Type != TypeInt {
		return 0, false
	}
	return c.Int, true
}

// AsEnum decodes enumerated character data
func (c CharData) AsEnum() (EnumItem, bool) {
	if c.Type != TypeEnum {
		return EnumInvalid, false
	}
	return c.Enum, true
}
