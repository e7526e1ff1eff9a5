// Package snapshot persists an element graph to disk and restores it.
// The on-disk format is a snappy-compressed JSON rendering of the
// element tree with references recorded as target paths.
package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/golang/snappy"

	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// Format: [magic:8][checksum:4][compressed JSON payload]
var magic = [8]byte{'B', 'G', 'S', 'N', 'A', 'P', '0', '1'}

type snapshotData struct {
	Type string `json:"type"`
	Str  string `json:"str,omitempty"`
	Int  uint64 `json:"int,omitempty"`
	Enum string `json:"enum,omitempty"`
}

type snapshotElement struct {
	Kind     string            `json:"kind"`
	Name     string            `json:"name,omitempty"`
	Data     *snapshotData     `json:"data,omitempty"`
	Ref      string            `json:"ref,omitempty"`
	Children []snapshotElement `json:"children,omitempty"`
}

type snapshotDocument struct {
	ModelUUID string            `json:"modelUuid"`
	Roots     []snapshotElement `json:"roots"`
}

// Save writes the model's element tree to path
func Save(model *elemgraph.Model, path string) error {
	doc := snapshotDocument{ModelUUID: model.UUID().String()}
	for _, root := range model.RootElements() {
		exported, err := exportElement(root)
		if err != nil {
			return fmt.Errorf("failed to export model: %w", err)
		}
		doc.Roots = append(doc.Roots, exported)
	}

	payload, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, payload)

	buf := make([]byte, 0, len(magic)+4+len(compressed))
	buf = append(buf, magic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(compressed))
	buf = append(buf, compressed...)

	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot file and rebuilds a model from it. References
// are re-linked by path in a second pass, after the whole tree exists.
func Load(path string) (*elemgraph.Model, error) {
	return LoadWithConfig(path, elemgraph.Config{})
}

// LoadWithConfig is Load with model construction options
func LoadWithConfig(path string, config elemgraph.Config) (*elemgraph.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(raw) < len(magic)+4 || string(raw[:len(magic)]) != string(magic[:]) {
		return nil, fmt.Errorf("not a snapshot file: %s", path)
	}
	checksum := binary.LittleEndian.Uint32(raw[len(magic) : len(magic)+4])
	compressed := raw[len(magic)+4:]
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, fmt.Errorf("snapshot checksum mismatch: %s", path)
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	var doc snapshotDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	model := elemgraph.NewModelWithConfig(config)
	var pending []pendingRef
	for _, root := range doc.Roots {
		kind, ok := elemgraph.KindFromName(root.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown element kind %q", root.Kind)
		}
		elem, err := model.CreateNamedElement(kind, root.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to rebuild model: %w", err)
		}
		if err := importInto(elem, root, &pending); err != nil {
			return nil, err
		}
	}

	for _, ref := range pending {
		target, ok := model.ElementByPath(ref.targetPath)
		if !ok {
			return nil, fmt.Errorf("snapshot reference to missing path %q", ref.targetPath)
		}
		if err := ref.source.SetReferenceTarget(target); err != nil {
			return nil, fmt.Errorf("failed to re-link reference: %w", err)
		}
	}
	return model, nil
}

type pendingRef struct {
	source     elemgraph.Element
	targetPath string
}

func exportElement(elem elemgraph.Element) (snapshotElement, error) {
	kind, err := elem.Kind()
	if err != nil {
		return snapshotElement{}, err
	}
	name, err := elem.Name()
	if err != nil {
		return snapshotElement{}, err
	}
	exported := snapshotElement{Kind: kind.String(), Name: name}

	if data, err := elem.CharacterData(); err == nil {
		exported.Data = exportData(data)
	}
	if target, err := elem.ReferenceTarget(); err == nil {
		if targetPath, err := target.Path(); err == nil {
			exported.Ref = targetPath
		}
	}
	for _, child := range elem.SubElements() {
		exportedChild, err := exportElement(child)
		if err != nil {
			return snapshotElement{}, err
		}
		exported.Children = append(exported.Children, exportedChild)
	}
	return exported, nil
}

func exportData(data elemgraph.CharData) *snapshotData {
	switch data.Type {
	case elemgraph.TypeInt:
		return &snapshotData{Type: "int", Int: data.Int}
	case elemgraph.TypeEnum:
		return &snapshotData{Type: "enum", Enum: data.Enum.String()}
	default:
		return &snapshotData{Type: "string", Str: data.Str}
	}
}

func importInto(elem elemgraph.Element, exported snapshotElement, pending *[]pendingRef) error {
	if exported.Data != nil {
		data, err := importData(exported.Data)
		if err != nil {
			return err
		}
		if err := elem.SetCharacterData(data); err != nil {
			return err
		}
	}
	if exported.Ref != "" {
		*pending = append(*pending, pendingRef{source: elem, targetPath: exported.Ref})
	}
	for _, exportedChild := range exported.Children {
		kind, ok := elemgraph.KindFromName(exportedChild.Kind)
		if !ok {
			return fmt.Errorf("unknown element kind %q", exportedChild.Kind)
		}
		var child elemgraph.Element
		var err error
		if exportedChild.Name != "" {
			child, err = elem.CreateNamedSubElement(kind, exportedChild.Name)
		} else {
			child, err = elem.CreateSubElement(kind)
		}
		if err != nil {
			return fmt.Errorf("failed to rebuild element tree: %w", err)
		}
		if err := importInto(child, exportedChild, pending); err != nil {
			return err
		}
	}
	return nil
}

func importData(data *snapshotData) (elemgraph.CharData, error) {
	switch data.Type {
	case "int":
		return elemgraph.IntData(data.Int), nil
	case "enum":
		item, ok := elemgraph.EnumItemFromName(data.Enum)
		if !ok {
			return elemgraph.CharData{}, fmt.Errorf("unknown enum token %q", data.Enum)
		}
		return elemgraph.EnumData(item), nil
	case "string":
		return elemgraph.StringData(data.Str), nil
	default:
		return elemgraph.CharData{}, fmt.Errorf("unknown character data type %q", data.Type)
	}
}
