package elemgraph

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// namePattern restricts element short names to identifier-safe characters
var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Recorder receives operation counts from the model. Implemented by the
// metrics registry; a nil recorder disables recording. The interface keeps
// the store decoupled from the metrics backend.
type Recorder interface {
	RecordGraphOp(op string, kind string)
}

// node is the arena-internal representation of one element. Wrappers never
// see nodes directly; they hold Element handles and route every access
// through the model so that aliasing stays explicit.
type node struct {
	id        ElementID
	kind      Kind
	name      string
	parent    ElementID // 0 for root elements
	children  []ElementID
	data      *CharData
	refTarget ElementID // 0 when the element holds no reference
}

// Model is the arena owning every element of one system description.
// All typed wrappers (Signal, Pdu, PduTriggering, ...) are views onto
// elements of a single shared model; mutation through one view is
// immediately visible through all others. The model is a single-writer
// structure: concurrent mutation is not supported.
type Model struct {
	id     uuid.UUID
	nodes  map[ElementID]*node
	roots  []ElementID
	nextID ElementID

	// inbound is the reverse-reference index: for each referenced element,
	// the elements holding a reference to it. Maintained on every
	// SetReferenceTarget and RemoveElement, queried by ReferencesTo.
	inbound map[ElementID][]ElementID

	recorder Recorder
}

// Config holds construction options for a Model
type Config struct {
	Recorder Recorder
}

// NewModel creates an empty model
func NewModel() *Model {
	return NewModelWithConfig(Config{})
}

// NewModelWithConfig creates an empty model with custom options
func NewModelWithConfig(config Config) *Model {
	return &Model{
		id:       uuid.New(),
		nodes:    make(map[ElementID]*node),
		inbound:  make(map[ElementID][]ElementID),
		nextID:   1,
		recorder: config.Recorder,
	}
}

// UUID returns the model's identity
func (m *Model) UUID() uuid.UUID {
	return m.id
}

// ElementCount returns the number of live elements
func (m *Model) ElementCount() int {
	return len(m.nodes)
}

// Record forwards an operation count to the configured recorder, if any.
// Wrapper layers use this for their own operations (triggering creation,
// port fan-out) so that all counts land in one registry.
func (m *Model) Record(op string, kind string) {
	if m.recorder != nil {
		m.recorder.RecordGraphOp(op, kind)
	}
}

func (m *Model) allocate(kind Kind, name string, parent ElementID) Element {
	id := m.nextID
	m.nextID++
	m.nodes[id] = &node{id: id, kind: kind, name: name, parent: parent}
	m.Record("create", kind.String())
	return Element{model: m, id: id}
}

// CreateNamedElement creates a named root element (a top-level package).
func (m *Model) CreateNamedElement(kind Kind, name string) (Element, error) {
	if !namePattern.MatchString(name) {
		return Element{}, opError("CreateNamedElement", kind, name, ErrInvalidName)
	}
	for _, rootID := range m.roots {
		if m.nodes[rootID].name == name {
			return Element{}, opError("CreateNamedElement", kind, name, ErrDuplicateName)
		}
	}
	elem := m.allocate(kind, name, 0)
	m.roots = append(m.roots, elem.id)
	return elem, nil
}

// RootElements returns the top-level elements in creation order
func (m *Model) RootElements() []Element {
	elems := make([]Element, 0, len(m.roots))
	for _, id := range m.roots {
		elems = append(elems, Element{model: m, id: id})
	}
	return elems
}

// ElementByPath resolves a path of the form /Name1/Name2/... to the
// element it identifies. Only named elements contribute path segments;
// unnamed structural elements are transparent.
func (m *Model) ElementByPath(path string) (Element, bool) {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return Element{}, false
	}

	var currentID ElementID
	for _, rootID := range m.roots {
		if m.nodes[rootID].name == segments[0] {
			currentID = rootID
			break
		}
	}
	if currentID == 0 {
		return Element{}, false
	}

	for _, segment := range segments[1:] {
		nextID := m.findNamedDescendant(currentID, segment)
		if nextID == 0 {
			return Element{}, false
		}
		currentID = nextID
	}
	return Element{model: m, id: currentID}, true
}

// findNamedDescendant locates the named child identified by name below
// parentID, looking through unnamed structural elements.
func (m *Model) findNamedDescendant(parentID ElementID, name string) ElementID {
	parent := m.nodes[parentID]
	for _, childID := range parent.children {
		child := m.nodes[childID]
		if child.name == name {
			return childID
		}
		if child.name == "" {
			if found := m.findNamedDescendant(childID, name); found != 0 {
				return found
			}
		}
	}
	return 0
}

// ReferencesTo returns every element holding a reference to the element
// identified by path. This is the reverse-reference query used to
// discover the triggerings of a Pdu; it reads the maintained index
// instead of scanning the graph.
func (m *Model) ReferencesTo(path string) []Element {
	target, ok := m.ElementByPath(path)
	if !ok {
		return nil
	}
	ids := m.inbound[target.id]
	elems := make([]Element, 0, len(ids))
	for _, id := range ids {
		if _, exists := m.nodes[id]; exists {
			elems = append(elems, Element{model: m, id: id})
		}
	}
	return elems
}

// RemoveElement removes an element and its whole subtree from the model.
// References held by removed elements are unlinked from the reverse
// index; references pointing at removed elements are left dangling and
// surface ErrItemDeleted when resolved.
func (m *Model) RemoveElement(elem Element) error {
	n, exists := m.nodes[elem.id]
	if !exists {
		return opError("RemoveElement", KindInvalid, "", ErrItemDeleted)
	}

	if n.parent != 0 {
		parent := m.nodes[n.parent]
		parent.children = removeID(parent.children, n.id)
	} else {
		m.roots = removeID(m.roots, n.id)
	}
	m.removeSubtree(n)
	return nil
}

func (m *Model) removeSubtree(n *node) {
	for _, childID := range n.children {
		if child, exists := m.nodes[childID]; exists {
			m.removeSubtree(child)
		}
	}
	if n.refTarget != 0 {
		m.inbound[n.refTarget] = removeID(m.inbound[n.refTarget], n.id)
	}
	delete(m.inbound, n.id)
	delete(m.nodes, n.id)
	m.Record("remove", n.kind.String())
}

func removeID(ids []ElementID, id ElementID) []ElementID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
