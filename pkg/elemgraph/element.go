package elemgraph

// ElementID is a stable handle for one element in a model's arena.
// IDs are never reused.
type ElementID uint64

// Element is a cheap value handle onto one element of a model. Handles
// stay valid across unrelated mutations; accessing a handle whose
// element was removed returns ErrItemDeleted.
type Element struct {
	model *Model
	id    ElementID
}

// ID returns the element's stable identifier
func (e Element) ID() ElementID {
	return e.id
}

// GraphModel returns the owning model
func (e Element) GraphModel() *Model {
	return e.model
}

// Equal reports whether two handles identify the same element of the
// same model.
func (e Element) Equal(other Element) bool {
	return e.model == other.model && e.id == other.id
}

// IsValid reports whether the element is still present in the model
func (e Element) IsValid() bool {
	if e.model == nil {
		return false
	}
	_, exists := e.model.nodes[e.id]
	return exists
}

func (e Element) node() (*node, error) {
	if e.model == nil {
		return nil, ErrItemDeleted
	}
	n, exists := e.model.nodes[e.id]
	if !exists {
		return nil, ErrItemDeleted
	}
	return n, nil
}

// Kind returns the element's kind tag
func (e Element) Kind() (Kind, error) {
	n, err := e.node()
	if err != nil {
		return KindInvalid, err
	}
	return n.kind, nil
}

// Name returns the element's short name. Unnamed structural elements
// return an empty string.
func (e Element) Name() (string, error) {
	n, err := e.node()
	if err != nil {
		return "", err
	}
	return n.name, nil
}

// Path returns the element's identifying path, built from the short
// names of the element and its named ancestors. Unnamed elements have
// no path of their own.
func (e Element) Path() (string, error) {
	n, err := e.node()
	if err != nil {
		return "", err
	}
	if n.name == "" {
		return "", opError("Path", n.kind, "", ErrNotNamed)
	}
	path := "/" + n.name
	for parentID := n.parent; parentID != 0; {
		parent, exists := e.model.nodes[parentID]
		if !exists {
			return "", opError("Path", n.kind, n.name, ErrItemDeleted)
		}
		if parent.name != "" {
			path = "/" + parent.name + path
		}
		parentID = parent.parent
	}
	return path, nil
}

// Parent returns the direct parent element
func (e Element) Parent() (Element, error) {
	n, err := e.node()
	if err != nil {
		return Element{}, err
	}
	if n.parent == 0 {
		return Element{}, opError("Parent", n.kind, n.name, ErrItemDeleted)
	}
	return Element{model: e.model, id: n.parent}, nil
}

// NamedParent returns the nearest named ancestor. Structural wrapper
// elements between an element and its identifiable owner are skipped.
func (e Element) NamedParent() (Element, error) {
	n, err := e.node()
	if err != nil {
		return Element{}, err
	}
	for parentID := n.parent; parentID != 0; {
		parent, exists := e.model.nodes[parentID]
		if !exists {
			return Element{}, opError("NamedParent", n.kind, n.name, ErrItemDeleted)
		}
		if parent.name != "" {
			return Element{model: e.model, id: parentID}, nil
		}
		parentID = parent.parent
	}
	return Element{}, opError("NamedParent", n.kind, n.name, ErrItemDeleted)
}

// CreateSubElement creates an unnamed child element
func (e Element) CreateSubElement(kind Kind) (Element, error) {
	n, err := e.node()
	if err != nil {
		return Element{}, opError("CreateSubElement", kind, "", err)
	}
	child := e.model.allocate(kind, "", e.id)
	n.children = append(n.children, child.id)
	return child, nil
}

// CreateNamedSubElement creates a named child element. The name must be
// unique among the named elements below the same identifiable owner.
func (e Element) CreateNamedSubElement(kind Kind, name string) (Element, error) {
	n, err := e.node()
	if err != nil {
		return Element{}, opError("CreateNamedSubElement", kind, name, err)
	}
	if !namePattern.MatchString(name) {
		return Element{}, opError("CreateNamedSubElement", kind, name, ErrInvalidName)
	}
	scopeID := e.id
	if n.name == "" {
		scope, err := e.NamedParent()
		if err == nil {
			scopeID = scope.id
		}
	}
	if e.model.findNamedDescendant(scopeID, name) != 0 {
		return Element{}, opError("CreateNamedSubElement", kind, name, ErrDuplicateName)
	}
	child := e.model.allocate(kind, name, e.id)
	n.children = append(n.children, child.id)
	return child, nil
}

// GetSubElement returns the first direct child of the given kind
func (e Element) GetSubElement(kind Kind) (Element, bool) {
	n, err := e.node()
	if err != nil {
		return Element{}, false
	}
	for _, childID := range n.children {
		if child, exists := e.model.nodes[childID]; exists && child.kind == kind {
			return Element{model: e.model, id: childID}, true
		}
	}
	return Element{}, false
}

// GetOrCreateSubElement returns the first direct child of the given
// kind, creating it when absent.
func (e Element) GetOrCreateSubElement(kind Kind) (Element, error) {
	if child, ok := e.GetSubElement(kind); ok {
		return child, nil
	}
	return e.CreateSubElement(kind)
}

// GetNamedSubElement returns the direct child with the given name
func (e Element) GetNamedSubElement(name string) (Element, bool) {
	n, err := e.node()
	if err != nil {
		return Element{}, false
	}
	for _, childID := range n.children {
		if child, exists := e.model.nodes[childID]; exists && child.name == name {
			return Element{model: e.model, id: childID}, true
		}
	}
	return Element{}, false
}

// SubElements returns all direct children in creation order
func (e Element) SubElements() []Element {
	n, err := e.node()
	if err != nil {
		return nil
	}
	elems := make([]Element, 0, len(n.children))
	for _, childID := range n.children {
		if _, exists := e.model.nodes[childID]; exists {
			elems = append(elems, Element{model: e.model, id: childID})
		}
	}
	return elems
}

// SetCharacterData stores typed character data on the element
func (e Element) SetCharacterData(data CharData) error {
	n, err := e.node()
	if err != nil {
		return opError("SetCharacterData", KindInvalid, "", err)
	}
	n.data = &data
	return nil
}

// CharacterData returns the element's character data
func (e Element) CharacterData() (CharData, error) {
	n, err := e.node()
	if err != nil {
		return CharData{}, opError("CharacterData", KindInvalid, "", err)
	}
	if n.data == nil {
		return CharData{}, opError("CharacterData", n.kind, n.name, ErrNoCharacterData)
	}
	return *n.data, nil
}

// SetReferenceTarget makes this element a reference to target. The
// target must be a named element. Setting a new target replaces a
// previous one and updates the reverse-reference index.
func (e Element) SetReferenceTarget(target Element) error {
	n, err := e.node()
	if err != nil {
		return opError("SetReferenceTarget", KindInvalid, "", err)
	}
	targetNode, err := target.node()
	if err != nil {
		return opError("SetReferenceTarget", n.kind, n.name, err)
	}
	if targetNode.name == "" {
		return opError("SetReferenceTarget", n.kind, n.name, ErrNotNamed)
	}
	if n.refTarget != 0 {
		e.model.inbound[n.refTarget] = removeID(e.model.inbound[n.refTarget], n.id)
	}
	n.refTarget = target.id
	e.model.inbound[target.id] = append(e.model.inbound[target.id], n.id)
	e.model.Record("set_reference", n.kind.String())
	return nil
}

// ReferenceTarget resolves the element's reference. A dangling
// reference whose target was removed reports ErrItemDeleted.
func (e Element) ReferenceTarget() (Element, error) {
	n, err := e.node()
	if err != nil {
		return Element{}, opError("ReferenceTarget", KindInvalid, "", err)
	}
	if n.refTarget == 0 {
		return Element{}, opError("ReferenceTarget", n.kind, n.name, ErrNotReference)
	}
	if _, exists := e.model.nodes[n.refTarget]; !exists {
		return Element{}, opError("ReferenceTarget", n.kind, n.name, ErrItemDeleted)
	}
	return Element{model: e.model, id: n.refTarget}, nil
}
