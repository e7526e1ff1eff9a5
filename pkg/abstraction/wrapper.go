package abstraction

import (
	"fmt"

	"github.com/busgraph/busgraph/pkg/elemgraph"
)

// Wrapper is implemented by every typed view onto a graph element.
// Wrappers carry no state of their own: all attributes live in the
// shared element graph, so two wrappers over the same element always
// agree.
type Wrapper interface {
	Element() elemgraph.Element
}

// Name returns the short name of a wrapped element
func Name(w Wrapper) (string, error) {
	return w.Element().Name()
}

// Path returns the identifying path of a wrapped element
func Path(w Wrapper) (string, error) {
	return w.Element().Path()
}

// MakeUniqueName produces a child name below basePath that does not
// collide with any existing element there, appending a numeric
// disambiguator when the base name is taken.
func MakeUniqueName(model *elemgraph.Model, basePath string, base string) string {
	name := base
	for counter := 1; ; counter++ {
		if _, exists := model.ElementByPath(basePath + "/" + name); !exists {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, counter)
	}
}
