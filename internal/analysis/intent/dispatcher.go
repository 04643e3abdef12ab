package intent

import (
	"strings"
	"sync"

	"github.com/polkaforge/polkaforge/backend/internal/model/reply"
)

// Match is the result of dispatching one chat input.
type Match struct {
	Template reply.Template
	// Keyword is the keyword that selected Template; empty when Fallback is set.
	Keyword  string
	Fallback bool
}

// Dispatcher selects canned replies by keyword. It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	rules    []reply.Template
	fallback reply.Template
}

// New builds a dispatcher over the catalog's templates, preserving catalog order as priority.
func New(catalog *reply.Catalog) *Dispatcher {
	return &Dispatcher{
		rules:    catalog.Templates(),
		fallback: catalog.Fallback.Clone(),
	}
}

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns a dispatcher over the built-in catalog.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		defaultDispatcher = New(reply.Default())
	})
	return defaultDispatcher
}

// Dispatch picks the first template whose keyword set occurs in input, or the fallback.
func (d *Dispatcher) Dispatch(input string) Match {
	normalized := strings.ToLower(input)
	for _, tpl := range d.rules {
		for _, kw := range tpl.Keywords {
			if strings.Contains(normalized, kw) {
				return Match{Template: tpl.Clone(), Keyword: kw}
			}
		}
	}
	return Match{Template: d.fallback.Clone(), Fallback: true}
}

// Names lists the template names in the order they are tested.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.rules)+1)
	for _, tpl := range d.rules {
		names = append(names, tpl.Name)
	}
	return append(names, d.fallback.Name)
}
