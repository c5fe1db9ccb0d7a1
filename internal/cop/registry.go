package cop

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// Registry is the process-lifetime table keyed by cop name. Lookup is
// O(1); enumeration is always sorted by name. New cops are added by
// calling Register, never by file-system discovery.
type Registry struct {
	mu   sync.RWMutex
	cops map[string]Cop
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{cops: make(map[string]Cop)}
}

// Register adds a cop to the registry. Panics if a cop with the same
// name is already registered, since registration happens once at process
// startup via package init() functions, not at request time.
func (r *Registry) Register(c Cop) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.cops[name]; exists {
		panic(fmt.Sprintf("cop %q already registered", name))
	}
	r.cops[name] = c
}

// Get retrieves a cop by its qualified name. Returns nil if not found.
func (r *Registry) Get(name string) Cop {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cops[name]
}

// Has reports whether a cop with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.cops[name]
	return exists
}

// All returns every registered cop, sorted by name.
func (r *Registry) All() []Cop {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Cop, 0, len(r.cops))
	for _, c := range r.cops {
		result = append(result, c)
	}
	sortByName(result)
	return result
}

// Names returns every registered cop's name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cops))
	for name := range r.cops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnabledByDefault returns cops that run when no configuration mentions
// them, sorted by name.
func (r *Registry) EnabledByDefault() []Cop {
	return r.filter(func(c Cop) bool { return c.DefaultEnabled() })
}

// Department returns the "Department" prefix of a qualified cop name
// ("Department/Name"), or "" if the name has no department separator.
func Department(copName string) string {
	if i := strings.IndexByte(copName, '/'); i >= 0 {
		return copName[:i]
	}
	return ""
}

// ByDepartment returns every cop whose name has the given department
// prefix, sorted by name. Used by the directive scanner to expand a
// department-level token into its member cops.
func (r *Registry) ByDepartment(department string) []Cop {
	return r.filter(func(c Cop) bool { return Department(c.Name()) == department })
}

// Departments returns the sorted set of distinct department names across
// every registered cop.
func (r *Registry) Departments() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for name := range r.cops {
		if d := Department(name); d != "" {
			seen[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// BySeverity returns cops whose default severity matches, sorted by name.
func (r *Registry) BySeverity(sev diagnostic.Severity) []Cop {
	return r.filter(func(c Cop) bool { return c.DefaultSeverity() == sev })
}

// AutoCorrectable returns every cop that implements AutoCorrectable and
// reports SupportsAutocorrect() true, sorted by name.
func (r *Registry) AutoCorrectable() []Cop {
	return r.filter(func(c Cop) bool {
		ac, ok := c.(AutoCorrectable)
		return ok && ac.SupportsAutocorrect()
	})
}

func (r *Registry) filter(keep func(Cop) bool) []Cop {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Cop, 0)
	for _, c := range r.cops {
		if keep(c) {
			result = append(result, c)
		}
	}
	sortByName(result)
	return result
}

func sortByName(cops []Cop) {
	sort.Slice(cops, func(i, j int) bool { return cops[i].Name() < cops[j].Name() })
}

// defaultRegistry is the process-wide registry populated by every
// department package's init().
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a cop to the default registry.
func Register(c Cop) { defaultRegistry.Register(c) }

// Get retrieves a cop from the default registry.
func Get(name string) Cop { return defaultRegistry.Get(name) }

// All returns all cops from the default registry, sorted by name.
func All() []Cop { return defaultRegistry.All() }

// Names returns all cop names from the default registry, sorted.
func Names() []string { return defaultRegistry.Names() }

// EnabledByDefault returns default-enabled cops from the default registry.
func EnabledByDefault() []Cop { return defaultRegistry.EnabledByDefault() }
