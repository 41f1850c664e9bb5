package components

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// ParameterSpec declares one parameter of a component type.
type ParameterSpec struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Default     Literal `yaml:"default"`
	Doc         *string `yaml:"doc"`
	AllowNone   *bool   `yaml:"allow_None"`
	Constant    *bool   `yaml:"constant"`
	Readonly    *bool   `yaml:"readonly"`
	PerInstance *bool   `yaml:"per_instance"`
	Objects     Literal `yaml:"objects"`
	Bounds      Literal `yaml:"bounds"`
	Regex       *string `yaml:"regex"`
}

// Descriptor is a registered component type.
type Descriptor struct {
	Name   string `yaml:"name"`
	Module string `yaml:"module"`

	// Bases are the module paths of the direct base types, in resolution order.
	Bases []string `yaml:"bases"`

	Doc        string          `yaml:"doc"`
	Signature  string          `yaml:"signature"`
	Parameters []ParameterSpec `yaml:"parameters"`

	// Constructor renders the constructor signature at collection time.
	// When nil, Signature is used as is.
	Constructor func() (string, error) `yaml:"-"`
}

// ModulePath returns "module.Name".
func (d *Descriptor) ModulePath() string {
	return d.Module + "." + d.Name
}

// Registry is the catalog of component types, linked base to subclass in a
// directed graph. Bases that are not registered are treated as external.
type Registry struct {
	g      graph.Graph[string, *Descriptor]
	byPath map[string]*Descriptor
	order  []*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		g:      graph.New(func(d *Descriptor) string { return d.ModulePath() }, graph.Directed(), graph.PreventCycles()),
		byPath: make(map[string]*Descriptor),
	}
}

// Register adds a type. Registration order does not matter: edges to bases
// and from already registered subclasses are added as soon as both ends exist.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Name == "" || d.Module == "" {
		return errors.New("descriptor needs a name and a module")
	}

	key := d.ModulePath()
	if err := r.g.AddVertex(d); err != nil {
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("component %s is already registered", key)
		}
		return fmt.Errorf("failed to register %s: %w", key, err)
	}
	r.byPath[key] = d
	r.order = append(r.order, d)

	for _, base := range d.Bases {
		if _, ok := r.byPath[base]; ok {
			if err := r.link(base, key); err != nil {
				return err
			}
		}
	}
	for _, other := range r.order {
		for _, base := range other.Bases {
			if base == key {
				if err := r.link(key, other.ModulePath()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Registry) link(base, sub string) error {
	err := r.g.AddEdge(base, sub)
	switch {
	case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return fmt.Errorf("inheritance cycle between %s and %s", base, sub)
	default:
		return fmt.Errorf("failed to link %s to %s: %w", sub, base, err)
	}
}

// Lookup returns the descriptor for a module path.
func (r *Registry) Lookup(modulePath string) (*Descriptor, bool) {
	d, ok := r.byPath[modulePath]
	return d, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.order) }

// Descriptors returns all types in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), r.order...)
}

// FindAllSubclasses returns every transitive subclass of base, each once,
// sorted by module path. base itself is excluded.
func (r *Registry) FindAllSubclasses(base string) ([]*Descriptor, error) {
	if _, ok := r.byPath[base]; !ok {
		return nil, fmt.Errorf("base component %s is not registered", base)
	}

	var out []*Descriptor
	err := graph.BFS(r.g, base, func(key string) bool {
		if key != base {
			out = append(out, r.byPath[key])
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk subclasses of %s: %w", base, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ModulePath() < out[j].ModulePath() })
	return out, nil
}

// ResolveParameters returns the parameters of d including inherited ones.
// Bases are searched depth-first in declaration order; the first declaration
// of a name wins, so subclasses override their bases.
func (r *Registry) ResolveParameters(d *Descriptor) []ParameterSpec {
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	var out []ParameterSpec

	var walk func(*Descriptor)
	walk = func(cur *Descriptor) {
		key := cur.ModulePath()
		if visited[key] {
			return
		}
		visited[key] = true

		for _, p := range cur.Parameters {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			out = append(out, p)
		}
		for _, base := range cur.Bases {
			if bd, ok := r.byPath[base]; ok {
				walk(bd)
			}
		}
	}
	walk(d)
	return out
}

// InNamespace reports whether module equals ns or lies below it.
func InNamespace(module, ns string) bool {
	return ns == "" || module == ns || strings.HasPrefix(module, ns+".")
}
