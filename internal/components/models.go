/*
Package components builds the catalog of Panel Material UI component types.

Types are declared in a YAML manifest (an embedded default or a file given in
the configuration) and registered in a Registry. The Collector discovers every
subclass of the configured base type and turns each into a ComponentInfo with
its inherited parameters, description and constructor signature.
*/
package components

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/pmui/pmui-mcp/internal/search"
)

// ParameterInfo describes one component parameter.
type ParameterInfo struct {
	Type        string  `json:"type"`
	Default     Value   `json:"default"`
	Doc         *string `json:"doc"`
	AllowNone   *bool   `json:"allow_None"`
	Constant    *bool   `json:"constant"`
	Readonly    *bool   `json:"readonly"`
	PerInstance *bool   `json:"per_instance"`
	Objects     Value   `json:"objects"` // Selector options
	Bounds      Value   `json:"bounds"`  // Number bounds
	Regex       *string `json:"regex"`   // String pattern
}

// ComponentSummary is a component without its parameter map.
type ComponentSummary struct {
	Name          string `json:"name"`
	ModulePath    string `json:"module_path"`
	InitSignature string `json:"init_signature"`
	Description   string `json:"description"`
	Docstring     string `json:"docstring"`
}

// ComponentInfo is the full record of a component.
type ComponentInfo struct {
	ComponentSummary
	Parameters map[string]ParameterInfo `json:"parameters"`
}

// SearchFields implements search.Document.
func (c ComponentInfo) SearchFields() search.Fields {
	return search.Fields{Title: c.Name, Name: c.ModulePath, Body: c.Docstring}
}

// ScoredSummary is a search result.
type ScoredSummary struct {
	ComponentSummary
	RelevanceScore int `json:"relevance_score"`
}

// Collection is an immutable set of components sorted by module path.
type Collection struct {
	components []ComponentInfo
	names      []string
	timestamp  time.Time
}

// NewCollection copies and sorts components.
func NewCollection(components []ComponentInfo, timestamp time.Time) *Collection {
	sorted := make([]ComponentInfo, len(components))
	copy(sorted, components)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ModulePath < sorted[j].ModulePath })

	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.Name
	}
	return &Collection{components: sorted, names: names, timestamp: timestamp}
}

// TotalCount returns the number of components.
func (c *Collection) TotalCount() int { return len(c.components) }

// Timestamp returns the build time.
func (c *Collection) Timestamp() time.Time { return c.timestamp }

// Components returns a copy of all components in module path order.
func (c *Collection) Components() []ComponentInfo {
	out := make([]ComponentInfo, len(c.components))
	copy(out, c.components)
	return out
}

// Summaries returns every component without parameters.
func (c *Collection) Summaries() []ComponentSummary {
	out := make([]ComponentSummary, len(c.components))
	for i, comp := range c.components {
		out[i] = comp.ComponentSummary
	}
	return out
}

// Get looks a component up by class name, ignoring case. A miss returns a
// *search.NotFoundError.
func (c *Collection) Get(name string) (ComponentInfo, error) {
	idx, err := search.Find("component", c.names, name)
	if err != nil {
		return ComponentInfo{}, err
	}
	return c.components[idx], nil
}

// Parameter returns a single parameter of a component.
func (c *Collection) Parameter(component, parameter string) (ParameterInfo, error) {
	info, err := c.Get(component)
	if err != nil {
		return ParameterInfo{}, err
	}
	return info.Parameter(parameter)
}

// Parameter looks a parameter up by exact name first, then ignoring case.
func (c ComponentInfo) Parameter(name string) (ParameterInfo, error) {
	if p, ok := c.Parameters[name]; ok {
		return p, nil
	}

	names := c.ParameterNames()
	idx, err := search.Find("parameter", names, name)
	if err != nil {
		return ParameterInfo{}, err
	}
	return c.Parameters[names[idx]], nil
}

// ParameterNames returns the sorted parameter names.
func (c ComponentInfo) ParameterNames() []string {
	names := make([]string, 0, len(c.Parameters))
	for n := range c.Parameters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Search ranks components by name, module path and docstring.
func (c *Collection) Search(query string, limit int) []ScoredSummary {
	return toScored(search.Rank(c.components, query, limit))
}

// SearchSimple ranks with the single-term scorer.
//
// Deprecated: use Search.
func (c *Collection) SearchSimple(query string, limit int) []ScoredSummary {
	return toScored(search.RankSimple(c.components, query, limit))
}

func toScored(hits []search.Hit[ComponentInfo]) []ScoredSummary {
	out := make([]ScoredSummary, len(hits))
	for i, h := range hits {
		out[i] = ScoredSummary{ComponentSummary: h.Item.ComponentSummary, RelevanceScore: h.Score}
	}
	return out
}

// Modules counts components per module below the package namespace, e.g.
// "widgets" for panel_material_ui.widgets.button.Button.
func (c *Collection) Modules() map[string]int {
	out := make(map[string]int)
	for _, comp := range c.components {
		parts := strings.Split(comp.ModulePath, ".")
		module := parts[0]
		if len(parts) > 2 {
			module = parts[1]
		}
		out[module]++
	}
	return out
}

type collectionJSON struct {
	Components []ComponentInfo `json:"components"`
	Timestamp  time.Time       `json:"timestamp"`
	TotalCount int             `json:"total_count"`
}

// MarshalJSON writes the collection with its derived total_count.
func (c *Collection) MarshalJSON() ([]byte, error) {
	components := c.components
	if components == nil {
		components = []ComponentInfo{}
	}
	return json.Marshal(collectionJSON{
		Components: components,
		Timestamp:  c.timestamp,
		TotalCount: len(c.components),
	})
}

// UnmarshalJSON rebuilds the collection; a stored total_count is ignored.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw collectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewCollection(raw.Components, raw.Timestamp)
	return nil
}
