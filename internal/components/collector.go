package components

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pmui/pmui-mcp/internal/config"
	"github.com/rs/zerolog/log"
)

// DefaultSignature is used when a type declares neither a signature nor a constructor.
const DefaultSignature = "(self, **params)"

var sentenceEnd = regexp.MustCompile(`[.!?]`)

// Collector turns the subclasses of a base type into ComponentInfo records.
type Collector struct {
	registry  *Registry
	base      string
	namespace string
	now       func() time.Time
}

// NewCollector creates a collector over reg using the base type and
// namespace from cfg.
func NewCollector(reg *Registry, cfg config.ComponentsConfig) *Collector {
	return &Collector{
		registry:  reg,
		base:      cfg.Base,
		namespace: cfg.Namespace,
		now:       time.Now,
	}
}

// Collect discovers every public subclass of the base type inside the
// namespace. A failure on one type never aborts the others.
func (c *Collector) Collect(ctx context.Context) (*Collection, error) {
	subclasses, err := c.registry.FindAllSubclasses(c.base)
	if err != nil {
		return nil, err
	}

	infos := make([]ComponentInfo, 0, len(subclasses))
	for _, d := range subclasses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !InNamespace(d.Module, c.namespace) || strings.HasPrefix(d.Name, "_") {
			continue
		}
		infos = append(infos, CollectComponentInfo(c.registry, d))
	}

	collection := NewCollection(infos, c.now())
	log.Info().Str("base", c.base).Int("components", collection.TotalCount()).Msg("collected components")
	return collection, nil
}

// CollectComponentInfo builds the record of one type: first docstring
// sentence as description, inherited public parameters with unserializable
// values replaced by the marker, and the constructor signature.
func CollectComponentInfo(reg *Registry, d *Descriptor) ComponentInfo {
	params := make(map[string]ParameterInfo)
	for _, spec := range reg.ResolveParameters(d) {
		if strings.HasPrefix(spec.Name, "_") {
			continue
		}
		info := parameterInfo(spec)
		if info.Default.IsOpaque() {
			log.Debug().Str("component", d.ModulePath()).Str("parameter", spec.Name).Msg("default is not serializable")
		}
		params[spec.Name] = info
	}

	return ComponentInfo{
		ComponentSummary: ComponentSummary{
			Name:          d.Name,
			ModulePath:    d.ModulePath(),
			InitSignature: signature(d),
			Description:   firstSentence(d.Doc),
			Docstring:     d.Doc,
		},
		Parameters: params,
	}
}

func parameterInfo(spec ParameterSpec) ParameterInfo {
	typ := spec.Type
	if typ == "" {
		typ = "Parameter"
	}
	def := spec.Default.Capture()

	// Unset flags take the values the parameter library assigns.
	readonly := false
	if spec.Readonly != nil {
		readonly = *spec.Readonly
	}
	return ParameterInfo{
		Type:        typ,
		Default:     def,
		Doc:         spec.Doc,
		AllowNone:   orDefault(spec.AllowNone, def.IsNull()),
		Constant:    orDefault(spec.Constant, readonly),
		Readonly:    &readonly,
		PerInstance: orDefault(spec.PerInstance, true),
		Objects:     spec.Objects.Capture(),
		Bounds:      spec.Bounds.Capture(),
		Regex:       spec.Regex,
	}
}

func orDefault(b *bool, def bool) *bool {
	if b != nil {
		v := *b
		return &v
	}
	return &def
}

// firstSentence returns the first non-empty sentence of doc with whitespace collapsed.
func firstSentence(doc string) string {
	for _, s := range sentenceEnd.Split(strings.TrimSpace(doc), -1) {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			return s
		}
	}
	return ""
}

func signature(d *Descriptor) (sig string) {
	if d.Constructor == nil {
		if d.Signature != "" {
			return d.Signature
		}
		return DefaultSignature
	}

	defer func() {
		if r := recover(); r != nil {
			sig = fmt.Sprintf("Error getting signature: %v", r)
		}
	}()
	s, err := d.Constructor()
	if err != nil {
		return fmt.Sprintf("Error getting signature: %v", err)
	}
	return s
}
