package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Descriptor describes one converter backend's capabilities. Extensions are
// canonical tokens (see the format package); overlap between descriptors is
// expected and is what selection logic exists for.
type Descriptor struct {
	Name    string
	Inputs  []string
	Outputs []string
}

// Formats pairs a descriptor's input and output extension lists for
// capability reporting.
type Formats struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// Registry answers capability queries over a fixed descriptor table.
// Descriptor order defines the deterministic selection priority.
type Registry struct {
	descriptors []Descriptor
	inputs      []map[string]struct{}
	outputs     []map[string]struct{}
}

// New builds a registry from descriptors. Every descriptor needs a unique
// name and non-empty input and output sets.
func New(descriptors ...Descriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("registry requires at least one descriptor")
	}

	reg := &Registry{
		descriptors: make([]Descriptor, 0, len(descriptors)),
		inputs:      make([]map[string]struct{}, 0, len(descriptors)),
		outputs:     make([]map[string]struct{}, 0, len(descriptors)),
	}

	seen := make(map[string]struct{}, len(descriptors))
	for _, desc := range descriptors {
		name := strings.TrimSpace(desc.Name)
		if name == "" {
			return nil, fmt.Errorf("descriptor with empty name")
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("duplicate descriptor %q", name)
		}
		if len(desc.Inputs) == 0 {
			return nil, fmt.Errorf("descriptor %q has no inputs", name)
		}
		if len(desc.Outputs) == 0 {
			return nil, fmt.Errorf("descriptor %q has no outputs", name)
		}
		seen[name] = struct{}{}

		desc.Name = name
		reg.descriptors = append(reg.descriptors, desc)
		reg.inputs = append(reg.inputs, toSet(desc.Inputs))
		reg.outputs = append(reg.outputs, toSet(desc.Outputs))
	}
	return reg, nil
}

// All returns the descriptors in registration order.
func (r *Registry) All() []Descriptor {
	cp := make([]Descriptor, len(r.descriptors))
	copy(cp, r.descriptors)
	return cp
}

// Names returns the backend names in registration (priority) order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, desc := range r.descriptors {
		names[i] = desc.Name
	}
	return names
}

// Has reports whether a backend with the given name is registered.
func (r *Registry) Has(name string) bool {
	for _, desc := range r.descriptors {
		if desc.Name == name {
			return true
		}
	}
	return false
}

// SupportingInput returns the backends accepting ext as input, in
// registration order.
func (r *Registry) SupportingInput(ext string) []string {
	var names []string
	for i, desc := range r.descriptors {
		if _, ok := r.inputs[i][ext]; ok {
			names = append(names, desc.Name)
		}
	}
	return names
}

// SupportingPair returns the backends that accept inputExt and can produce
// outputExt, in registration order.
func (r *Registry) SupportingPair(inputExt, outputExt string) []string {
	var names []string
	for i, desc := range r.descriptors {
		if _, ok := r.inputs[i][inputExt]; !ok {
			continue
		}
		if _, ok := r.outputs[i][outputExt]; !ok {
			continue
		}
		names = append(names, desc.Name)
	}
	return names
}

// OutputsForInput returns every extension reachable from inputExt across all
// backends, sorted and deduplicated, plus the per-backend breakdown in
// registration order. The boolean is false when no backend accepts inputExt.
func (r *Registry) OutputsForInput(inputExt string) ([]string, map[string][]string, bool) {
	supported := false
	union := make(map[string]struct{})
	perBackend := make(map[string][]string)
	for i, desc := range r.descriptors {
		if _, ok := r.inputs[i][inputExt]; !ok {
			continue
		}
		supported = true
		outputs := sortedCopy(desc.Outputs)
		perBackend[desc.Name] = outputs
		for _, ext := range outputs {
			union[ext] = struct{}{}
		}
	}
	if !supported {
		return nil, nil, false
	}
	return sortedKeys(union), perBackend, true
}

// SupportedInputs returns the union of all backends' inputs, sorted and
// deduplicated.
func (r *Registry) SupportedInputs() []string {
	union := make(map[string]struct{})
	for _, set := range r.inputs {
		for ext := range set {
			union[ext] = struct{}{}
		}
	}
	return sortedKeys(union)
}

// SupportedOutputs returns the union of all backends' outputs, sorted and
// deduplicated.
func (r *Registry) SupportedOutputs() []string {
	union := make(map[string]struct{})
	for _, set := range r.outputs {
		for ext := range set {
			union[ext] = struct{}{}
		}
	}
	return sortedKeys(union)
}

// InputsByConverter maps each input extension to the backends accepting it,
// in registration order.
func (r *Registry) InputsByConverter() map[string][]string {
	result := make(map[string][]string)
	for i, desc := range r.descriptors {
		for ext := range r.inputs[i] {
			result[ext] = appendUnique(result[ext], desc.Name)
		}
	}
	return result
}

// OutputsByConverter maps each output extension to the backends producing it,
// in registration order.
func (r *Registry) OutputsByConverter() map[string][]string {
	result := make(map[string][]string)
	for i, desc := range r.descriptors {
		for ext := range r.outputs[i] {
			result[ext] = appendUnique(result[ext], desc.Name)
		}
	}
	return result
}

// Matrix returns the full backend capability matrix keyed by backend name.
func (r *Registry) Matrix() map[string]Formats {
	result := make(map[string]Formats, len(r.descriptors))
	for _, desc := range r.descriptors {
		result[desc.Name] = Formats{
			Inputs:  sortedCopy(desc.Inputs),
			Outputs: sortedCopy(desc.Outputs),
		}
	}
	return result
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedCopy(values []string) []string {
	set := toSet(values)
	return sortedKeys(set)
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
