package tool

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/viswa-prakash/estatebot/internal/model/contract"
)

// Tool represents an executable capability.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// Registry holds the tool catalog in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Registering a name again replaces the tool in place.
func (r *Registry) Register(t Tool) {
	name := NormalizeToolName(t.Name())
	if name == "" {
		panic("tool: empty tool name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	name = NormalizeToolName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) GetDescriptors() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]

		meta := normalizeToolMetadata(ToolMetadata{})
		if provider, ok := t.(MetadataProvider); ok {
			meta = normalizeToolMetadata(provider.ToolMetadata())
		}

		descriptors = append(descriptors, ToolDescriptor{
			Definition: contract.ToolDef{
				Name:        name,
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
			Metadata: meta,
		})
	}
	return descriptors
}

// Definitions returns the tool definitions offered to the model.
func (r *Registry) Definitions() []contract.ToolDef {
	descriptors := r.GetDescriptors()
	defs := make([]contract.ToolDef, 0, len(descriptors))
	for _, d := range descriptors {
		defs = append(defs, d.Definition)
	}
	return defs
}

func NormalizeToolName(name string) string {
	return strings.TrimSpace(name)
}
