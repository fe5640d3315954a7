package contract

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamNumber  ParamType = "number"
	ParamObject  ParamType = "object"
)

// ParamSpec describes one tool argument. Properties is only meaningful for
// ParamObject.
type ParamSpec struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Minimum     *float64
	Properties  []ParamSpec
}

// ToolSpec is the vendor-neutral declaration of a tool. Gateways translate it
// into their provider format; the dispatcher publishes InputSchema as-is.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ParamSpec
}

func (s ToolSpec) RequiredParams() []string {
	out := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// InputSchema renders the parameters as a JSON Schema object.
func (s ToolSpec) InputSchema() map[string]any {
	return objectSchema(s.Params)
}

func (s ToolSpec) Descriptor() ToolDescriptor {
	return ToolDescriptor{
		Name:        s.Name,
		Description: s.Description,
		InputSchema: s.InputSchema(),
	}
}

func objectSchema(params []ParamSpec) map[string]any {
	props := make(map[string]any, len(params))
	required := make([]any, 0, len(params))
	for _, p := range params {
		props[p.Name] = paramSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	out := map[string]any{
		"type":       string(ParamObject),
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func paramSchema(p ParamSpec) map[string]any {
	if p.Type == ParamObject {
		out := objectSchema(p.Properties)
		out["description"] = p.Description
		return out
	}
	out := map[string]any{
		"type":        string(p.Type),
		"description": p.Description,
	}
	if p.Minimum != nil {
		out["minimum"] = *p.Minimum
	}
	return out
}
