package template

// PartKind names a part type in descriptions.
type PartKind string

const (
	TextKind        PartKind = "text"
	PlaceholderKind PartKind = "placeholder"
	MalformedKind   PartKind = "malformed"
)

// PartInfo is a flat, serialisable description of a top-level part.
type PartInfo struct {
	Kind           PartKind `json:"kind" yaml:"kind"`
	Index          int      `json:"index" yaml:"index"`
	Offset         int      `json:"offset" yaml:"offset"`
	Escaped        string   `json:"escaped" yaml:"escaped"`
	Unescaped      string   `json:"unescaped" yaml:"unescaped"`
	Parameter      string   `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	ParameterIndex *int     `json:"parameter_index,omitempty" yaml:"parameter_index,omitempty"`
	Alignment      *int     `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Formatting     string   `json:"formatting,omitempty" yaml:"formatting,omitempty"`
}

// Describe lists the parts of a breakdown.
func Describe(b *Breakdown) []PartInfo {
	out := make([]PartInfo, 0, len(b.parts))
	for _, part := range b.parts {
		info := PartInfo{
			Index:     part.Index(),
			Offset:    part.Offset(),
			Escaped:   part.Escaped(),
			Unescaped: part.Unescaped(),
		}
		switch p := part.(type) {
		case *Text:
			info.Kind = TextKind
		case *Malformed:
			info.Kind = MalformedKind
		case *Placeholder:
			info.Kind = PlaceholderKind
			if param := p.Parameter(); param != nil {
				index := param.ParameterIndex()
				info.Parameter = param.Unescaped()
				info.ParameterIndex = &index
			}
			if a := p.Alignment(); a != nil {
				value := a.Value()
				info.Alignment = &value
			}
			if f := p.Formatting(); f != nil {
				info.Formatting = f.Unescaped()
			}
		}
		out = append(out, info)
	}
	return out
}
