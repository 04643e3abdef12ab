package reply

// Action tags the kind of code sample attached to a reply.
type Action string

const (
	ActionTransfer Action = "transfer"
	ActionDebug    Action = "debug"
	ActionOptimize Action = "optimize"
	ActionNFT      Action = "nft"
)

// Suggestion is a follow-up button rendered under an assistant reply.
type Suggestion struct {
	Type  string         `json:"type" yaml:"type"`
	Label string         `json:"label" yaml:"label"`
	Data  map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Template is a canned assistant reply selected by keyword.
type Template struct {
	Name        string            `json:"name" yaml:"name"`
	Keywords    []string          `json:"keywords,omitempty" yaml:"keywords"`
	Text        string            `json:"text" yaml:"text"`
	CodeFile    string            `json:"-" yaml:"code"`
	CodeSample  string            `json:"codeSample,omitempty" yaml:"-"`
	CodeTitle   string            `json:"codeTitle,omitempty" yaml:"codeTitle"`
	Action      Action            `json:"action,omitempty" yaml:"action"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata"`
	Suggestions []Suggestion      `json:"suggestions,omitempty" yaml:"suggestions"`
}

// Clone returns a deep copy so callers can never mutate catalog entries.
func (t Template) Clone() Template {
	out := t
	out.Keywords = append([]string(nil), t.Keywords...)
	if t.Metadata != nil {
		out.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			out.Metadata[k] = v
		}
	}
	if t.Suggestions != nil {
		out.Suggestions = make([]Suggestion, len(t.Suggestions))
		for i, s := range t.Suggestions {
			out.Suggestions[i] = s.clone()
		}
	}
	return out
}

func (s Suggestion) clone() Suggestion {
	out := s
	if s.Data != nil {
		out.Data = make(map[string]any, len(s.Data))
		for k, v := range s.Data {
			out.Data[k] = v
		}
	}
	return out
}
