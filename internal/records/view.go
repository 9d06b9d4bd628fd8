package records

import "fmt"

// IDKey is the attribute holding a record's identity.
const IDKey = "id"

// View is a read-only projection of one displayed record.
type View interface {
	// Get returns the display value of key, or "" when absent or empty.
	Get(key string) string
	// ID returns the record identity, equivalent to Get("id").
	ID() string
}

// Row is a record of a list (tree) view. Values are stored flat.
type Row struct {
	Values map[string]any
}

// NewRow creates a Row over values.
func NewRow(values map[string]any) *Row {
	return &Row{Values: values}
}

// Get implements View.
func (r *Row) Get(key string) string {
	if r == nil {
		return ""
	}
	return display(r.Values[key])
}

// ID implements View.
func (r *Row) ID() string { return r.Get(IDKey) }

// CardValue is one field value held by a kanban card.
type CardValue struct {
	Value any
}

// Card is a record of a kanban view. Each value is wrapped in a CardValue.
type Card struct {
	Values map[string]*CardValue
}

// NewCard creates a Card, wrapping every entry of values.
func NewCard(values map[string]any) *Card {
	wrapped := make(map[string]*CardValue, len(values))
	for k, v := range values {
		wrapped[k] = &CardValue{Value: v}
	}
	return &Card{Values: wrapped}
}

// Get implements View by unwrapping the card value.
func (c *Card) Get(key string) string {
	if c == nil {
		return ""
	}
	v, ok := c.Values[key]
	if !ok || v == nil {
		return ""
	}
	return display(v.Value)
}

// ID implements View.
func (c *Card) ID() string { return c.Get(IDKey) }

// display renders a raw value. A false boolean is the host's "unset" marker
// and renders as empty.
func display(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Kind identifies the type of the active sub-view.
type Kind string

const (
	KindList   Kind = "list"
	KindKanban Kind = "kanban"
)

// SubView is the view currently shown for a one-to-many field.
type SubView struct {
	Kind  Kind
	Model string
	Rows  []*Row
	Cards []*Card
}

// Collect returns the records displayed by sv: cards for a kanban view, rows
// otherwise. A nil sub-view yields no records.
func Collect(sv *SubView) []View {
	if sv == nil {
		return nil
	}
	if sv.Kind == KindKanban {
		views := make([]View, 0, len(sv.Cards))
		for _, c := range sv.Cards {
			views = append(views, c)
		}
		return views
	}
	views := make([]View, 0, len(sv.Rows))
	for _, r := range sv.Rows {
		views = append(views, r)
	}
	return views
}
