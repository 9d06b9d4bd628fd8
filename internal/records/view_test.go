package records

import "testing"

func TestRow_Get(t *testing.T) {
	row := NewRow(map[string]any{
		"id":              42,
		"product_barcode": "840123",
		"lot":             false,
		"qty":             2.5,
	})

	tests := map[string]string{
		"id":              "42",
		"product_barcode": "840123",
		"lot":             "",
		"qty":             "2.5",
		"missing":         "",
	}
	for key, want := range tests {
		if got := row.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
	if row.ID() != "42" {
		t.Errorf("ID() = %q, want 42", row.ID())
	}
}

func TestCard_GetUnwrapsValue(t *testing.T) {
	card := NewCard(map[string]any{"id": "7", "product_barcode": "840123"})
	card.Values["empty"] = nil

	if got := card.Get("product_barcode"); got != "840123" {
		t.Errorf("Get(product_barcode) = %q", got)
	}
	if got := card.Get("empty"); got != "" {
		t.Errorf("Get(empty) = %q, want empty", got)
	}
	if got := card.ID(); got != "7" {
		t.Errorf("ID() = %q, want 7", got)
	}
}

func TestNilViews(t *testing.T) {
	var row *Row
	var card *Card
	if row.Get("id") != "" || card.Get("id") != "" {
		t.Error("nil views should return empty values")
	}
}

func TestCollect(t *testing.T) {
	rows := []*Row{NewRow(map[string]any{"id": 1}), NewRow(map[string]any{"id": 2})}
	cards := []*Card{NewCard(map[string]any{"id": 3})}

	tests := []struct {
		name   string
		sv     *SubView
		wantID []string
	}{
		{"no active view", nil, nil},
		{"list", &SubView{Kind: KindList, Rows: rows, Cards: cards}, []string{"1", "2"}},
		{"kanban", &SubView{Kind: KindKanban, Rows: rows, Cards: cards}, []string{"3"}},
		{"empty list", &SubView{Kind: KindList}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(tt.sv)
			if len(got) != len(tt.wantID) {
				t.Fatalf("Collect() returned %d views, want %d", len(got), len(tt.wantID))
			}
			for i, v := range got {
				if v.ID() != tt.wantID[i] {
					t.Errorf("view %d ID = %q, want %q", i, v.ID(), tt.wantID[i])
				}
			}
		})
	}
}
