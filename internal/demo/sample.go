package demo

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SamplePickings returns two pickings with a few operation lines each.
func SamplePickings() []*Picking {
	return []*Picking{
		{
			Name:   "WH/IN/00012",
			Values: map[string]string{"partner_id": "Azure Interior", "origin": "PO00031"},
			Lines: []Line{
				{ID: "101", Product: "Office Chair", Barcode: "8412345678900"},
				{ID: "102", Product: "Desk Lamp", Barcode: "8401234500017"},
				{ID: "103", Product: "Cable Management Box", Barcode: "840123"},
				{ID: "104", Product: "Unlabelled Kit", Barcode: ""},
			},
		},
		{
			Name:   "WH/IN/00013",
			Values: map[string]string{"partner_id": "Deco Addict", "origin": "PO00032"},
			Lines: []Line{
				{ID: "201", Product: "Large Cabinet", Barcode: "5012345678900"},
				{ID: "202", Product: "Drawer Black", Barcode: "5012345000099"},
			},
		},
	}
}

// pickingFile is the YAML layout read by LoadPickings.
type pickingFile struct {
	Pickings []*Picking `yaml:"pickings"`
}

// LoadPickings decodes pickings from YAML:
//
//	pickings:
//	  - name: WH/IN/00012
//	    values: {partner_id: Azure Interior}
//	    lines:
//	      - {id: "101", product: Office Chair, barcode: "8412345678900"}
func LoadPickings(r io.Reader) ([]*Picking, error) {
	var f pickingFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode pickings: %w", err)
	}
	if len(f.Pickings) == 0 {
		return nil, fmt.Errorf("decode pickings: no pickings defined")
	}
	for i, p := range f.Pickings {
		seen := make(map[string]bool, len(p.Lines))
		for _, l := range p.Lines {
			if l.ID == "" {
				return nil, fmt.Errorf("picking %d (%s): line without id", i, p.Name)
			}
			if seen[l.ID] {
				return nil, fmt.Errorf("picking %d (%s): duplicate line id %q", i, p.Name, l.ID)
			}
			seen[l.ID] = true
		}
	}
	return f.Pickings, nil
}
