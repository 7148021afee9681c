// Package region holds the delivery-fee reference table for Ghana's sixteen
// administrative regions. Lookups are total: unknown input falls back to the
// default fee rather than failing.
package region

import "sort"

// DefaultFeeCents applies to any region string not in the table.
const DefaultFeeCents int64 = 5000

type Info struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	FeeCents int64  `json:"feeCents"`
}

var regions = map[string]Info{
	"greater-accra": {Key: "greater-accra", Label: "Greater Accra", FeeCents: 2000},
	"ashanti":       {Key: "ashanti", Label: "Ashanti", FeeCents: 4000},
	"central":       {Key: "central", Label: "Central", FeeCents: 3500},
	"eastern":       {Key: "eastern", Label: "Eastern", FeeCents: 3500},
	"western":       {Key: "western", Label: "Western", FeeCents: 4500},
	"western-north": {Key: "western-north", Label: "Western North", FeeCents: 5500},
	"volta":         {Key: "volta", Label: "Volta", FeeCents: 4500},
	"oti":           {Key: "oti", Label: "Oti", FeeCents: 5500},
	"bono":          {Key: "bono", Label: "Bono", FeeCents: 5000},
	"bono-east":     {Key: "bono-east", Label: "Bono East", FeeCents: 5000},
	"ahafo":         {Key: "ahafo", Label: "Ahafo", FeeCents: 5000},
	"northern":      {Key: "northern", Label: "Northern", FeeCents: 6000},
	"savannah":      {Key: "savannah", Label: "Savannah", FeeCents: 6500},
	"north-east":    {Key: "north-east", Label: "North East", FeeCents: 6500},
	"upper-east":    {Key: "upper-east", Label: "Upper East", FeeCents: 7000},
	"upper-west":    {Key: "upper-west", Label: "Upper West", FeeCents: 7000},
}

// FeeCents returns the flat delivery fee for the region, or DefaultFeeCents
// for unrecognized input. Never fails.
func FeeCents(key string) int64 {
	if info, ok := regions[key]; ok {
		return info.FeeCents
	}
	return DefaultFeeCents
}

// IsValid reports whether key names one of the sixteen regions.
func IsValid(key string) bool {
	_, ok := regions[key]
	return ok
}

// List returns all regions with fees and labels, sorted ascending by fee,
// ties broken by key.
func List() []Info {
	out := make([]Info, 0, len(regions))
	for _, info := range regions {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FeeCents != out[j].FeeCents {
			return out[i].FeeCents < out[j].FeeCents
		}
		return out[i].Key < out[j].Key
	})
	return out
}
