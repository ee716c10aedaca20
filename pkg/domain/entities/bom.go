package entities

import (
	"fmt"
	"sort"
)

// ComponentID identifies one purchased component (or component group).
type ComponentID string

// Component represents a purchased component supplied from overseas.
type Component struct {
	ID   ComponentID
	Name string
}

// BOMLine maps one variant to the quantity of one component consumed per
// manufactured unit.
type BOMLine struct {
	VariantID       VariantID
	ComponentID     ComponentID
	UnitsPerVariant Quantity
}

// NewBOMLine creates a validated BOM line.
func NewBOMLine(variantID VariantID, componentID ComponentID, unitsPer Quantity) (*BOMLine, error) {
	if variantID == "" {
		return nil, fmt.Errorf("BOM line variant id cannot be empty")
	}
	if componentID == "" {
		return nil, fmt.Errorf("BOM line component id cannot be empty")
	}
	if unitsPer <= 0 {
		return nil, fmt.Errorf("BOM line units per variant must be positive, got %d", unitsPer)
	}
	return &BOMLine{
		VariantID:       variantID,
		ComponentID:     componentID,
		UnitsPerVariant: unitsPer,
	}, nil
}

// BillOfMaterials indexes BOM lines by variant.
type BillOfMaterials struct {
	lines map[VariantID][]BOMLine
}

// NewBillOfMaterials builds the index. Duplicate (variant, component) pairs
// are a configuration error.
func NewBillOfMaterials(lines []BOMLine) (*BillOfMaterials, error) {
	bom := &BillOfMaterials{lines: make(map[VariantID][]BOMLine)}
	seen := make(map[string]bool)
	for _, line := range lines {
		key := string(line.VariantID) + "|" + string(line.ComponentID)
		if seen[key] {
			return nil, fmt.Errorf("duplicate BOM line for variant %s component %s", line.VariantID, line.ComponentID)
		}
		seen[key] = true
		bom.lines[line.VariantID] = append(bom.lines[line.VariantID], line)
	}
	for _, vl := range bom.lines {
		sort.Slice(vl, func(i, j int) bool { return vl[i].ComponentID < vl[j].ComponentID })
	}
	return bom, nil
}

// LinesFor returns the BOM lines of one variant, ordered by component id.
func (b *BillOfMaterials) LinesFor(variantID VariantID) []BOMLine {
	return b.lines[variantID]
}

// Components returns every component referenced by the BOM, ordered by id.
func (b *BillOfMaterials) Components() []ComponentID {
	set := make(map[ComponentID]bool)
	for _, vl := range b.lines {
		for _, line := range vl {
			set[line.ComponentID] = true
		}
	}
	ids := make([]ComponentID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
