package normalize

import "github.com/itechlabs/comercial-insights/internal/table"

// Canonical field names shared by all tables after mapping.
const (
	FieldDate               = "Date"
	FieldClient             = "Client"
	FieldRepresentative     = "Representative"
	FieldProduct            = "Product"
	FieldProductDescription = "Product Description"
	FieldQuantity           = "Quantity"
	FieldUnitValue          = "Unit Value"

	FieldMonthYear        = "Month/Year"
	FieldLocation         = "Location"
	FieldReference        = "Reference"
	FieldDescription      = "Description"
	FieldPhysicalQuantity = "Physical Quantity"
)

// Mapping is a many-to-one synonym table from normalized raw headers to
// canonical field names. It is plain data so a new export layout can be
// supported by extending the table instead of the code.
type Mapping map[string]string

// TransactionAliases covers the quote, order and invoice exports. The
// invoice export uses the abbreviated ERP headers (dt.faturam, qtd.item,
// vlr.un), the other two spell fields out in Portuguese.
func TransactionAliases() Mapping {
	return Mapping{
		"data":       FieldDate,
		"dt.faturam": FieldDate,

		"cliente":      FieldClient,
		"razao social": FieldClient,

		"quantidade": FieldQuantity,
		"qtd.item":   FieldQuantity,

		"valor unitario": FieldUnitValue,
		"vlr.un":         FieldUnitValue,

		"produto": FieldProduct,

		"descricao do produto": FieldProductDescription,
		"desc.prod":            FieldProductDescription,

		"desc.repr/prep": FieldRepresentative,
	}
}

// InventoryAliases covers the stock export.
func InventoryAliases() Mapping {
	return Mapping{
		"mes/ano":    FieldMonthYear,
		"local":      FieldLocation,
		"produto":    FieldProduct,
		"referencia": FieldReference,
		"descricao":  FieldDescription,
		"qtd.fisica": FieldPhysicalQuantity,
	}
}

// Apply renames every header with a synonym entry to its canonical name,
// leaving unmapped headers untouched, then collapses duplicate canonical
// columns keeping the first occurrence in stable order. Applying a mapping
// to already-canonical headers is a no-op.
func (m Mapping) Apply(t *table.Table) {
	for i, h := range t.Headers {
		if canonical, ok := m[h]; ok {
			t.Headers[i] = canonical
		}
	}

	seen := make(map[string]struct{}, len(t.Headers))
	var dup []int
	for i, h := range t.Headers {
		if _, ok := seen[h]; ok {
			dup = append(dup, i)
			continue
		}
		seen[h] = struct{}{}
	}
	t.DropColumns(dup...)
}
