// internal/models/categories.go
package models

// Category is one of the fixed business data domains a tag can resolve against.
type Category string

const (
	CategoryClient      Category = "client"
	CategoryProject     Category = "project"
	CategoryCadastre    Category = "cadastre"
	CategoryCalculation Category = "calculation"
	CategoryDocument    Category = "document"
)

// Categories lists all categories in classification priority order.
var Categories = []Category{
	CategoryClient,
	CategoryProject,
	CategoryCadastre,
	CategoryCalculation,
	CategoryDocument,
}

// CategoryFields is the fixed table of field names each category is known to
// expose. Both tables are read-only; classification is a pure function over them.
var CategoryFields = map[Category][]string{
	CategoryClient: {
		"surname", "name", "patronymic", "phone", "email",
		"address", "passport", "inn", "birth_date",
	},
	CategoryProject: {
		"number", "name", "status", "surface_area",
		"start_date", "end_date", "price", "address",
	},
	CategoryCadastre: {
		"cadastral_number", "quarter", "district", "area",
		"land_category", "permitted_use",
	},
	CategoryCalculation: {
		"total", "base_rate", "coefficient", "discount", "vat",
	},
	CategoryDocument: {
		"number", "name", "date", "type",
	},
}

// IsValid reports whether the category is a member of the fixed set.
func (c Category) IsValid() bool {
	_, ok := CategoryFields[c]
	return ok
}
