package domain

import "time"

// CategoryType restricts a category to one side of the ledger.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// ValidCategoryType reports whether t is a supported category type.
func ValidCategoryType(t CategoryType) bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Category is a per-user taxonomy entry. Names are unique per user and type,
// compared case-insensitively.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Type      CategoryType
	Icon      string
	Color     string
	CreatedAt time.Time
}

// Validate checks category invariants.
func (c *Category) Validate() error {
	if c.Name == "" {
		return NewValidationError("name is required")
	}
	if !ValidCategoryType(c.Type) {
		return NewValidationError("type must be income or expense")
	}
	return nil
}

// Subcategory belongs to exactly one category and user. The counterparty
// fields support invoicing-style bookkeeping.
type Subcategory struct {
	ID                   string
	UserID               string
	CategoryID           string
	Name                 string
	CounterpartyName     string
	CounterpartyDocument string
	CounterpartyContact  string
	CreatedAt            time.Time
}

// Validate checks subcategory invariants.
func (s *Subcategory) Validate() error {
	if s.Name == "" {
		return NewValidationError("name is required")
	}
	if s.CategoryID == "" {
		return NewValidationError("category_id is required")
	}
	return nil
}

// SeedCategory describes one default taxonomy entry provisioned for new
// accounts.
type SeedCategory struct {
	Name          string
	Type          CategoryType
	Icon          string
	Color         string
	Subcategories []string
}

// DefaultCategories is the provider-defined seed set applied idempotently at
// account activation.
var DefaultCategories = []SeedCategory{
	{Name: "Ventas", Type: CategoryIncome, Icon: "trending-up", Color: "#16a34a", Subcategories: []string{"Productos", "Servicios"}},
	{Name: "Otros ingresos", Type: CategoryIncome, Icon: "plus-circle", Color: "#0ea5e9"},
	{Name: "Nómina", Type: CategoryExpense, Icon: "users", Color: "#dc2626"},
	{Name: "Renta", Type: CategoryExpense, Icon: "home", Color: "#ea580c"},
	{Name: "Servicios", Type: CategoryExpense, Icon: "zap", Color: "#ca8a04", Subcategories: []string{"Luz", "Agua", "Internet"}},
	{Name: "Insumos", Type: CategoryExpense, Icon: "package", Color: "#9333ea"},
	{Name: "Marketing", Type: CategoryExpense, Icon: "megaphone", Color: "#db2777"},
	{Name: "Impuestos", Type: CategoryExpense, Icon: "file-text", Color: "#64748b"},
	{Name: "Otros gastos", Type: CategoryExpense, Icon: "minus-circle", Color: "#475569"},
}
