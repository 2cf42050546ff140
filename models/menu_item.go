package models

// Category is the closed set of menu categories accepted by the API.
type Category string

const (
	CategoryHalal    Category = "Halal"
	CategoryNonHalal Category = "Non-Halal"
)

// DefaultSpice is stored when a create request omits spice.
const DefaultSpice = "Mild"

// Categories returns every accepted category in display order.
func Categories() []Category {
	return []Category{CategoryHalal, CategoryNonHalal}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem is both the menu_items row and the output record.
// The CHECK constraints mirror the validation rules on MenuItemCreate.
type MenuItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Name       string   `gorm:"type:varchar(100);not null" json:"name"`
	Category   Category `gorm:"type:varchar(50);not null;index;check:chk_menu_items_category,category IN ('Halal','Non-Halal')" json:"category"`
	Spice      string   `gorm:"type:varchar(50);not null" json:"spice"`
	PriceCents int      `gorm:"not null;check:chk_menu_items_price_cents,price_cents >= 0" json:"price_cents"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// MenuItemCreate is the request body for POST /menu.
type MenuItemCreate struct {
	Name       string   `json:"name" binding:"required,max=100"`
	Category   Category `json:"category" binding:"required,menu_category"`
	Spice      *string  `json:"spice" binding:"omitempty,max=50"`
	PriceCents *int     `json:"price_cents" binding:"required,min=0"`
}

// MenuItem builds the row to insert, applying the spice default.
func (in MenuItemCreate) MenuItem() MenuItem {
	spice := DefaultSpice
	if in.Spice != nil {
		spice = *in.Spice
	}
	item := MenuItem{
		Name:     in.Name,
		Category: in.Category,
		Spice:    spice,
	}
	if in.PriceCents != nil {
		item.PriceCents = *in.PriceCents
	}
	return item
}

// MenuSearch holds the query string of GET /menu/search.
type MenuSearch struct {
	Query string `form:"query" binding:"required,min=1"`
}
