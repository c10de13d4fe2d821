package model

// Section is a menu category. Sections are administrator-managed and
// read-only to the storefront, which only lists the active ones.
type Section struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description  string `gorm:"type:text" json:"description"`
	Active       bool   `gorm:"default:true;index" json:"active"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`

	Products []Product `json:"products,omitempty"`
}
