package models

// CategoryModel groups posts inside one service (content vertical).
type CategoryModel struct {
	Base
	Name        string `json:"name"        gorm:"size:128;not null"`
	Slug        string `json:"slug"        gorm:"size:191;not null;uniqueIndex:idx_categories_service_slug"`
	Service     string `json:"service"     gorm:"size:64;not null;uniqueIndex:idx_categories_service_slug;index"`
	Description string `json:"description" gorm:"type:text"`
}

func (CategoryModel) TableName() string { return "categories" }
