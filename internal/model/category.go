package model

import "time"

// Category is an image-backed product category. UserID is the owner at
// creation time and stays nil for anonymous creates.
type Category struct {
	ID           string    `gorm:"primaryKey;size:36" firestore:"-" json:"_id"`
	ImageURL     string    `gorm:"size:1024;not null" firestore:"image_url" json:"image_url"`
	CategoryName string    `gorm:"size:128;not null" firestore:"category_name" json:"category_name"`
	ItemCount    int       `gorm:"not null;default:0" firestore:"item_count" json:"item_count"`
	UserID       *string   `gorm:"size:36;index" firestore:"user_id" json:"user_id"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// CategoryPatch carries the fields of a partial update. Nil means untouched.
type CategoryPatch struct {
	ImageURL     *string
	CategoryName *string
	ItemCount    *int
}

func (p CategoryPatch) IsEmpty() bool {
	return p.ImageURL == nil && p.CategoryName == nil && p.ItemCount == nil
}

// Apply copies the set fields of p onto c.
func (p CategoryPatch) Apply(c *Category) {
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.CategoryName != nil {
		c.CategoryName = *p.CategoryName
	}
	if p.ItemCount != nil {
		c.ItemCount = *p.ItemCount
	}
}

// Columns returns the patch as a column map for partial updates.
func (p CategoryPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.CategoryName != nil {
		cols["category_name"] = *p.CategoryName
	}
	if p.ItemCount != nil {
		cols["item_count"] = *p.ItemCount
	}
	return cols
}
