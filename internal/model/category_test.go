package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryPatch(t *testing.T) {
	name := "shoes"
	count := 0

	patch := CategoryPatch{CategoryName: &name, ItemCount: &count}
	assert.False(t, patch.IsEmpty())
	assert.True(t, CategoryPatch{}.IsEmpty())

	c := &Category{ImageURL: "https://img/a.png", CategoryName: "old", ItemCount: 9}
	patch.Apply(c)
	assert.Equal(t, "https://img/a.png", c.ImageURL)
	assert.Equal(t, "shoes", c.CategoryName)
	assert.Equal(t, 0, c.ItemCount)

	assert.Equal(t, map[string]interface{}{
		"category_name": "shoes",
		"item_count":    0,
	}, patch.Columns())
}
