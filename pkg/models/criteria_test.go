package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrandCriteria_NameAndVariations(t *testing.T) {
	c := BrandCriteria{BrandName: "Acme", BrandVariations: []string{"ACME Corp", "Acme Inc"}}
	assert.Equal(t, []string{"Acme", "ACME Corp", "Acme Inc"}, c.NameAndVariations())

	assert.Equal(t, []string{"Acme"}, BrandCriteria{BrandName: "Acme"}.NameAndVariations())
}

func TestBrandCriteria_ProductsAndCategories(t *testing.T) {
	c := BrandCriteria{
		BrandedProducts:          []string{"Rocket Skates"},
		BrandedProductCategories: []string{"footwear", "sports"},
	}
	assert.Equal(t, []string{"Rocket Skates", "footwear", "sports"}, c.ProductsAndCategories())

	assert.Empty(t, BrandCriteria{BrandName: "Acme"}.ProductsAndCategories())
}
