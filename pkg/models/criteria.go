package models

// BrandCriteria is the brand input for one assessment run. Immutable for
// the duration of the run; matching against variations and product names
// is case-insensitive in the detectors.
type BrandCriteria struct {
	BrandName                string   `json:"brand_name" validate:"required,min=1,max=255"`
	BrandVariations          []string `json:"brand_variations,omitempty"`
	BrandedProducts          []string `json:"branded_products,omitempty"`
	BrandedProductCategories []string `json:"branded_products_categories,omitempty"`
	BrandedCallToActions     []string `json:"branded_call_to_actions,omitempty"`
}

// NameAndVariations returns the brand name followed by its variations.
func (c BrandCriteria) NameAndVariations() []string {
	out := make([]string, 0, len(c.BrandVariations)+1)
	out = append(out, c.BrandName)
	out = append(out, c.BrandVariations...)
	return out
}

// ProductsAndCategories returns branded products followed by their
// categories.
func (c BrandCriteria) ProductsAndCategories() []string {
	out := make([]string, 0, len(c.BrandedProducts)+len(c.BrandedProductCategories))
	out = append(out, c.BrandedProducts...)
	out = append(out, c.BrandedProductCategories...)
	return out
}
