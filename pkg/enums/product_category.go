package enums

import (
	"fmt"
	"strings"
)

// ProductCategory groups catalog products for browsing.
type ProductCategory string

const (
	ProductCategoryFood        ProductCategory = "FOOD"
	ProductCategoryTreats      ProductCategory = "TREATS"
	ProductCategoryHealthcare  ProductCategory = "HEALTHCARE"
	ProductCategoryGrooming    ProductCategory = "GROOMING"
	ProductCategoryToys        ProductCategory = "TOYS"
	ProductCategoryAccessories ProductCategory = "ACCESSORIES"
	ProductCategoryBedding     ProductCategory = "BEDDING"
	ProductCategoryOther       ProductCategory = "OTHER"
)

var validProductCategories = []ProductCategory{
	ProductCategoryFood,
	ProductCategoryTreats,
	ProductCategoryHealthcare,
	ProductCategoryGrooming,
	ProductCategoryToys,
	ProductCategoryAccessories,
	ProductCategoryBedding,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory, ignoring case.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
