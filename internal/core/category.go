package core

import "strings"

const (
	CategoryMeals     Category = "MEALS"
	CategorySnacks    Category = "SNACKS"
	CategoryBeverages Category = "BEVERAGES"
	CategoryTopUp     Category = "TOP_UP"
	CategoryLoan      Category = "LOAN"
	CategoryRefund    Category = "REFUND"
	CategoryOther     Category = "OTHER"
)

// Category identifies a wallet transaction category. Unknown values coming
// off the wire normalize to CategoryOther so that display lookup is total.
type Category string

// CategoryMeta is the display metadata attached to a category.
type CategoryMeta struct {
	Label string
	Icon  string
}

// ParseCategory normalizes an arbitrary category string from the wallet API.
func ParseCategory(s string) Category {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryMeals:
		return CategoryMeals
	case CategorySnacks:
		return CategorySnacks
	case CategoryBeverages:
		return CategoryBeverages
	case CategoryTopUp:
		return CategoryTopUp
	case CategoryLoan:
		return CategoryLoan
	case CategoryRefund:
		return CategoryRefund
	default:
		return CategoryOther
	}
}

// Meta returns display metadata for the category. The mapping is exhaustive:
// every Category constant has an entry and unparsed input has already been
// folded into CategoryOther, so there is no raw-string fallback path.
func (c Category) Meta() CategoryMeta {
	switch c {
	case CategoryMeals:
		return CategoryMeta{Label: "Meals", Icon: "utensils"}
	case CategorySnacks:
		return CategoryMeta{Label: "Snacks", Icon: "cookie"}
	case CategoryBeverages:
		return CategoryMeta{Label: "Beverages", Icon: "coffee"}
	case CategoryTopUp:
		return CategoryMeta{Label: "Top Up", Icon: "wallet"}
	case CategoryLoan:
		return CategoryMeta{Label: "Loan", Icon: "hand-coins"}
	case CategoryRefund:
		return CategoryMeta{Label: "Refund", Icon: "rotate-ccw"}
	default:
		return CategoryMeta{Label: "Other", Icon: "circle-dot"}
	}
}
