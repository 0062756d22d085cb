package category

// Category is a product grouping with names in the three storefront
// languages.
type Category struct {
	ID        int     `json:"id"`
	Slug      string  `json:"slug"`
	NameFR    string  `json:"name_fr"`
	NameAR    string  `json:"name_ar"`
	NameEN    string  `json:"name_en"`
	Image     *string `json:"image,omitempty"`
	SortOrder int     `json:"sort_order"`
}

// Name returns the name for the requested locale, falling back the same
// way the product catalog does.
func (c Category) Name(locale string) string {
	switch locale {
	case "ar":
		if c.NameAR != "" {
			return c.NameAR
		}
	case "en":
		if c.NameEN != "" {
			return c.NameEN
		}
	default:
		if c.NameFR != "" {
			return c.NameFR
		}
	}
	if c.NameFR != "" {
		return c.NameFR
	}
	if c.NameEN != "" {
		return c.NameEN
	}
	return c.NameAR
}
