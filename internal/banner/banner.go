package banner

// Banner is a home page promo slide with alt text in the three
// storefront languages.
type Banner struct {
	ID        int     `json:"id"`
	Image     string  `json:"image"`
	Link      *string `json:"link,omitempty"`
	AltFR     *string `json:"alt_fr,omitempty"`
	AltAR     *string `json:"alt_ar,omitempty"`
	AltEN     *string `json:"alt_en,omitempty"`
	SortOrder int     `json:"sort_order"`
	Active    bool    `json:"active"`
}
