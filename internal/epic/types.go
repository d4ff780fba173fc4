package epic

// Raw shapes of the Epic Games Store freeGamesPromotions response.
// Only the fields the renderer needs are declared.

type promoWindow struct {
	EndDate string `json:"endDate"`
}

type promoOffer struct {
	PromotionalOffers []promoWindow `json:"promotionalOffers"`
}

type promotions struct {
	PromotionalOffers         []promoOffer `json:"promotionalOffers"`
	UpcomingPromotionalOffers []promoOffer `json:"upcomingPromotionalOffers"`
}

type keyImage struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type customAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pageMapping struct {
	PageSlug string `json:"pageSlug"`
	PageType string `json:"pageType"`
}

type fmtPrice struct {
	OriginalPrice string `json:"originalPrice"`
	DiscountPrice string `json:"discountPrice"`
}

type game struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Seller      struct {
		Name string `json:"name"`
	} `json:"seller"`
	KeyImages        []keyImage        `json:"keyImages"`
	CustomAttributes []customAttribute `json:"customAttributes"`
	Promotions       *promotions       `json:"promotions"`
	Price            struct {
		TotalPrice struct {
			FmtPrice fmtPrice `json:"fmtPrice"`
		} `json:"totalPrice"`
	} `json:"price"`
	URL           string        `json:"url"`
	OfferMappings []pageMapping `json:"offerMappings"`
	CatalogNs     struct {
		Mappings []pageMapping `json:"mappings"`
	} `json:"catalogNs"`
}

type apiResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []game `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}
