package epic

import (
	"fmt"
	"strings"
	"time"

	"epicbot/internal/transport"
	logx "epicbot/pkg/logx"
)

// All end dates are shown in the fixed reference timezone.
var refZone = time.FixedZone("UTC+8", 8*60*60)

// Preview image types, in preference order.
var previewImageTypes = []string{"Thumbnail", "VaultOpened", "DieselStoreFrontWide", "OfferImageWide"}

const storefrontURL = "https://store.epicgames.com"

func renderUnavailable() transport.Payload {
	return transport.Payload{Items: []transport.Item{
		transport.Text("Epic Store seems to be unreachable right now, try again later."),
	}}
}

// render builds the push payload: a header with the free-game count, then
// per game an optional preview image, the store link and an info block.
func render(games []game, log logx.Logger) transport.Payload {
	if len(games) == 0 {
		return renderUnavailable()
	}

	count := 0
	items := make([]transport.Item, 0, len(games)*3)

	for _, g := range games {
		name := g.Title
		if name == "" {
			name = "unknown"
		}
		if g.Promotions == nil {
			continue
		}

		current := g.Promotions.PromotionalOffers
		upcoming := g.Promotions.UpcomingPromotionalOffers
		price := g.Price.TotalPrice.FmtPrice

		if len(current) == 0 {
			if len(upcoming) > 0 {
				log.Debug("skipping upcoming-only promotion", logx.String("game", name))
			}
			continue
		}
		if price.DiscountPrice != "0" {
			log.Debug("skipping discounted but not free game",
				logx.String("game", name), logx.String("price", price.DiscountPrice))
			continue
		}

		if url := previewImage(g); url != "" {
			items = append(items, transport.Image(url))
		}

		items = append(items, transport.Text(storeURL(g)))
		items = append(items, transport.Text(infoBlock(g, name, price.OriginalPrice)))
		count++
	}

	header := "No free games found right now..."
	if count > 0 {
		header = fmt.Sprintf("%d game(s) free right now!", count)
	}
	items = append([]transport.Item{transport.Text(header)}, items...)

	return transport.Payload{Items: items}
}

func previewImage(g game) string {
	for _, want := range previewImageTypes {
		for _, img := range g.KeyImages {
			if img.URL != "" && img.Type == want {
				return img.URL
			}
		}
	}
	return ""
}

func infoBlock(g game, name, originalPrice string) string {
	dev := g.Seller.Name
	pub := g.Seller.Name
	for _, attr := range g.CustomAttributes {
		switch attr.Key {
		case "developerName":
			dev = attr.Value
		case "publisherName":
			pub = attr.Value
		}
	}
	companies := ""
	if pub != "" && pub != "Epic Dev Test Account" {
		if dev != "" && dev != pub {
			companies = fmt.Sprintf("Developed by %s, published by %s. ", dev, pub)
		} else {
			companies = fmt.Sprintf("Published by %s. ", pub)
		}
	}

	if originalPrice == "" {
		originalPrice = "unknown"
	}

	end := "unknown"
	offers := g.Promotions.PromotionalOffers
	if len(offers) > 0 && len(offers[0].PromotionalOffers) > 0 {
		if t, err := time.Parse(time.RFC3339, offers[0].PromotionalOffers[0].EndDate); err == nil {
			end = t.In(refZone).Format("Jan 2 15:04") + " (UTC+8)"
		}
	}

	return fmt.Sprintf("%s (%s)\n\n%s\n\n%sFree until %s, grab it via the link above.",
		name, originalPrice, g.Description, companies, end)
}

// storeURL resolves the product page: explicit url, then any productHome
// mapping, then a productSlug attribute, then the storefront.
func storeURL(g game) string {
	if g.URL != "" {
		return g.URL
	}
	for _, m := range g.OfferMappings {
		if m.PageType == "productHome" && m.PageSlug != "" {
			return storefrontURL + "/p/" + m.PageSlug
		}
	}
	for _, m := range g.CatalogNs.Mappings {
		if m.PageType == "productHome" && m.PageSlug != "" {
			return storefrontURL + "/p/" + m.PageSlug
		}
	}
	for _, attr := range g.CustomAttributes {
		if strings.Contains(attr.Key, "productSlug") && attr.Value != "" {
			return storefrontURL + "/p/" + attr.Value
		}
	}
	return storefrontURL
}
