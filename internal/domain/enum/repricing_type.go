package enum

import "encoding/json"

// RepricingType describes how a line's price moved between save and resume
type RepricingType int

const (
	RepricingTypeNoChange     RepricingType = 0
	RepricingTypePriceChange  RepricingType = 1
	RepricingTypeOfferAdded   RepricingType = 2
	RepricingTypeOfferRemoved RepricingType = 3
)

func (t RepricingType) String() string {
	return [...]string{"NO_CHANGE", "PRICE_CHANGE", "OFFER_ADDED", "OFFER_REMOVED"}[t]
}

func (t RepricingType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
