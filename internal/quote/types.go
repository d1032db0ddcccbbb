package quote

// quoteResponse mirrors the provider's quote endpoint envelope.
type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// quoteResult carries the price fields we care about. Different listings
// populate different fields, so all of them are optional.
type quoteResult struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PostMarketPrice    *float64 `json:"postMarketPrice"`
	Bid                *float64 `json:"bid"`
}

// lastPrice resolves the last-trade price from the fixed priority list of
// fields: regular market price, then post-market price, then best bid.
func (r quoteResult) lastPrice() (float64, bool) {
	for _, v := range []*float64{r.RegularMarketPrice, r.PostMarketPrice, r.Bid} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}
