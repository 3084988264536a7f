package models

// Component is one named sub-indicator feeding the composite index,
// with its payload key, display title, and render color.
type Component struct {
	Key   string
	Title string
	Color string
}

// Components is the fixed set of sub-indicators, in display order.
// Keys match the top-level keys of the graphdata payload.
var Components = []Component{
	{Key: "market_momentum_sp500", Title: "Market Momentum (S&P 500)", Color: "#1f77b4"},
	{Key: "stock_price_strength", Title: "Stock Price Strength", Color: "#2ca02c"},
	{Key: "stock_price_breadth", Title: "Stock Price Breadth", Color: "#d62728"},
	{Key: "put_call_options", Title: "Put/Call Options", Color: "#9467bd"},
	{Key: "market_volatility_vix", Title: "Market Volatility (VIX)", Color: "#8c564b"},
	{Key: "junk_bond_demand", Title: "Junk Bond Demand", Color: "#7f7f7f"},
	{Key: "safe_haven_demand", Title: "Safe Haven Demand", Color: "#bcbd22"},
}

// ComponentByKey looks up a component by its payload key.
func ComponentByKey(key string) (Component, bool) {
	for _, c := range Components {
		if c.Key == key {
			return c, true
		}
	}
	return Component{}, false
}
