package extract

// Strategy is one way of locating a field on a product page.
type Strategy struct {
	Name     string
	Selector string
}

// NameStrategies are tried in order; the first non-empty text is the name.
var NameStrategies = []Strategy{
	{Name: "product title", Selector: "span#productTitle"},
	{Name: "large heading", Selector: "h1.a-size-large"},
	{Name: "title block", Selector: "#title span"},
	{Name: "heading span", Selector: "h1 span"},
}

// PriceStrategies are tried in order; the first text that normalizes to a
// valid price wins.
var PriceStrategies = []Strategy{
	{Name: "price whole", Selector: "span.a-price-whole"},
	{Name: "offscreen", Selector: "span.a-offscreen"},
	{Name: "our price", Selector: "#priceblock_ourprice"},
	{Name: "deal price", Selector: "#priceblock_dealprice"},
	{Name: "price block offscreen", Selector: ".a-price .a-offscreen"},
	{Name: "colored price", Selector: "span[data-a-color='price'] span.a-offscreen"},
	{Name: "price span", Selector: ".a-price span"},
}

// AvailabilityStrategies are tried in order; the first text that classifies
// as in or out of stock wins.
var AvailabilityStrategies = []Strategy{
	{Name: "availability span", Selector: "#availability span"},
	{Name: "availability", Selector: "#availability"},
	{Name: "stock availability", Selector: "#stockAvailability"},
	{Name: "availability div", Selector: "div#availability"},
}

// fractionSelector holds the cents part when the whole part is rendered
// separately.
const fractionSelector = "span.a-price-fraction"
