package entities

import "fmt"

// Strategy represents how a locator value is interpreted by the page
type Strategy string

const (
	StrategyCSS   Strategy = "css"
	StrategyXPath Strategy = "xpath"
)

// Locator is one way of identifying a UI element on the page
type Locator struct {
	Strategy Strategy `json:"strategy"`
	Value    string   `json:"value"`
}

// CSS builds a CSS selector locator
func CSS(selector string) Locator {
	return Locator{Strategy: StrategyCSS, Value: selector}
}

// XPath builds an XPath locator
func XPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Value: expr}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}
