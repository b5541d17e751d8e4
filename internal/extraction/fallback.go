package extraction

import "fmt"

const textContent = "textContent"

// NoMatch is emitted in place of a spec whose selector matched nothing.
func NoMatch(selector string) string {
	return "Could not find by selector: " + selector
}

// EmptyValue is emitted in place of a matched node that yielded no value.
func EmptyValue(selector, attribute string) string {
	source := attribute
	if source == "" {
		source = textContent
	}
	return fmt.Sprintf("Could not get a value for %s by %s", selector, source)
}
