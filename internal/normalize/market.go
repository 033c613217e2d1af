package normalize

import (
	"regexp"
	"strings"
)

var brandPrefix = regexp.MustCompile(`(?i)^(AEG|Electrolux)\s+`)

// marketCountries maps market codes and names to the country names used by
// the world map.
var marketCountries = map[string]string{
	"UK": "United Kingdom",
	"GB": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"IT": "Italy",
	"ES": "Spain",
	"NL": "Netherlands",
	"BE": "Belgium",
	"SE": "Sweden",
	"DK": "Denmark",
	"NO": "Norway",
	"FI": "Finland",
	"US": "United States of America",
	"USA": "United States of America",
	"CA": "Canada",
	"AU": "Australia",

	"United Kingdom": "United Kingdom",
	"Great Britain":  "United Kingdom",
	"Germany":        "Germany",
	"France":         "France",
	"Italy":          "Italy",
	"Spain":          "Spain",
	"Netherlands":    "Netherlands",
	"Belgium":        "Belgium",
	"Sweden":         "Sweden",
	"Denmark":        "Denmark",
	"Norway":         "Norway",
	"Finland":        "Finland",
	"Australia":      "Australia",
	"Canada":         "Canada",
	"Austria":        "Austria",
	"Switzerland":    "Switzerland",
	"Poland":         "Poland",
	"Portugal":       "Portugal",
	"Czech Republic": "Czechia",
	"Czechia":        "Czechia",
	"Hungary":        "Hungary",
	"Romania":        "Romania",
}

// NormalizeMarket strips brand prefixes such as "AEG " from a market name.
func NormalizeMarket(m string) string {
	return strings.TrimSpace(brandPrefix.ReplaceAllString(strings.TrimSpace(m), ""))
}

// MarketCountry resolves a market to a country name. Unknown markets fall
// back to their brand-less name.
func MarketCountry(m string) string {
	if c, ok := marketCountries[m]; ok {
		return c
	}
	cleaned := NormalizeMarket(m)
	if c, ok := marketCountries[cleaned]; ok {
		return c
	}
	return cleaned
}
