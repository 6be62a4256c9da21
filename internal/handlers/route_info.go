package handlers

import (
	"strings"

	"github.com/aperezdev/quoting-portal/internal/models"
)

// Country inference is a deliberate keyword heuristic on free-text
// addresses, kept compatible with the original portal: downstream
// statistics depend on its exact output, so it must not be "improved".

var mexicoKeywords = []string{
	"mexico", "méxico", "queretaro", "querétaro", "qro",
	"cdmx", "guadalajara", "monterrey",
}

var usKeywords = []string{
	"usa", "u.s.a", "united states", "estados unidos", "eeuu", "ee.uu",
	"texas", "california", "laredo", "el paso",
}

// inferCountry classifies a free-text address as "MX", "US" or "INTL".
func inferCountry(text string) string {
	lowered := strings.ToLower(text)
	for _, kw := range mexicoKeywords {
		if strings.Contains(lowered, kw) {
			return "MX"
		}
	}
	for _, kw := range usKeywords {
		if strings.Contains(lowered, kw) {
			return "US"
		}
	}
	return "INTL"
}

// routeInfoFromAddresses derives the route object the dashboard
// renders. A shipment is international when the inferred countries
// differ.
func routeInfoFromAddresses(origin, destination string) *models.RouteInfo {
	originCountry := inferCountry(origin)
	destinationCountry := inferCountry(destination)
	return &models.RouteInfo{
		OriginCountry:      originCountry,
		DestinationCountry: destinationCountry,
		IsInternational:    originCountry != destinationCountry,
	}
}

// nacionalRouteInfo is hard-coded: domestic shipments always deliver at
// the Querétaro plant.
func nacionalRouteInfo() *models.RouteInfo {
	return &models.RouteInfo{
		OriginCountry:      "MX",
		DestinationCountry: "MX",
		IsInternational:    false,
	}
}
