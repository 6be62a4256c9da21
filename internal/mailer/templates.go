package mailer

import (
	"fmt"
	"html"

	"github.com/aperezdev/quoting-portal/internal/models"
)

// EmailContent is a rendered carrier notification.
type EmailContent struct {
	Subject string
	Body    string
}

// LegacyQuoteRequest renders the generic notification for a legacy
// (non-GRAMMER) shipping request.
func LegacyQuoteRequest(requestID int64, carrierName string, origin, destination models.AddressDetails) EmailContent {
	subject := fmt.Sprintf("Quote Request #%d", requestID)
	body := fmt.Sprintf(`
	<html><body>
	<h1>Quote Request #%d</h1>
	<p>Dear %s,</p>
	<p>Please provide a quote for the following shipment:</p>
	<p><strong>Origin:</strong> %s</p>
	<p><strong>Destination:</strong> %s</p>
	<p>Please reply to this email with your quote.</p>
	<p>Thank you!</p>
	</body></html>`,
		requestID,
		html.EscapeString(carrierName),
		html.EscapeString(origin.Address),
		html.EscapeString(destination.Address),
	)
	return EmailContent{Subject: subject, Body: body}
}

// FedexQuoteRequest renders the notification for a fedex express request.
func FedexQuoteRequest(reference, carrierName string, d models.FedexData) EmailContent {
	subject := fmt.Sprintf("Quote Request #%s", reference)
	body := fmt.Sprintf(`
	<html><body>
	<h1>Quote Request #%s</h1>
	<p>Dear %s,</p>
	<p>Please provide a quote for the following urgent shipment (Fedex Express):</p>
	<p><strong>Origin:</strong> %s - %s (contact: %s)</p>
	<p><strong>Destination:</strong> %s - %s (contact: %s)</p>
	<p><strong>Packages:</strong> %d, total weight %.2f (%s)</p>
	<p><strong>Merchandise:</strong> %s</p>
	<p>Please reply to this email with your quote.</p>
	<p>Thank you!</p>
	</body></html>`,
		html.EscapeString(reference),
		html.EscapeString(carrierName),
		html.EscapeString(d.OriginCompanyName), html.EscapeString(d.OriginAddress), html.EscapeString(d.OriginContactName),
		html.EscapeString(d.DestinationCompanyName), html.EscapeString(d.DestinationAddress), html.EscapeString(d.DestinationContactName),
		d.TotalPackages, d.TotalWeight, html.EscapeString(d.MeasurementUnits),
		html.EscapeString(d.MerchandiseDescription),
	)
	return EmailContent{Subject: subject, Body: body}
}

// FreightQuoteRequest renders the notification for an aereo_maritimo or
// nacional request; the two methods share the freight field set.
func FreightQuoteRequest(reference, carrierName, method string, d models.FreightData) EmailContent {
	subject := fmt.Sprintf("Quote Request #%s", reference)

	methodLabel := "Nacional (domestic freight)"
	incotermLine := ""
	if method == models.MethodAereoMaritimo {
		methodLabel = "Aéreo-Marítimo (international freight)"
		incotermLine = fmt.Sprintf("<p><strong>Incoterm:</strong> %s</p>", html.EscapeString(d.Incoterm))
	}

	body := fmt.Sprintf(`
	<html><body>
	<h1>Quote Request #%s</h1>
	<p>Dear %s,</p>
	<p>Please provide a quote for the following shipment (%s):</p>
	<p><strong>Units:</strong> %d pallet(s), %d box(es), %.2f kg per unit</p>
	<p><strong>Pickup:</strong> %s on %s (contact: %s)</p>
	<p><strong>Delivery:</strong> %s</p>
	%s
	<p>Please reply to this email with your quote.</p>
	<p>Thank you!</p>
	</body></html>`,
		html.EscapeString(reference),
		html.EscapeString(carrierName),
		methodLabel,
		d.TotalPallets, d.TotalBoxes, d.WeightPerUnit,
		html.EscapeString(d.PickupAddress), html.EscapeString(d.PickupDate), html.EscapeString(d.ContactName),
		html.EscapeString(d.DeliveryPlace),
		incotermLine,
	)
	return EmailContent{Subject: subject, Body: body}
}
