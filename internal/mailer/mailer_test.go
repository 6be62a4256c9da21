package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aperezdev/quoting-portal/internal/models"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"simple markup",
			"<p>Hola <strong>mundo</strong></p>",
			"Hola mundo",
		},
		{
			"blank lines collapse",
			"<html><body>\n<h1>Titulo</h1>\n\n   \n<p>cuerpo</p>\n</body></html>",
			"Titulo\ncuerpo",
		},
		{
			"no markup",
			"texto plano",
			"texto plano",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.html))
		})
	}
}

func TestNewSimulatedMode(t *testing.T) {
	t.Setenv("SMTP_HOST", "")

	m := New()
	assert.True(t, m.Simulated())

	// Simulated sends always succeed.
	assert.True(t, m.SendEmail("cotiza@tdn.mx", "Transportes del Norte", "Quote Request #1", "<p>hola</p>"))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")

	m := New()
	assert.False(t, m.Simulated())
}

func TestFedexQuoteRequestTemplate(t *testing.T) {
	content := FedexQuoteRequest("GRM-20260831-0007", "Transportes del Norte", models.FedexData{
		OriginCompanyName:      "Grammer QRO",
		OriginAddress:          "Querétaro, México",
		DestinationCompanyName: "Grammer US",
		DestinationAddress:     "El Paso, Texas",
		TotalPackages:          3,
		TotalWeight:            42.5,
		MeasurementUnits:       "cm/kg",
		MerchandiseDescription: "Fundas de asiento",
	})

	assert.Equal(t, "Quote Request #GRM-20260831-0007", content.Subject)
	assert.Contains(t, content.Body, "Transportes del Norte")
	assert.Contains(t, content.Body, "Querétaro, México")
	assert.Contains(t, content.Body, "Fundas de asiento")
	assert.Contains(t, content.Body, "3, total weight 42.50 (cm/kg)")
}

func TestFreightQuoteRequestTemplate(t *testing.T) {
	data := models.FreightData{
		TotalPallets:  2,
		TotalBoxes:    10,
		WeightPerUnit: 150.5,
		PickupAddress: "Parque Industrial, Guadalajara",
		PickupDate:    "2026-09-05",
		ContactName:   "Pedro Ruiz",
		DeliveryPlace: "Planta Querétaro",
		Incoterm:      "FOB",
	}

	t.Run("aereo_maritimo includes incoterm", func(t *testing.T) {
		content := FreightQuoteRequest("GRM-20260831-0008", "Naviera del Golfo", models.MethodAereoMaritimo, data)
		assert.Contains(t, content.Body, "Aéreo-Marítimo")
		assert.Contains(t, content.Body, "FOB")
	})

	t.Run("nacional omits incoterm", func(t *testing.T) {
		content := FreightQuoteRequest("GRM-20260831-0009", "Fletes Rápidos", models.MethodNacional, data)
		assert.Contains(t, content.Body, "Nacional")
		assert.NotContains(t, content.Body, "Incoterm")
	})
}

func TestTemplatesEscapeUserInput(t *testing.T) {
	content := LegacyQuoteRequest(1, "Carrier <script>alert(1)</script>", models.AddressDetails{
		Address: "Calle 5 <b>sin escapar</b>",
	}, models.AddressDetails{})

	assert.NotContains(t, content.Body, "<script>")
	assert.Contains(t, content.Body, "&lt;script&gt;")
	assert.NotContains(t, content.Body, "<b>sin escapar</b>")
}
