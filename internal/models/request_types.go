package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Shipping method identifiers for the GRAMMER variant.
const (
	MethodFedex         = "fedex"
	MethodAereoMaritimo = "aereo_maritimo"
	MethodNacional      = "nacional"
)

// Request statuses. The ingestion endpoint only ever moves
// pending -> quoting; completed/canceled are set elsewhere.
const (
	StatusPending   = "pending"
	StatusQuoting   = "quoting"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// ServiceTypeForMethod maps each GRAMMER method to its service type.
var ServiceTypeForMethod = map[string]string{
	MethodFedex:         "air",
	MethodAereoMaritimo: "sea",
	MethodNacional:      "land",
}

// DefaultMeasurementUnits is applied when a fedex payload omits the units.
const DefaultMeasurementUnits = "cm/kg"

// NacionalDeliveryPlace is the fixed plant address for domestic shipments.
const NacionalDeliveryPlace = "Av. de la luz #24 int. 3 y 4 Acceso III. Parque Ind. Benito Juárez 76120, Querétaro. México"

// ShippingRequest is the model for the 'shipping_requests' table.
// Exactly one of {legacy JSON blobs, shipping_method + child row} is
// populated per request.
type ShippingRequest struct {
	ID                 int64          `json:"id" db:"id"`
	InternalReference  sql.NullString `json:"internal_reference" db:"internal_reference"`
	UserName           string         `json:"user_name" db:"user_name"`
	CompanyArea        sql.NullString `json:"company_area" db:"company_area"`
	Status             string         `json:"status" db:"status"`
	ShippingMethod     sql.NullString `json:"shipping_method" db:"shipping_method"`
	ServiceType        string         `json:"service_type" db:"service_type"`
	OriginDetails      sql.NullString `json:"origin_details" db:"origin_details"`
	DestinationDetails sql.NullString `json:"destination_details" db:"destination_details"`
	PackageDetails     sql.NullString `json:"package_details" db:"package_details"`
	MethodSpecificData sql.NullString `json:"method_specific_data" db:"method_specific_data"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// SendRequestInput is the ingestion payload. The two shapes (legacy and
// GRAMMER) share this struct; shape detection happens in the handler.
type SendRequestInput struct {
	IsGrammerRequest bool   `json:"is_grammer_request"`
	UserName         string `json:"user_name"`
	CompanyArea      string `json:"company_area"`
	ShippingMethod   string `json:"shipping_method"`

	// GRAMMER: raw so the handler can decode per method.
	MethodData json.RawMessage `json:"method_data"`

	// Legacy shape.
	ServiceType        string          `json:"service_type"`
	OriginDetails      json.RawMessage `json:"origin_details"`
	DestinationDetails json.RawMessage `json:"destination_details"`
	PackageDetails     json.RawMessage `json:"package_details"`
}

// FedexData holds the fedex method form fields.
type FedexData struct {
	OriginCompanyName  string `json:"origin_company_name"`
	OriginAddress      string `json:"origin_address"`
	OriginContactName  string `json:"origin_contact_name"`
	OriginContactPhone string `json:"origin_contact_phone"`
	OriginContactEmail string `json:"origin_contact_email"`

	DestinationCompanyName  string `json:"destination_company_name"`
	DestinationAddress      string `json:"destination_address"`
	DestinationContactName  string `json:"destination_contact_name"`
	DestinationContactPhone string `json:"destination_contact_phone"`
	DestinationContactEmail string `json:"destination_contact_email"`

	TotalPackages     int     `json:"total_packages"`
	TotalWeight       float64 `json:"total_weight"`
	MeasurementUnits  string  `json:"measurement_units"`
	PackageDimensions string  `json:"package_dimensions"`

	OrderNumber            string `json:"order_number"`
	MerchandiseDescription string `json:"merchandise_description"`
	MerchandiseType        string `json:"merchandise_type"`
	MerchandiseMaterial    string `json:"merchandise_material"`
}

// FreightData holds the shared aereo_maritimo / nacional form fields.
// Incoterm and DeliveryType only apply to aereo_maritimo.
type FreightData struct {
	TotalPallets  int     `json:"total_pallets"`
	TotalBoxes    int     `json:"total_boxes"`
	WeightPerUnit float64 `json:"weight_per_unit"`

	UnitLength float64 `json:"unit_length"`
	UnitWidth  float64 `json:"unit_width"`
	UnitHeight float64 `json:"unit_height"`

	PickupDate     string  `json:"pickup_date"`
	PickupAddress  string  `json:"pickup_address"`
	ShipHoursStart *string `json:"ship_hours_start"`
	ShipHoursEnd   *string `json:"ship_hours_end"`

	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`

	DeliveryPlace     string  `json:"delivery_place"`
	DeliveryDatePlant *string `json:"delivery_date_plant"`
	OrderNumber       string  `json:"order_number"`

	Incoterm     string  `json:"incoterm,omitempty"`
	DeliveryType *string `json:"delivery_type,omitempty"`
}

// AddressDetails is the legacy origin/destination blob.
type AddressDetails struct {
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Address    string `json:"address"`
	Contact    string `json:"contact,omitempty"`
}

// PackageItem is one entry of the legacy package_details array.
type PackageItem struct {
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	Weight      float64     `json:"weight"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
}

// Dimensions of a single legacy package, in cm.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
