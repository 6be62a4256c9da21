package models

import "time"

// RequestFilters is the body of POST /daoGetRequests. Absent/zero
// fields are omitted from the query; present ones are combined with
// logical AND.
type RequestFilters struct {
	Status         string `json:"status"`
	ShippingMethod string `json:"shipping_method"`
	ServiceType    string `json:"service_type"`
	UserName       string `json:"user_name"`
	DateFrom       string `json:"date_from"`
	DateTo         string `json:"date_to"`
	ID             int64  `json:"id"`
	Limit          int    `json:"limit"`
}

// QuoteStatus summarizes the quotes received for one request.
type QuoteStatus struct {
	TotalQuotes    int  `json:"total_quotes"`
	SelectedQuotes int  `json:"selected_quotes"`
	HasQuotes      bool `json:"has_quotes"`
}

// RouteInfo is the per-request country inference the dashboard renders.
type RouteInfo struct {
	OriginCountry      string `json:"origin_country"`
	DestinationCountry string `json:"destination_country"`
	IsInternational    bool   `json:"is_international"`
}

// PackageSummary totals the legacy package_details array.
type PackageSummary struct {
	TotalPackages int     `json:"total_packages"`
	TotalWeight   float64 `json:"total_weight"`
	TotalQuantity int     `json:"total_quantity"`
}

// RequestRow is one entry of the /daoGetRequests response. GRAMMER rows
// carry MethodDetails; legacy rows carry the decoded blobs plus a
// PackageSummary. RouteInfo is present for both.
type RequestRow struct {
	ID                int64  `json:"id"`
	InternalReference string `json:"internal_reference,omitempty"`
	UserName          string `json:"user_name"`
	CompanyArea       string `json:"company_area,omitempty"`
	Status            string `json:"status"`
	ShippingMethod    string `json:"shipping_method,omitempty"`
	ServiceType       string `json:"service_type"`

	CreatedAt          time.Time `json:"created_at"`
	CreatedAtFormatted string    `json:"created_at_formatted"`
	UpdatedAt          time.Time `json:"updated_at"`
	UpdatedAtFormatted string    `json:"updated_at_formatted"`

	QuoteStatus QuoteStatus `json:"quote_status"`
	RouteInfo   *RouteInfo  `json:"route_info,omitempty"`

	MethodDetails interface{} `json:"method_details,omitempty"`

	OriginDetails      *AddressDetails `json:"origin_details,omitempty"`
	DestinationDetails *AddressDetails `json:"destination_details,omitempty"`
	PackageDetails     []PackageItem   `json:"package_details,omitempty"`
	PackageSummary     *PackageSummary `json:"package_summary,omitempty"`
}

// --- Portal-wide statistics (dashboard cards and charts) ---

type BasicStats struct {
	TotalRequests int `json:"total_requests"`
	Pending       int `json:"pending"`
	Quoting       int `json:"quoting"`
	Completed     int `json:"completed"`
	Canceled      int `json:"canceled"`
}

type MethodCount struct {
	ShippingMethod string `json:"shipping_method"`
	Count          int    `json:"count"`
}

type ServiceCount struct {
	ServiceType string `json:"service_type"`
	Count       int    `json:"count"`
}

// ActivityPoint is one day of the 7-day rolling activity series.
type ActivityPoint struct {
	Date      string `json:"date"`
	Requests  int    `json:"requests"`
	Completed int    `json:"completed"`
}

type UserCount struct {
	UserName     string `json:"user_name"`
	RequestCount int    `json:"request_count"`
}

// PortalStats is the optional 'stats' object of /daoGetRequests.
type PortalStats struct {
	Basic          BasicStats      `json:"basic"`
	ByMethod       []MethodCount   `json:"by_method"`
	ByServiceType  []ServiceCount  `json:"by_service_type"`
	RecentActivity []ActivityPoint `json:"recent_activity"`
	TopUsers       []UserCount     `json:"top_users"`
}
