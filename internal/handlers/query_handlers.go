package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aperezdev/quoting-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// timestampFormat matches what the original portal rendered in the
// dashboard table (day/month/year hour:minute).
const timestampFormat = "02/01/2006 15:04"

//
// --- Request Query (POST /daoGetRequests) ---
//

// GetRequests returns shipping requests matching the optional filter
// set, newest first, each enriched with quote counts, route inference
// and method details (GRAMMER) or decoded blobs plus a package summary
// (legacy). Unless the filters target a single id, portal-wide stats
// ride along; a stats failure degrades to an inline error object
// instead of failing the read.
func (h *Handlers) GetRequests(c *gin.Context) {
	// 1. --- Parse Filters (empty body = no filters) ---
	var filters models.RequestFilters
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error getting requests: failed to read body", nil)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &filters); err != nil {
			respond(c, http.StatusInternalServerError, false,
				"Error getting requests: invalid JSON: "+err.Error(),
				gin.H{"filters": nil})
			return
		}
	}

	// 2. --- Query Base Rows ---
	query, args := buildRequestsQuery(filters)
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error getting requests: "+err.Error(), gin.H{"filters": filters})
		return
	}

	var scanned []scannedRequest
	for rows.Next() {
		var sr scannedRequest
		if err := rows.Scan(
			&sr.ID, &sr.InternalReference, &sr.UserName, &sr.CompanyArea,
			&sr.Status, &sr.ShippingMethod, &sr.ServiceType,
			&sr.OriginDetails, &sr.DestinationDetails, &sr.PackageDetails,
			&sr.CreatedAt, &sr.UpdatedAt,
			&sr.TotalQuotes, &sr.SelectedQuotes,
		); err != nil {
			rows.Close()
			respond(c, http.StatusInternalServerError, false, "Error getting requests: failed to scan row", gin.H{"filters": filters})
			return
		}
		scanned = append(scanned, sr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		respond(c, http.StatusInternalServerError, false, "Error getting requests: "+err.Error(), gin.H{"filters": filters})
		return
	}
	rows.Close()

	// 3. --- Enrich Each Row ---
	requests := make([]models.RequestRow, 0, len(scanned))
	for _, sr := range scanned {
		row, err := h.buildRequestRow(sr)
		if err != nil {
			respond(c, http.StatusInternalServerError, false, "Error getting requests: "+err.Error(), gin.H{"filters": filters})
			return
		}
		requests = append(requests, row)
	}

	data := gin.H{
		"requests": requests,
		"total":    len(requests),
	}

	// 4. --- Portal Stats (skipped for single-id lookups) ---
	if filters.ID == 0 {
		stats, err := h.computeStats(filters)
		if err != nil {
			log.Printf("Stats computation failed: %v", err)
			data["stats"] = gin.H{"error": "Stats not available"}
		} else {
			data["stats"] = stats
		}
	}

	respond(c, http.StatusOK, true, "Requests retrieved successfully", data)
}

// scannedRequest is one raw result row of the base query, before
// per-request enrichment.
type scannedRequest struct {
	ID                 int64
	InternalReference  sql.NullString
	UserName           string
	CompanyArea        sql.NullString
	Status             string
	ShippingMethod     sql.NullString
	ServiceType        string
	OriginDetails      sql.NullString
	DestinationDetails sql.NullString
	PackageDetails     sql.NullString
	CreatedAt          time.Time
	UpdatedAt          time.Time
	TotalQuotes        int
	SelectedQuotes     int
}

// buildRequestsQuery maps a filter struct to the base SQL and its bound
// parameters. Filters combine with AND; absent fields add nothing.
// The limit, when present, always comes last, after ordering.
func buildRequestsQuery(f models.RequestFilters) (string, []interface{}) {
	query := `
		SELECT sr.id, sr.internal_reference, sr.user_name, sr.company_area,
		       sr.status, sr.shipping_method, sr.service_type,
		       sr.origin_details, sr.destination_details, sr.package_details,
		       sr.created_at, sr.updated_at,
		       COUNT(q.id) AS total_quotes,
		       COALESCE(SUM(q.is_selected), 0) AS selected_quotes
		FROM shipping_requests sr
		LEFT JOIN quotes q ON sr.id = q.request_id
		WHERE 1=1`
	args := []interface{}{}

	if f.Status != "" {
		query += " AND sr.status = ?"
		args = append(args, f.Status)
	}
	if f.ShippingMethod != "" {
		query += " AND sr.shipping_method = ?"
		args = append(args, f.ShippingMethod)
	}
	if f.ServiceType != "" {
		query += " AND sr.service_type = ?"
		args = append(args, f.ServiceType)
	}
	if f.UserName != "" {
		query += " AND sr.user_name LIKE ?"
		args = append(args, "%"+f.UserName+"%")
	}
	if f.DateFrom != "" {
		query += " AND DATE(sr.created_at) >= ?"
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		query += " AND DATE(sr.created_at) <= ?"
		args = append(args, f.DateTo)
	}
	if f.ID > 0 {
		query += " AND sr.id = ?"
		args = append(args, f.ID)
	}

	query += " GROUP BY sr.id ORDER BY sr.created_at DESC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	return query, args
}

// buildRequestRow turns a scanned base row into the response shape,
// folding in child-table details or decoded legacy blobs.
func (h *Handlers) buildRequestRow(sr scannedRequest) (models.RequestRow, error) {
	row := models.RequestRow{
		ID:                 sr.ID,
		InternalReference:  sr.InternalReference.String,
		UserName:           sr.UserName,
		CompanyArea:        sr.CompanyArea.String,
		Status:             sr.Status,
		ShippingMethod:     sr.ShippingMethod.String,
		ServiceType:        sr.ServiceType,
		CreatedAt:          sr.CreatedAt,
		CreatedAtFormatted: sr.CreatedAt.Format(timestampFormat),
		UpdatedAt:          sr.UpdatedAt,
		UpdatedAtFormatted: sr.UpdatedAt.Format(timestampFormat),
		QuoteStatus: models.QuoteStatus{
			TotalQuotes:    sr.TotalQuotes,
			SelectedQuotes: sr.SelectedQuotes,
			HasQuotes:      sr.TotalQuotes > 0,
		},
	}

	if !sr.ShippingMethod.Valid || sr.ShippingMethod.String == "" {
		// Legacy row: decode blobs, sum packages, infer route from the
		// free-text addresses.
		var origin, destination models.AddressDetails
		var packages []models.PackageItem
		if sr.OriginDetails.Valid {
			_ = json.Unmarshal([]byte(sr.OriginDetails.String), &origin)
		}
		if sr.DestinationDetails.Valid {
			_ = json.Unmarshal([]byte(sr.DestinationDetails.String), &destination)
		}
		if sr.PackageDetails.Valid {
			_ = json.Unmarshal([]byte(sr.PackageDetails.String), &packages)
		}

		summary := summarizePackages(packages)
		row.OriginDetails = &origin
		row.DestinationDetails = &destination
		row.PackageDetails = packages
		row.PackageSummary = &summary
		row.RouteInfo = routeInfoFromAddresses(
			origin.Country+" "+origin.Address,
			destination.Country+" "+destination.Address,
		)
		return row, nil
	}

	// GRAMMER row: fold the child table into method_details.
	switch sr.ShippingMethod.String {
	case models.MethodFedex:
		details, err := h.fetchFedexDetails(sr.ID)
		if err != nil {
			return row, err
		}
		if details != nil {
			row.MethodDetails = details
			row.RouteInfo = routeInfoFromAddresses(details.OriginAddress, details.DestinationAddress)
		}

	case models.MethodAereoMaritimo:
		details, err := h.fetchFreightDetails("aereo_maritimo_requests", sr.ID, true)
		if err != nil {
			return row, err
		}
		if details != nil {
			row.MethodDetails = details
			row.RouteInfo = routeInfoFromAddresses(details.PickupAddress, details.DeliveryPlace)
		}

	case models.MethodNacional:
		details, err := h.fetchFreightDetails("nacional_requests", sr.ID, false)
		if err != nil {
			return row, err
		}
		if details != nil {
			row.MethodDetails = details
		}
		// Domestic by definition, regardless of the address text.
		row.RouteInfo = nacionalRouteInfo()
	}

	return row, nil
}

// summarizePackages totals the legacy package array.
func summarizePackages(packages []models.PackageItem) models.PackageSummary {
	summary := models.PackageSummary{TotalPackages: len(packages)}
	for _, pkg := range packages {
		summary.TotalWeight += pkg.Weight
		summary.TotalQuantity += pkg.Quantity
	}
	return summary
}

func (h *Handlers) fetchFedexDetails(requestID int64) (*models.FedexData, error) {
	query := `
		SELECT origin_company_name, origin_address, origin_contact_name, origin_contact_phone, origin_contact_email,
		       destination_company_name, destination_address, destination_contact_name, destination_contact_phone, destination_contact_email,
		       total_packages, total_weight, measurement_units, package_dimensions,
		       order_number, merchandise_description, merchandise_type, merchandise_material
		FROM fedex_requests WHERE request_id = ?`

	var d models.FedexData
	err := h.DB.QueryRow(query, requestID).Scan(
		&d.OriginCompanyName, &d.OriginAddress, &d.OriginContactName, &d.OriginContactPhone, &d.OriginContactEmail,
		&d.DestinationCompanyName, &d.DestinationAddress, &d.DestinationContactName, &d.DestinationContactPhone, &d.DestinationContactEmail,
		&d.TotalPackages, &d.TotalWeight, &d.MeasurementUnits, &d.PackageDimensions,
		&d.OrderNumber, &d.MerchandiseDescription, &d.MerchandiseType, &d.MerchandiseMaterial,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fedex details: %v", err)
	}
	return &d, nil
}

func (h *Handlers) fetchFreightDetails(table string, requestID int64, withIncoterm bool) (*models.FreightData, error) {
	columns := `total_pallets, total_boxes, weight_per_unit, unit_length, unit_width, unit_height,
		       pickup_date, pickup_address, ship_hours_start, ship_hours_end, contact_name, contact_phone,
		       delivery_place, delivery_date_plant, order_number`
	if withIncoterm {
		columns += ", incoterm, delivery_type"
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE request_id = ?", columns, table)

	var d models.FreightData
	dest := []interface{}{
		&d.TotalPallets, &d.TotalBoxes, &d.WeightPerUnit, &d.UnitLength, &d.UnitWidth, &d.UnitHeight,
		&d.PickupDate, &d.PickupAddress, &d.ShipHoursStart, &d.ShipHoursEnd, &d.ContactName, &d.ContactPhone,
		&d.DeliveryPlace, &d.DeliveryDatePlant, &d.OrderNumber,
	}
	if withIncoterm {
		dest = append(dest, &d.Incoterm, &d.DeliveryType)
	}

	err := h.DB.QueryRow(query, requestID).Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s details: %v", table, err)
	}
	return &d, nil
}
