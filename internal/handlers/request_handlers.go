package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aperezdev/quoting-portal/internal/mailer"
	"github.com/aperezdev/quoting-portal/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Request Ingestion (POST /daoSendRequest) ---
//

// SendRequest accepts a new quote request (legacy or GRAMMER shape),
// persists it, notifies all active carriers by email, and moves the
// request from 'pending' to 'quoting'. Everything up to the response
// happens inside one transaction: a failed step rolls the whole unit
// back so a request is never left half-inserted.
func (h *Handlers) SendRequest(c *gin.Context) {
	// 1. --- Read & Parse Body ---
	// The raw body is kept so failures can echo the original input
	// back to the caller for diagnostics.
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error processing request: failed to read body", nil)
		return
	}

	var echo interface{}
	_ = json.Unmarshal(body, &echo) // best effort, for diagnostics only

	var input models.SendRequestInput
	if err := json.Unmarshal(body, &input); err != nil {
		respond(c, http.StatusInternalServerError, false,
			"Error processing request: invalid JSON: "+err.Error(),
			gin.H{"input_data": echo})
		return
	}

	// 2. --- Determine Request Shape ---
	isGrammer := input.IsGrammerRequest || input.ShippingMethod != ""

	// 3. --- Begin Transaction ---
	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		respond(c, http.StatusInternalServerError, false, "Error processing request: failed to start transaction", gin.H{"input_data": echo})
		return
	}
	defer tx.Rollback() // Safety net

	now := time.Now()

	var data gin.H
	if isGrammer {
		data, err = h.processGrammerRequest(tx, input, now)
	} else {
		data, err = h.processLegacyRequest(tx, input, now)
	}
	if err != nil {
		respond(c, http.StatusInternalServerError, false,
			"Error processing request: "+err.Error(),
			gin.H{"input_data": echo})
		return
	}

	// 4. --- Commit ---
	if err := tx.Commit(); err != nil {
		respond(c, http.StatusInternalServerError, false, "Error processing request: failed to commit transaction", gin.H{"input_data": echo})
		return
	}

	respond(c, http.StatusOK, true, "Request sent successfully", data)
}

// processGrammerRequest validates and persists a GRAMMER request:
// parent row, method-specific child row, carrier notification, status
// update. Runs entirely inside the caller's transaction.
func (h *Handlers) processGrammerRequest(tx *sql.Tx, input models.SendRequestInput, now time.Time) (gin.H, error) {
	// 1. --- Validate Required Fields ---
	if input.UserName == "" {
		return nil, errors.New("missing required field: user_name")
	}
	serviceType, ok := models.ServiceTypeForMethod[input.ShippingMethod]
	if !ok {
		return nil, fmt.Errorf("invalid shipping_method %q: expected fedex, aereo_maritimo or nacional", input.ShippingMethod)
	}
	if len(input.MethodData) == 0 || string(input.MethodData) == "null" {
		return nil, errors.New("missing required field: method_data")
	}

	// 2. --- Decode Method Data & Apply Defaults ---
	var fedexData models.FedexData
	var freightData models.FreightData
	var methodSnapshot []byte

	switch input.ShippingMethod {
	case models.MethodFedex:
		if err := json.Unmarshal(input.MethodData, &fedexData); err != nil {
			return nil, fmt.Errorf("invalid method_data: %v", err)
		}
		if fedexData.MeasurementUnits == "" {
			fedexData.MeasurementUnits = models.DefaultMeasurementUnits
		}
		methodSnapshot, _ = json.Marshal(fedexData)

	default: // aereo_maritimo, nacional
		if err := json.Unmarshal(input.MethodData, &freightData); err != nil {
			return nil, fmt.Errorf("invalid method_data: %v", err)
		}
		if input.ShippingMethod == models.MethodNacional && freightData.DeliveryPlace == "" {
			freightData.DeliveryPlace = models.NacionalDeliveryPlace
		}
		methodSnapshot, _ = json.Marshal(freightData)
	}

	// 3. --- Insert Parent Row ---
	insertQuery := `
		INSERT INTO shipping_requests
		(internal_reference, user_name, company_area, status, shipping_method, service_type, method_specific_data, created_at, updated_at)
		VALUES ('', ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.Exec(insertQuery,
		input.UserName, input.CompanyArea, models.StatusPending,
		input.ShippingMethod, serviceType, string(methodSnapshot), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert the request into the database: %v", err)
	}
	requestID, err := result.LastInsertId()
	if err != nil || requestID == 0 {
		return nil, errors.New("failed to insert the request into the database")
	}

	// 4. --- Generate & Re-Read Internal Reference ---
	reference := fmt.Sprintf("GRM-%s-%04d", now.Format("20060102"), requestID)
	if _, err := tx.Exec("UPDATE shipping_requests SET internal_reference = ? WHERE id = ?", reference, requestID); err != nil {
		return nil, fmt.Errorf("failed to set internal reference: %v", err)
	}
	if err := tx.QueryRow("SELECT internal_reference FROM shipping_requests WHERE id = ?", requestID).Scan(&reference); err != nil {
		return nil, fmt.Errorf("failed to read internal reference: %v", err)
	}

	// 5. --- Insert Method-Specific Child Row ---
	switch input.ShippingMethod {
	case models.MethodFedex:
		err = insertFedexRequest(tx, requestID, fedexData, now)
	case models.MethodAereoMaritimo:
		err = insertFreightRequest(tx, "aereo_maritimo_requests", requestID, freightData, true, now)
	case models.MethodNacional:
		err = insertFreightRequest(tx, "nacional_requests", requestID, freightData, false, now)
	}
	if err != nil {
		return nil, err
	}

	// 6. --- Notify Carriers ---
	notified, emailErrors, err := h.notifyCarriers(tx, func(carrier models.Carrier) mailer.EmailContent {
		if input.ShippingMethod == models.MethodFedex {
			return mailer.FedexQuoteRequest(reference, carrier.Name, fedexData)
		}
		return mailer.FreightQuoteRequest(reference, carrier.Name, input.ShippingMethod, freightData)
	})
	if err != nil {
		return nil, err
	}

	// 7. --- Transition pending -> quoting ---
	if _, err := tx.Exec("UPDATE shipping_requests SET status = ?, updated_at = ? WHERE id = ?", models.StatusQuoting, now, requestID); err != nil {
		return nil, fmt.Errorf("failed to update request status: %v", err)
	}

	return gin.H{
		"id":                 requestID,
		"internal_reference": reference,
		"status":             models.StatusQuoting,
		"shipping_method":    input.ShippingMethod,
		"carriers_notified":  len(notified),
		"email_errors":       emailErrors,
	}, nil
}

// processLegacyRequest persists a legacy request: one parent row with
// JSON-encoded origin/destination/package blobs.
func (h *Handlers) processLegacyRequest(tx *sql.Tx, input models.SendRequestInput, now time.Time) (gin.H, error) {
	insertQuery := `
		INSERT INTO shipping_requests
		(user_name, status, origin_details, destination_details, package_details, service_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.Exec(insertQuery,
		input.UserName, models.StatusPending,
		rawOrNull(input.OriginDetails), rawOrNull(input.DestinationDetails), rawOrNull(input.PackageDetails),
		input.ServiceType, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert the request into the database: %v", err)
	}
	requestID, err := result.LastInsertId()
	if err != nil || requestID == 0 {
		return nil, errors.New("failed to insert the request into the database")
	}

	// Decode addresses for the email body; tolerate partial blobs.
	var origin, destination models.AddressDetails
	_ = json.Unmarshal(input.OriginDetails, &origin)
	_ = json.Unmarshal(input.DestinationDetails, &destination)

	notified, emailErrors, err := h.notifyCarriers(tx, func(carrier models.Carrier) mailer.EmailContent {
		return mailer.LegacyQuoteRequest(requestID, carrier.Name, origin, destination)
	})
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec("UPDATE shipping_requests SET status = ?, updated_at = ? WHERE id = ?", models.StatusQuoting, now, requestID); err != nil {
		return nil, fmt.Errorf("failed to update request status: %v", err)
	}

	return gin.H{
		"id":                requestID,
		"status":            models.StatusQuoting,
		"carriers_notified": len(notified),
		"email_errors":      emailErrors,
	}, nil
}

// notifyCarriers loads all active carriers and sends each one the
// rendered notification. Sends are sequential and best-effort: a
// failed send lands in the errors list but never aborts ingestion.
// Simulated sends (no SMTP configured) count as notified with a
// "(simulated)" suffix.
func (h *Handlers) notifyCarriers(tx *sql.Tx, render func(models.Carrier) mailer.EmailContent) ([]string, []string, error) {
	rows, err := tx.Query("SELECT name, contact_email FROM carriers WHERE is_active = 1")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load carriers: %v", err)
	}
	defer rows.Close()

	var carriers []models.Carrier
	for rows.Next() {
		var carrier models.Carrier
		if err := rows.Scan(&carrier.Name, &carrier.ContactEmail); err != nil {
			return nil, nil, fmt.Errorf("failed to scan carrier row: %v", err)
		}
		carriers = append(carriers, carrier)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate carrier rows: %v", err)
	}

	notified := []string{}
	emailErrors := []string{}
	for _, carrier := range carriers {
		content := render(carrier)
		if h.Mail.SendEmail(carrier.ContactEmail, carrier.Name, content.Subject, content.Body) {
			name := carrier.Name
			if h.Mail.Simulated() {
				name += " (simulated)"
			}
			notified = append(notified, name)
		} else {
			emailErrors = append(emailErrors, "Error sending to "+carrier.Name)
		}
	}
	return notified, emailErrors, nil
}

func insertFedexRequest(tx *sql.Tx, requestID int64, d models.FedexData, now time.Time) error {
	query := `
		INSERT INTO fedex_requests
		(request_id,
		 origin_company_name, origin_address, origin_contact_name, origin_contact_phone, origin_contact_email,
		 destination_company_name, destination_address, destination_contact_name, destination_contact_phone, destination_contact_email,
		 total_packages, total_weight, measurement_units, package_dimensions,
		 order_number, merchandise_description, merchandise_type, merchandise_material, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.Exec(query, requestID,
		d.OriginCompanyName, d.OriginAddress, d.OriginContactName, d.OriginContactPhone, d.OriginContactEmail,
		d.DestinationCompanyName, d.DestinationAddress, d.DestinationContactName, d.DestinationContactPhone, d.DestinationContactEmail,
		d.TotalPackages, d.TotalWeight, d.MeasurementUnits, d.PackageDimensions,
		d.OrderNumber, d.MerchandiseDescription, d.MerchandiseType, d.MerchandiseMaterial, now)
	if err != nil {
		return fmt.Errorf("failed to insert fedex details: %v", err)
	}
	return nil
}

// insertFreightRequest covers both freight child tables; only
// aereo_maritimo_requests carries the incoterm/delivery_type columns.
func insertFreightRequest(tx *sql.Tx, table string, requestID int64, d models.FreightData, withIncoterm bool, now time.Time) error {
	columns := `request_id,
		 total_pallets, total_boxes, weight_per_unit, unit_length, unit_width, unit_height,
		 pickup_date, pickup_address, ship_hours_start, ship_hours_end, contact_name, contact_phone,
		 delivery_place, delivery_date_plant, order_number, created_at`
	placeholders := "?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?"
	args := []interface{}{requestID,
		d.TotalPallets, d.TotalBoxes, d.WeightPerUnit, d.UnitLength, d.UnitWidth, d.UnitHeight,
		d.PickupDate, d.PickupAddress, d.ShipHoursStart, d.ShipHoursEnd, d.ContactName, d.ContactPhone,
		d.DeliveryPlace, d.DeliveryDatePlant, d.OrderNumber, now}

	if withIncoterm {
		columns += ", incoterm, delivery_type"
		placeholders += ", ?, ?"
		args = append(args, d.Incoterm, d.DeliveryType)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, columns, placeholders)
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert %s details: %v", table, err)
	}
	return nil
}

// rawOrNull stores absent legacy blobs as SQL-visible JSON null, the
// way the original portal encoded missing sections.
func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
