package handlers

import (
	"fmt"
	"time"

	"github.com/aperezdev/quoting-portal/internal/models"
)

//
// --- Portal Statistics ---
//

// buildStatsFilter maps the query filters to a WHERE fragment for the
// aggregate queries. The id and limit filters are intentionally
// excluded: stats always describe the filtered population, not a
// single row or a truncated page.
func buildStatsFilter(f models.RequestFilters) (string, []interface{}) {
	clause := ""
	args := []interface{}{}

	if f.Status != "" {
		clause += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.ShippingMethod != "" {
		clause += " AND shipping_method = ?"
		args = append(args, f.ShippingMethod)
	}
	if f.ServiceType != "" {
		clause += " AND service_type = ?"
		args = append(args, f.ServiceType)
	}
	if f.UserName != "" {
		clause += " AND user_name LIKE ?"
		args = append(args, "%"+f.UserName+"%")
	}
	if f.DateFrom != "" {
		clause += " AND DATE(created_at) >= ?"
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		clause += " AND DATE(created_at) <= ?"
		args = append(args, f.DateTo)
	}

	return clause, args
}

// computeStats builds the dashboard's stats object: status counts,
// per-method and per-service breakdowns, a 7-day activity series and
// the ten most active users, all under the caller's filter set.
func (h *Handlers) computeStats(f models.RequestFilters) (*models.PortalStats, error) {
	where, args := buildStatsFilter(f)

	stats := &models.PortalStats{
		ByMethod:      []models.MethodCount{},
		ByServiceType: []models.ServiceCount{},
		TopUsers:      []models.UserCount{},
	}

	// 1. Basic status counts
	basicQuery := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'quoting' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'canceled' THEN 1 ELSE 0 END), 0)
		FROM shipping_requests WHERE 1=1` + where
	if err := h.DB.QueryRow(basicQuery, args...).Scan(
		&stats.Basic.TotalRequests, &stats.Basic.Pending, &stats.Basic.Quoting,
		&stats.Basic.Completed, &stats.Basic.Canceled,
	); err != nil {
		return nil, fmt.Errorf("basic counts: %v", err)
	}

	// 2. Counts per shipping method (legacy rows labeled "legacy")
	methodQuery := `
		SELECT COALESCE(shipping_method, 'legacy') AS method, COUNT(*) AS cnt
		FROM shipping_requests WHERE 1=1` + where + `
		GROUP BY method ORDER BY cnt DESC`
	rows, err := h.DB.Query(methodQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("method counts: %v", err)
	}
	for rows.Next() {
		var mc models.MethodCount
		if err := rows.Scan(&mc.ShippingMethod, &mc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("method counts: %v", err)
		}
		stats.ByMethod = append(stats.ByMethod, mc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("method counts: %v", err)
	}
	rows.Close()

	// 3. Counts per service type
	serviceQuery := `
		SELECT service_type, COUNT(*) AS cnt
		FROM shipping_requests WHERE 1=1` + where + `
		GROUP BY service_type ORDER BY cnt DESC`
	rows, err = h.DB.Query(serviceQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("service counts: %v", err)
	}
	for rows.Next() {
		var sc models.ServiceCount
		if err := rows.Scan(&sc.ServiceType, &sc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("service counts: %v", err)
		}
		stats.ByServiceType = append(stats.ByServiceType, sc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("service counts: %v", err)
	}
	rows.Close()

	// 4. 7-day activity series (missing days filled with zeros).
	// The window start is computed here rather than with CURDATE() so
	// the bound and the zero-filling below share one clock; otherwise a
	// timezone gap between the app and MySQL could drop the edge day.
	now := time.Now()
	windowStart := now.AddDate(0, 0, -6).Format("2006-01-02")
	activityQuery := `
		SELECT DATE_FORMAT(DATE(created_at), '%Y-%m-%d') AS day,
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM shipping_requests
		WHERE DATE(created_at) >= ?` + where + `
		GROUP BY day ORDER BY day`
	rows, err = h.DB.Query(activityQuery, append([]interface{}{windowStart}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %v", err)
	}
	byDay := map[string]models.ActivityPoint{}
	for rows.Next() {
		var point models.ActivityPoint
		if err := rows.Scan(&point.Date, &point.Requests, &point.Completed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("recent activity: %v", err)
		}
		byDay[point.Date] = point
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("recent activity: %v", err)
	}
	rows.Close()
	stats.RecentActivity = fillActivitySeries(byDay, now)

	// 5. Top 10 users by request count
	topUsersQuery := `
		SELECT user_name, COUNT(*) AS request_count
		FROM shipping_requests WHERE 1=1` + where + `
		GROUP BY user_name ORDER BY request_count DESC LIMIT 10`
	rows, err = h.DB.Query(topUsersQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("top users: %v", err)
	}
	for rows.Next() {
		var uc models.UserCount
		if err := rows.Scan(&uc.UserName, &uc.RequestCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("top users: %v", err)
		}
		stats.TopUsers = append(stats.TopUsers, uc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("top users: %v", err)
	}
	rows.Close()

	return stats, nil
}

// fillActivitySeries expands the sparse per-day counts into a dense
// 7-day series ending today, zero-filling days with no activity, so
// the dashboard's line chart always has seven points.
func fillActivitySeries(byDay map[string]models.ActivityPoint, now time.Time) []models.ActivityPoint {
	series := make([]models.ActivityPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		if point, ok := byDay[day]; ok {
			series = append(series, point)
		} else {
			series = append(series, models.ActivityPoint{Date: day})
		}
	}
	return series
}
