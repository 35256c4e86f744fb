package repository

import (
	"context"
	"fmt"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"gorm.io/gorm"
)

// PostgresAnalyticsRepository implements AnalyticsRepository using raw
// aggregate queries against the ingested schema
type PostgresAnalyticsRepository struct {
	db *gorm.DB
}

// NewPostgresAnalyticsRepository creates a new Postgres analytics repository
func NewPostgresAnalyticsRepository(db *gorm.DB) ports.AnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

// BusinessOverview aggregates headline metrics for one tenant
func (r *PostgresAnalyticsRepository) BusinessOverview(ctx context.Context, tenantID int64) (*domain.BusinessOverview, error) {
	sql := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE tenant_id = ?) AS total_orders,
			(SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE tenant_id = ?) AS total_revenue,
			(SELECT COUNT(DISTINCT customer_id) FROM orders WHERE tenant_id = ?) AS total_customers,
			(SELECT COUNT(*) FROM products WHERE tenant_id = ?) AS total_products,
			(SELECT COALESCE(AVG(total_price), 0) FROM orders WHERE tenant_id = ?) AS avg_order_value,
			(SELECT COUNT(*) FROM orders
				WHERE tenant_id = ? AND created_at >= date_trunc('month', CURRENT_DATE)) AS orders_this_month,
			(SELECT COALESCE(SUM(total_price), 0) FROM orders
				WHERE tenant_id = ? AND created_at >= date_trunc('month', CURRENT_DATE)) AS revenue_this_month,
			(SELECT COUNT(*) FROM orders
				WHERE tenant_id = ?
				AND created_at >= date_trunc('month', CURRENT_DATE - interval '1 month')
				AND created_at < date_trunc('month', CURRENT_DATE)) AS orders_last_month,
			(SELECT COALESCE(SUM(total_price), 0) FROM orders
				WHERE tenant_id = ?
				AND created_at >= date_trunc('month', CURRENT_DATE - interval '1 month')
				AND created_at < date_trunc('month', CURRENT_DATE)) AS revenue_last_month
	`
	var overview domain.BusinessOverview
	err := r.db.WithContext(ctx).
		Raw(sql, tenantID, tenantID, tenantID, tenantID, tenantID, tenantID, tenantID, tenantID, tenantID).
		Scan(&overview).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query business overview: %w", err)
	}
	return &overview, nil
}

// TopCustomers ranks a tenant's customers by total spend
func (r *PostgresAnalyticsRepository) TopCustomers(ctx context.Context, tenantID int64, limit int) ([]domain.TopCustomer, error) {
	sql := `
		SELECT
			COALESCE(c.first_name || ' ' || c.last_name, 'Unknown') AS name,
			c.email,
			COUNT(o.id) AS order_count,
			SUM(o.total_price) AS total_spent,
			AVG(o.total_price) AS avg_order_value,
			MIN(o.created_at) AS first_order_date,
			MAX(o.created_at) AS last_order_date
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		WHERE c.tenant_id = ?
		GROUP BY c.id, c.first_name, c.last_name, c.email
		ORDER BY total_spent DESC
		LIMIT ?
	`
	var rows []domain.TopCustomer
	if err := r.db.WithContext(ctx).Raw(sql, tenantID, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	return rows, nil
}

// TopProducts ranks a tenant's products by average variant price
func (r *PostgresAnalyticsRepository) TopProducts(ctx context.Context, tenantID int64, limit int) ([]domain.TopProduct, error) {
	sql := `
		SELECT
			p.title,
			AVG(v.price) AS avg_price
		FROM products p
		JOIN product_variants v ON v.product_id = p.id
		WHERE p.tenant_id = ?
		GROUP BY p.id, p.title
		ORDER BY avg_price DESC
		LIMIT ?
	`
	var rows []domain.TopProduct
	if err := r.db.WithContext(ctx).Raw(sql, tenantID, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rows, nil
}

// ProductPerformance summarizes sales per product across its variants
func (r *PostgresAnalyticsRepository) ProductPerformance(ctx context.Context, tenantID int64, limit int) ([]domain.ProductPerformance, error) {
	sql := `
		SELECT
			p.title,
			p.product_type,
			p.vendor,
			COUNT(li.id) AS units_sold,
			COALESCE(SUM(li.price * li.quantity), 0) AS total_revenue,
			AVG(v.price) AS avg_price,
			COUNT(DISTINCT o.customer_id) AS unique_buyers
		FROM products p
		JOIN product_variants v ON v.product_id = p.id
		LEFT JOIN order_line_items li ON li.variant_id = v.id
		LEFT JOIN orders o ON o.id = li.order_id
		WHERE p.tenant_id = ?
		GROUP BY p.id, p.title, p.product_type, p.vendor
		ORDER BY total_revenue DESC
		LIMIT ?
	`
	var rows []domain.ProductPerformance
	if err := r.db.WithContext(ctx).Raw(sql, tenantID, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query product performance: %w", err)
	}
	return rows, nil
}

// RevenueTrend aggregates daily order counts and revenue since a cutoff
func (r *PostgresAnalyticsRepository) RevenueTrend(ctx context.Context, tenantID int64, since time.Time) ([]domain.RevenuePoint, error) {
	sql := `
		SELECT
			DATE(created_at) AS order_date,
			COUNT(*) AS order_count,
			SUM(total_price) AS revenue,
			AVG(total_price) AS avg_order_value,
			COUNT(DISTINCT customer_id) AS unique_customers
		FROM orders
		WHERE tenant_id = ? AND created_at >= ?
		GROUP BY order_date
		ORDER BY order_date
	`
	var rows []domain.RevenuePoint
	if err := r.db.WithContext(ctx).Raw(sql, tenantID, since).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query revenue trend: %w", err)
	}
	return rows, nil
}

// CustomerSegments buckets a tenant's customers by order count, spend and
// recency
func (r *PostgresAnalyticsRepository) CustomerSegments(ctx context.Context, tenantID int64) ([]domain.CustomerSegment, error) {
	sql := `
		WITH customer_stats AS (
			SELECT
				customer_id,
				COUNT(*) AS order_count,
				SUM(total_price) AS total_spent,
				MAX(created_at) AS last_order_date
			FROM orders
			WHERE tenant_id = ? AND customer_id IS NOT NULL
			GROUP BY customer_id
		),
		customer_segments AS (
			SELECT
				customer_id,
				order_count,
				total_spent,
				CURRENT_DATE - last_order_date::date AS days_since_last_order,
				CASE
					WHEN order_count >= 5 AND total_spent >= 500 THEN 'VIP'
					WHEN order_count >= 3 AND total_spent >= 200 THEN 'Loyal'
					WHEN order_count = 2 THEN 'Returning'
					WHEN order_count = 1 AND CURRENT_DATE - last_order_date::date <= 30 THEN 'New'
					WHEN order_count = 1 AND CURRENT_DATE - last_order_date::date > 30 THEN 'At Risk'
					ELSE 'Other'
				END AS segment
			FROM customer_stats
		)
		SELECT
			segment,
			COUNT(*) AS customer_count,
			AVG(total_spent) AS avg_lifetime_value,
			AVG(order_count)::float8 AS avg_order_count,
			AVG(days_since_last_order)::float8 AS avg_days_since_last_order
		FROM customer_segments
		GROUP BY segment
		ORDER BY customer_count DESC
	`
	var rows []domain.CustomerSegment
	if err := r.db.WithContext(ctx).Raw(sql, tenantID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query customer segments: %w", err)
	}
	return rows, nil
}
