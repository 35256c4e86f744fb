package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessOverview aggregates a tenant's headline metrics, including a
// current-versus-previous month comparison.
type BusinessOverview struct {
	TotalOrders      int64           `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalCustomers   int64           `json:"total_customers"`
	TotalProducts    int64           `json:"total_products"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`
	OrdersThisMonth  int64           `json:"orders_this_month"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	OrdersLastMonth  int64           `json:"orders_last_month"`
	RevenueLastMonth decimal.Decimal `json:"revenue_last_month"`
}

// TopCustomer is one row of the top-customers-by-spend ranking.
type TopCustomer struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	OrderCount     int64           `json:"order_count"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	AvgOrderValue  decimal.Decimal `json:"avg_order_value"`
	FirstOrderDate time.Time       `json:"first_order_date"`
	LastOrderDate  time.Time       `json:"last_order_date"`
}

// TopProduct is one row of the top-products-by-average-variant-price ranking.
type TopProduct struct {
	Title    string          `json:"title"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

// ProductPerformance summarizes sales for one product across its variants.
type ProductPerformance struct {
	Title        string          `json:"title"`
	ProductType  string          `json:"product_type"`
	Vendor       string          `json:"vendor"`
	UnitsSold    int64           `json:"units_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	UniqueBuyers int64           `json:"unique_buyers"`
}

// RevenuePoint is one day of the revenue trend series.
type RevenuePoint struct {
	OrderDate       time.Time       `json:"order_date"`
	OrderCount      int64           `json:"order_count"`
	Revenue         decimal.Decimal `json:"revenue"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	UniqueCustomers int64           `json:"unique_customers"`
}

// CustomerSegment is one bucket of the RFM-style customer segmentation
// (VIP, Loyal, Returning, New, At Risk).
type CustomerSegment struct {
	Segment               string          `json:"segment"`
	CustomerCount         int64           `json:"customer_count"`
	AvgLifetimeValue      decimal.Decimal `json:"avg_lifetime_value"`
	AvgOrderCount         float64         `json:"avg_order_count"`
	AvgDaysSinceLastOrder float64         `json:"avg_days_since_last_order"`
}
