package services

import (
	"time"

	"orderdesk/internal/domain"
	applog "orderdesk/internal/log"
	"orderdesk/internal/repos"
)

type SalesReport struct {
	TotalSales        float64               `json:"total_sales"`
	TotalOrders       int                   `json:"total_orders"`
	CancelledOrders   int                   `json:"cancelled_orders"`
	ProductsSold      map[int64]int         `json:"products_sold"`
	RevenueByCategory map[string]float64    `json:"revenue_by_category"`
	TopCustomers      []repos.CustomerValue `json:"top_customers"`
}

type ReportingService struct {
	Customers *repos.CustomerRepo
	Orders    *repos.OrderRepo
	Products  *repos.ProductRepo
}

func NewReportingService(customers *repos.CustomerRepo, orders *repos.OrderRepo, products *repos.ProductRepo) *ReportingService {
	return &ReportingService{Customers: customers, Orders: orders, Products: products}
}

// Sales aggregates all orders created in [start, end]. Cancelled orders are
// counted separately and excluded from revenue. Per-category revenue is
// gross (quantity x unit price snapshot), not net of discounts.
func (s *ReportingService) Sales(start, end time.Time) (SalesReport, error) {
	report := SalesReport{
		ProductsSold:      map[int64]int{},
		RevenueByCategory: map[string]float64{},
	}

	orders, err := s.Orders.All()
	if err != nil {
		return SalesReport{}, err
	}
	products, err := s.Products.All()
	if err != nil {
		return SalesReport{}, err
	}

	for _, o := range orders {
		created := domain.ParseTime(o.CreatedAt)
		if created.Before(start) || created.After(end) {
			continue
		}
		if o.Status == domain.StatusCancelled {
			report.CancelledOrders++
			continue
		}
		report.TotalSales += o.TotalPrice
		report.TotalOrders++
		for _, it := range o.Items {
			report.ProductsSold[it.ProductID] += it.Quantity
			if p, ok := products[it.ProductID]; ok {
				report.RevenueByCategory[p.Category] += float64(it.Quantity) * it.UnitPrice
			}
		}
	}

	// Ranking covers all customers, not just those with orders in range.
	top, err := s.Orders.TopCustomers(10)
	if err != nil {
		return SalesReport{}, err
	}
	report.TopCustomers = top
	return report, nil
}

// LifetimeValue sums the totals of a customer's non-cancelled orders;
// unknown customers have a lifetime value of zero.
func (s *ReportingService) LifetimeValue(customerID int64) (float64, error) {
	if _, err := s.Customers.Get(customerID); err != nil {
		return 0, nil
	}
	return s.Orders.LifetimeValue(customerID)
}

// UpgradeMembership promotes a customer based on lifetime value. The check
// order matters: a standard customer worth 1500 goes straight to gold.
func (s *ReportingService) UpgradeMembership(customerID int64) (bool, error) {
	customer, err := s.Customers.Get(customerID)
	if err != nil {
		return false, &domain.NotFoundError{Entity: "customer", ID: customerID}
	}
	value, err := s.Orders.LifetimeValue(customerID)
	if err != nil {
		return false, err
	}

	var next domain.MembershipTier
	switch {
	case value >= 1000 && customer.Tier != domain.TierGold:
		next = domain.TierGold
	case value >= 500 && customer.Tier == domain.TierStandard:
		next = domain.TierSilver
	case value >= 200 && customer.Tier == domain.TierStandard:
		next = domain.TierBronze
	default:
		return false, nil
	}

	if err := s.Customers.SetTier(customerID, next); err != nil {
		return false, err
	}
	applog.Audit(nil, "customer.upgrade", map[string]any{
		"customer_id": customerID, "tier": next, "lifetime_value": value,
	})
	return true, nil
}
