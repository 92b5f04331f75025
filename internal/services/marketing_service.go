package services

import (
	"time"

	"orderdesk/internal/domain"
	"orderdesk/internal/notify"
	"orderdesk/internal/repos"
)

const inactiveAfter = 90 * 24 * time.Hour

type MarketingService struct {
	Customers *repos.CustomerRepo
	Orders    *repos.OrderRepo
	Notifier  notify.Notifier
}

func NewMarketingService(customers *repos.CustomerRepo, orders *repos.OrderRepo, notifier notify.Notifier) *MarketingService {
	return &MarketingService{Customers: customers, Orders: orders, Notifier: notifier}
}

// NotifySegment sends a message to every customer in the segment and returns
// how many were notified. Segments: all, gold, silver, bronze, inactive
// (no order in the last 90 days).
func (s *MarketingService) NotifySegment(segment, message string) (int, error) {
	customers, err := s.Customers.All()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-inactiveAfter)
	count := 0
	for _, c := range customers {
		match := false
		switch segment {
		case "all":
			match = true
		case "gold", "silver", "bronze":
			match = string(c.Tier) == segment
		case "inactive":
			last, err := s.Orders.LastOrderAt(c.ID)
			if err != nil {
				return count, err
			}
			match = last == "" || domain.ParseTime(last).Before(cutoff)
		default:
			return 0, &domain.InvalidStateError{Reason: "unknown segment " + segment}
		}
		if match {
			s.Notifier.Notify(c.Email, message)
			count++
		}
	}
	return count, nil
}
