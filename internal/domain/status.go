package domain

import "strings"

// DeliveryStatus is one of the four stages an order goes through.
type DeliveryStatus string

const (
	StatusPreparing DeliveryStatus = "Preparing"
	StatusCooking   DeliveryStatus = "Cooking"
	StatusOnTheWay  DeliveryStatus = "On the way"
	StatusDelivered DeliveryStatus = "Delivered"
)

// DeliveryStatuses lists the stages in the order an order progresses through them.
var DeliveryStatuses = []DeliveryStatus{
	StatusPreparing,
	StatusCooking,
	StatusOnTheWay,
	StatusDelivered,
}

// ParseDeliveryStatus accepts a stage name case-insensitively.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range DeliveryStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Valid reports whether s is one of the known stages.
func (s DeliveryStatus) Valid() bool {
	for _, st := range DeliveryStatuses {
		if st == s {
			return true
		}
	}
	return false
}
