package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is how order creation times are stored and displayed.
const TimestampLayout = "2006-01-02 15:04:05"

// MaxQuantity is the largest number of portions one order may ask for.
const MaxQuantity = 1000

// PriceLookup resolves a dish name to its unit price.
type PriceLookup interface {
	PriceOf(foodType string) (int, bool)
}

// IDGenerator hands out order identifiers.
type IDGenerator interface {
	NextID() string
}

// Order represents one customer food request
type Order struct {
	ID              string
	CustomerName    string
	FoodType        string
	Quantity        int
	SpecialRequests string
	Timestamp       string
	Price           int
	DeliveryStatus  DeliveryStatus
	Completed       bool
}

// NewOrder creates an order priced against the menu at creation time.
// A food type missing from prices yields a zero price; callers that need a strict
// menu check it before calling. Quantity must already be within 1..MaxQuantity.
func NewOrder(ids IDGenerator, prices PriceLookup, customerName, foodType string, quantity int, specialRequests string, now time.Time) *Order {
	unit, _ := prices.PriceOf(foodType)

	return &Order{
		ID:              ids.NextID(),
		CustomerName:    customerName,
		FoodType:        foodType,
		Quantity:        quantity,
		SpecialRequests: specialRequests,
		Timestamp:       now.Format(TimestampLayout),
		Price:           unit * quantity,
		DeliveryStatus:  StatusPreparing,
		Completed:       false,
	}
}

// SetStatus moves the order to another delivery stage. It does not touch Completed.
func (o *Order) SetStatus(status DeliveryStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.DeliveryStatus = status
	return nil
}

// ToggleCompletion flips Completed and reports whether the order just became completed.
// Completing forces the Delivered stage; un-completing leaves the stage as it was.
func (o *Order) ToggleCompletion() bool {
	o.Completed = !o.Completed
	if o.Completed {
		o.DeliveryStatus = StatusDelivered
	}
	return o.Completed
}

// Clone returns an independent copy.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

// Record is the persisted shape of an order.
// Pointer fields let FromRecord tell a missing key from a zero value.
type Record struct {
	UserName        *string `json:"user_name"`
	FoodType        *string `json:"food_type"`
	Quantity        *int    `json:"quantity,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
	Timestamp       *string `json:"timestamp"`
	Completed       *bool   `json:"completed"`
	DeliveryStatus  *string `json:"delivery_status,omitempty"`
	OrderID         *string `json:"order_id,omitempty"`
	Price           *int    `json:"price,omitempty"`
}

// ToRecord serializes every field of the order.
func (o *Order) ToRecord() Record {
	status := string(o.DeliveryStatus)
	c := o.Clone()

	return Record{
		UserName:        &c.CustomerName,
		FoodType:        &c.FoodType,
		Quantity:        &c.Quantity,
		SpecialRequests: &c.SpecialRequests,
		Timestamp:       &c.Timestamp,
		Completed:       &c.Completed,
		DeliveryStatus:  &status,
		OrderID:         &c.ID,
		Price:           &c.Price,
	}
}

// FromRecord rebuilds an order. user_name, food_type, timestamp and completed are
// required; the rest fall back to the defaults NewOrder uses, with a fresh id from ids.
func FromRecord(rec Record, ids IDGenerator) (*Order, error) {
	switch {
	case rec.UserName == nil:
		return nil, fmt.Errorf("%w: record missing user_name", ErrStoreCorrupt)
	case rec.FoodType == nil:
		return nil, fmt.Errorf("%w: record missing food_type", ErrStoreCorrupt)
	case rec.Timestamp == nil:
		return nil, fmt.Errorf("%w: record missing timestamp", ErrStoreCorrupt)
	case rec.Completed == nil:
		return nil, fmt.Errorf("%w: record missing completed", ErrStoreCorrupt)
	}

	o := &Order{
		CustomerName:   *rec.UserName,
		FoodType:       *rec.FoodType,
		Quantity:       1,
		Timestamp:      *rec.Timestamp,
		Completed:      *rec.Completed,
		DeliveryStatus: StatusPreparing,
	}

	if rec.Quantity != nil {
		o.Quantity = *rec.Quantity
	}
	if rec.SpecialRequests != nil {
		o.SpecialRequests = *rec.SpecialRequests
	}
	if rec.DeliveryStatus != nil {
		o.DeliveryStatus = DeliveryStatus(*rec.DeliveryStatus)
	}
	if rec.Price != nil {
		o.Price = *rec.Price
	}
	if rec.OrderID != nil {
		o.ID = *rec.OrderID
	} else {
		o.ID = ids.NextID()
	}

	return o, nil
}
