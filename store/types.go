// Package store holds the domain types of a small shop, the source side of
// the demo mappings.
package store

import (
	"time"
)

// Address is a postal address.
type Address struct {
	Street  string
	City    string
	ZipCode string
}

// User is a registered customer.
type User struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	BirthDate time.Time
	Address   *Address
	Roles     []string
}

// Product is an item for sale. Prices are in cents.
type Product struct {
	ID           int
	Name         string `map:"to=ProductName"`
	PriceCents   int64
	InternalCode string `map:"-"`
}

// Order is a purchase made by a user.
type Order struct {
	ID        int64
	Customer  *User
	Status    OrderStatus
	Items     []OrderItem
	OrderedAt time.Time
}

// Total sums the line totals of the order.
func (o *Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPrice * int64(it.Quantity)
	}

	return total
}

// OrderItem is one line of an order, with the price at purchase time.
type OrderItem struct {
	Product   Product
	Quantity  int
	UnitPrice int64
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCancelled:
		return true
	default:
		return false
	}
}
