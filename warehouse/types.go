// Package warehouse holds the transfer objects the store types are mapped to.
package warehouse

import "time"

type AddressDTO struct {
	Street  string
	City    string
	ZipCode string
}

type UserDTO struct {
	ID       int
	FullName string
	Email    string
	Age      int
	Address  *AddressDTO
	Roles    []string
}

type ProductDTO struct {
	ID          int
	ProductName string
	PriceCents  int64
}

type OrderDTO struct {
	ID        int64
	Customer  *UserDTO
	Status    string
	Lines     []LineDTO `map:"from=Items"`
	Total     int64
	OrderedAt time.Time
}

type LineDTO struct {
	Product   ProductDTO
	Quantity  int32
	UnitPrice int64
}
