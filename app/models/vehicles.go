package models

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type VehicleImage struct {
	Key    string `json:"key"`
	IsMain bool   `json:"isMain"`
	URL    string `json:"url"`
}

type Area struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type VehicleLocation struct {
	Province Area    `json:"province"`
	District Area    `json:"district"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	MainArea string  `json:"mainArea"`
}

type VehicleClient struct {
	GlobalID  string `json:"globalId,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Vehicle is a marketplace listing as the backend returns it.
type Vehicle struct {
	Plate        string           `json:"plate"`
	Brand        string           `json:"brand"`
	Model        string           `json:"model"`
	Seats        int              `json:"seats"`
	VehicleType  string           `json:"vehicleType"`
	Transmission string           `json:"transmission"`
	GuaranteeFee decimal.Decimal  `json:"guaranteeFee"`
	Price        decimal.Decimal  `json:"price"`
	Currency     string           `json:"currency"`
	Status       string           `json:"status"`
	Images       []*VehicleImage  `json:"images,omitempty"`
	Location     *VehicleLocation `json:"location,omitempty"`
	Client       *VehicleClient   `json:"client,omitempty"`
}

type VehicleList struct {
	Vehicles   []*Vehicle  `json:"vehicles"`
	Pagination *Pagination `json:"pagination"`
}

// VehicleFilter is a paged listing request.
type VehicleFilter struct {
	Page  uint64 `json:"page"`
	Limit uint64 `json:"limit"`
}

func (f *VehicleFilter) Validate() error {
	if f.Limit == 0 {
		return errors.New("a positive page size is required")
	}
	return nil
}
