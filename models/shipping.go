package models

// ShippingDetails is the delivery information collected at checkout.
type ShippingDetails struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Line1    string `json:"line1" form:"line1" validate:"required"`
	Line2    string `json:"line2" form:"line2"`
	Line3    string `json:"line3" form:"line3"`
	City     string `json:"city" form:"city" validate:"required"`
	State    string `json:"state" form:"state" validate:"required"`
	Zip      string `json:"zip" form:"zip" validate:"required"`
	Country  string `json:"country" form:"country" validate:"required"`
	GiftWrap bool   `json:"gift_wrap" form:"gift_wrap"`
}
