// Package checkout validates a checkout submission before an order is
// created. Every field is checked and every failure reported, so the
// storefront can render errors next to each field.
package checkout

import (
	"regexp"
	"strings"
	"time"

	"osebo-storefront/internal/region"
)

// DateLayout is the wire format for delivery dates.
const DateLayout = "2006-01-02"

var (
	phoneRe = regexp.MustCompile(`^(\+233|0)[0-9]{9}$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
)

// TimeWindows are the offered delivery slots.
var TimeWindows = []string{"9am-12pm", "12pm-3pm", "3pm-6pm", "6pm-9pm"}

// PaymentMethods are the accepted payment options.
var PaymentMethods = []string{"cash-on-delivery", "paystack"}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Street      string       `json:"street"`
	City        string       `json:"city"`
	Region      string       `json:"region"`
	Directions  string       `json:"directions,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Form struct {
	CustomerName  string  `json:"customerName"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email,omitempty"`
	DeliveryDate  string  `json:"deliveryDate"`
	TimeWindow    string  `json:"timeWindow"`
	Address       Address `json:"address"`
	PaymentMethod string  `json:"paymentMethod"`
}

// ValidPhone reports whether s is a valid Ghana phone number.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// ValidEmail reports whether s is a plausible email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// FieldErrors maps a field path to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Validate checks every field and returns the normalized form together with
// all failures. The errors map is nil when the form is valid. Business-rule
// date validity (blackouts, lead time) is the order service's concern; here
// the date only has to parse.
func Validate(f Form) (Form, FieldErrors) {
	errs := FieldErrors{}

	f.CustomerName = strings.TrimSpace(f.CustomerName)
	if len(f.CustomerName) < 2 {
		errs["customerName"] = "name must be at least 2 characters"
	}

	f.Phone = strings.TrimSpace(f.Phone)
	if !phoneRe.MatchString(f.Phone) {
		errs["phone"] = "phone must be a valid Ghana number (+233 or 0 followed by 9 digits)"
	}

	f.Email = strings.TrimSpace(f.Email)
	if f.Email != "" && !emailRe.MatchString(f.Email) {
		errs["email"] = "email address is not valid"
	}

	f.DeliveryDate = strings.TrimSpace(f.DeliveryDate)
	if f.DeliveryDate == "" {
		errs["deliveryDate"] = "delivery date is required"
	} else if _, err := time.Parse(DateLayout, f.DeliveryDate); err != nil {
		errs["deliveryDate"] = "delivery date must be formatted YYYY-MM-DD"
	}

	if !contains(TimeWindows, f.TimeWindow) {
		errs["timeWindow"] = "time window must be one of: " + strings.Join(TimeWindows, ", ")
	}

	f.Address.Street = strings.TrimSpace(f.Address.Street)
	if f.Address.Street == "" {
		errs["address.street"] = "street is required"
	}
	f.Address.City = strings.TrimSpace(f.Address.City)
	if f.Address.City == "" {
		errs["address.city"] = "city is required"
	}
	if !region.IsValid(f.Address.Region) {
		errs["address.region"] = "region is not a recognized delivery region"
	}
	f.Address.Directions = strings.TrimSpace(f.Address.Directions)
	if c := f.Address.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			errs["address.coordinates"] = "coordinates are out of range"
		}
	}

	if !contains(PaymentMethods, f.PaymentMethod) {
		errs["paymentMethod"] = "payment method must be one of: " + strings.Join(PaymentMethods, ", ")
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
