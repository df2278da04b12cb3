// README: Booking summary and the template payload sent to the operator.
package notify

import (
	"errors"
	"fmt"

	"toptransfer/internal/modules/pricing"
	"toptransfer/internal/types"
)

const (
	DefaultOperatorName  = "TopTransfer"
	DefaultOperatorEmail = "toptransfer34@gmail.com"
	PaymentStatusPaid    = "Paid (100%)"
)

var (
	ErrNotConfigured = errors.New("email transport is not configured")
	ErrSendFailed    = errors.New("email send failed")
)

// Summary is the fixed set of booking fields an operator needs to fulfil a trip.
type Summary struct {
	Name         string
	Phone        string
	Email        string
	Pickup       string
	Dropoff      string
	Date         string
	Time         string
	Mode         pricing.Mode
	DistanceKm   *float64
	Hours        int
	Price        types.Money
	Notes        string
	FlightNumber string
}

type Recipient struct {
	Name  string
	Email string
}

// Outcome is reported to the booking workflow. Err is the transport's message.
type Outcome struct {
	Sent bool   `json:"sent"`
	Err  string `json:"error,omitempty"`
}

// TemplateParams renders s into the key set the booking email template expects.
func TemplateParams(s Summary, to Recipient) map[string]any {
	bookingType := "Hourly"
	distance := "N/A"
	var hours any = "N/A"
	if s.Mode == pricing.ModeDistance {
		bookingType = "Distance-based"
		if s.DistanceKm != nil {
			distance = fmt.Sprintf("%.2f km", *s.DistanceKm)
		}
	} else {
		hours = s.Hours
	}

	return map[string]any{
		"to_name":         to.Name,
		"to_email":        to.Email,
		"from_name":       s.Name,
		"from_email":      s.Email,
		"booking_type":    bookingType,
		"name":            s.Name,
		"phone":           s.Phone,
		"email":           s.Email,
		"pickup":          s.Pickup,
		"dropoff":         s.Dropoff,
		"date":            s.Date,
		"time":            s.Time,
		"flight_number":   orDefault(s.FlightNumber, "Not provided"),
		"distance":        distance,
		"hours":           hours,
		"estimated_price": s.Price.String(),
		"notes":           orDefault(s.Notes, "No additional notes"),
		"payment_status":  PaymentStatusPaid,
		"message": fmt.Sprintf("New booking from %s. Pickup: %s, Dropoff: %s, Date: %s, Time: %s",
			s.Name, s.Pickup, s.Dropoff, s.Date, s.Time),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
