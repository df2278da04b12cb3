package pricing

import (
	"math"
	"testing"
)

func km(v float64) *float64 { return &v }

func TestQuote_Distance(t *testing.T) {
	tests := []struct {
		name      string
		km        float64
		wantCents int64
	}{
		{name: "zero distance pays the base fare", km: 0, wantCents: 2000},
		{name: "10km", km: 10, wantCents: 4500},
		{name: "8km", km: 8, wantCents: 4000},
		{name: "5km", km: 5, wantCents: 3250},
		// 20 + 12.345*2.5 = 50.8625 -> 50.86
		{name: "rounds down below half a cent", km: 12.345, wantCents: 5086},
		// 20 + 3.003*2.5 = 27.5075 -> 27.51
		{name: "rounds half up on the cent", km: 3.003, wantCents: 2751},
	}

	s := NewService(DefaultRate)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Estimate(ModeDistance, km(tt.km), 1)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if got == nil {
				t.Fatal("Estimate() returned no price")
			}
			if got.Amount != tt.wantCents {
				t.Errorf("Estimate() = %d, want %d", got.Amount, tt.wantCents)
			}
			if got.Currency != "EUR" {
				t.Errorf("currency = %q, want EUR", got.Currency)
			}
		})
	}
}

func TestQuote_DistanceMatchesFormula(t *testing.T) {
	for _, d := range []float64{0.5, 1, 2.2, 7.75, 15.1, 42, 123.4} {
		got, err := Quote(DefaultRate, ModeDistance, km(d), 0)
		if err != nil {
			t.Fatalf("Quote(%v) error = %v", d, err)
		}
		want := math.Round((20+d*2.5)*100) / 100
		if math.Abs(got.Euros()-want) > 1e-9 {
			t.Errorf("Quote(%v) = %v, want %v", d, got.Euros(), want)
		}
	}
}

func TestQuote_DistanceWithoutRoute(t *testing.T) {
	got, err := Quote(DefaultRate, ModeDistance, nil, 3)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if got != nil {
		t.Fatalf("expected no price without a distance, got %v", got)
	}
}

func TestQuote_Hourly(t *testing.T) {
	tests := []struct {
		hours     int
		wantCents int64
	}{
		{hours: 1, wantCents: 7000},
		{hours: 2, wantCents: 14000},
		{hours: 3, wantCents: 21000},
		{hours: 0, wantCents: 7000},
		{hours: -4, wantCents: 7000},
		{hours: MaxHours, wantCents: 168000},
	}
	for _, tt := range tests {
		got, err := Quote(DefaultRate, ModeHourly, km(99), tt.hours)
		if err != nil {
			t.Fatalf("Quote(hours=%d) error = %v", tt.hours, err)
		}
		if got.Amount != tt.wantCents {
			t.Errorf("Quote(hours=%d) = %d, want %d", tt.hours, got.Amount, tt.wantCents)
		}
	}
}

func TestQuote_Errors(t *testing.T) {
	if _, err := Quote(DefaultRate, Mode("per_seat"), km(1), 1); err != ErrUnknownMode {
		t.Errorf("unknown mode: got %v, want ErrUnknownMode", err)
	}
	if _, err := Quote(DefaultRate, ModeDistance, km(-1), 1); err != ErrNegativeDistance {
		t.Errorf("negative distance: got %v, want ErrNegativeDistance", err)
	}
}

func TestQuote_HoursOutOfRange(t *testing.T) {
	for _, h := range []int{MaxHours + 1, 988218432520154552, math.MaxInt} {
		got, err := Quote(DefaultRate, ModeHourly, nil, h)
		if err != ErrTooManyHours {
			t.Errorf("Quote(hours=%d) = %v, %v; want ErrTooManyHours", h, got, err)
		}
	}

	steep := Rate{PerHour: math.MaxInt64 / 10, Currency: "EUR"}
	if _, err := Quote(steep, ModeHourly, nil, 11); err != ErrPriceOverflow {
		t.Errorf("overflowing hourly rate: got %v, want ErrPriceOverflow", err)
	}
	if _, err := Quote(DefaultRate, ModeDistance, km(1e300), 1); err != ErrPriceOverflow {
		t.Errorf("overflowing distance: got %v, want ErrPriceOverflow", err)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"distance": ModeDistance, " Hourly ": ModeHourly}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("daily"); err != ErrUnknownMode {
		t.Errorf("ParseMode(daily) err = %v, want ErrUnknownMode", err)
	}
}

func TestClampHours(t *testing.T) {
	for in, want := range map[int]int{-1: 1, 0: 1, 1: 1, 6: 6} {
		if got := ClampHours(in); got != want {
			t.Errorf("ClampHours(%d) = %d, want %d", in, got, want)
		}
	}
}
