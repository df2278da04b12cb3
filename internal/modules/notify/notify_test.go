package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"toptransfer/internal/modules/pricing"
	"toptransfer/internal/types"
)

func distanceSummary() Summary {
	km := 8.0
	return Summary{
		Name:       "Jean Dupont",
		Phone:      "+33 6 12 34 56 78",
		Email:      "jean@example.com",
		Pickup:     "Montpellier Airport",
		Dropoff:    "Place de la Comédie, Montpellier",
		Date:       "2026-11-02",
		Time:       "09:30",
		Mode:       pricing.ModeDistance,
		DistanceKm: &km,
		Hours:      1,
		Price:      types.EUR(4000),
	}
}

func TestTemplateParams_Distance(t *testing.T) {
	p := TemplateParams(distanceSummary(), Recipient{Name: DefaultOperatorName, Email: DefaultOperatorEmail})

	want := map[string]any{
		"to_name":         "TopTransfer",
		"to_email":        "toptransfer34@gmail.com",
		"from_name":       "Jean Dupont",
		"booking_type":    "Distance-based",
		"flight_number":   "Not provided",
		"distance":        "8.00 km",
		"hours":           "N/A",
		"estimated_price": "€40.00",
		"notes":           "No additional notes",
		"payment_status":  "Paid (100%)",
		"message":         "New booking from Jean Dupont. Pickup: Montpellier Airport, Dropoff: Place de la Comédie, Montpellier, Date: 2026-11-02, Time: 09:30",
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("%s = %v, want %v", k, p[k], v)
		}
	}
}

func TestTemplateParams_Hourly(t *testing.T) {
	s := distanceSummary()
	s.Mode = pricing.ModeHourly
	s.Hours = 3
	s.Price = types.EUR(21000)
	s.Notes = "Child seat"
	s.FlightNumber = "AF1234"

	p := TemplateParams(s, Recipient{})
	if p["booking_type"] != "Hourly" || p["distance"] != "N/A" || p["hours"] != 3 {
		t.Errorf("unexpected mode fields: %v %v %v", p["booking_type"], p["distance"], p["hours"])
	}
	if p["notes"] != "Child seat" || p["flight_number"] != "AF1234" || p["estimated_price"] != "€210.00" {
		t.Errorf("unexpected optional fields: %v %v %v", p["notes"], p["flight_number"], p["estimated_price"])
	}
}

func TestEmailJSSender(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.TemplateID == "template_broken" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("The template ID is invalid"))
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	cfg := EmailJSConfig{ServiceID: "service_1", TemplateID: "template_1", PublicKey: "pub", Endpoint: srv.URL}
	s := NewEmailJSSender(cfg, srv.Client())
	if err := s.Send(context.Background(), Recipient{}, map[string]any{"name": "Jean"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.ServiceID != "service_1" || got.UserID != "pub" || got.TemplateParams["name"] != "Jean" {
		t.Errorf("unexpected request %+v", got)
	}

	cfg.TemplateID = "template_broken"
	err := NewEmailJSSender(cfg, srv.Client()).Send(context.Background(), Recipient{}, nil)
	if !errors.Is(err, ErrSendFailed) || !strings.Contains(err.Error(), "template ID is invalid") {
		t.Errorf("expected ErrSendFailed with provider text, got %v", err)
	}

	if err := NewEmailJSSender(EmailJSConfig{}, nil).Send(context.Background(), Recipient{}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSMTPSender(t *testing.T) {
	var (
		addr string
		to   []string
		msg  string
	)
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587", From: "bookings@example.com"})
	s.sendMail = func(a string, _ smtp.Auth, _ string, rcpt []string, m []byte) error {
		addr, to, msg = a, rcpt, string(m)
		return nil
	}

	params := TemplateParams(distanceSummary(), Recipient{Name: "Ops", Email: "ops@example.com"})
	if err := s.Send(context.Background(), Recipient{Name: "Ops", Email: "ops@example.com"}, params); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if addr != "smtp.example.com:587" || len(to) != 1 || to[0] != "ops@example.com" {
		t.Errorf("unexpected envelope %s %v", addr, to)
	}
	for _, want := range []string{"Subject: New booking from Jean Dupont", "text/html", "€40.00", "Distance-based"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }
	if err := s.Send(context.Background(), Recipient{Email: "ops@example.com"}, params); !errors.Is(err, ErrSendFailed) {
		t.Errorf("expected ErrSendFailed, got %v", err)
	}
}

func TestSMTPSender_HeadersStayOnOneLine(t *testing.T) {
	var msg string
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587", From: "bookings@example.com"})
	s.sendMail = func(_ string, _ smtp.Auth, _ string, _ []string, m []byte) error {
		msg = string(m)
		return nil
	}
	to := Recipient{Name: "Ops", Email: "ops@example.com"}

	summary := distanceSummary()
	summary.Name = "Eve\r\nBcc: victim@evil.example\r\nX-Injected: yes"
	if err := s.Send(context.Background(), to, TemplateParams(summary, to)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	headers, _, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatal("message has no header/body separator")
	}
	for _, line := range strings.Split(headers, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") || strings.HasPrefix(line, "X-Injected:") {
			t.Fatalf("customer name opened a header line: %q", line)
		}
	}
	if !strings.Contains(headers, "Subject: New booking from Eve Bcc: victim@evil.example X-Injected: yes") {
		t.Errorf("unexpected headers:\n%s", headers)
	}

	summary.Name = "Иван Петров"
	if err := s.Send(context.Background(), to, TemplateParams(summary, to)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	headers, _, _ = strings.Cut(msg, "\r\n\r\n")
	if !strings.Contains(headers, "Subject: =?utf-8?q?") || strings.Contains(headers, "Иван") {
		t.Errorf("subject is not MIME encoded:\n%s", headers)
	}
}

type recordingSender struct {
	to     Recipient
	params map[string]any
	err    error
}

func (r *recordingSender) Send(_ context.Context, to Recipient, params map[string]any) error {
	r.to, r.params = to, params
	return r.err
}

func TestDispatcher(t *testing.T) {
	ok := &recordingSender{}
	out := NewDispatcher(ok, Recipient{}, nil).Dispatch(context.Background(), distanceSummary())
	if !out.Sent || out.Err != "" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if ok.to.Email != DefaultOperatorEmail || ok.params["to_email"] != DefaultOperatorEmail {
		t.Errorf("operator defaults not applied: %+v", ok.to)
	}

	failing := &recordingSender{err: errors.New("quota exceeded")}
	out = NewDispatcher(failing, Recipient{}, nil).Dispatch(context.Background(), distanceSummary())
	if out.Sent || out.Err != "quota exceeded" {
		t.Fatalf("unexpected outcome %+v", out)
	}

	out = NewDispatcher(nil, Recipient{}, nil).Dispatch(context.Background(), distanceSummary())
	if out.Sent {
		t.Fatal("dispatch without a sender must fail")
	}
}
