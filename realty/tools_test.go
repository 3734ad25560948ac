package realty

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realvia/realvia/tool"
)

func toolByName(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %q not found", name)
	return nil
}

func TestSearchPropertiesTool(t *testing.T) {
	tools := PropertyTools(NewCatalog(), fixedNow)
	search := toolByName(t, tools, "search_properties")

	out, err := search.Call(context.Background(), map[string]any{
		"location": "Downtown",
		"bedrooms": float64(3),
	})
	require.NoError(t, err)

	var results []Property
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "PROP001", results[0].ID)
	assert.Equal(t, "PROP004", results[1].ID)
}

func TestPropertyDetailsTool(t *testing.T) {
	tools := PropertyTools(NewCatalog(), fixedNow)
	details := toolByName(t, tools, "get_property_details")

	out, err := details.Call(context.Background(), map[string]any{"property_id": "PROP003"})
	require.NoError(t, err)
	var p Property
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Cozy 2BR Condo Near Beach", p.Title)

	out, err = details.Call(context.Background(), map[string]any{"property_id": "PROP999"})
	require.NoError(t, err)
	assert.Contains(t, out, "Property PROP999 not found")

	_, err = details.Call(context.Background(), map[string]any{})
	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, tool.CodeValidationError, toolErr.Code)
}

func TestEstimateValueTool(t *testing.T) {
	tools := PropertyTools(NewCatalog(), fixedNow)
	estimate := toolByName(t, tools, "estimate_property_value")

	out, err := estimate.Call(context.Background(), map[string]any{
		"property_type": "condo",
		"bedrooms":      float64(2),
		"bathrooms":     float64(1),
		"area_sqft":     float64(900),
		"location":      "Beachfront",
	})
	require.NoError(t, err)
	var v Valuation
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.InDelta(t, 300*900*1.5, v.EstimatedValue, 0.01)
}

func TestScheduleViewingTool(t *testing.T) {
	book := newTestBook()
	tools := SchedulingTools(book)
	schedule := toolByName(t, tools, "schedule_viewing")

	args := map[string]any{
		"property_id":    "PROP002",
		"client_name":    "Alice Smith",
		"client_phone":   "+15551234567",
		"preferred_date": "2026-06-02",
		"preferred_time": "10:00",
	}

	out, err := schedule.Call(context.Background(), args)
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, "APT0001")

	// Same property within the hour collides and suggests alternatives.
	args["preferred_time"] = "10:30"
	out, err = schedule.Call(context.Background(), args)
	require.NoError(t, err)
	assert.Contains(t, out, "already booked")
	assert.Contains(t, out, "suggested_times")
	assert.Contains(t, out, "2026-06-02 11:30")

	args["preferred_date"] = "not-a-date"
	out, err = schedule.Call(context.Background(), args)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid date or time format")
}

func TestAvailableSlotsTool(t *testing.T) {
	book := newTestBook()
	tools := SchedulingTools(book)
	slots := toolByName(t, tools, "get_available_slots")

	out, err := slots.Call(context.Background(), map[string]any{
		"property_id": "PROP001",
		"date":        "2026-06-02",
	})
	require.NoError(t, err)

	var payload struct {
		AvailableSlots []string `json:"available_slots"`
		TotalAvailable int      `json:"total_available"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 9, payload.TotalAvailable)
	assert.Equal(t, "09:00", payload.AvailableSlots[0])
}

func TestCancelAppointmentTool(t *testing.T) {
	book := newTestBook()
	_, err := book.Schedule("PROP001", "Alice", "+1555", time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	cancel := toolByName(t, SchedulingTools(book), "cancel_appointment")
	out, err := cancel.Call(context.Background(), map[string]any{"appointment_id": "APT0001"})
	require.NoError(t, err)
	assert.Contains(t, out, "has been cancelled")

	out, err = cancel.Call(context.Background(), map[string]any{"appointment_id": "APT0042"})
	require.NoError(t, err)
	assert.Contains(t, out, "Appointment APT0042 not found")
}

func TestMortgageTool(t *testing.T) {
	mortgage := toolByName(t, MarketTools(NewCatalog()), "calculate_mortgage")

	out, err := mortgage.Call(context.Background(), map[string]any{
		"property_price": float64(450000),
		"down_payment":   float64(90000),
		"interest_rate":  0.05,
	})
	require.NoError(t, err)
	var quote MortgageQuote
	require.NoError(t, json.Unmarshal([]byte(out), &quote))
	assert.Equal(t, 30, quote.LoanTermYears)
	assert.InDelta(t, 1932.56, quote.MonthlyPayment, 0.5)

	out, err = mortgage.Call(context.Background(), map[string]any{
		"property_price": float64(100000),
		"down_payment":   float64(150000),
		"interest_rate":  0.05,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Down payment must be less than property price")
}

func TestComparePropertiesTool(t *testing.T) {
	compare := toolByName(t, MarketTools(NewCatalog()), "compare_properties")

	out, err := compare.Call(context.Background(), map[string]any{
		"property_ids": []any{"PROP001", "PROP004"},
	})
	require.NoError(t, err)
	var comparison Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &comparison))
	assert.Equal(t, 2, comparison.Summary.Count)
	assert.Equal(t, 2500000.0, comparison.Summary.PriceRange.Max)
}

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func TestPropertyListingEmailTool(t *testing.T) {
	mailer := &recordingMailer{}
	catalog := NewCatalog()
	tools := EmailTools(mailer, catalog, newTestBook())
	listing := toolByName(t, tools, "send_property_listing_email")

	out, err := listing.Call(context.Background(), map[string]any{
		"recipient_email": "alice@example.com",
		"recipient_name":  "Alice",
		"property_id":     "PROP002",
		"message":         "You asked about houses with gardens.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "alice@example.com", sent.To)
	assert.Equal(t, "Property Listing: Luxury 4BR House with Garden", sent.Subject)
	assert.Contains(t, sent.HTMLBody, "456 Oak Ave, Suburbs")
	assert.Contains(t, sent.HTMLBody, "You asked about houses with gardens.")

	out, err = listing.Call(context.Background(), map[string]any{
		"recipient_email": "alice@example.com",
		"recipient_name":  "Alice",
		"property_id":     "PROP999",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"success": false`)
	assert.Len(t, mailer.sent, 1)
}

func TestAppointmentConfirmationEmailTool(t *testing.T) {
	mailer := &recordingMailer{}
	book := newTestBook()
	_, err := book.Schedule("PROP002", "Alice", "+1555", time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	confirm := toolByName(t, EmailTools(mailer, NewCatalog(), book), "send_appointment_confirmation_email")
	out, err := confirm.Call(context.Background(), map[string]any{
		"recipient_email": "alice@example.com",
		"recipient_name":  "Alice",
		"appointment_id":  "APT0001",
		"property_id":     "PROP002",
	})
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTMLBody, "APT0001")
	assert.Contains(t, mailer.sent[0].HTMLBody, "Luxury 4BR House with Garden")
}

func TestGeneralEmailToolDeliveryFailure(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("relay down")}
	general := toolByName(t, EmailTools(mailer, NewCatalog(), newTestBook()), "send_general_email")

	out, err := general.Call(context.Background(), map[string]any{
		"recipient_email": "alice@example.com",
		"recipient_name":  "Alice",
		"subject":         "Follow up",
		"message":         "Thanks for visiting.",
	})
	require.NoError(t, err, "delivery failures are reported in-band")
	assert.Contains(t, out, `"success": false`)
	assert.Contains(t, out, "relay down")
}
