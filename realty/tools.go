package realty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/realvia/realvia/tool"
)

// Tool bindings expose the domain services to models. Domain-level failures
// (unknown ids, booking conflicts, invalid dates) are reported in-band as
// JSON error payloads so the model can recover; only transport problems
// surface as Go errors.

// PropertyTools returns the catalog tools: search, details, valuation and
// similar-listing lookup.
func PropertyTools(catalog *Catalog, now func() time.Time) []tool.Tool {
	if now == nil {
		now = time.Now
	}

	search := tool.NewFunctionTool(
		"search_properties",
		"Search for properties matching criteria such as location, type, price range, bedrooms, bathrooms and area",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location":      map[string]any{"type": "string", "description": "Location or city name"},
				"property_type": map[string]any{"type": "string", "description": "apartment, house, condo or penthouse"},
				"min_price":     map[string]any{"type": "number"},
				"max_price":     map[string]any{"type": "number"},
				"bedrooms":      map[string]any{"type": "integer", "description": "Minimum number of bedrooms"},
				"bathrooms":     map[string]any{"type": "integer", "description": "Minimum number of bathrooms"},
				"min_area":      map[string]any{"type": "number", "description": "Minimum area in square feet"},
				"max_area":      map[string]any{"type": "number", "description": "Maximum area in square feet"},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			filter := SearchFilter{
				Location:     stringArg(args, "location"),
				PropertyType: stringArg(args, "property_type"),
				MinPrice:     floatArg(args, "min_price"),
				MaxPrice:     floatArg(args, "max_price"),
				Bedrooms:     intArg(args, "bedrooms"),
				Bathrooms:    intArg(args, "bathrooms"),
				MinArea:      floatArg(args, "min_area"),
				MaxArea:      floatArg(args, "max_area"),
			}
			return marshalResult(catalog.Search(filter))
		},
	)

	details := tool.NewFunctionTool(
		"get_property_details",
		"Get detailed information about a specific property by its id",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_id": map[string]any{"type": "string"},
			},
			"required": []string{"property_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "property_id")
			p, ok := catalog.Get(id)
			if !ok {
				return errorResult("Property %s not found", id)
			}
			return marshalResult(p)
		},
	)

	estimate := tool.NewFunctionTool(
		"estimate_property_value",
		"Estimate the market value of a property from its type, size, rooms, location and build year",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_type": map[string]any{"type": "string"},
				"bedrooms":      map[string]any{"type": "integer"},
				"bathrooms":     map[string]any{"type": "integer"},
				"area_sqft":     map[string]any{"type": "number"},
				"location":      map[string]any{"type": "string"},
				"year_built":    map[string]any{"type": "integer"},
			},
			"required": []string{"property_type", "bedrooms", "bathrooms", "area_sqft", "location"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			in := ValuationInput{
				PropertyType: stringArg(args, "property_type"),
				Bedrooms:     intArg(args, "bedrooms"),
				Bathrooms:    intArg(args, "bathrooms"),
				AreaSqft:     floatArg(args, "area_sqft"),
				Location:     stringArg(args, "location"),
				YearBuilt:    intArg(args, "year_built"),
			}
			return marshalResult(EstimateValue(in, now()))
		},
	)

	similar := tool.NewFunctionTool(
		"get_similar_properties",
		"Find listings similar to a given property",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_id": map[string]any{"type": "string"},
				"limit":       map[string]any{"type": "integer", "description": "Maximum results, default 3"},
			},
			"required": []string{"property_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "property_id")
			similar, ok := catalog.Similar(id, intArg(args, "limit"))
			if !ok {
				return errorResult("Property %s not found", id)
			}
			return marshalResult(similar)
		},
	)

	return []tool.Tool{search, details, estimate, similar}
}

// SchedulingTools returns the appointment tools: booking, slot lookup,
// cancellation and per-client listing.
func SchedulingTools(book *Book) []tool.Tool {
	schedule := tool.NewFunctionTool(
		"schedule_viewing",
		"Schedule a property viewing appointment for a client",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_id":    map[string]any{"type": "string"},
				"client_name":    map[string]any{"type": "string"},
				"client_phone":   map[string]any{"type": "string"},
				"preferred_date": map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
				"preferred_time": map[string]any{"type": "string", "description": "Time in HH:MM format"},
				"notes":          map[string]any{"type": "string"},
			},
			"required": []string{"property_id", "client_name", "client_phone", "preferred_date", "preferred_time"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			at, err := time.ParseInLocation("2006-01-02 15:04",
				stringArg(args, "preferred_date")+" "+stringArg(args, "preferred_time"), time.Local)
			if err != nil {
				return errorResult("Invalid date or time format. Use YYYY-MM-DD for date and HH:MM for time")
			}

			apt, err := book.Schedule(
				stringArg(args, "property_id"),
				stringArg(args, "client_name"),
				stringArg(args, "client_phone"),
				at,
				stringArg(args, "notes"),
			)
			var conflict *ConflictError
			switch {
			case errors.As(err, &conflict):
				suggested := make([]string, len(conflict.Suggested))
				for i, t := range conflict.Suggested {
					suggested[i] = t.Format("2006-01-02 15:04")
				}
				return marshalResult(map[string]any{
					"error":           "Time slot is already booked. Please choose another time.",
					"suggested_times": suggested,
				})
			case errors.Is(err, ErrPastAppointment):
				return errorResult("Cannot schedule appointments in the past")
			case err != nil:
				return "", err
			}

			return marshalResult(map[string]any{
				"success":        true,
				"appointment_id": apt.ID,
				"message":        "Viewing scheduled for " + apt.Time.Format("January 2, 2006 at 3:04 PM"),
				"appointment":    apt,
			})
		},
	)

	slots := tool.NewFunctionTool(
		"get_available_slots",
		"List the free viewing time slots for a property on a given date",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_id": map[string]any{"type": "string"},
				"date":        map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
			},
			"required": []string{"property_id", "date"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			day, err := time.ParseInLocation("2006-01-02", stringArg(args, "date"), time.Local)
			if err != nil {
				return errorResult("Invalid date format. Use YYYY-MM-DD")
			}
			available := book.AvailableSlots(stringArg(args, "property_id"), day)
			return marshalResult(map[string]any{
				"property_id":     stringArg(args, "property_id"),
				"date":            stringArg(args, "date"),
				"available_slots": available,
				"total_available": len(available),
			})
		},
	)

	cancel := tool.NewFunctionTool(
		"cancel_appointment",
		"Cancel a scheduled viewing appointment",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"appointment_id": map[string]any{"type": "string"},
			},
			"required": []string{"appointment_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "appointment_id")
			apt, ok := book.Cancel(id)
			if !ok {
				return errorResult("Appointment %s not found", id)
			}
			return marshalResult(map[string]any{
				"success":     true,
				"message":     fmt.Sprintf("Appointment %s has been cancelled", id),
				"appointment": apt,
			})
		},
	)

	clientAppointments := tool.NewFunctionTool(
		"get_client_appointments",
		"List a client's scheduled appointments by phone number",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"client_phone": map[string]any{"type": "string"},
			},
			"required": []string{"client_phone"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			phone := stringArg(args, "client_phone")
			appointments := book.ByClient(phone)
			return marshalResult(map[string]any{
				"client_phone": phone,
				"appointments": appointments,
				"total":        len(appointments),
			})
		},
	)

	return []tool.Tool{schedule, slots, cancel, clientAppointments}
}

// MarketTools returns the analytics tools: mortgage math, location trends
// and side-by-side comparison.
func MarketTools(catalog *Catalog) []tool.Tool {
	mortgage := tool.NewFunctionTool(
		"calculate_mortgage",
		"Calculate the monthly payment and total cost of a fixed-rate mortgage",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_price":  map[string]any{"type": "number"},
				"down_payment":    map[string]any{"type": "number"},
				"interest_rate":   map[string]any{"type": "number", "description": "Annual rate as a decimal, e.g. 0.05 for 5%"},
				"loan_term_years": map[string]any{"type": "integer", "description": "Default 30"},
			},
			"required": []string{"property_price", "down_payment", "interest_rate"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			quote, err := CalculateMortgage(
				floatArg(args, "property_price"),
				floatArg(args, "down_payment"),
				floatArg(args, "interest_rate"),
				intArg(args, "loan_term_years"),
			)
			if errors.Is(err, ErrDownPaymentTooLarge) {
				return errorResult("Down payment must be less than property price")
			}
			if err != nil {
				return "", err
			}
			return marshalResult(quote)
		},
	)

	trends := tool.NewFunctionTool(
		"get_market_trends",
		"Get price trends and market sentiment for a location",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{"type": "string"},
			},
			"required": []string{"location"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			return marshalResult(TrendsFor(stringArg(args, "location")))
		},
	)

	compare := tool.NewFunctionTool(
		"compare_properties",
		"Compare multiple properties side by side",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"property_ids": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []string{"property_ids"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			comparison, err := catalog.Compare(stringSliceArg(args, "property_ids"))
			if errors.Is(err, ErrNoPropertiesFound) {
				return errorResult("No properties found")
			}
			if err != nil {
				return "", err
			}
			return marshalResult(comparison)
		},
	)

	return []tool.Tool{mortgage, trends, compare}
}

// EmailTools returns the outbound email tools. Delivery failures are
// reported in-band so the model can tell the client the email did not go out.
func EmailTools(mailer Mailer, catalog *Catalog, book *Book) []tool.Tool {
	listing := tool.NewFunctionTool(
		"send_property_listing_email",
		"Email a property listing with full details to a client",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipient_email": map[string]any{"type": "string"},
				"recipient_name":  map[string]any{"type": "string"},
				"property_id":     map[string]any{"type": "string"},
				"message":         map[string]any{"type": "string", "description": "Optional personalized message"},
			},
			"required": []string{"recipient_email", "recipient_name", "property_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "property_id")
			p, ok := catalog.Get(id)
			if !ok {
				return failureResult("Property %s not found", id)
			}

			body, err := renderPropertyListingEmail(p, stringArg(args, "recipient_name"), stringArg(args, "message"))
			if err != nil {
				return "", err
			}
			email := Email{
				To:       stringArg(args, "recipient_email"),
				ToName:   stringArg(args, "recipient_name"),
				Subject:  "Property Listing: " + p.Title,
				HTMLBody: body,
			}
			if err := mailer.Send(ctx, email); err != nil {
				return failureResult("Failed to send property listing email: %v", err)
			}
			return marshalResult(map[string]any{
				"success":   true,
				"recipient": email.To,
				"subject":   email.Subject,
			})
		},
	)

	confirmation := tool.NewFunctionTool(
		"send_appointment_confirmation_email",
		"Email an appointment confirmation to a client",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipient_email": map[string]any{"type": "string"},
				"recipient_name":  map[string]any{"type": "string"},
				"appointment_id":  map[string]any{"type": "string"},
				"property_id":     map[string]any{"type": "string", "description": "Optional, includes property details"},
			},
			"required": []string{"recipient_email", "recipient_name", "appointment_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			aptID := stringArg(args, "appointment_id")
			apt, ok := book.Get(aptID)
			if !ok {
				return failureResult("Appointment %s not found", aptID)
			}

			var property *Property
			if id := stringArg(args, "property_id"); id != "" {
				if p, found := catalog.Get(id); found {
					property = &p
				}
			}

			body, err := renderAppointmentConfirmationEmail(apt, stringArg(args, "recipient_name"), property)
			if err != nil {
				return "", err
			}
			email := Email{
				To:       stringArg(args, "recipient_email"),
				ToName:   stringArg(args, "recipient_name"),
				Subject:  "Appointment Confirmation - " + aptID,
				HTMLBody: body,
			}
			if err := mailer.Send(ctx, email); err != nil {
				return failureResult("Failed to send appointment confirmation email: %v", err)
			}
			return marshalResult(map[string]any{
				"success":   true,
				"recipient": email.To,
				"subject":   email.Subject,
			})
		},
	)

	general := tool.NewFunctionTool(
		"send_general_email",
		"Send a general email to a client",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipient_email": map[string]any{"type": "string"},
				"recipient_name":  map[string]any{"type": "string"},
				"subject":         map[string]any{"type": "string"},
				"message":         map[string]any{"type": "string"},
			},
			"required": []string{"recipient_email", "recipient_name", "subject", "message"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			body, err := renderGeneralEmail(stringArg(args, "subject"), stringArg(args, "message"), stringArg(args, "recipient_name"))
			if err != nil {
				return "", err
			}
			email := Email{
				To:       stringArg(args, "recipient_email"),
				ToName:   stringArg(args, "recipient_name"),
				Subject:  stringArg(args, "subject"),
				HTMLBody: body,
			}
			if err := mailer.Send(ctx, email); err != nil {
				return failureResult("Failed to send email: %v", err)
			}
			return marshalResult(map[string]any{
				"success":   true,
				"recipient": email.To,
				"subject":   email.Subject,
			})
		},
	)

	return []tool.Tool{listing, confirmation, general}
}

func marshalResult(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func errorResult(format string, args ...any) (string, error) {
	return marshalResult(map[string]any{"error": fmt.Sprintf(format, args...)})
}

func failureResult(format string, args ...any) (string, error) {
	return marshalResult(map[string]any{"success": false, "error": fmt.Sprintf(format, args...)})
}

func stringArg(args map[string]any, name string) string {
	if s, ok := args[name].(string); ok {
		return s
	}
	return ""
}

func floatArg(args map[string]any, name string) float64 {
	switch v := args[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func intArg(args map[string]any, name string) int {
	return int(floatArg(args, name))
}

func stringSliceArg(args map[string]any, name string) []string {
	raw, ok := args[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
