package realty

import (
	"fmt"
	"html/template"
	"strings"
)

var propertyListingTmpl = template.Must(template.New("property_listing").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #2c5f8a;">{{.Property.Title}}</h2>
  <p>Dear {{.ClientName}},</p>
  {{if .Message}}<p>{{.Message}}</p>{{end}}
  <p>Here are the details of the property you asked about:</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><b>Price</b></td><td>{{.Price}}</td></tr>
    <tr><td><b>Type</b></td><td>{{.Property.Type}}</td></tr>
    <tr><td><b>Bedrooms</b></td><td>{{.Property.Bedrooms}}</td></tr>
    <tr><td><b>Bathrooms</b></td><td>{{.Property.Bathrooms}}</td></tr>
    <tr><td><b>Area</b></td><td>{{.Property.AreaSqft}} sqft</td></tr>
    <tr><td><b>Address</b></td><td>{{.Property.Address}}</td></tr>
    <tr><td><b>Amenities</b></td><td>{{.Amenities}}</td></tr>
  </table>
  <p>{{.Property.Description}}</p>
  <p>Reply to this email or message us to arrange a viewing.</p>
</body>
</html>`))

var appointmentConfirmationTmpl = template.Must(template.New("appointment_confirmation").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #2c5f8a;">Viewing Confirmed</h2>
  <p>Dear {{.ClientName}},</p>
  <p>Your viewing appointment <b>{{.Appointment.ID}}</b> is confirmed for
  <b>{{.When}}</b>.</p>
  {{if .HasProperty}}
  <p>Property: <b>{{.Property.Title}}</b><br>{{.Property.Address}}</p>
  {{end}}
  {{if .Appointment.Notes}}<p>Notes: {{.Appointment.Notes}}</p>{{end}}
  <p>If you need to reschedule, just let us know.</p>
</body>
</html>`))

var generalTmpl = template.Must(template.New("general").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #2c5f8a;">{{.Subject}}</h2>
  <p>Dear {{.ClientName}},</p>
  <p>{{.Message}}</p>
  <p>Best regards,<br>Your real estate team</p>
</body>
</html>`))

func renderPropertyListingEmail(p Property, clientName, message string) (string, error) {
	var b strings.Builder
	err := propertyListingTmpl.Execute(&b, struct {
		Property   Property
		ClientName string
		Message    string
		Price      string
		Amenities  string
	}{
		Property:   p,
		ClientName: clientName,
		Message:    message,
		Price:      fmt.Sprintf("$%.0f", p.Price),
		Amenities:  strings.Join(p.Amenities, ", "),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderAppointmentConfirmationEmail(apt Appointment, clientName string, property *Property) (string, error) {
	data := struct {
		Appointment Appointment
		ClientName  string
		When        string
		HasProperty bool
		Property    Property
	}{
		Appointment: apt,
		ClientName:  clientName,
		When:        apt.Time.Format("January 2, 2006 at 3:04 PM"),
	}
	if property != nil {
		data.HasProperty = true
		data.Property = *property
	}

	var b strings.Builder
	if err := appointmentConfirmationTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderGeneralEmail(subject, message, clientName string) (string, error) {
	var b strings.Builder
	err := generalTmpl.Execute(&b, struct {
		Subject    string
		Message    string
		ClientName string
	}{Subject: subject, Message: message, ClientName: clientName})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
