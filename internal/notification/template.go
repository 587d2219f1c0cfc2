package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Appointment confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f8fafc; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 32px;">
    <p>Hello {{.ClientName}},</p>
    <p>Your appointment has been booked.</p>
    <p><strong>Service:</strong> {{.ServiceName}}</p>
    <p><strong>With:</strong> {{.BusinessName}}</p>
    <p><strong>When:</strong> {{.Day}} {{.Start}} - {{.End}}</p>
    {{- if .Address}}
    <p><strong>Address:</strong> {{.Address}}</p>
    {{- end}}
    {{- if .Phone}}
    <p><strong>Contact:</strong> {{.Phone}}</p>
    {{- end}}
    {{- if .CalendarURL}}
    <p><a href="{{.CalendarURL}}">Add to calendar</a></p>
    {{- end}}
  </div>
</body>
</html>`))

type confirmationView struct {
	ConfirmationEmail
	Day   string
	Start string
	End   string
}

func RenderConfirmation(email ConfirmationEmail) (string, error) {
	var b bytes.Buffer
	err := confirmationTmpl.Execute(&b, confirmationView{
		ConfirmationEmail: email,
		Day:               email.StartAt.Format("Monday 2 January 2006"),
		Start:             email.StartAt.Format("15:04"),
		End:               email.EndAt.Format("15:04"),
	})
	if err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return b.String(), nil
}

func ConfirmationSubject(email ConfirmationEmail) string {
	return "Appointment confirmation - " + email.ServiceName
}
