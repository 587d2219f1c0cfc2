package notification

import (
	"fmt"
	"strings"
	"time"
)

const icsStamp = "20060102T150405"

// BuildInvite renders a single-event iCalendar file. Times are written as
// floating local times, matching how appointments are stored.
func BuildInvite(uid string, email ConfirmationEmail, now time.Time) []byte {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//pro-scheduler//booking//EN")
	line("METHOD:PUBLISH")
	line("BEGIN:VEVENT")
	line("UID:" + uid)
	line("DTSTAMP:" + now.UTC().Format(icsStamp) + "Z")
	line("DTSTART:" + email.StartAt.Format(icsStamp))
	line("DTEND:" + email.EndAt.Format(icsStamp))
	line("SUMMARY:" + escapeICS(fmt.Sprintf("%s - %s", email.ServiceName, email.BusinessName)))
	if email.Address != "" {
		line("LOCATION:" + escapeICS(email.Address))
	}
	if email.Phone != "" {
		line("DESCRIPTION:" + escapeICS("Contact: "+email.Phone))
	}
	line("END:VEVENT")
	line("END:VCALENDAR")
	return []byte(b.String())
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`, "\r", "")

func escapeICS(s string) string {
	return icsEscaper.Replace(s)
}
