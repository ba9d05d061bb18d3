package mail

import (
	"encoding/base64"
	"fmt"
	"strings"

	"mlb-odds-mailer/internal/domain"
)

// BuildRaw constructs a plain-text RFC 2822 message and encodes it with the
// URL-safe base64 alphabet the Gmail API expects in the raw field.
func BuildRaw(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// PickMessage formats the subject and body for a day's best bet.
func PickMessage(date string, pick domain.Outcome) (subject, body string) {
	subject = fmt.Sprintf("Best MLB bet for %s", date)

	var b strings.Builder
	fmt.Fprintf(&b, "Best bet for %s:\n\n", date)
	fmt.Fprintf(&b, "  %s\n", pick.Name)
	fmt.Fprintf(&b, "  moneyline %s\n", domain.FormatPrice(pick.Price))
	if pick.Point != nil {
		fmt.Fprintf(&b, "  spread %+.1f\n", *pick.Point)
	}
	return subject, b.String()
}
