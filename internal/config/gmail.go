package config

const (
	envGoogleClientID     = "GOOGLE_CLIENT_ID"
	envGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	envTokenFile          = "TOKEN_FILE"

	defaultTokenFile = "token.json"
)

// GmailConfig controls the mail-sending credential and addresses.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	Sender       string
	Recipient    string
}

func loadGmail() GmailConfig {
	return GmailConfig{
		ClientID:     envOrDefault(envGoogleClientID, ""),
		ClientSecret: envOrDefault(envGoogleClientSecret, ""),
		TokenFile:    envOrDefault(envTokenFile, defaultTokenFile),
		Sender:       envOrDefault(envSenderEmail, ""),
		Recipient:    envOrDefault(envRecipientEmail, ""),
	}
}
