package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveFields is the set of attribute names (lowercase) whose values are
// never written to logs. ip_address is the client address stored on actions.
var SensitiveFields = map[string]bool{
	"ip_address": true,
	"client_ip":  true,
	"password":   true,
	"secret":     true,
	"token":      true,
}

// ipv4Pattern matches dotted-quad addresses embedded in arbitrary values,
// such as error strings that quote a stored action.
var ipv4Pattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// newRedactAttr returns a masq-powered ReplaceAttr function for use in
// slog.HandlerOptions. Fields are redacted by name, and client addresses are
// also caught by value when they slip into other attributes.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveFields)+2)

	for name := range SensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret_"),
		masq.WithRegex(ipv4Pattern),
	)

	return masq.New(opts...)
}
