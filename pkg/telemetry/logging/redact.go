package logging

import "strings"

// redactKeepPrefix is how many leading characters of a credential
// survive redaction.
const redactKeepPrefix = 4

// RedactKey reduces a credential to a short recognizable prefix. The
// result is safe for logs and error messages; the full key never leaves
// the process through either.
func RedactKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) <= redactKeepPrefix {
		return "..."
	}
	return key[:redactKeepPrefix] + "..."
}
