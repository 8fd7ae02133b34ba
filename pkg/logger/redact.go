package logger

import "regexp"

// Patterns for secret material that can surface in wrapped provider errors:
// OAuth access and refresh tokens, client secrets, and invitation codes.
var (
	tokenPattern  = regexp.MustCompile(`(?i)(token|bearer|jwt)[\s:=]+[^\s"&]+`)
	secretPattern = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s"&]+`)
	codePattern   = regexp.MustCompile(`(?i)(invitecode|invite_code|code)=[^\s"&]+`)
)

const redactedPlaceholder = "[REDACTED]"

// Redact strips credential material from a log message. Error chains built
// around OAuth exchanges and presigned URLs can embed live tokens, so every
// message logged at error level passes through here first.
func Redact(message string) string {
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = codePattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	return message
}
