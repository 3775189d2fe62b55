package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// PIILevel defines how much of a tool input may reach span attributes
type PIILevel string

const (
	// PIILevelNone redacts all user content
	PIILevelNone PIILevel = "none"
	// PIILevelHashed hashes detected PII with the service salt
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull performs no sanitization
	PIILevelFull PIILevel = "full"
)

// DefaultPreviewLength caps the input preview attached to upstream spans.
const DefaultPreviewLength = 256

// ParsePIILevel validates a configured level.
func ParsePIILevel(raw string) (PIILevel, error) {
	switch level := PIILevel(strings.ToLower(strings.TrimSpace(raw))); level {
	case PIILevelNone, PIILevelHashed, PIILevelFull:
		return level, nil
	case "":
		return PIILevelHashed, nil
	default:
		return "", fmt.Errorf("unsupported PII level %q", raw)
	}
}

// Sanitizer handles PII detection and sanitization for telemetry
type Sanitizer struct {
	level PIILevel
	salt  string

	emailPattern      *regexp.Regexp
	phonePattern      *regexp.Regexp
	ssnPattern        *regexp.Regexp
	creditCardPattern *regexp.Regexp
	ipv4Pattern       *regexp.Regexp
	ipv6Pattern       *regexp.Regexp
}

// NewSanitizer creates a sanitizer; salt keeps hashes stable per deployment
func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level:             level,
		salt:              salt,
		emailPattern:      regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phonePattern:      regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		ssnPattern:        regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		creditCardPattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),
		ipv4Pattern:       regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		ipv6Pattern:       regexp.MustCompile(`\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`),
	}
}

// Sanitize applies the configured level to free text
func (s *Sanitizer) Sanitize(input string) string {
	if s == nil {
		return "[REDACTED]"
	}
	switch s.level {
	case PIILevelNone:
		return "[REDACTED]"
	case PIILevelFull:
		return input
	default:
		return s.hashPII(input)
	}
}

// Preview renders tool inputs (a prompt string, a QA object, ...) as a bounded,
// sanitized string suitable for a span attribute.
func (s *Sanitizer) Preview(inputs any, maxRunes int) string {
	var text string
	switch v := inputs.(type) {
	case nil:
		return ""
	case string:
		text = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			text = fmt.Sprint(v)
		} else {
			text = string(data)
		}
	}

	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		text = string([]rune(text)[:maxRunes])
	}
	return s.Sanitize(text)
}

// hashPII detects and hashes PII. Specific patterns run before the phone pattern so
// that card numbers and SSNs are not split into phone-shaped fragments.
func (s *Sanitizer) hashPII(input string) string {
	result := s.emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = s.ssnPattern.ReplaceAllString(result, "[SSN:REDACTED]")
	result = s.creditCardPattern.ReplaceAllString(result, "[CC:REDACTED]")
	result = s.ipv6Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
	result = s.ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
	result = s.phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	return result
}

// hash creates a salted SHA-256 hash, first 8 hex chars for readability
func (s *Sanitizer) hash(data string) string {
	h := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(h[:])[:8]
}
