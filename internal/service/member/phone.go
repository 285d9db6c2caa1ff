package member

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses raw in the context of defaultRegion and returns it in
// E.164 form. An empty input yields nil.
func NormalizePhone(raw, defaultRegion string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(defaultRegion))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return nil, ErrInvalidPhone
	}
	out := phonenumbers.Format(num, phonenumbers.E164)
	return &out, nil
}
