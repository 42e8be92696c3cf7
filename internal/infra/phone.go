package infra

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// ErrInvalidPhone is returned for input that cannot be a phone number in the region.
var ErrInvalidPhone = errors.New("invalid phone number")

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone parses raw in the given default region. Numbers of that
// region are stored as national significant digits, so "+48 123-456-789" and
// "123456789" compare equal. Numbers with a foreign country code are stored in
// E.164 ("+4930123456") so they never collide with local ones.
func NormalizePhone(raw, region string) (string, error) {
	cleaned := phoneSeparators.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", ErrInvalidPhone
	}
	p, err := libphonenumber.Parse(cleaned, region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !libphonenumber.IsPossibleNumber(p) {
		return "", ErrInvalidPhone
	}
	if int(p.GetCountryCode()) != libphonenumber.GetCountryCodeForRegion(region) {
		return libphonenumber.Format(p, libphonenumber.E164), nil
	}
	return libphonenumber.GetNationalSignificantNumber(p), nil
}
