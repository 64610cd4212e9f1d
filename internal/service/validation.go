package service

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/matsyaark/api/internal/dto"
)

var (
	emailLocalPattern  = regexp.MustCompile(`^[a-z0-9_]+([.+'-]?[a-z0-9_]+)*$`)
	emailDomainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+([a-z]{2,}|xn--[a-z0-9-]+)$`)
	phonePattern       = regexp.MustCompile(`^\+?[0-9\s()\-]+$`)
	idnaProfile        = idna.Lookup
)

const (
	minPhoneDigits     = 7
	maxPhoneDigits     = 15
	defaultPhoneRegion = "IN"
)

// Field error messages returned to the form.
const (
	MsgFirstNameRequired = "First name is required."
	MsgInvalidEmail      = "Please provide a valid email address."
	MsgInvalidPhone      = "Invalid phone number format."
	MsgMessageRequired   = "Message cannot be empty."
)

// ValidationErrors lists every rejected field of a submission.
type ValidationErrors []dto.FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Path+": "+fe.Msg)
	}
	return "invalid contact submission: " + strings.Join(msgs, "; ")
}

// SanitizedContact holds the trimmed and normalized form fields.
type SanitizedContact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	PhoneE164 string
	Message   string
}

// ContactValidator applies the contact form rules. It has no storage
// dependency so the rules can be exercised on their own.
type ContactValidator struct {
	DefaultRegion string
}

// NewContactValidator builds a validator that normalizes phones against region.
func NewContactValidator(region string) *ContactValidator {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactValidator{DefaultRegion: region}
}

// Validate checks all fields and reports every violation at once.
func (v *ContactValidator) Validate(req dto.ContactRequest) (SanitizedContact, error) {
	out := SanitizedContact{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
	}

	var errs ValidationErrors
	if out.FirstName == "" {
		errs = append(errs, fieldError("firstName", req.FirstName, MsgFirstNameRequired))
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		errs = append(errs, fieldError("email", req.Email, MsgInvalidEmail))
	}
	out.Email = email

	if out.Phone != "" {
		if !isPlausiblePhone(out.Phone) {
			errs = append(errs, fieldError("phone", req.Phone, MsgInvalidPhone))
		} else {
			out.PhoneE164 = normalizePhone(out.Phone, v.DefaultRegion)
		}
	}

	if out.Message == "" {
		errs = append(errs, fieldError("message", req.Message, MsgMessageRequired))
	}

	if len(errs) > 0 {
		return SanitizedContact{}, errs
	}
	return out, nil
}

func fieldError(path, value, msg string) dto.FieldError {
	return dto.FieldError{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     path,
		Location: "body",
	}
}

// normalizeEmail trims and lower-cases the address, converting an
// internationalized domain to its ASCII form before matching.
func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	local, domain := email[:at], email[at+1:]
	if !emailLocalPattern.MatchString(local) || !isDomainValid(domain) {
		return "", false
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", false
	}
	if !emailDomainPattern.MatchString(asciiDomain) {
		return "", false
	}
	return local + "@" + asciiDomain, true
}

// isPlausiblePhone accepts digits, spaces, hyphens, parentheses and a leading
// plus sign, with between 7 and 15 digits in total.
func isPlausiblePhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// normalizePhone returns the E.164 form when the number is valid for region,
// or "" when it is not.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
