package validators

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

var validate = validator.New()

// IsEmailValid checks syntax only; no network lookups on the booking path.
func IsEmailValid(email string) bool {
	return validate.Var(email, "required,email,max=100") == nil
}

// NormalizePhone keeps digits and a leading '+'.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsPhoneValid(phone string) bool {
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	return len(digits) >= 8 && len(digits) <= 15
}

type Contact struct {
	Name  string
	Email string
	Phone string
}

// Clean trims the contact and validates it: a name plus at least one
// reachable channel.
func (c Contact) Clean() (Contact, error) {
	out := Contact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: NormalizePhone(c.Phone),
	}

	if out.Name == "" {
		return Contact{}, httperr.ErrValidation("client_name_required")
	}
	if len(out.Name) > 100 {
		return Contact{}, httperr.ErrValidation("client_name_too_long")
	}
	if out.Email == "" && out.Phone == "" {
		return Contact{}, httperr.ErrValidation("client_contact_required")
	}
	if out.Email != "" && !IsEmailValid(out.Email) {
		return Contact{}, httperr.ErrValidation("invalid_email")
	}
	if out.Phone != "" && !IsPhoneValid(out.Phone) {
		return Contact{}, httperr.ErrValidation("invalid_phone")
	}
	return out, nil
}
