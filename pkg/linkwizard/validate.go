// Package linkwizard validates the four-stage bank and card linking form.
package linkwizard

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PersonalInfo is stage 1 of the wizard.
type PersonalInfo struct {
	FirstName   string `json:"firstName" validate:"min=2"`
	LastName    string `json:"lastName" validate:"min=2"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	SSN         string `json:"ssn" validate:"ssn"`
}

// BankAccount is stage 2 of the wizard.
type BankAccount struct {
	BankName      string `json:"bankName" validate:"required"`
	RoutingNumber string `json:"routingNumber" validate:"routing"`
	AccountNumber string `json:"accountNumber" validate:"min=8"`
	AccountType   string `json:"accountType" validate:"oneof=checking savings"`
}

// Card is stage 3 of the wizard.
type Card struct {
	CardNumber     string `json:"cardNumber" validate:"cardnumber,luhn"`
	ExpiryDate     string `json:"expiryDate" validate:"expiry"`
	CVC            string `json:"cvc" validate:"cvc"`
	CardholderName string `json:"cardholderName" validate:"min=2"`
}

// LinkRequest is the payload sent to the linking endpoint after review.
type LinkRequest struct {
	Personal PersonalInfo `json:"personal"`
	Bank     BankAccount  `json:"bank"`
	Card     Card         `json:"card"`
}

// FieldErrors maps a field name to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	ssnPattern     = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	routingPattern = regexp.MustCompile(`^\d{9}$`)
	cardPattern    = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern  = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcPattern     = regexp.MustCompile(`^\d{3,4}$`)
)

// messages is keyed by "field.tag"; the bare field name is the fallback.
var messages = map[string]string{
	"firstName":       "First name must be at least 2 characters",
	"lastName":        "Last name must be at least 2 characters",
	"dateOfBirth":     "Date of birth is required",
	"ssn":             "Invalid SSN format",
	"bankName":        "Bank name is required",
	"routingNumber":   "Routing number must be 9 digits",
	"accountNumber":   "Account number must be at least 8 digits",
	"accountType":     "Account type must be checking or savings",
	"cardNumber":      "Card number must be 13-19 digits",
	"cardNumber.luhn": "Invalid card number",
	"expiryDate":      "Invalid expiry date (MM/YY)",
	"cvc":             "CVC must be 3-4 digits",
	"cardholderName":  "Cardholder name is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	patterns := map[string]*regexp.Regexp{
		"ssn":        ssnPattern,
		"routing":    routingPattern,
		"cardnumber": cardPattern,
		"expiry":     expiryPattern,
		"cvc":        cvcPattern,
	}
	for tag, re := range patterns {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	_ = v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		return Luhn(fl.Field().String())
	})
	return v
}

// ValidatePersonal checks stage 1.
func ValidatePersonal(p PersonalInfo) error { return check(p, "") }

// ValidateBank checks stage 2.
func ValidateBank(b BankAccount) error { return check(b, "") }

// ValidateCard checks stage 3, including the Luhn checksum.
func ValidateCard(c Card) error { return check(c, "") }

// Validate checks every stage of a full request. Keys are prefixed with the
// stage name, e.g. "card.cardNumber".
func (r LinkRequest) Validate() error {
	all := FieldErrors{}
	stages := []struct {
		prefix string
		value  any
	}{
		{"personal.", r.Personal},
		{"bank.", r.Bank},
		{"card.", r.Card},
	}
	for _, s := range stages {
		err := check(s.value, s.prefix)
		var fe FieldErrors
		if errors.As(err, &fe) {
			for k, v := range fe {
				all[k] = v
			}
		} else if err != nil {
			return err
		}
	}
	if len(all) > 0 {
		return all
	}
	return nil
}

func check(s any, prefix string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = messages[fe.Field()]
		}
		out[prefix+fe.Field()] = msg
	}
	return out
}
