package service

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "uttianguis/internal/errors"
	"uttianguis/internal/model"
)

const (
	minPasswordLength    = 6
	maxPasswordLength    = 100
	maxTitleLength       = 100
	minDescriptionLength = 50
	maxReasonLength      = 500
)

var (
	tenDigitRegex = regexp.MustCompile(`^\d{10}$`)
	minPrice      = decimal.RequireFromString("0.01")
)

// ListingValidator checks the domain rules that struct tags cannot express.
type ListingValidator struct {
	emailRegex *regexp.Regexp
}

// NewListingValidator accepts emails of the given institutional domain only.
func NewListingValidator(emailDomain string) *ListingValidator {
	return &ListingValidator{
		emailRegex: regexp.MustCompile(`^[^@\s]+@` + regexp.QuoteMeta(emailDomain) + `$`),
	}
}

// ValidateEmail requires an address of the institutional domain.
func (v *ListingValidator) ValidateEmail(email string) error {
	if !v.emailRegex.MatchString(email) {
		return apperrors.Validation("email must belong to the institutional domain")
	}
	return nil
}

// ValidatePassword enforces the length bounds.
func (v *ListingValidator) ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
	}
	return nil
}

// ValidatePhone accepts exactly ten digits after NormalizePhone.
func (v *ListingValidator) ValidatePhone(field, phone string) error {
	if !tenDigitRegex.MatchString(phone) {
		return apperrors.Validation(field + " must be exactly 10 digits")
	}
	return nil
}

// NormalizePhone removes spaces and dashes.
func (v *ListingValidator) NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(phone), " ", ""), "-", "")
}

// ValidateTitle requires 1..100 characters.
func (v *ListingValidator) ValidateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 || n > maxTitleLength {
		return apperrors.Validation(fmt.Sprintf("title must be between 1 and %d characters", maxTitleLength))
	}
	return nil
}

// ValidateDescription requires a minimum length on new listings.
func (v *ListingValidator) ValidateDescription(description string) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < minDescriptionLength {
		return apperrors.Validation(fmt.Sprintf("description must be at least %d characters", minDescriptionLength))
	}
	return nil
}

// ValidatePrice requires a strictly positive price of at least one cent.
func (v *ListingValidator) ValidatePrice(price decimal.Decimal) error {
	if price.LessThan(minPrice) {
		return apperrors.Validation("price must be at least 0.01")
	}
	return nil
}

// ValidateCondition accepts one of model.Conditions.
func (v *ListingValidator) ValidateCondition(condition string) error {
	if !slices.Contains(model.Conditions, condition) {
		return apperrors.Validation("condition must be one of " + strings.Join(model.Conditions, ", "))
	}
	return nil
}

// ValidateReason requires a non-empty moderation text of bounded length.
func (v *ListingValidator) ValidateReason(field, text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n == 0 {
		return apperrors.Validation(field + " is required")
	}
	if n > maxReasonLength {
		return apperrors.Validation(fmt.Sprintf("%s must be at most %d characters", field, maxReasonLength))
	}
	return nil
}

// ValidateProduct checks a complete listing as submitted by a seller.
func (v *ListingValidator) ValidateProduct(in ProductInput) error {
	if err := v.ValidateTitle(in.Title); err != nil {
		return err
	}
	if err := v.ValidateDescription(in.Description); err != nil {
		return err
	}
	if err := v.ValidatePrice(in.Price); err != nil {
		return err
	}
	if err := v.ValidateCondition(in.Condition); err != nil {
		return err
	}
	return v.ValidatePhone("contactWhatsapp", in.ContactWhatsapp)
}
