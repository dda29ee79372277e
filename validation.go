package ryde

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// emailPattern mirrors the client's permissive local@domain.tld check. The
// provider applies its own, stricter validation on account creation.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Validate runs the sign-up validation rules. Rules apply per field with no
// early exit across fields; the confirm password check is independent of the
// password rules so a short-but-matching pair only flags the password field.
func (f SignupForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.By(requiredTrimmed("Name is required")),
		),
		validation.Field(&f.Email,
			validation.By(requiredTrimmed("Email is required")),
			validation.Match(emailPattern).Error("Email is invalid"),
		),
		validation.Field(&f.Password,
			validation.Required.Error("Password is required"),
			validation.Length(8, 0).Error("Password must be at least 8 characters"),
		),
		validation.Field(&f.ConfirmPassword,
			validation.By(ValidateStringEquals(f.Password, "Passwords do not match")),
		),
	)
}

// ValidateForm recomputes the full set of field errors for a snapshot. The
// returned map always carries an entry per form field so a pass that finds no
// error clears any prior message. Pure: same snapshot, same result.
func ValidateForm(form SignupForm) (FieldErrors, bool) {
	fieldErrs := FieldErrors{
		FieldName:            "",
		FieldEmail:           "",
		FieldPassword:        "",
		FieldConfirmPassword: "",
	}

	err := form.Validate()
	if err == nil {
		return fieldErrs, true
	}

	for field, msg := range FormatValidationErrorToMap(err) {
		fieldErrs[field] = msg
	}

	return fieldErrs, false
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field -> message map keyed by the struct's json tags.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New(message)
		}
		return nil
	}
}

func requiredTrimmed(message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}
