package ryde_test

import (
	"testing"

	"github.com/The-CodeINN/ryde"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() ryde.SignupForm {
	return ryde.SignupForm{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "supersecret",
		ConfirmPassword: "supersecret",
	}
}

func TestValidateFormPasses(t *testing.T) {
	fieldErrs, ok := ryde.ValidateForm(validForm())
	assert.True(t, ok)
	assert.False(t, fieldErrs.HasErrors())

	for _, field := range []string{
		ryde.FieldName,
		ryde.FieldEmail,
		ryde.FieldPassword,
		ryde.FieldConfirmPassword,
	} {
		msg, present := fieldErrs[field]
		assert.True(t, present, "expected entry for %s", field)
		assert.Empty(t, msg)
	}
}

func TestValidateFormFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ryde.SignupForm)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(f *ryde.SignupForm) { f.Name = "" },
			field:   ryde.FieldName,
			message: "Name is required",
		},
		{
			name:    "whitespace name",
			mutate:  func(f *ryde.SignupForm) { f.Name = "   " },
			field:   ryde.FieldName,
			message: "Name is required",
		},
		{
			name:    "missing email",
			mutate:  func(f *ryde.SignupForm) { f.Email = "" },
			field:   ryde.FieldEmail,
			message: "Email is required",
		},
		{
			name:    "malformed email",
			mutate:  func(f *ryde.SignupForm) { f.Email = "not-an-email" },
			field:   ryde.FieldEmail,
			message: "Email is invalid",
		},
		{
			name:    "email missing tld",
			mutate:  func(f *ryde.SignupForm) { f.Email = "ada@example" },
			field:   ryde.FieldEmail,
			message: "Email is invalid",
		},
		{
			name: "missing password",
			mutate: func(f *ryde.SignupForm) {
				f.Password = ""
				f.ConfirmPassword = ""
			},
			field:   ryde.FieldPassword,
			message: "Password is required",
		},
		{
			name: "short password",
			mutate: func(f *ryde.SignupForm) {
				f.Password = "short"
				f.ConfirmPassword = "short"
			},
			field:   ryde.FieldPassword,
			message: "Password must be at least 8 characters",
		},
		{
			name:    "mismatched confirmation",
			mutate:  func(f *ryde.SignupForm) { f.ConfirmPassword = "different1" },
			field:   ryde.FieldConfirmPassword,
			message: "Passwords do not match",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)

			fieldErrs, ok := ryde.ValidateForm(form)
			assert.False(t, ok)
			assert.Equal(t, tc.message, fieldErrs[tc.field])
		})
	}
}

func TestValidateFormShortMatchingPasswordOnlyFlagsPassword(t *testing.T) {
	form := validForm()
	form.Password = "short"
	form.ConfirmPassword = "short"

	fieldErrs, ok := ryde.ValidateForm(form)
	assert.False(t, ok)
	assert.Equal(t, "Password must be at least 8 characters", fieldErrs[ryde.FieldPassword])
	assert.Empty(t, fieldErrs[ryde.FieldConfirmPassword])
}

func TestValidateFormReportsAllFieldsAtOnce(t *testing.T) {
	fieldErrs, ok := ryde.ValidateForm(ryde.SignupForm{
		Email:           "bad",
		Password:        "short",
		ConfirmPassword: "different",
	})
	require.False(t, ok)

	assert.Equal(t, "Name is required", fieldErrs[ryde.FieldName])
	assert.Equal(t, "Email is invalid", fieldErrs[ryde.FieldEmail])
	assert.Equal(t, "Password must be at least 8 characters", fieldErrs[ryde.FieldPassword])
	assert.Equal(t, "Passwords do not match", fieldErrs[ryde.FieldConfirmPassword])
}

func TestValidateFormRecomputesStaleErrors(t *testing.T) {
	form := validForm()
	form.Email = "bad"

	fieldErrs, ok := ryde.ValidateForm(form)
	require.False(t, ok)
	require.Equal(t, "Email is invalid", fieldErrs[ryde.FieldEmail])

	form.Email = "ada@example.com"
	fieldErrs, ok = ryde.ValidateForm(form)
	assert.True(t, ok)
	assert.Empty(t, fieldErrs[ryde.FieldEmail])
}

func TestSignInFormValidate(t *testing.T) {
	assert.NoError(t, ryde.SignInForm{
		Email:    "ada@example.com",
		Password: "supersecret",
	}.Validate())

	err := ryde.SignInForm{Password: "supersecret"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Email is required", ryde.FormatValidationErrorToMap(err)[ryde.FieldEmail])

	err = ryde.SignInForm{Email: "ada@example.com"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "Password is required", ryde.FormatValidationErrorToMap(err)[ryde.FieldPassword])
}
