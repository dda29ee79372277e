package ryde_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/The-CodeINN/ryde"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlowErrorPassesThrough(t *testing.T) {
	original := ryde.FieldError(ryde.FieldEmail, "That email address is taken. Please try another.")

	fe := ryde.NormalizeFlowError(original)
	assert.Same(t, original, fe)

	wrapped := fmt.Errorf("gateway: %w", original)
	fe = ryde.NormalizeFlowError(wrapped)
	assert.Same(t, original, fe)
}

func TestNormalizeFlowErrorRichError(t *testing.T) {
	rich := goerrors.New("could not record profile", goerrors.CategoryConflict)

	fe := ryde.NormalizeFlowError(rich)
	require.NotNil(t, fe)
	assert.Equal(t, ryde.ErrorKindGlobal, fe.Kind)
	assert.Equal(t, "could not record profile", fe.Message)
}

func TestNormalizeFlowErrorOpaque(t *testing.T) {
	fe := ryde.NormalizeFlowError(errors.New("connection reset"))
	require.NotNil(t, fe)
	assert.Equal(t, ryde.ErrorKindUnrecoverable, fe.Kind)
	assert.Equal(t, "An unexpected error occurred. Please try again.", fe.Message)

	assert.Nil(t, ryde.NormalizeFlowError(nil))
}

func TestFlowErrorMessages(t *testing.T) {
	fe := ryde.FieldError(ryde.FieldPassword, "Password is too weak.")
	assert.Equal(t, "password: Password is too weak.", fe.Error())

	cause := errors.New("http 500")
	fe = ryde.GlobalError("Something went wrong.", cause)
	assert.Equal(t, "Something went wrong.", fe.Error())
	assert.ErrorIs(t, fe, cause)

	fe = ryde.Unrecoverable(cause)
	assert.Equal(t, ryde.ErrorKindUnrecoverable, fe.Kind)
	assert.ErrorIs(t, fe, cause)
}
