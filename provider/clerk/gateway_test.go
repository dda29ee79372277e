package clerk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-CodeINN/ryde"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gateway, err := NewGateway(DefaultConfig(srv.URL))
	require.NoError(t, err)
	return gateway, srv
}

func TestGatewayCreateAccount(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/client/sign_ups", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ada@example.com", r.PostForm.Get("email_address"))
		assert.Equal(t, "supersecret", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":{"id":"sua_123","status":"missing_requirements"}}`))
	}))

	handle, err := gateway.CreateAccount(context.Background(), "ada@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, ryde.AccountHandle("sua_123"), handle)
}

func TestGatewayCreateAccountFieldError(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{
			"code":"form_identifier_exists",
			"message":"is taken",
			"long_message":"That email address is taken. Please try another.",
			"meta":{"param_name":"email_address"}
		}]}`))
	}))

	_, err := gateway.CreateAccount(context.Background(), "ada@example.com", "supersecret")
	require.Error(t, err)

	var fe *ryde.FlowError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ryde.ErrorKindField, fe.Kind)
	assert.Equal(t, ryde.FieldEmail, fe.Field)
	assert.Equal(t, "That email address is taken. Please try another.", fe.Message)
}

func TestGatewayCreateAccountPasswordError(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{
			"code":"form_password_pwned",
			"message":"compromised",
			"long_message":"Password has been found in an online data breach.",
			"meta":{"param_name":"password"}
		}]}`))
	}))

	_, err := gateway.CreateAccount(context.Background(), "ada@example.com", "supersecret")
	require.Error(t, err)

	var fe *ryde.FlowError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ryde.FieldPassword, fe.Field)
}

func TestGatewayGlobalAndUnrecoverableErrors(t *testing.T) {
	t.Run("structured without param is global", func(t *testing.T) {
		gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors":[{
				"code":"too_many_requests",
				"message":"Too many requests",
				"long_message":"Too many requests. Please try again in a bit."
			}]}`))
		}))

		_, err := gateway.CreateAccount(context.Background(), "ada@example.com", "supersecret")
		require.Error(t, err)

		var fe *ryde.FlowError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ryde.ErrorKindGlobal, fe.Kind)
		assert.Equal(t, "Too many requests. Please try again in a bit.", fe.Message)
	})

	t.Run("unstructured body is unrecoverable", func(t *testing.T) {
		gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream exploded"))
		}))

		_, err := gateway.CreateAccount(context.Background(), "ada@example.com", "supersecret")
		require.Error(t, err)

		var fe *ryde.FlowError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, ryde.ErrorKindUnrecoverable, fe.Kind)
		assert.Equal(t, "An unexpected error occurred. Please try again.", fe.Message)
	})
}

func TestGatewayRequestVerificationCode(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/client/sign_ups/sua_123/prepare_verification", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "email_code", r.PostForm.Get("strategy"))

		w.Write([]byte(`{"response":{"id":"sua_123","status":"missing_requirements"}}`))
	}))

	err := gateway.RequestVerificationCode(context.Background(), "sua_123")
	require.NoError(t, err)
}

func TestGatewayVerifyCode(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/client/sign_ups/sua_123/attempt_verification", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "email_code", r.PostForm.Get("strategy"))
		assert.Equal(t, "424242", r.PostForm.Get("code"))

		w.Write([]byte(`{"response":{
			"id":"sua_123",
			"status":"complete",
			"created_user_id":"user_xyz",
			"created_session_id":"sess_xyz"
		}}`))
	}))

	result, err := gateway.VerifyCode(context.Background(), "sua_123", "424242")
	require.NoError(t, err)

	assert.Equal(t, ryde.VerificationComplete, result.Status)
	assert.Equal(t, "user_xyz", result.AccountID)
	assert.Equal(t, "sess_xyz", result.SessionID)
}

func TestGatewayVerifyCodeIncomplete(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"id":"sua_123","status":"missing_requirements"}}`))
	}))

	result, err := gateway.VerifyCode(context.Background(), "sua_123", "000000")
	require.NoError(t, err)
	assert.Equal(t, ryde.VerificationIncomplete, result.Status)
}

func TestGatewaySignIn(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/client/sign_ins", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ada@example.com", r.PostForm.Get("identifier"))
		assert.Equal(t, "password", r.PostForm.Get("strategy"))

		w.Write([]byte(`{"response":{
			"id":"sia_123",
			"status":"complete",
			"user_id":"user_xyz",
			"created_session_id":"sess_xyz"
		}}`))
	}))

	result, err := gateway.SignIn(context.Background(), "ada@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, ryde.VerificationComplete, result.Status)
	assert.Equal(t, "sess_xyz", result.SessionID)
}

func TestGatewayActivateSession(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/client/sessions/sess_xyz/touch", r.URL.Path)
		w.Write([]byte(`{"response":{"id":"sess_xyz","status":"active"}}`))
	}))

	require.NoError(t, gateway.ActivateSession(context.Background(), "sess_xyz"))

	err := gateway.ActivateSession(context.Background(), "")
	require.Error(t, err)
}

func TestGatewayRequiresEndpoint(t *testing.T) {
	_, err := NewGateway(Config{})
	require.Error(t, err)
}

func TestGatewayHonorsContext(t *testing.T) {
	gateway, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.CreateAccount(ctx, "ada@example.com", "supersecret")
	require.Error(t, err)
}
