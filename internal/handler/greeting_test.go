package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/iliyamo/secret-greeter/internal/secrets"
)

func bundleStore(b secrets.Bundle, err error) secrets.Store {
	return secrets.StoreFunc(func(context.Context) (secrets.Bundle, error) { return b, err })
}

func TestGreeting_RendersSecret(t *testing.T) {
	store := bundleStore(secrets.Bundle{"DB_PASSWORD": "x", "API_KEY": "abc123"}, nil)
	h := NewGreetingHandler(store, "API_KEY", zaptest.NewLogger(t).Sugar())

	for i := 0; i < 2; i++ {
		rec := serve(t, h.Greeting, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Hello from Node.js! API Key: abc123", rec.Body.String())
	}
}

func TestGreeting_ValueIsNotMutated(t *testing.T) {
	values := []string{"", " padded ", "with\nnewline", "ünïcødé", "<b>html</b>", "a:b=c"}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			h := NewGreetingHandler(bundleStore(secrets.Bundle{"API_KEY": v}, nil), "API_KEY", zaptest.NewLogger(t).Sugar())
			rec := serve(t, h.Greeting, "/")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, greetingPrefix+v, rec.Body.String())
		})
	}
}

func TestGreeting_FetchesPerRequest(t *testing.T) {
	calls := 0
	store := secrets.StoreFunc(func(context.Context) (secrets.Bundle, error) {
		calls++
		return secrets.Bundle{"API_KEY": "abc"}, nil
	})
	h := NewGreetingHandler(store, "API_KEY", zaptest.NewLogger(t).Sugar())
	serve(t, h.Greeting, "/")
	serve(t, h.Greeting, "/")
	assert.Equal(t, 2, calls)
}

func TestGreeting_Failures(t *testing.T) {
	tests := []struct {
		name  string
		store secrets.Store
		body  string
	}{
		{
			name:  "secret store unreachable",
			store: bundleStore(nil, &secrets.SecretStoreError{Provider: "aws", Op: "get secret value", Err: errors.New("timeout")}),
			body:  "Secret store error",
		},
		{
			name:  "key missing",
			store: bundleStore(secrets.Bundle{"DB_PASSWORD": "x"}, nil),
			body:  "Missing secret",
		},
		{
			name:  "unexpected error",
			store: bundleStore(nil, context.Canceled),
			body:  "Internal Server Error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGreetingHandler(tt.store, "API_KEY", zaptest.NewLogger(t).Sugar())
			rec := serve(t, h.Greeting, "/")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "Hello")
		})
	}
}
