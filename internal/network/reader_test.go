package network_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/domain"
	"socialfi/internal/network"
)

func TestGetAccount_PublicAPIShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/erd1abc", r.URL.Path)
		_, _ = io.WriteString(w, `{"address":"erd1abc","balance":"1500000000000000000","nonce":7,"shard":1}`)
	}))
	defer srv.Close()

	acct, err := network.NewReader(srv.URL).GetAccount(context.Background(), "erd1abc")
	require.NoError(t, err)
	assert.Equal(t, domain.Account{Address: "erd1abc", Balance: "1500000000000000000", Nonce: 7}, acct)
}

func TestGetAccount_GatewayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"account":{"address":"erd1abc","balance":"42","nonce":1}},"code":"successful"}`)
	}))
	defer srv.Close()

	acct, err := network.NewReader(srv.URL).GetAccount(context.Background(), "erd1abc")
	require.NoError(t, err)
	assert.Equal(t, "42", acct.Balance)
	assert.Equal(t, uint64(1), acct.Nonce)
}

func TestGetAccount_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		},
		"no balance": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"address":"erd1abc"}`)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := network.NewReader(srv.URL).GetAccount(context.Background(), "erd1abc")
			assert.Error(t, err)
		})
	}
}
