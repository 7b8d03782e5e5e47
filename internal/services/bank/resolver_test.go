package bank

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BCA", r.URL.Query().Get("bank"))
		switch r.URL.Query().Get("account_number") {
		case "12345":
			_, _ = w.Write([]byte(`{"name":" Budi Santoso "}`))
		case "99999":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	r := NewHTTPResolver(srv.URL, srv.Client())

	name, err := r.ResolveName(context.Background(), models.BankBCA, "12345")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", name)

	_, err = r.ResolveName(context.Background(), models.BankBCA, "99999")
	assert.True(t, errors.Is(err, appErrors.ErrBankAccountNotFound))

	_, err = r.ResolveName(context.Background(), models.BankBCA, "55555")
	assert.True(t, errors.Is(err, appErrors.ErrUpstreamUnavailable))
}
