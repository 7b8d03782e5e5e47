// Package bank resolves bank account holder names through an external
// lookup service.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"
)

type NameResolver interface {
	ResolveName(ctx context.Context, bank models.BankType, accountNumber string) (string, error)
}

type HTTPResolver struct {
	baseURL string
	http    *http.Client
}

func NewHTTPResolver(baseURL string, httpClient *http.Client) *HTTPResolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPResolver{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (r *HTTPResolver) ResolveName(ctx context.Context, bank models.BankType, accountNumber string) (string, error) {
	q := url.Values{}
	q.Set("bank", string(bank))
	q.Set("account_number", accountNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", appErrors.Internal("failed to build bank lookup request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", appErrors.Unavailable("bank lookup unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", appErrors.ErrBankAccountNotFound.WithMessage("account number not registered at " + string(bank))
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", appErrors.Unavailable(fmt.Sprintf("bank lookup returned %d", resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusBadRequest:
		return "", appErrors.Rejected(fmt.Sprintf("bank lookup returned %d", resp.StatusCode), nil)
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", appErrors.Unavailable("bank lookup returned an invalid body", err)
	}
	if strings.TrimSpace(body.Name) == "" {
		return "", appErrors.Unavailable("bank lookup returned an empty name", errors.New("empty name"))
	}
	return strings.TrimSpace(body.Name), nil
}
