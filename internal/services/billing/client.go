package billing

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"strconv"
	"sync/atomic"

	"ofo/internal/config"
	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"

	"github.com/google/uuid"
)

const (
	statusFailed = 2

	maxResponseBytes = 1 << 20
)

// Client talks to a MobilePulsa style aggregator.
type Client struct {
	cfg  config.GatewayConfig
	http *http.Client
	log  *slog.Logger
	uuid func() string
}

func NewClient(cfg config.GatewayConfig, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, log: log, uuid: uuid.NewString}
}

// sign follows the aggregator scheme md5(username + key + ref).
func (c *Client) sign(ref string) string {
	sum := md5.Sum([]byte(c.cfg.Username + c.cfg.APIKey + ref))
	return hex.EncodeToString(sum[:])
}

type prepaidEnvelope struct {
	Data struct {
		Status       int         `json:"status"`
		Hp           string      `json:"hp"`
		MeterNo      string      `json:"meter_no"`
		SubscriberID string      `json:"subscriber_id"`
		Name         string      `json:"name"`
		SegmentPower string      `json:"segment_power"`
		Message      string      `json:"message"`
		RC           string      `json:"rc"`
		RefID        string      `json:"ref_id"`
		TrID         json.Number `json:"tr_id"`
	} `json:"data"`
}

type postpaidEnvelope struct {
	Data struct {
		Status  int         `json:"status"`
		TrID    json.Number `json:"tr_id"`
		Code    string      `json:"code"`
		Hp      string      `json:"hp"`
		TrName  string      `json:"tr_name"`
		Period  string      `json:"period"`
		RefID   string      `json:"ref_id"`
		Message string      `json:"message"`
		Price   int64       `json:"price"`
		Desc    struct {
			Tarif string      `json:"tarif"`
			Daya  json.Number `json:"daya"`
		} `json:"desc"`
	} `json:"data"`
}

func (c *Client) Inquire(ctx context.Context, service models.PaymentService, accountRef string) (*Inquiry, error) {
	const op = "billing.Inquire"

	switch service {
	case models.ServicePLNPrepaid:
		var env prepaidEnvelope
		raw, err := c.call(ctx, c.cfg.PrepaidURL, map[string]string{
			"commands": "inquiry_pln",
			"username": c.cfg.Username,
			"hp":       accountRef,
			"sign":     c.sign(accountRef),
		}, &env)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, inquiryError(err))
		}
		if env.Data.Status == statusFailed {
			return nil, fmt.Errorf("%s: %w", op, appErrors.Rejected(env.Data.Message, nil))
		}
		return &Inquiry{
			Service:      service,
			AccountRef:   accountRef,
			CustomerID:   env.Data.Hp,
			MeterNumber:  env.Data.MeterNo,
			SubscriberID: env.Data.SubscriberID,
			FullName:     env.Data.Name,
			SegmentPower: env.Data.SegmentPower,
			Raw:          raw,
		}, nil

	case models.ServicePLNPostpaid:
		ref := c.uuid()
		var env postpaidEnvelope
		raw, err := c.call(ctx, c.cfg.PostpaidURL, map[string]string{
			"commands": "inq-pasca",
			"username": c.cfg.Username,
			"code":     "PLNPOSTPAID",
			"hp":       accountRef,
			"ref_id":   ref,
			"sign":     c.sign(ref),
		}, &env)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, inquiryError(err))
		}
		if env.Data.Status == statusFailed {
			return nil, fmt.Errorf("%s: %w", op, appErrors.Rejected(env.Data.Message, nil))
		}
		segment := env.Data.Desc.Tarif
		if d := env.Data.Desc.Daya.String(); d != "" {
			segment = segment + "/" + d
		}
		return &Inquiry{
			Service:      service,
			AccountRef:   accountRef,
			CustomerID:   env.Data.Hp,
			MeterNumber:  env.Data.TrID.String(),
			SubscriberID: env.Data.Hp,
			FullName:     env.Data.TrName,
			SegmentPower: segment,
			Period:       env.Data.Period,
			Amount:       env.Data.Price,
			ProviderRef:  env.Data.TrID.String(),
			Raw:          raw,
		}, nil
	}

	return nil, fmt.Errorf("%s: %w", op, appErrors.Validation("INVALID_SERVICE", "unsupported payment service"))
}

func (c *Client) Pay(ctx context.Context, service models.PaymentService, accountRef string, req PayRequest) (*ProviderResponse, error) {
	const op = "billing.Pay"

	log := c.log.With(
		sl.String("op", op),
		sl.String("service", string(service)),
		sl.String("ref_id", req.RefID),
	)

	var (
		url     string
		payload map[string]string
	)
	switch service {
	case models.ServicePLNPrepaid:
		url = c.cfg.PrepaidURL
		payload = map[string]string{
			"commands":   "topup",
			"username":   c.cfg.Username,
			"ref_id":     req.RefID,
			"hp":         accountRef,
			"pulsa_code": "pln" + strconv.FormatInt(req.Amount, 10),
			"sign":       c.sign(req.RefID),
		}
	case models.ServicePLNPostpaid:
		if req.ProviderRef == "" {
			return nil, fmt.Errorf("%s: %w", op, appErrors.Validation("MISSING_PROVIDER_REF", "postpaid payment needs an inquiry reference"))
		}
		url = c.cfg.PostpaidURL
		payload = map[string]string{
			"commands": "pay-pasca",
			"username": c.cfg.Username,
			"tr_id":    req.ProviderRef,
			"sign":     c.sign(req.ProviderRef),
		}
	default:
		return nil, fmt.Errorf("%s: %w", op, appErrors.Validation("INVALID_SERVICE", "unsupported payment service"))
	}

	var env struct {
		Data struct {
			Status  int         `json:"status"`
			RefID   string      `json:"ref_id"`
			TrID    json.Number `json:"tr_id"`
			Message string      `json:"message"`
		} `json:"data"`
	}
	raw, err := c.call(ctx, url, payload, &env)
	if err != nil {
		log.Warn("payment call failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if env.Data.Status == statusFailed {
		log.Info("payment rejected by provider", sl.String("message", env.Data.Message))
		return nil, fmt.Errorf("%s: %w", op, appErrors.Rejected(env.Data.Message, nil))
	}

	providerRef := env.Data.TrID.String()
	if providerRef == "" {
		providerRef = req.ProviderRef
	}
	return &ProviderResponse{
		RefID:       req.RefID,
		ProviderRef: providerRef,
		Status:      env.Data.Status,
		Message:     env.Data.Message,
		Raw:         raw,
	}, nil
}

// call posts payload and decodes the JSON answer into out. Failures
// before the request was fully written are UPSTREAM_UNAVAILABLE; failures
// after it are wrapped in ErrOutcomeUnknown.
func (c *Client) call(ctx context.Context, url string, payload interface{}, out interface{}) (models.JSON, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Internal("failed to encode gateway request", err)
	}

	var wrote atomic.Bool
	trace := &httptrace.ClientTrace{
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err == nil {
				wrote.Store(true)
			}
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Internal("failed to build gateway request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if wrote.Load() {
			return nil, fmt.Errorf("%w: %v", ErrOutcomeUnknown, err)
		}
		return nil, appErrors.Unavailable("billing gateway unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrOutcomeUnknown, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: gateway status %d", ErrOutcomeUnknown, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, appErrors.Rejected(fmt.Sprintf("billing gateway returned %d", resp.StatusCode), nil)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrOutcomeUnknown, err)
	}

	var raw models.JSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrOutcomeUnknown, err)
	}
	return raw, nil
}

// inquiryError folds ambiguous failures into UPSTREAM_UNAVAILABLE, since
// inquiries never move money.
func inquiryError(err error) error {
	if errors.Is(err, ErrOutcomeUnknown) {
		return appErrors.Unavailable("billing gateway did not answer", err)
	}
	return err
}
