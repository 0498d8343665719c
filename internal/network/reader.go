// Package network reads account state from a MultiversX-style public API.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
)

// DefaultTimeout bounds account lookups.
const DefaultTimeout = 10 * time.Second

// Reader implements domain.NetworkReader over HTTP.
type Reader struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     *logrus.Entry
}

// Option configures a Reader.
type Option func(*Reader)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Reader) {
		if hc != nil {
			r.http = hc
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Reader) { r.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Reader) { r.log = log }
}

// NewReader returns a Reader for the API at base.
func NewReader(base string, opts ...Option) *Reader {
	r := &Reader{base: strings.TrimRight(base, "/"), http: http.DefaultClient}
	for _, opt := range opts {
		opt(r)
	}
	if r.timeout == 0 && r.http.Timeout == 0 {
		r.timeout = DefaultTimeout
	}
	if r.timeout > 0 {
		hc := *r.http
		hc.Timeout = r.timeout
		r.http = &hc
	}
	r.log = logging.Component(r.log, "network")
	return r
}

// GetAccount fetches balance and nonce for address. Both the public API shape
// ({"balance": ...}) and the proxy gateway shape
// ({"data": {"account": {...}}}) are accepted.
func (r *Reader) GetAccount(ctx context.Context, address domain.Address) (domain.Account, error) {
	path := "/accounts/" + url.PathEscape(address.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+path, nil)
	if err != nil {
		return domain.Account{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return domain.Account{}, fmt.Errorf("network GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Account{}, fmt.Errorf("network GET %s: read: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		return domain.Account{}, fmt.Errorf("network GET %s: %s", path, resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return domain.Account{}, fmt.Errorf("network GET %s: invalid JSON", path)
	}

	doc := gjson.ParseBytes(body)
	if acct := doc.Get("data.account"); acct.Exists() {
		doc = acct
	}
	bal := doc.Get("balance")
	if !bal.Exists() {
		return domain.Account{}, fmt.Errorf("network GET %s: no balance in response", path)
	}

	out := domain.Account{
		Address: address,
		Balance: bal.String(),
		Nonce:   doc.Get("nonce").Uint(),
	}
	r.log.WithFields(logrus.Fields{"address": address, "balance": out.Balance}).Debug("account fetched")
	return out, nil
}

var _ domain.NetworkReader = (*Reader)(nil)
