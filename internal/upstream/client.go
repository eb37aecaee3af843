// Package upstream knows the three seller-service endpoints and their payloads.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/gateway"
)

// Endpoint paths, relative to the base URL.
const (
	PathQuota    = "/platSellerWeb/index/list"
	PathSendList = "/platSellerWeb/coupon/send/list"
	PathRevert   = "/platSellerWeb/coupon/send/revert"
	PathReferer  = "/platSellerWeb/dist/dist-gray/index.html"
)

const (
	// PageSize is fixed by the upstream UI.
	PageSize = 50
	// StatusFilter selects sent coupons that can still be reverted.
	StatusFilter = 5
)

// Options configures the fixed request headers.
type Options struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
}

// Client issues the fixed endpoint calls through a gateway.
type Client struct {
	baseURL *url.URL
	opts    Options
	gw      gateway.Gateway
}

// New creates an endpoint client.
func New(gw gateway.Gateway, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("base url must include scheme")
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return &Client{baseURL: parsed, opts: opts, gw: gw}, nil
}

// Host returns the upstream host, used to scope session cookies.
func (c *Client) Host() string {
	return c.baseURL.Host
}

// Origin returns scheme://host of the upstream.
func (c *Client) Origin() string {
	return c.baseURL.Scheme + "://" + c.baseURL.Host
}

// LoginURL is the seller web entry page.
func (c *Client) LoginURL() string {
	return c.resolve(PathReferer)
}

// Quota calls the quota endpoint with an empty body.
func (c *Client) Quota(ctx context.Context, cred credential.Credential) (gateway.Result, error) {
	return c.post(ctx, PathQuota, cred, struct{}{})
}

// SendListRequest is the send-list body.
type SendListRequest struct {
	CarNo     string `json:"carNo"`
	PageSize  int    `json:"pageSize"`
	PageIndex int    `json:"pageIndex"`
	Status    int    `json:"status"`
}

// SendList requests one page of sent coupons.
func (c *Client) SendList(ctx context.Context, cred credential.Credential, pageIndex int) (gateway.Result, error) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	return c.post(ctx, PathSendList, cred, SendListRequest{
		CarNo:     "",
		PageSize:  PageSize,
		PageIndex: pageIndex,
		Status:    StatusFilter,
	})
}

// Revert undoes one sent coupon record.
func (c *Client) Revert(ctx context.Context, cred credential.Credential, id string) (gateway.Result, error) {
	return c.post(ctx, PathRevert, cred, map[string]string{"id": id})
}

func (c *Client) post(ctx context.Context, p string, cred credential.Credential, body any) (gateway.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.gw.Send(ctx, gateway.Request{
		URL:    c.resolve(p),
		Method: http.MethodPost,
		Header: c.headers(cred),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	return gateway.Classify(resp), nil
}

func (c *Client) headers(cred credential.Credential) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", c.opts.AcceptLanguage)
	h.Set("Content-Type", "application/json;charset=UTF-8")
	h.Set("Cookie", cred.Value)
	h.Set("Origin", c.Origin())
	h.Set("Referer", c.resolve(PathReferer))
	h.Set("User-Agent", c.opts.UserAgent)
	// The service expects the literal string, not an absent header.
	h["tenantCode"] = []string{"null"}
	return h
}

func (c *Client) resolve(p string) string {
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, p)
	return u.String()
}

// ParseQuota extracts the remaining quota from a successful response.
func ParseQuota(s gateway.Success) (int, error) {
	if !s.HasData() {
		return 0, nil
	}
	var records []QuotaRecord
	if err := json.Unmarshal(s.Data, &records); err != nil {
		return 0, fmt.Errorf("decode quota: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	return records[0].Remaining(), nil
}

// ParsePage extracts a list page from a successful response. Missing
// pagination fields fall back to page 1 of 1.
func ParsePage(s gateway.Success) (*ListPage, error) {
	var body sendListBody
	if err := json.Unmarshal(s.Body, &body); err != nil {
		return nil, fmt.Errorf("decode send list: %w", err)
	}
	page := &ListPage{
		PageIndex:  positiveOr(body.PageIndex, 1),
		TotalPages: positiveOr(body.TotalPage, 1),
		TotalSize:  positiveOr(body.TotalSize, 0),
		PageSize:   PageSize,
		Records:    body.Data,
	}
	if page.Records == nil {
		page.Records = []Record{}
	}
	return page, nil
}

func positiveOr(i Int, def int) int {
	if !i.Valid || i.Value <= 0 {
		return def
	}
	return i.Value
}
