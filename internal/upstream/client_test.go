package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeGateway struct {
	SendFunc func(ctx context.Context, req gateway.Request) (*gateway.Response, error)
	requests []gateway.Request
}

func (f *FakeGateway) Send(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	f.requests = append(f.requests, req)
	if f.SendFunc != nil {
		return f.SendFunc(ctx, req)
	}
	return gateway.Decode([]byte(`{"code":0}`))
}

func respond(body string) func(context.Context, gateway.Request) (*gateway.Response, error) {
	return func(context.Context, gateway.Request) (*gateway.Response, error) {
		return gateway.Decode([]byte(body))
	}
}

func newClient(t *testing.T, gw gateway.Gateway) *Client {
	t.Helper()
	c, err := New(gw, Options{
		BaseURL:        "https://seller.example.com/",
		UserAgent:      "test-agent",
		AcceptLanguage: "zh-CN,zh;q=0.9",
	})
	require.NoError(t, err)
	return c
}

var cred = credential.Credential{Value: "JSESSIONID=abc", Source: credential.SourceStore}

func TestNew_Validation(t *testing.T) {
	_, err := New(&FakeGateway{}, Options{})
	assert.Error(t, err)
	_, err = New(&FakeGateway{}, Options{BaseURL: "seller.example.com"})
	assert.Error(t, err)
}

func TestClient_FixedHeaders(t *testing.T) {
	gw := &FakeGateway{}
	c := newClient(t, gw)

	_, err := c.Quota(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, gw.requests, 1)

	req := gw.requests[0]
	assert.Equal(t, "https://seller.example.com/platSellerWeb/index/list", req.URL)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "{}", string(req.Body))
	assert.Equal(t, "JSESSIONID=abc", req.Header.Get("Cookie"))
	assert.Equal(t, "application/json;charset=UTF-8", req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json, text/plain, */*", req.Header.Get("Accept"))
	assert.Equal(t, "zh-CN,zh;q=0.9", req.Header.Get("Accept-Language"))
	assert.Equal(t, "https://seller.example.com", req.Header.Get("Origin"))
	assert.Equal(t, "https://seller.example.com/platSellerWeb/dist/dist-gray/index.html", req.Header.Get("Referer"))
	assert.Equal(t, "test-agent", req.Header.Get("User-Agent"))
	assert.Equal(t, []string{"null"}, req.Header["tenantCode"])
}

func TestClient_SendListBody(t *testing.T) {
	gw := &FakeGateway{}
	c := newClient(t, gw)

	_, err := c.SendList(context.Background(), cred, 3)
	require.NoError(t, err)
	_, err = c.SendList(context.Background(), cred, 0)
	require.NoError(t, err)

	assert.Equal(t, "https://seller.example.com/platSellerWeb/coupon/send/list", gw.requests[0].URL)
	assert.JSONEq(t, `{"carNo":"","pageSize":50,"pageIndex":3,"status":5}`, string(gw.requests[0].Body))
	assert.JSONEq(t, `{"carNo":"","pageSize":50,"pageIndex":1,"status":5}`, string(gw.requests[1].Body))
}

func TestClient_RevertBody(t *testing.T) {
	gw := &FakeGateway{}
	c := newClient(t, gw)

	res, err := c.Revert(context.Background(), cred, "A1")
	require.NoError(t, err)
	assert.IsType(t, gateway.Success{}, res)
	assert.Equal(t, "https://seller.example.com/platSellerWeb/coupon/send/revert", gw.requests[0].URL)
	assert.JSONEq(t, `{"id":"A1"}`, string(gw.requests[0].Body))
}

func TestClient_TransportErrorPassesThrough(t *testing.T) {
	gw := &FakeGateway{SendFunc: func(context.Context, gateway.Request) (*gateway.Response, error) {
		return nil, &gateway.TransportError{Err: errors.New("connection refused")}
	}}
	_, err := newClient(t, gw).Quota(context.Background(), cred)
	var te *gateway.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestClient_ClassifiesAuthRejection(t *testing.T) {
	gw := &FakeGateway{SendFunc: respond(`{"code":-2,"errMsg":"not logged in"}`)}
	res, err := newClient(t, gw).Quota(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, gateway.AuthRejected{Message: "not logged in"}, res)
}

func success(t *testing.T, body string) gateway.Success {
	t.Helper()
	resp, err := gateway.Decode([]byte(body))
	require.NoError(t, err)
	s, ok := gateway.Classify(resp).(gateway.Success)
	require.True(t, ok)
	return s
}

func TestParseQuota(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"numeric field", `{"code":0,"data":[{"remainTotal":7}]}`, 7},
		{"numeric wins over string", `{"code":0,"data":[{"remainTotal":4,"remainTotalStr":"9"}]}`, 4},
		{"string fallback", `{"code":0,"data":[{"remainTotalStr":"12"}]}`, 12},
		{"numeric zero falls back to string", `{"code":0,"data":[{"remainTotal":0,"remainTotalStr":"12"}]}`, 12},
		{"negative falls back to string", `{"code":0,"data":[{"remainTotal":-1,"remainTotalStr":"3"}]}`, 3},
		{"string with suffix", `{"code":0,"data":[{"remainTotalStr":"12 left"}]}`, 12},
		{"numeric as string", `{"code":0,"data":[{"remainTotal":"5"}]}`, 5},
		{"invalid string", `{"code":0,"data":[{"remainTotalStr":"abc"}]}`, 0},
		{"neither field", `{"code":0,"data":[{}]}`, 0},
		{"negative clamps", `{"code":0,"data":[{"remainTotal":-3}]}`, 0},
		{"first element only", `{"code":0,"data":[{"remainTotal":2},{"remainTotal":9}]}`, 2},
		{"empty list", `{"code":0,"data":[]}`, 0},
		{"no data", `{"code":0}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuota(success(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuota_WrongShape(t *testing.T) {
	_, err := ParseQuota(success(t, `{"code":0,"data":{"remainTotal":1}}`))
	assert.Error(t, err)
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage(success(t, `{"code":0,"data":[{"id":"A1","createTime":"2024-01-01","couponCount":10}],"pageIndex":1,"totalPage":3,"totalSize":120}`))
	require.NoError(t, err)

	assert.Equal(t, 1, page.PageIndex)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 120, page.TotalSize)
	assert.Equal(t, PageSize, page.PageSize)
	require.Len(t, page.Records, 1)
	assert.Equal(t, Text("A1"), page.Records[0].ID)
	assert.Equal(t, Text("2024-01-01"), page.Records[0].CreateTime)
	assert.Equal(t, 10, page.Records[0].Count())
}

func TestParsePage_LenientFields(t *testing.T) {
	page, err := ParsePage(success(t, `{"code":"0","data":[{"id":42,"couponCount":"7"},{"id":"B2"}],"pageIndex":"2","totalPage":"2"}`))
	require.NoError(t, err)

	assert.Equal(t, 2, page.PageIndex)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 0, page.TotalSize)
	assert.Equal(t, Text("42"), page.Records[0].ID)
	assert.Equal(t, 7, page.Records[0].Count())
	assert.Equal(t, 0, page.Records[1].Count())
}

func TestParsePage_NumericCreateTime(t *testing.T) {
	page, err := ParsePage(success(t, `{"code":0,"data":[{"id":"A1","createTime":1704067200000,"couponCount":2},{"id":"A2","createTime":null}]}`))
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, Text("1704067200000"), page.Records[0].CreateTime)
	assert.Equal(t, Text(""), page.Records[1].CreateTime)
}

func TestParsePage_EmptyListIsAPage(t *testing.T) {
	page, err := ParsePage(success(t, `{"code":0,"data":[]}`))
	require.NoError(t, err)
	assert.True(t, page.Empty())
	assert.Equal(t, 1, page.PageIndex)
	assert.Equal(t, 1, page.TotalPages)
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 7 ", 7, true},
		{"-3", -3, true},
		{"8abc", 8, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLeadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestInt_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Int `json:"a"`
		B Int `json:"b"`
	}{A: Int{Value: 3, Valid: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(b))
}
