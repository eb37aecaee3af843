package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/dashboard"
	"github.com/sellerdesk/couponctl/internal/gateway"
	"github.com/sellerdesk/couponctl/internal/logging"
)

var outBuf bytes.Buffer

func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableStyling()
	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error}
	for _, p := range printers {
		p.Writer = &outBuf
	}
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
		for _, p := range printers {
			p.Writer = nil
		}
	})
}

// captureStdout redirects os.Stdout for code that bypasses pterm.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

type FakeUpstream struct {
	QuotaFunc    func(ctx context.Context, cred credential.Credential) (gateway.Result, error)
	SendListFunc func(ctx context.Context, cred credential.Credential, pageIndex int) (gateway.Result, error)
	RevertFunc   func(ctx context.Context, cred credential.Credential, id string) (gateway.Result, error)

	calls []string
}

func (f *FakeUpstream) Quota(ctx context.Context, cred credential.Credential) (gateway.Result, error) {
	f.calls = append(f.calls, "quota")
	if f.QuotaFunc != nil {
		return f.QuotaFunc(ctx, cred)
	}
	return gateway.Success{Data: []byte(`[{"remainTotal":7}]`)}, nil
}

func (f *FakeUpstream) SendList(ctx context.Context, cred credential.Credential, pageIndex int) (gateway.Result, error) {
	f.calls = append(f.calls, fmt.Sprintf("list:%d", pageIndex))
	if f.SendListFunc != nil {
		return f.SendListFunc(ctx, cred, pageIndex)
	}
	return listPage(pageIndex, 3, "A1"), nil
}

func (f *FakeUpstream) Revert(ctx context.Context, cred credential.Credential, id string) (gateway.Result, error) {
	f.calls = append(f.calls, "revert:"+id)
	if f.RevertFunc != nil {
		return f.RevertFunc(ctx, cred, id)
	}
	return gateway.Success{}, nil
}

func listPage(page, total int, ids ...string) gateway.Result {
	data := "["
	for i, id := range ids {
		if i > 0 {
			data += ","
		}
		data += fmt.Sprintf(`{"id":%q,"createTime":"2024-01-01","couponCount":10}`, id)
	}
	data += "]"
	body := fmt.Sprintf(`{"code":0,"data":%s,"pageIndex":%d,"totalPage":%d,"totalSize":%d}`, data, page, total, total*50)
	return gateway.Success{Data: []byte(data), Body: []byte(body)}
}

type staticCreds struct {
	cred credential.Credential
}

func (s staticCreds) Resolve(context.Context) credential.Credential { return s.cred }

var testCred = credential.Credential{Value: "acw_tc=abc123; JSESSIONID=def456", Source: credential.SourceStore}

func newTestBoard(up dashboard.Upstream) *dashboard.Dashboard {
	return dashboard.New(up, staticCreds{cred: testCred},
		dashboard.WithLogger(logging.Discard()),
		dashboard.WithAnimator(animate.New(animate.ImmediateScheduler{})),
	)
}
