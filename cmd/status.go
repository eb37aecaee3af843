package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/dashboard"
	"github.com/sellerdesk/couponctl/internal/gateway"
	"github.com/sellerdesk/couponctl/internal/upstream"
	"github.com/sellerdesk/couponctl/pkg/util"
)

// QuotaService is the endpoint the session check probes.
type QuotaService interface {
	Quota(ctx context.Context, cred credential.Credential) (gateway.Result, error)
}

// StatusCmd reports whether the current session is accepted upstream.
type StatusCmd struct {
	quota    QuotaService
	creds    dashboard.CredentialSource
	upstream string
}

type StatusInput struct {
	Output string
}

const (
	statusAuthenticated = "authenticated"
	statusRejected      = "rejected"
	statusError         = "error"
	statusUnreachable   = "unreachable"
	statusNoCredential  = "no_credential"
)

type statusResponse struct {
	Status     string `json:"status"`
	Upstream   string `json:"upstream"`
	Credential string `json:"credential,omitempty"`
	Source     string `json:"source,omitempty"`
	Remaining  *int   `json:"remaining,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (c StatusCmd) Run(ctx context.Context, in StatusInput) error {
	if err := validateOutput(in.Output); err != nil {
		return err
	}
	resp := c.check(ctx)
	if in.Output == "json" {
		return util.PrintPrettyJSON(resp)
	}
	printStatus(resp)
	return nil
}

func (c StatusCmd) check(ctx context.Context) statusResponse {
	resp := statusResponse{Upstream: c.upstream}
	cred := c.creds.Resolve(ctx)
	if cred.Empty() {
		resp.Status = statusNoCredential
		resp.Message = credential.ErrCredentialMissing.Error()
		return resp
	}
	resp.Credential = cred.Masked()
	resp.Source = string(cred.Source)

	res, err := c.quota.Quota(ctx, cred)
	if err != nil {
		resp.Status = statusUnreachable
		resp.Message = err.Error()
		var te *gateway.TransportError
		if errors.As(err, &te) {
			resp.Message = te.Err.Error()
		}
		return resp
	}
	switch v := res.(type) {
	case gateway.Success:
		resp.Status = statusAuthenticated
		if n, err := upstream.ParseQuota(v); err == nil {
			resp.Remaining = &n
		}
	case gateway.AuthRejected:
		resp.Status = statusRejected
		resp.Message = v.Message
	case gateway.Failure:
		resp.Status = statusError
		resp.Message = fmt.Sprintf("code %s: %s", v.Code, v.Message)
	}
	return resp
}

var statusDisplay = map[string]struct {
	label string
	rgb   pterm.RGB
}{
	statusAuthenticated: {label: "Authenticated", rgb: pterm.NewRGB(31, 163, 130)},
	statusRejected:      {label: "Session Rejected", rgb: pterm.NewRGB(245, 158, 11)},
	statusError:         {label: "Upstream Error", rgb: pterm.NewRGB(242, 85, 51)},
	statusUnreachable:   {label: "Unreachable", rgb: pterm.NewRGB(239, 68, 68)},
	statusNoCredential:  {label: "No Credential", rgb: pterm.NewRGB(128, 128, 128)},
}

func getStatusDisplay(status string) (string, pterm.RGB) {
	if d, ok := statusDisplay[status]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(resp statusResponse) {
	label, rgb := getStatusDisplay(resp.Status)
	pterm.Println()
	pterm.Printf("  %s Session: %s\n", coloredDot(rgb), rgb.Sprint(label))
	pterm.Println()
	pterm.Printf("    %-12s %s\n", "Upstream", resp.Upstream)
	pterm.Printf("    %-12s %s\n", "Credential", util.OrDash(resp.Credential))
	pterm.Printf("    %-12s %s\n", "Source", util.OrDash(resp.Source))
	if resp.Remaining != nil {
		pterm.Printf("    %-12s %d\n", "Remaining", *resp.Remaining)
	}
	if resp.Message != "" {
		pterm.Printf("    %-12s %s\n", "Detail", resp.Message)
	}
	pterm.Println()
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the session cookie is accepted",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	addOutputFlag(statusCmd)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	a := getApp(cmd)
	c := StatusCmd{quota: a.client, creds: a.resolver, upstream: a.cfg.Upstream.BaseURL}
	return c.Run(cmd.Context(), StatusInput{Output: output})
}
