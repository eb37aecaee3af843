package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/couponctl/internal/cookiejar"
	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/dashboard"
	"github.com/sellerdesk/couponctl/internal/session"
	"github.com/sellerdesk/couponctl/internal/store"
	"github.com/sellerdesk/couponctl/pkg/util"
)

// CookieJar is the subset of the cookie jar the auth commands use.
type CookieJar interface {
	Save(ctx context.Context, host string, cookies []*http.Cookie) error
	List(ctx context.Context, host string) ([]cookiejar.Cookie, error)
}

// SessionClearer tears the stored session down.
type SessionClearer interface {
	Run(ctx context.Context) <-chan struct{}
}

// AuthCmd manages the stored session cookie.
type AuthCmd struct {
	store    store.Store
	jar      CookieJar
	creds    dashboard.CredentialSource
	clearer  SessionClearer
	host     string
	loginURL string

	open   func(url string) error
	prompt func(label string) (string, error)
	now    func() time.Time
}

type AuthLoginInput struct {
	Cookie string
	Open   bool
}

// Login stores a session cookie, prompting for it when none is given.
func (c AuthCmd) Login(ctx context.Context, in AuthLoginInput) error {
	if in.Open {
		pterm.Info.Printfln("Opening %s", c.loginURL)
		if err := c.open(c.loginURL); err != nil {
			pterm.Warning.Printfln("Could not open a browser: %v", err)
		}
	}

	cookie := strings.TrimSpace(in.Cookie)
	if cookie == "" {
		var err error
		cookie, err = c.prompt("Paste the session cookie")
		if err != nil {
			return fmt.Errorf("failed to read cookie: %w", err)
		}
		cookie = strings.TrimSpace(cookie)
	}
	if cookie == "" {
		return fmt.Errorf("%w: no cookie given", credential.ErrCredentialMissing)
	}

	if err := c.store.Set(ctx, store.KeyLoginCookies, cookie); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	if err := c.store.Set(ctx, store.KeyCookieFetchTime, c.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store fetch time: %w", err)
	}

	cookies := cookiejar.Parse(cookie)
	if err := c.jar.Save(ctx, c.host, cookies); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}

	cred := credential.Credential{Value: cookie, Source: credential.SourceStore}
	pterm.Success.Printfln("Session cookie %s saved (%d cookies)", cred.Masked(), len(cookies))
	return nil
}

// Logout removes the stored cookie and the session cookies.
func (c AuthCmd) Logout(ctx context.Context) error {
	if !session.Wait(c.clearer.Run(ctx), session.ExitWait) {
		pterm.Warning.Println("Session cleanup did not finish in time")
		return nil
	}
	pterm.Success.Println("Session cleared")
	return nil
}

type AuthShowInput struct {
	Output string
}

type authShowOutput struct {
	Source    string   `json:"source"`
	Masked    string   `json:"masked"`
	FetchedAt string   `json:"fetched_at,omitempty"`
	Cookies   []string `json:"cookies"`
}

// Show prints which credential would be used.
func (c AuthCmd) Show(ctx context.Context, in AuthShowInput) error {
	if err := validateOutput(in.Output); err != nil {
		return err
	}
	cred := c.creds.Resolve(ctx)

	fetchedAt, _, err := c.store.Get(ctx, store.KeyCookieFetchTime)
	if err != nil {
		return fmt.Errorf("failed to read fetch time: %w", err)
	}
	saved, err := c.jar.List(ctx, c.host)
	if err != nil {
		return fmt.Errorf("failed to list cookies: %w", err)
	}
	names := lo.Map(saved, func(ck cookiejar.Cookie, _ int) string { return ck.Name })

	out := authShowOutput{
		Source:    string(cred.Source),
		Masked:    cred.Masked(),
		FetchedAt: fetchedAt,
		Cookies:   names,
	}
	if in.Output == "json" {
		return util.PrintPrettyJSON(out)
	}

	if cred.Empty() {
		pterm.Warning.Println("No session cookie found. Run couponctl auth login.")
		return nil
	}

	fetched := "-"
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		fetched = fmt.Sprintf("%s (%s)", fetchedAt, util.FormatAge(t, c.now()))
	}
	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Source", string(cred.Source)})
	rows = append(rows, []string{"Cookie", cred.Masked()})
	rows = append(rows, []string{"Fetched", fetched})
	rows = append(rows, []string{"Host", c.host})
	rows = append(rows, []string{"Saved cookies", util.JoinOrDash(names...)})

	PrintTableNoPad(rows, true)
	return nil
}

func promptMasked(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show(label)
}

// --- Cobra wiring ---

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored session cookie",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a session cookie",
	Long: `Save the seller web session cookie so later commands can use it.

Copy the Cookie request header from a logged-in seller web tab. With --open
the seller web page is opened in your browser first.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session cookie",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which session cookie is used",
	Args:  cobra.NoArgs,
	RunE:  runAuthShow,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authShowCmd)

	authLoginCmd.Flags().Bool("open", false, "Open the seller web page in a browser first")
	addOutputFlag(authShowCmd)

	rootCmd.AddCommand(authCmd)
}

func newAuthCmd(cmd *cobra.Command) AuthCmd {
	a := getApp(cmd)
	return AuthCmd{
		store:    a.store,
		jar:      a.jar,
		creds:    a.resolver,
		clearer:  a.teardown(),
		host:     a.client.Host(),
		loginURL: a.client.LoginURL(),
		open:     browser.OpenURL,
		prompt:   promptMasked,
		now:      time.Now,
	}
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	open, _ := cmd.Flags().GetBool("open")
	cookie, _ := cmd.Flags().GetString("cookie")
	return newAuthCmd(cmd).Login(cmd.Context(), AuthLoginInput{Cookie: cookie, Open: open})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	return newAuthCmd(cmd).Logout(cmd.Context())
}

func runAuthShow(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return newAuthCmd(cmd).Show(cmd.Context(), AuthShowInput{Output: output})
}
