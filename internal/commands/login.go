package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"dtask/internal/backend/firestore"
	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

const (
	loginCallbackTimeout = 5 * time.Minute
	loginExchangeTimeout = 30 * time.Second
	loginCheckTimeout    = 10 * time.Second

	// The local callback server tries this many ports from loginFirstPort.
	loginFirstPort    = 8085
	loginPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with Google for Firestore" }
func (c *LoginCmd) Usage() string     { return "dtask login [common flags]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.NeedsOAuth() {
		return done(cfg, out, fmt.Sprintf("no login needed for backend %s", describeBackend(cfg)))
	}
	if !cfg.HasOAuthClient() {
		printOAuthSetup(errOut, cfg)
		return exitcode.AuthError
	}

	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if cfg.HasToken() && tokenUsable(oauthConfig, cfg.TokenPath()) {
		return done(cfg, out, "already logged in")
	}

	token, err := authorize(ctx, oauthConfig, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := saveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	return done(cfg, out, "ok")
}

// describeBackend names the configured store for messages.
func describeBackend(cfg *config.Config) string {
	if cfg.Backend == config.BackendFirestore && cfg.EmulatorHost != "" {
		return "firestore (emulator at " + cfg.EmulatorHost + ")"
	}
	return cfg.Backend
}

func printOAuthSetup(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
	fmt.Fprintf(w, `To use Firestore you need OAuth credentials:

1. Go to https://console.cloud.google.com/apis/credentials
2. Select the project that holds your Firestore database
3. Enable the Cloud Firestore API:
   https://console.cloud.google.com/apis/library/firestore.googleapis.com
4. Create an OAuth client ID of type 'Desktop app' and download the JSON file
5. Save it as:
   %s

Then set project_id in %s and run 'dtask login' again.
`, cfg.OAuthClientPath(), cfg.SettingsPath())
}

func loadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, firestore.Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// authorize runs the browser consent flow with PKCE and a local callback.
func authorize(ctx context.Context, oauthConfig *oauth2.Config, errOut io.Writer) (*oauth2.Token, error) {
	listener, port, err := listenLocal()
	if err != nil {
		return nil, errors.New("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := waitForCode(ctx, listener)
	if err != nil {
		return nil, err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, loginExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return token, nil
}

// waitForCode serves the redirect on listener until a code arrives.
func waitForCode(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			select {
			case errCh <- errors.New("no code in callback"):
			default:
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>dtask is logged in</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(loginCallbackTimeout):
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

func listenLocal() (net.Listener, int, error) {
	for port := loginFirstPort; port < loginFirstPort+loginPortAttempts; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return listener, port, nil
		}
	}
	return nil, 0, errors.New("no available port found")
}

// tokenUsable reports whether the stored token has a refresh token that can
// still produce an access token.
func tokenUsable(oauthConfig *oauth2.Config, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil || token.RefreshToken == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginCheckTimeout)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, &token).Token()
	return err == nil
}

// saveToken writes token to path with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
