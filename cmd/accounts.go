package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/server"
	"github.com/picshuttle/picshuttle/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AccountAdd registers a new local account.
func (r *Runner) AccountAdd(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	email := cmd.String("email")
	language := cmd.String("language")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	account := models.NewAccount(0, username, email)
	account.SetLanguage(language)

	if err := s.accounts.Create(account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.Info("account created", "username", username, "id", account.ID())

	r.writePlain("✓ Account %s registered\n", username)
	r.writePlain("Next: run 'picshuttle accounts connect -u %s' to authorize it\n", username)
	return nil
}

// AccountConnect runs the OAuth2 authorization flow for an account and stores the tokens.
//
// Starts a local HTTP server on the configured redirect address, opens the browser
// for user authorization, and exchanges the auth code for tokens.
func (r *Runner) AccountConnect(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")

	if r.connector == nil {
		return fmt.Errorf("%w: photos client_id and client_secret must be set in config.toml", shared.ErrServiceUnavailable)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	account, err := s.accounts.GetByUsername(username)
	if err != nil {
		return fmt.Errorf("account %q not found: %w", username, err)
	}

	token, err := r.doOAuth(ctx)
	if err != nil {
		return err
	}

	account.SetToken(token.AccessToken, token.RefreshToken, token.Expiry)
	if err := s.accounts.Update(account); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved for %s\n\n", username)
	r.writePlain("You can now use: picshuttle photos list -u %s\n", username)

	return nil
}

// AccountList lists registered accounts.
func (r *Runner) AccountList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStores(db)

	accounts, err := s.accounts.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if useJSON {
		type accountRow struct {
			ID        string `json:"id"`
			Username  string `json:"username"`
			Email     string `json:"email"`
			Language  string `json:"language"`
			Connected bool   `json:"connected"`
		}
		rows := make([]accountRow, 0, len(accounts))
		for _, a := range accounts {
			rows = append(rows, accountRow{
				ID:        a.ID(),
				Username:  a.Username(),
				Email:     a.Email(),
				Language:  a.Language(),
				Connected: a.Connected(),
			})
		}
		return r.writeJSON(rows, pretty)
	}

	r.writePlain("Found %d accounts:\n\n", len(accounts))
	for i, a := range accounts {
		r.writePlain("%d. %s\n", i+1, a.Username())
		r.writePlain("   Email: %s\n", a.Email())
		r.writePlain("   Language: %s\n", a.Language())
		if a.Connected() {
			r.writePlain("   Status: Connected\n")
		} else {
			r.writePlain("   Status: Not connected\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.connector.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(r.connector, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr, err := callbackAddr(r.config.Credentials.Photos.RedirectURI)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for library authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// callbackAddr derives the listen address from the configured redirect URI.
func callbackAddr(redirectURI string) (string, error) {
	if redirectURI == "" {
		return "localhost:8080", nil
	}

	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	host := parsed.Host
	if host == "" {
		return "", fmt.Errorf("%w: redirect_uri %q has no host", shared.ErrInvalidConfig, redirectURI)
	}

	return host, nil
}
