package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/pomo/internal/shared"
	"golang.org/x/oauth2"
)

const defaultRedirectURI = "http://127.0.0.1:3000/callback"

// NewOAuthConfig builds the authorization code configuration for the playback scopes.
func NewOAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       playbackScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   spotifyAuthURL,
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// ImplicitAuthURL returns the authorize URL for the implicit grant, which redirects back with the
// token in the URL fragment instead of an exchangeable code.
func ImplicitAuthURL(clientID, redirectURI, state string) string {
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	q := url.Values{
		"client_id":     {clientID},
		"response_type": {"token"},
		"redirect_uri":  {redirectURI},
		"scope":         {strings.Join(playbackScopes, " ")},
		"show_dialog":   {"true"},
	}
	if state != "" {
		q.Set("state", state)
	}
	return spotifyAuthURL + "?" + q.Encode()
}

// TokenFromRedirect extracts the token carried in the fragment of an implicit grant redirect URL.
//
// When state is non-empty it must match the state echoed back by Spotify.
func TokenFromRedirect(rawURL, state string) (*oauth2.Token, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	params, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed fragment: %v", shared.ErrInvalidInput, err)
	}

	if e := params.Get("error"); e != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, e)
	}

	if state != "" && params.Get("state") != state {
		return nil, fmt.Errorf("%w: state mismatch", shared.ErrAuthFailed)
	}

	accessToken := params.Get("access_token")
	if accessToken == "" {
		return nil, fmt.Errorf("%w: no access_token in redirect URL", shared.ErrInvalidInput)
	}

	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   params.Get("token_type"),
	}
	if secs, err := strconv.Atoi(params.Get("expires_in")); err == nil && secs > 0 {
		token.Expiry = time.Now().Add(time.Duration(secs) * time.Second)
	}
	return token, nil
}
