// Spotify Web API implementation of [Playback]
//
// Player endpoints documented at https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/pomo/internal/models"
	"github.com/desertthunder/pomo/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

var playbackScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
}

// spotifyError is the error envelope returned by the Web API.
type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

type devicesResponse struct {
	Devices []models.Device `json:"devices"`
}

// SpotifyClient implements [Playback] and [DeviceLister] against the Spotify Web API.
//
// The token source decides the authorization strategy; see [NewClientCredentialsPlayback] and [NewUserPlayback].
type SpotifyClient struct {
	name       string
	tokens     *tokenCache
	httpClient *http.Client
	baseURL    string
	tokenURL   string
	limiter    *rate.Limiter
	onRefresh  func(*oauth2.Token)
	// targetDevice makes Resume look up the active device first.
	targetDevice bool
}

// SpotifyOption configures a [SpotifyClient].
type SpotifyOption func(*SpotifyClient)

// WithHTTPClient sets the client used for both API and token requests.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(s *SpotifyClient) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithBaseURL points API requests somewhere other than api.spotify.com.
func WithBaseURL(u string) SpotifyOption {
	return func(s *SpotifyClient) { s.baseURL = u }
}

// WithTokenURL points token requests somewhere other than accounts.spotify.com.
func WithTokenURL(u string) SpotifyOption {
	return func(s *SpotifyClient) { s.tokenURL = u }
}

// WithLimiter replaces the default request limiter.
func WithLimiter(l *rate.Limiter) SpotifyOption {
	return func(s *SpotifyClient) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithTokenRefresh registers a callback invoked whenever the token source hands out a new access token.
func WithTokenRefresh(fn func(*oauth2.Token)) SpotifyOption {
	return func(s *SpotifyClient) { s.onRefresh = fn }
}

func newSpotifyClient(name string, opts []SpotifyOption) *SpotifyClient {
	s := &SpotifyClient{
		name:       name,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		tokenURL:   spotifyTokenURL,
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// tokenContext carries the configured HTTP client into oauth2 token requests made on behalf of ctx.
func (s *SpotifyClient) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// NewClientCredentialsPlayback creates a client that authenticates as the application itself.
//
// Spotify only lets user tokens control playback, so Pause and Resume usually fail with
// [shared.ErrNotAuthenticated] in this mode; the timer logs and ignores that.
func NewClientCredentialsPlayback(clientID, clientSecret string, opts ...SpotifyOption) (*SpotifyClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_id or client_secret", shared.ErrMissingCredentials)
	}

	s := newSpotifyClient("Spotify (client credentials)", opts)
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     s.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	s.tokens = newTokenCache(nil, func(ctx context.Context, _ *oauth2.Token) (*oauth2.Token, error) {
		return cc.Token(s.tokenContext(ctx))
	})
	return s, nil
}

// NewUserPlayback creates a client acting on behalf of the user who granted token.
//
// Expired tokens are refreshed through cfg when a refresh token is present.
func NewUserPlayback(cfg *oauth2.Config, token *oauth2.Token, opts ...SpotifyOption) (*SpotifyClient, error) {
	if token == nil {
		return nil, fmt.Errorf("%w: run 'pomo spotify auth' first", shared.ErrNotAuthenticated)
	}

	s := newSpotifyClient("Spotify (user)", opts)
	s.targetDevice = true

	endpointCfg := *cfg
	endpointCfg.Endpoint.TokenURL = s.tokenURL
	s.tokens = newTokenCache(token, func(ctx context.Context, current *oauth2.Token) (*oauth2.Token, error) {
		return endpointCfg.TokenSource(s.tokenContext(ctx), current).Token()
	})
	s.tokens.callback = s.onRefresh
	return s, nil
}

func (s *SpotifyClient) Name() string {
	return s.name
}

// AccessToken returns a valid bearer token, fetching or refreshing it as needed.
//
// The token request is bound to ctx, so a stalled token endpoint gives up at the caller's deadline.
func (s *SpotifyClient) AccessToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	return token.AccessToken, nil
}

// doRequest performs an authenticated request against the Web API and decodes a JSON body into result when non-nil.
func (s *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, query url.Values, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	accessToken, err := s.AccessToken(ctx)
	if err != nil {
		return err
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError maps a non-2xx response to a shared sentinel, keeping Spotify's message when present.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := http.StatusText(resp.StatusCode)
	var apiErr spotifyError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
		if apiErr.Error.Reason != "" {
			message += " (" + apiErr.Error.Reason + ")"
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNoActiveDevice, message)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, message)
	}
}

// Pause pauses playback on the user's current device.
func (s *SpotifyClient) Pause(ctx context.Context) error {
	return s.doRequest(ctx, http.MethodPut, "/me/player/pause", nil, nil)
}

// Resume resumes playback. In user mode the active device is resolved first and passed as device_id.
func (s *SpotifyClient) Resume(ctx context.Context) error {
	var query url.Values
	if s.targetDevice {
		devices, err := s.ListDevices(ctx)
		if err != nil {
			return err
		}
		device, err := PickDevice(devices)
		if err != nil {
			return err
		}
		query = url.Values{"device_id": {device.ID}}
	}
	return s.doRequest(ctx, http.MethodPut, "/me/player/play", query, nil)
}

// ListDevices returns the user's available Spotify Connect devices.
func (s *SpotifyClient) ListDevices(ctx context.Context) ([]models.Device, error) {
	var response devicesResponse
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, &response); err != nil {
		return nil, err
	}
	return response.Devices, nil
}

// PickDevice chooses the device playback should target: the active one, else the first controllable one.
func PickDevice(devices []models.Device) (models.Device, error) {
	for _, d := range devices {
		if d.IsActive && !d.IsRestricted {
			return d, nil
		}
	}
	for _, d := range devices {
		if !d.IsRestricted {
			return d, nil
		}
	}
	return models.Device{}, shared.ErrNoActiveDevice
}

// tokenCache hands out the current token and fetches a replacement once it stops being valid.
//
// Fetches run on the caller's context. Only one fetch is in flight at a time; other callers wait for
// it or for their own context, whichever ends first.
type tokenCache struct {
	fetch    func(ctx context.Context, current *oauth2.Token) (*oauth2.Token, error)
	callback func(*oauth2.Token)

	sem     chan struct{}
	current *oauth2.Token
}

func newTokenCache(initial *oauth2.Token, fetch func(context.Context, *oauth2.Token) (*oauth2.Token, error)) *tokenCache {
	return &tokenCache{fetch: fetch, sem: make(chan struct{}, 1), current: initial}
}

// Token returns the cached token while valid. A newly issued access token is reported to callback.
func (c *tokenCache) Token(ctx context.Context) (*oauth2.Token, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if c.current.Valid() {
		token := c.current
		<-c.sem
		return token, nil
	}

	token, err := c.fetch(ctx, c.current)
	if err != nil {
		<-c.sem
		return nil, err
	}

	changed := c.current == nil || token.AccessToken != c.current.AccessToken
	c.current = token
	<-c.sem

	if changed && c.callback != nil {
		c.callback(token)
	}
	return token, nil
}
