// Package services defines the [Playback] interface consumed by the session timer and implements
// it for Spotify.
//
// # Playback Interface
//
// The timer only needs to pause and resume whatever is playing. Implementations are selected at
// configuration time by [NewPlayback]:
//   - [SpotifyClient] with client credentials : application token from the token endpoint
//   - [SpotifyClient] with a user token : authorization code or implicit grant, refreshed through [oauth2]
//   - [NoopPlayback] : playback control disabled
//
// # Spotify Implementation
//
// Requests go to the Web API player endpoints with a bearer token and are spaced by a
// [rate.Limiter]. In user mode, Resume first lists devices and targets the active one.
//
// # Authorization Helpers
//
// [NewOAuthConfig] builds the authorization code configuration used by the CLI callback server.
// [ImplicitAuthURL] and [TokenFromRedirect] cover the implicit grant, where the token comes back
// in the redirect URL fragment.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token, or the API answered 401
//   - [shared.ErrNoActiveDevice] : no device to control, or the API answered 404
//   - [shared.ErrAPIRequest] : transport failure or any other non-2xx answer
//
// No request is retried.
package services
