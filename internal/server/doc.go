// Package server runs the short-lived local HTTP server that receives Spotify's OAuth redirect.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers
// in reverse order (last added executes first). [BasicRouter] registers method-qualified patterns
// on an [http.ServeMux], so requests with the wrong method get a 405 from the mux itself.
//
// [RequestLogger] logs each request through charmbracelet/log.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the authorization code callback. It checks the state parameter,
// exchanges the code for a token, and delivers exactly one [OAuthResult] on its channel.
// Later callbacks are rejected.
//
// `pomo spotify auth` starts the server with [Serve], opens the browser, waits for the result,
// then cancels the context to shut the server down.
package server
