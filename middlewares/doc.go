// Package middlewares provides net/http middleware for the login routes.
//
// All middlewares have the func(http.Handler) http.Handler shape and plug into
// chi or any compatible router.
//
// # Authenticate
//
// Authenticate runs an oauth.Authenticator and acts on its result: it redirects
// to the provider, answers failed or aborted logins, and forwards a successful
// login to the next handler with the user stored in the request context.
//
//	r.With(middlewares.Authenticate(strategy)).Get("/auth/wechat", http.NotFound)
//	r.With(middlewares.Authenticate(strategy,
//	    middlewares.WithFailureRedirect("/login"),
//	)).Get("/auth/wechat/callback", func(w http.ResponseWriter, r *http.Request) {
//	    user, _ := middlewares.UserFromContext(r.Context())
//	    // ...
//	})
//
// Errors are answered by DefaultErrorHandler unless WithErrorHandler is given.
// It uses the StatusCode method of the error when present.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It keeps an ID
// found in the incoming headers or generates a UUID.
// Use RequestIDExtractor with logger.WithExtractors to add request_id to all logs:
//
//	log := logger.New(logger.WithExtractors(middlewares.RequestIDExtractor()))
//
// # Recover
//
// Recover catches panics, logs them and answers with a *PanicError passed to
// the configured error handler.
//
// # Timeout
//
// Timeout bounds the request context so that slow provider calls are cancelled.
//
// # Recommended Middleware Order
//
//	r.Use(
//	    middlewares.RequestID(),            // First: assign ID for all subsequent logging
//	    middlewares.Recover(),              // Second: catch panics from handlers
//	    middlewares.Timeout(10*time.Second), // Third: bound provider round trips
//	)
package middlewares
