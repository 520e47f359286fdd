// Package wechat implements login with WeChat on top of the generic OAuth 2.0
// strategy in pkg/oauth.
//
// WeChat follows OAuth 2.0 loosely. This package covers the differences:
//
//   - Login failures may come back as error_code/error_message query parameters
//     instead of error; they are reported as *AuthorizationError.
//   - The token endpoint may answer with {"error":{"message":...,"type":...,"code":...,
//     "error_subcode":...,"fbtrace_id":...}}; it is reported as *TokenError.
//   - The profile endpoint may answer with the same body; it is reported as *GraphAPIError.
//   - Profile payloads are normalized into *Profile, keeping the raw body and decoded JSON.
//
// # Usage
//
//	strategy, err := wechat.New(wechat.Config{
//		ClientID:     os.Getenv("WECHAT_CLIENT_ID"),
//		ClientSecret: os.Getenv("WECHAT_CLIENT_SECRET"),
//		CallbackURL:  "/auth/wechat/callback",
//		Scope:        []string{"snsapi_login"},
//	}, func(ctx context.Context, accessToken, refreshToken string, p *wechat.Profile) (any, error) {
//		return users.FindOrCreate(ctx, p.UnionID, p.Nickname)
//	}, oauth.WithStateStore(stateStore))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.With(middlewares.Authenticate(strategy)).Get("/auth/wechat", http.NotFound)
//	r.With(middlewares.Authenticate(strategy)).Get("/auth/wechat/callback", func(w http.ResponseWriter, r *http.Request) {
//		user, _ := middlewares.UserFromContext(r.Context())
//		// persist user, then redirect
//	})
//
// Per-request dialog options are passed to the strategy:
//
//	middlewares.Authenticate(strategy, middlewares.WithStrategyOptions(wechat.WithDisplay("popup")))
//
// # Errors
//
// All three provider errors expose Name (a stable discriminant), StatusCode
// (always 500) and Origin (where the error was built). Match them with errors.As:
//
//	var tokenErr *wechat.TokenError
//	if errors.As(result.Err, &tokenErr) {
//		log.Printf("token error %d/%d trace=%s", tokenErr.Code, tokenErr.Subcode, tokenErr.TraceID)
//	}
//
// Failures that do not match the provider shape are *oauth.InternalError;
// a profile body that is not JSON yields ErrProfileParse.
package wechat
