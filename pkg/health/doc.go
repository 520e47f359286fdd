// Package health provides liveness and readiness handlers for the login service.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs a set of named [Checks] concurrently, typically the
// Redis connection behind the state store, and answers 503 when any fails.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Responses are plain text ("OK" or "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"..."}}}
package health
