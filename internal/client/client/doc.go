// Package client talks to the portfolio API.
//
// # Overview
//
// The package provides:
//  1. HTTPClient, a JSON client for the auth and projects endpoints. Callers
//     can register Interceptors on it; they see every request before it is
//     sent and every response before it is decoded. This is how the session
//     layer attaches credentials and reacts to 401s.
//  2. HealthChecker, a grpc.health.v1 probe used for the online indicator.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Non-2xx answers are
// returned as *APIError, which matches the sentinels of internal/common
// (and ErrUnauthorized) with errors.Is.
package client
