// Package apiclient is the application's HTTP client for its backend API.
//
// The client is built once by the bootstrap registry from the storage layer
// and the configured base URL. It reads the bearer token from storage on
// every request, so logging in or out only has to touch storage.
package apiclient
