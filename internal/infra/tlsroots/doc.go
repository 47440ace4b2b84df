// Package tlsroots builds the trust store for outgoing TLS connections:
// the system roots plus any private CA certificates the deployment adds.
package tlsroots
