// Package webserver serves static files over a plaintext port and a TLS
// port using raw TCP sockets.
//
// Each accepted connection carries exactly one request:
//
//	accept -> [TLS handshake] -> request line -> headers -> [POST body]
//	       -> route -> response -> close
//
// The plaintext port only redirects GET requests to HTTPS. The TLS port
// resolves GET targets under the web root. Every other method is answered
// with 418 on either port. Requests that are not HTTP at all receive a
// single bare diagnostic line and no HTTP framing.
//
// Connections share nothing but the immutable TLS policy, the certificate
// source and the resolver; a failure on one connection never reaches
// another.
package webserver
