// Package otp generates the short numeric codes mailed to users during email
// verification.
//
// Codes come from HOTP (RFC 4226) over a fresh random secret per request, so two
// requests for the same address never share a code. The secret is discarded once
// the code is produced; only a hash of the code is kept by the caller.
package otp
