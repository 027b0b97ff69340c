// Package hash provides keyed hashing for short-lived secrets.
//
// The dev OTP backend never stores a verification code or an email address in
// clear text: both are reduced to an HMAC digest and compared in constant time.
package hash
