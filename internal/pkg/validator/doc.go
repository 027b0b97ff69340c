// Package validator provides a small validation abstraction for request and
// flow input structs.
//
// Business code should depend on the Validator interface so validation can be
// shared and tested consistently. The go-playground/validator v10 implementation
// registers the "otpemail" tag used for the email step of the verification flow.
package validator
