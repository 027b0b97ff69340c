// Package mail sends plain email messages.
//
// Callers depend on the Mail interface. SMTP delivers through a real relay and
// Log writes the message to the structured logger for local development.
package mail
