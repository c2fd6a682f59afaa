// Package handler implements the HTTP handlers of the booking API.
// Handlers bind and validate request bodies, delegate persistence to the
// repository layer and translate its sentinel errors into HTTP statuses.
// Every error response is `{"error": <message>}` so clients can surface
// the message directly.
package handler

import "github.com/go-playground/validator/v10"

// validate is the shared struct validator for request bodies.
var validate = validator.New()
