package models

import "github.com/gofiber/fiber/v2"

// Response is the uniform envelope every service operation returns.
// Status carries the HTTP-style code so a transport layer can render it
// without interpreting the payload.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(message string, data any) *Response {
	return &Response{Status: fiber.StatusOK, Message: message, Data: data}
}

func Created(message string, data any) *Response {
	return &Response{Status: fiber.StatusCreated, Message: message, Data: data}
}

// Fail builds an envelope from an error. AppErrors keep their status and
// message; anything else renders as a generic internal error so store or
// cache failures never leak details past the service boundary.
func Fail(err error) *Response {
	if appErr, ok := AsAppError(err); ok && appErr.Code != "INTERNAL_ERROR" {
		return &Response{Status: appErr.Status(), Message: appErr.Message}
	}
	return &Response{Status: fiber.StatusInternalServerError, Message: "Internal server error"}
}
