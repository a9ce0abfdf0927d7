// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error codes outside the HTTP status range.
const (
	// CodeNetwork means the request never reached the server.
	CodeNetwork = 0
	// CodeUnknown means the failure could not be classified.
	CodeUnknown = -1
)

// Fixed user-facing messages. The UI is Spanish; these strings are shown
// verbatim in the transcript and toasts.
const (
	MsgTimeout = "La solicitud tardó demasiado tiempo"
	MsgNetwork = "Error de conexión. Verifica tu conexión a internet."
	MsgUnknown = "Error desconocido"
)

var (
	// ErrNotConfigured indicates a client was built without a base URL.
	ErrNotConfigured = errors.New("api: client not configured")
	// ErrResponseTooLarge indicates the response body exceeded the read limit.
	ErrResponseTooLarge = errors.New("api: response body too large")
)

// TransportError is the typed failure surfaced by every service client.
// Code is the HTTP status when one was received, CodeNetwork when the
// request never reached the server, CodeUnknown otherwise.
type TransportError struct {
	Message string
	Code    int
	Details string
}

func (e *TransportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (code %d): %s", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// Timeout reports whether the failure was the fixed request timeout.
func (e *TransportError) Timeout() bool {
	return e.Message == MsgTimeout
}

// MalformedResponseError indicates a 2xx response whose body did not match
// the expected shape. It is distinct from TransportError so callers can
// tell a broken payload from a failed request.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UserMessage maps an error code to the Spanish message shown to the user.
// Unlisted codes fall back to the error's own message.
func UserMessage(code int, fallback string) string {
	switch code {
	case 400:
		return "Solicitud inválida. Verifica los datos enviados."
	case 401:
		return "No autorizado. Inicia sesión nuevamente."
	case 403:
		return "Acceso denegado. No tienes permisos para esta acción."
	case 404:
		return "Recurso no encontrado."
	case 500:
		return "Error interno del servidor. Intenta nuevamente más tarde."
	case 502:
		return "Servicio no disponible temporalmente."
	case 503:
		return "Servicio temporalmente fuera de servicio."
	case CodeNetwork:
		return MsgNetwork
	default:
		if fallback != "" {
			return fallback
		}
		return MsgUnknown
	}
}

// Classify converts any transport-layer error into a TransportError.
// Context deadline expiry becomes the fixed timeout message; network-level
// failures get CodeNetwork; anything else is CodeUnknown.
func Classify(err error) *TransportError {
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Message: MsgTimeout, Code: CodeNetwork}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &TransportError{Message: MsgTimeout, Code: CodeNetwork}
		}
		return &TransportError{Message: MsgNetwork, Code: CodeNetwork, Details: err.Error()}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransportError{Message: MsgNetwork, Code: CodeNetwork, Details: err.Error()}
	}

	return &TransportError{Message: MsgUnknown, Code: CodeUnknown, Details: err.Error()}
}

// FromStatus builds a TransportError for a non-2xx response, using the
// status→message table with the raw body kept as detail.
func FromStatus(status int, body string) *TransportError {
	return &TransportError{
		Message: UserMessage(status, fmt.Sprintf("HTTP Error %d", status)),
		Code:    status,
		Details: body,
	}
}
