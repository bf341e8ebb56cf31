package shopify

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// RateLimitedError señala throttling del Admin API: el caller debe esperar
// al menos RetryAfterSeconds antes de reintentar la misma llamada.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("shopify: rate limit, reintentar en %ds", e.RetryAfterSeconds)
}

// GraphQLError errores de aplicación devueltos junto a un 200 ("soft").
// Son terminales para esa llamada: no se reintentan automáticamente.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "shopify: " + strings.Join(e.Messages, "; ")
}

// HTTPError falla de transporte con respuesta HTTP (5xx, 4xx inesperados).
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("shopify: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable clasifica un error del cliente: transporte y rate limit se
// reintentan; los soft errors de GraphQL no.
func IsRetryable(err error) bool {
	var rle *RateLimitedError
	if errors.As(err, &rle) {
		return true
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode >= 500 || he.StatusCode == 429
	}
	var ge *GraphQLError
	if errors.As(err, &ge) {
		return false
	}
	// errores de red puros (dial, timeout) llegan envueltos sin tipo propio
	return true
}

// RetryAfterSeconds calcula la espera mínima tras un throttle:
// ceil((costo solicitado - disponible) / tasa de restauración).
// Una tasa <= 0 se trata como 1 para no dividir por cero.
func RetryAfterSeconds(requestedCost, currentlyAvailable, restoreRate float64) int {
	if restoreRate <= 0 {
		restoreRate = 1
	}
	missing := requestedCost - currentlyAvailable
	if missing <= 0 {
		return 1
	}
	return int(math.Ceil(missing / restoreRate))
}
