// Package magictoken acuña los tokens opacos de un solo uso que dan acceso
// al flujo de aprobación de reposición sin sesión de usuario.
package magictoken

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// New genera un token opaco de 32 bytes aleatorios en base64 URL-safe.
// No codifica claims: la validez vive en la fila de la solicitud.
func New() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Expired indica si un vencimiento ya pasó. Un vencimiento nil nunca vence
// (solicitudes aún en draft, sin token acuñado).
func Expired(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && now.After(*expiresAt)
}
