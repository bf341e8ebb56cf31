package shopify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
)

var shopDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// ValidShopDomain valida el dominio de tienda antes de iniciar OAuth.
func ValidShopDomain(shop string) bool {
	return shopDomainRe.MatchString(strings.ToLower(shop))
}

// OAuthService maneja el handshake OAuth con la plataforma: URL de
// autorización e intercambio code -> access token.
type OAuthService struct {
	httpClient *http.Client
	baseURL    string // solo tests
}

// NewOAuthService construye el servicio.
func NewOAuthService() *OAuthService {
	return &OAuthService{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// WithBaseURL fija una URL base explícita (tests). Devuelve el mismo servicio.
func (s *OAuthService) WithBaseURL(base string) *OAuthService {
	s.baseURL = base
	return s
}

// AuthorizeURL construye la URL de autorización a la que se redirige al comerciante.
func (s *OAuthService) AuthorizeURL(shop, clientID, scopes, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("scope", scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shop, q.Encode())
}

// ExchangeCode intercambia el code del callback por un access token permanente.
func (s *OAuthService) ExchangeCode(ctx context.Context, shop, clientID, clientSecret, code string) (string, error) {
	endpoint := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)
	if s.baseURL != "" {
		endpoint = s.baseURL + "/admin/oauth/access_token"
	}

	body, err := json.Marshal(map[string]string{
		"client_id":     clientID,
		"client_secret": clientSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("serializar intercambio: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("intercambio de token: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 300)}
	}

	var tok accessTokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", fmt.Errorf("decodificar token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("intercambio sin access_token")
	}
	return tok.AccessToken, nil
}

// VerifyCallbackHMAC verifica la firma del query string del callback OAuth:
// HMAC-SHA256 en hex sobre los parámetros ordenados, excluyendo hmac y
// signature. Comparación en tiempo constante.
func VerifyCallbackHMAC(q url.Values, secret string) bool {
	keys := make([]string, 0, len(q))
	for k := range q {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, v := range q[k] {
			parts = append(parts, k+"="+v)
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(q.Get("hmac"))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// VerifyWebhookHMAC verifica la firma de un webhook: HMAC-SHA256 en base64
// sobre el cuerpo crudo, comparada en tiempo constante contra el header
// X-Shopify-Hmac-Sha256.
func VerifyWebhookHMAC(body []byte, secret, header string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}
