package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultAPIVersion versión del Admin API usada si la config no fija otra.
	DefaultAPIVersion = "2024-10"

	throttledCode = "THROTTLED"
)

// Client cliente del Admin GraphQL API. Sin estado por llamada: dominio y
// credencial viajan en cada invocación, la misma instancia sirve a todas
// las conexiones.
type Client struct {
	httpClient *http.Client
	apiVersion string
	maxRetries int
	// baseURL reemplaza el esquema/host real en tests (httptest.Server).
	baseURL string
}

// NewClient construye el cliente. maxRetries acota los reintentos de
// transporte y rate limit por llamada; los soft errors nunca se reintentan.
func NewClient(apiVersion string, maxRetries int) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiVersion: apiVersion,
		maxRetries: maxRetries,
	}
}

// WithBaseURL fija una URL base explícita (tests). Devuelve el mismo cliente.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

func (c *Client) endpoint(shopDomain string) string {
	if c.baseURL != "" {
		return fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shopDomain, c.apiVersion)
}

// Query ejecuta una llamada GraphQL y decodifica data en out.
// Clasificación de fallas: transporte (*HTTPError o error de red),
// throttling (*RateLimitedError con la espera calculada) y errores soft
// (*GraphQLError, terminales para la llamada).
func (c *Client) Query(ctx context.Context, shopDomain, accessToken, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("serializar petición: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(shopDomain), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llamada a %s: %w", shopDomain, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitedError{RetryAfterSeconds: retryAfterFromHeader(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 300)}
	}

	var env graphQLEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decodificar respuesta: %w", err)
	}

	if len(env.Errors) > 0 {
		if throttled(env.Errors) {
			return &RateLimitedError{RetryAfterSeconds: retryAfterFromCost(env.Extensions.Cost)}
		}
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return &GraphQLError{Messages: msgs}
	}

	if out != nil {
		if len(env.Data) == 0 {
			return &GraphQLError{Messages: []string{"respuesta sin data"}}
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decodificar data: %w", err)
		}
	}
	return nil
}

// QueryWithRetry reintenta transporte y throttle hasta maxRetries veces,
// respetando la espera mínima calculada. Errores soft salen de inmediato.
func (c *Client) QueryWithRetry(ctx context.Context, shopDomain, accessToken, query string, variables map[string]any, out any) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = c.Query(ctx, shopDomain, accessToken, query, variables, out)
		if lastErr == nil || !IsRetryable(lastErr) || attempt >= c.maxRetries {
			return lastErr
		}
		wait := backoffFor(lastErr, attempt)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// backoffFor espera el Retry-After de un throttle, o backoff lineal simple
// para fallas de transporte.
func backoffFor(err error, attempt int) time.Duration {
	if rle, ok := err.(*RateLimitedError); ok {
		return time.Duration(rle.RetryAfterSeconds) * time.Second
	}
	return time.Duration(attempt+1) * time.Second
}

func throttled(errs []graphQLErrorItem) bool {
	for _, e := range errs {
		if e.Extensions.Code == throttledCode {
			return true
		}
	}
	return false
}

func retryAfterFromCost(cost *costInfo) int {
	if cost == nil {
		return 1
	}
	return RetryAfterSeconds(
		cost.RequestedQueryCost,
		cost.ThrottleStatus.CurrentlyAvailable,
		cost.ThrottleStatus.RestoreRate,
	)
}

func retryAfterFromHeader(v string) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return 2
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
