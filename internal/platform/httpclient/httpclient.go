package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"annotate-web/internal/platform/logger"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultBaseURL = "http://localhost:8080/api"

	maxBodyBytes = 8 << 20
)

// Observer recibe una muestra por request enviado (métricas).
type Observer interface {
	ObserveUpstream(method string, status int, d time.Duration)
}

// Client envuelve *http.Client con el contrato del backend de Annotate:
// bearer token, JSON in/out y normalización de respuestas vacías.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	Log      logger.Logger
	Observer Observer

	mu    sync.RWMutex
	token string
}

// New crea un Client contra DefaultBaseURL.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
		BaseURL: DefaultBaseURL,
	}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	c := New(timeout)
	if tr == nil {
		tr = http.DefaultTransport
	}
	c.HTTP.Transport = tr
	return c
}

// WithToken devuelve una copia que comparte transporte pero tiene su propio token.
// Cada sesión de navegador trabaja con su copia.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		HTTP:     c.HTTP,
		BaseURL:  c.BaseURL,
		Log:      c.Log,
		Observer: c.Observer,
		token:    strings.TrimSpace(token),
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) ClearToken() { c.SetToken("") }

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HTTPError representa una respuesta no-2xx. El mensaje es el body tal cual
// lo mandó el backend.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return e.Body
}

// StatusCode devuelve el status de un *HTTPError envuelto en err, o 0.
func StatusCode(err error) int {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr.StatusCode
	}
	return 0
}

type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyJSON
	BodyText
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyText:
		return "text"
	default:
		return "empty"
	}
}

// Result es una respuesta 2xx ya normalizada.
type Result struct {
	StatusCode int
	Kind       BodyKind
	Raw        []byte
}

func (r Result) IsEmpty() bool { return r.Kind == BodyEmpty }

func (r Result) Text() string { return string(r.Raw) }

// Decode vuelca el resultado en out:
// - vacío => out queda intacto
// - JSON => json.Unmarshal
// - texto => solo si out es *string
func (r Result) Decode(out any) error {
	if out == nil {
		return nil
	}
	switch r.Kind {
	case BodyJSON:
		if err := json.Unmarshal(r.Raw, out); err != nil {
			return fmt.Errorf("httpclient: unmarshal json: %w", err)
		}
	case BodyText:
		if s, ok := out.(*string); ok {
			*s = r.Text()
		}
	}
	return nil
}

// Request hace un request al backend.
// - endpoint: path relativo a BaseURL o URL absoluta
// - in: body JSON (opcional). Si nil => sin body.
// Retorna *HTTPError si el status no es 2xx. No reintenta.
func (c *Client) Request(ctx context.Context, method, endpoint string, in any) (Result, error) {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return Result{}, fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	if c == nil || c.HTTP == nil {
		return Result{}, errors.New("httpclient: nil client")
	}
	return c.send(ctx, c.HTTP, method, endpoint, body, contentType)
}

// DoJSON = Request + Decode(out).
func (c *Client) DoJSON(ctx context.Context, method, endpoint string, in, out any) error {
	res, err := c.Request(ctx, method, endpoint, in)
	if err != nil {
		return err
	}
	return res.Decode(out)
}

// MultipartFile es la parte de archivo de un upload.
type MultipartFile struct {
	Field       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// FormField es un campo de texto del multipart; el orden se respeta.
type FormField struct {
	Name  string
	Value string
}

// Upload manda file + fields como multipart/form-data en un único request.
// El body se genera en streaming; sin timeout global (solo ctx).
func (c *Client) Upload(ctx context.Context, endpoint string, file MultipartFile, fields ...FormField) (Result, error) {
	if c == nil || c.HTTP == nil {
		return Result{}, errors.New("httpclient: nil client")
	}
	if file.Reader == nil {
		return Result{}, errors.New("httpclient: upload without file")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, file, fields))
	}()

	hc := *c.HTTP
	hc.Timeout = 0

	res, err := c.send(ctx, &hc, http.MethodPost, endpoint, pr, mw.FormDataContentType())
	_ = pr.Close()
	return res, err
}

func writeMultipart(mw *multipart.Writer, file MultipartFile, fields []FormField) error {
	field := file.Field
	if field == "" {
		field = "file"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(file.Name)))
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return err
	}
	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func (c *Client) send(ctx context.Context, hc *http.Client, method, endpoint string, body io.Reader, contentType string) (Result, error) {
	fullURL, err := c.resolveURL(endpoint)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return Result{}, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// Sin token no se manda Authorization (p.ej. después de logout).
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := c.log().With(map[string]any{"method": method, "endpoint": endpoint})
	log.Debug("api request", map[string]any{"token": c.Token() != ""})

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		log.Warn("API request failed", map[string]any{"error": err})
		return Result{}, fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := readAtMost(resp.Body, maxBodyBytes)
	c.observe(method, resp.StatusCode, start)
	if err != nil {
		log.Warn("API request failed", map[string]any{"status": resp.StatusCode, "error": err})
		return Result{}, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		herr := &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
		log.Warn("API request failed", map[string]any{"status": resp.StatusCode, "error": herr.Error()})
		return Result{}, herr
	}

	return normalize(resp, raw), nil
}

// normalize: 204, Content-Length 0 o sin Content-Type => vacío;
// application/json => JSON; cualquier otro => texto.
func normalize(resp *http.Response, raw []byte) Result {
	res := Result{StatusCode: resp.StatusCode}

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusNoContent ||
		resp.ContentLength == 0 ||
		resp.Header.Get("Content-Length") == "0" ||
		ct == "" {
		res.Kind = BodyEmpty
		return res
	}

	res.Raw = raw
	if strings.Contains(ct, "application/json") {
		res.Kind = BodyJSON
		return res
	}
	res.Kind = BodyText
	return res
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.Observer != nil {
		c.Observer.ObserveUpstream(method, status, time.Since(start))
	}
}

func (c *Client) log() logger.Logger {
	if c.Log == nil {
		return logger.Nop()
	}
	return c.Log
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return strings.TrimRight(c.BaseURL, "/") + pathOrURL, nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = maxBodyBytes
	}
	return io.ReadAll(io.LimitReader(r, max))
}
