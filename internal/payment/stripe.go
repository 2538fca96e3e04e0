package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Stripe Checkoutのクライアント。
// 決済の中身はプロバイダ任せで、こちらはセッション作成と状態照会だけを行う。

const DefaultBaseURL = "https://api.stripe.com"

var (
	//secret key未設定
	ErrNotConfigured = errors.New("payment provider not configured")

	//レスポンスにurlが無い（プロトコル違反として扱う）
	ErrMissingURL = errors.New("checkout session missing url")
)

// 管理画面で設定される接続情報
type Config struct {
	SecretKey        string
	AllowedCountries []string
}

// セッションに載せる購入明細（金額は最小通貨単位の整数）
type ShoppingItem struct {
	ProductName        string `json:"product_name"`
	ProductDescription string `json:"product_description"`
	Currency           string `json:"currency"`
	PriceInCents       int64  `json:"price_in_cents"`
	Quantity           int64  `json:"quantity"`
}

// 作成されたセッション。URLへフルページリダイレクトする。
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// セッションの状態照会結果
type SessionStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

// NewClient はクライアントを作る。baseURLが空なら本番APIを使う
// （テストではhttptestのURLを渡す）。
func NewClient(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// CreateCheckoutSession はCheckoutセッションを作成して{id,url}を返す。
// urlが空のレスポンスはErrMissingURL。
func (c *Client) CreateCheckoutSession(ctx context.Context, cfg Config, items []ShoppingItem, successURL string, cancelURL string) (Session, error) {
	if cfg.SecretKey == "" {
		return Session{}, ErrNotConfigured
	}
	if len(items) == 0 {
		return Session{}, errors.New("no items for checkout session")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", withSessionIDParam(successURL))
	form.Set("cancel_url", cancelURL)

	for i, item := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.PriceInCents, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.ProductName)
		if item.ProductDescription != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.ProductDescription)
		}
	}

	for i, country := range cfg.AllowedCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}

	var session Session
	if err := c.postForm(ctx, cfg, "/v1/checkout/sessions", form, &session); err != nil {
		return Session{}, err
	}

	if session.URL == "" {
		return Session{}, ErrMissingURL
	}
	return session, nil
}

// SessionStatus はセッションの現況を取得する。
func (c *Client) SessionStatus(ctx context.Context, cfg Config, sessionID string) (SessionStatus, error) {
	if cfg.SecretKey == "" {
		return SessionStatus{}, ErrNotConfigured
	}
	if sessionID == "" {
		return SessionStatus{}, errors.New("empty session id")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return SessionStatus{}, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)

	var status SessionStatus
	if err := c.do(req, &status); err != nil {
		return SessionStatus{}, err
	}
	return status, nil
}

func (c *Client) postForm(ctx context.Context, cfg Config, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("stripe request failed",
			zap.String("path", req.URL.Path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("stripe: %s", apiErrorMessage(body, resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("stripe: malformed response: %w", err)
	}
	return nil
}

// success_urlへsession_idを埋め込む（Stripeがリダイレクト時に展開する）
func withSessionIDParam(u string) string {
	if strings.Contains(u, "session_id=") {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "session_id={CHECKOUT_SESSION_ID}"
}

func apiErrorMessage(body []byte, status int) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return fmt.Sprintf("unexpected status %d", status)
}
