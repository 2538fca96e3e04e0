package usecase

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"app/internal/basket"
	"app/internal/checkout"
	"app/internal/domain/model"
	"app/internal/payment"
	"app/internal/platform/metrics"
	repo "app/internal/repository"
)

// 決済プロバイダの呼び出し口（テストでは差し替える）
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, cfg payment.Config, items []payment.ShoppingItem, successURL string, cancelURL string) (payment.Session, error)
	SessionStatus(ctx context.Context, cfg payment.Config, sessionID string) (payment.SessionStatus, error)
}

// チェックアウト試行の到達状態
type CheckoutState string

const (
	CheckoutStateBlockedAllIneligible CheckoutState = "blocked_all_ineligible"
	CheckoutStateSessionRequested     CheckoutState = "session_requested"
)

// CheckoutUsecase は照合→セッション作成→リダイレクトの流れを司る。
// 失敗時はバスケットへ一切手を付けない（ユーザーが再試行できる）。
type CheckoutUsecase struct {
	baskets    *basket.Manager
	reconciler *checkout.Reconciler
	pay        PaymentClient
	cfgRepo    repo.PaymentConfigRepository
	metrics    *metrics.Metrics
	currency   string
	log        *zap.Logger
}

// DI
func NewCheckoutUsecase(
	baskets *basket.Manager,
	reconciler *checkout.Reconciler,
	pay PaymentClient,
	cfgRepo repo.PaymentConfigRepository,
	m *metrics.Metrics,
	currency string,
	log *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		baskets:    baskets,
		reconciler: reconciler,
		pay:        pay,
		cfgRepo:    cfgRepo,
		metrics:    m,
		currency:   currency,
		log:        log,
	}
}

type CheckoutInput struct {
	SuccessURL string
	CancelURL  string
}

type CheckoutOutput struct {
	State        CheckoutState `json:"state"`
	SessionID    string        `json:"session_id,omitempty"`
	RedirectURL  string        `json:"redirect_url,omitempty"`
	TotalInCents int64         `json:"total_in_cents"`
	Eligible     []model.Item  `json:"eligible"`
	Ineligible   []model.Item  `json:"ineligible"`
}

// Checkout はバスケットを照合し、購入可能な商品で決済セッションを作る。
//
// 状態遷移：
//
//	Idle -> Reconciling -> {BlockedEmpty | BlockedAllIneligible | SessionRequested}
//	                    -> {Redirected | Failed}
func (u *CheckoutUsecase) Checkout(ctx context.Context, owner string, in CheckoutInput) (CheckoutOutput, error) {
	if owner == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	if in.SuccessURL == "" || in.CancelURL == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "missing redirect urls")
	}

	store := u.baskets.ForOwner(ctx, owner)
	ids := store.Items()

	//空バスケットはネットワークへ出る前に止める
	if len(ids) == 0 {
		u.metrics.IncCheckout(metrics.OutcomeBlockedEmpty)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "basket is empty")
	}

	//照合中にバスケットが変わったら結果を捨てるための世代
	gen := store.Generation()

	//キャッシュ禁止：ここで必ず引き直す
	result, err := u.reconciler.Reconcile(ctx, ids)
	if err == checkout.ErrEmptyBasket {
		u.metrics.IncCheckout(metrics.OutcomeBlockedEmpty)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "basket is empty")
	}
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "reconciliation failed")
	}

	if store.Generation() != gen {
		u.metrics.IncCheckout(metrics.OutcomeBasketChanged)
		return CheckoutOutput{}, NewHTTPError(http.StatusConflict, "basket changed, retry checkout")
	}

	//購入可能な商品がひとつも無ければプロバイダへは行かない
	if len(result.Eligible) == 0 {
		u.metrics.IncCheckout(metrics.OutcomeBlockedIneligible)
		return CheckoutOutput{
			State:      CheckoutStateBlockedAllIneligible,
			Eligible:   result.Eligible,
			Ineligible: result.Ineligible,
		}, nil
	}

	cfg, err := u.paymentConfig(ctx)
	if err != nil {
		u.metrics.IncCheckout(metrics.OutcomeSessionFailed)
		return CheckoutOutput{}, err
	}

	items := make([]payment.ShoppingItem, 0, len(result.Eligible))
	for _, item := range result.Eligible {
		items = append(items, payment.ShoppingItem{
			ProductName:        item.Title,
			ProductDescription: item.Description,
			Currency:           u.currency,
			PriceInCents:       item.PriceInCents,
			Quantity:           1,
		})
	}

	session, err := u.pay.CreateCheckoutSession(ctx, cfg, items, in.SuccessURL, in.CancelURL)
	if err != nil {
		//バスケットは触らない（再試行可能）
		u.log.Warn("checkout session creation failed", zap.Error(err))
		u.metrics.IncCheckout(metrics.OutcomeSessionFailed)
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment session failed")
	}

	u.metrics.IncCheckout(metrics.OutcomeSessionRequested)
	return CheckoutOutput{
		State:        CheckoutStateSessionRequested,
		SessionID:    session.ID,
		RedirectURL:  session.URL,
		TotalInCents: result.TotalInCents,
		Eligible:     result.Eligible,
		Ineligible:   result.Ineligible,
	}, nil
}

type CompletePaymentOutput struct {
	BasketCleared bool                   `json:"basket_cleared"`
	SessionStatus *payment.SessionStatus `json:"session_status,omitempty"`
}

// CompletePayment は成功リダイレクト後の処理。
// バスケットは無条件でクリアする。状態照会は参考情報で、
// 失敗してもクリアを妨げない。
func (u *CheckoutUsecase) CompletePayment(ctx context.Context, owner string, sessionID string) (CompletePaymentOutput, error) {
	if owner == "" {
		return CompletePaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	out := CompletePaymentOutput{}

	if sessionID != "" {
		if cfg, err := u.paymentConfig(ctx); err == nil {
			status, err := u.pay.SessionStatus(ctx, cfg, sessionID)
			if err != nil {
				u.log.Warn("session status lookup failed",
					zap.String("session_id", sessionID), zap.Error(err))
			} else {
				out.SessionStatus = &status
			}
		}
	}

	u.baskets.ForOwner(ctx, owner).Clear(ctx)
	out.BasketCleared = true

	u.metrics.IncCheckout(metrics.OutcomePaymentCompleted)
	return out, nil
}

// CancelPayment はキャンセルリダイレクト後の処理。
// バスケットはそのまま残す（選択を保持して再試行できるように）。
func (u *CheckoutUsecase) CancelPayment(ctx context.Context, owner string) error {
	if owner == "" {
		return NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	u.metrics.IncCheckout(metrics.OutcomePaymentCancelled)
	return nil
}

// GetSessionStatus はセッション状態を照会する。
func (u *CheckoutUsecase) GetSessionStatus(ctx context.Context, sessionID string) (payment.SessionStatus, error) {
	if sessionID == "" {
		return payment.SessionStatus{}, NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	cfg, err := u.paymentConfig(ctx)
	if err != nil {
		return payment.SessionStatus{}, err
	}

	status, err := u.pay.SessionStatus(ctx, cfg, sessionID)
	if err != nil {
		return payment.SessionStatus{}, NewHTTPError(http.StatusBadGateway, "session status lookup failed")
	}
	return status, nil
}

// PaymentConfigured は決済設定の有無を返す（UIのガード用）。
func (u *CheckoutUsecase) PaymentConfigured(ctx context.Context) (bool, error) {
	cfg, err := u.cfgRepo.Get(ctx)
	if err == repo.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cfg.Configured(), nil
}

// SetPaymentConfig は管理者による決済設定の保存。
func (u *CheckoutUsecase) SetPaymentConfig(ctx context.Context, secretKey string, allowedCountries []string) error {
	if strings.TrimSpace(secretKey) == "" {
		return NewHTTPError(http.StatusBadRequest, "secret key is required")
	}

	cfg := model.PaymentConfig{
		SecretKey:        strings.TrimSpace(secretKey),
		AllowedCountries: strings.Join(allowedCountries, ","),
	}
	if err := u.cfgRepo.Save(ctx, cfg); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 設定を読み込んでpayment.Configへ変換
func (u *CheckoutUsecase) paymentConfig(ctx context.Context) (payment.Config, error) {
	cfg, err := u.cfgRepo.Get(ctx)
	if err == repo.ErrNotFound {
		return payment.Config{}, NewHTTPError(http.StatusServiceUnavailable, "payment not configured")
	}
	if err != nil {
		return payment.Config{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !cfg.Configured() {
		return payment.Config{}, NewHTTPError(http.StatusServiceUnavailable, "payment not configured")
	}

	out := payment.Config{SecretKey: cfg.SecretKey}
	if cfg.AllowedCountries != "" {
		out.AllowedCountries = strings.Split(cfg.AllowedCountries, ",")
	}
	return out, nil
}
