package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// チェックアウト試行の結末ラベル
const (
	OutcomeBlockedEmpty       = "blocked_empty"
	OutcomeBlockedIneligible  = "blocked_all_ineligible"
	OutcomeBasketChanged      = "basket_changed"
	OutcomeSessionFailed      = "session_failed"
	OutcomeSessionRequested   = "session_requested"
	OutcomePaymentCompleted   = "payment_completed"
	OutcomePaymentCancelled   = "payment_cancelled"
)

// Metrics はアプリ全体のPrometheusメトリクスを持つ
type Metrics struct {
	BasketOps        *prometheus.CounterVec
	CheckoutAttempts *prometheus.CounterVec
}

// New はメトリクスを作ってデフォルトレジストリへ登録する
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith は指定レジストリへ登録する（テスト用）
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BasketOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_basket_operations_total",
			Help: "Total number of basket mutations by operation",
		}, []string{"op"}),
		CheckoutAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkout_attempts_total",
			Help: "Total number of checkout attempts by outcome",
		}, []string{"outcome"}),
	}
}

// バスケット操作を1カウント
func (m *Metrics) IncBasketOp(op string) {
	m.BasketOps.WithLabelValues(op).Inc()
}

// チェックアウトの結末を1カウント
func (m *Metrics) IncCheckout(outcome string) {
	m.CheckoutAttempts.WithLabelValues(outcome).Inc()
}
