package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"app/internal/basket"
	"app/internal/checkout"
	"app/internal/domain/model"
	"app/internal/infra/kv"
	"app/internal/payment"
	"app/internal/platform/metrics"
	repo "app/internal/repository"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CkPayMock struct{ mock.Mock }

func (m *CkPayMock) CreateCheckoutSession(ctx context.Context, cfg payment.Config, items []payment.ShoppingItem, successURL string, cancelURL string) (payment.Session, error) {
	args := m.Called(ctx, cfg, items, successURL, cancelURL)
	s, _ := args.Get(0).(payment.Session)
	return s, args.Error(1)
}

func (m *CkPayMock) SessionStatus(ctx context.Context, cfg payment.Config, sessionID string) (payment.SessionStatus, error) {
	args := m.Called(ctx, cfg, sessionID)
	s, _ := args.Get(0).(payment.SessionStatus)
	return s, args.Error(1)
}

type CkCfgRepoMock struct{ mock.Mock }

func (m *CkCfgRepoMock) Get(ctx context.Context) (model.PaymentConfig, error) {
	args := m.Called(ctx)
	cfg, _ := args.Get(0).(model.PaymentConfig)
	return cfg, args.Error(1)
}

func (m *CkCfgRepoMock) Save(ctx context.Context, cfg model.PaymentConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// 照合用の読み取り口。hookで照合中のバスケット変更を再現できる。
type CkFetcher struct {
	items map[string]model.Item
	hook  func()
}

func newCkFetcher() *CkFetcher {
	return &CkFetcher{items: map[string]model.Item{}}
}

func (f *CkFetcher) put(item model.Item) model.ItemID {
	f.items[item.ID.Key()] = item
	return item.ID
}

func (f *CkFetcher) FindByID(ctx context.Context, id model.ItemID) (model.Item, error) {
	if f.hook != nil {
		f.hook()
	}
	item, ok := f.items[id.Key()]
	if !ok {
		return model.Item{}, errors.New("not found")
	}
	return item, nil
}

// =====================
// 共通セットアップ
// =====================

type ckFixture struct {
	baskets *basket.Manager
	fetcher *CkFetcher
	pay     *CkPayMock
	cfgRepo *CkCfgRepoMock
	uc      *CheckoutUsecase
}

func newCkFixture() *ckFixture {
	log := zap.NewNop()
	f := &ckFixture{
		baskets: basket.NewManager(kv.NewMemory(), log),
		fetcher: newCkFetcher(),
		pay:     new(CkPayMock),
		cfgRepo: new(CkCfgRepoMock),
	}
	f.uc = NewCheckoutUsecase(
		f.baskets,
		checkout.NewReconciler(f.fetcher, log),
		f.pay,
		f.cfgRepo,
		metrics.NewWith(prometheus.NewRegistry()),
		"aud",
		log,
	)
	return f
}

func (f *ckFixture) configurePayment() {
	f.cfgRepo.On("Get", mock.Anything).Return(model.PaymentConfig{
		SecretKey:        "sk_test_xxx",
		AllowedCountries: "AU,NZ",
	}, nil)
}

func ckItem(id byte, price int64, sold bool) model.Item {
	return model.Item{
		ID:           model.ItemID{id},
		Title:        "ocarina",
		PriceInCents: price,
		Sold:         sold,
		Published:    true,
		Category:     model.ItemCategoryCeramic,
	}
}

func ckInput() CheckoutInput {
	return CheckoutInput{
		SuccessURL: "https://shop.example/success",
		CancelURL:  "https://shop.example/cancel",
	}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := AsHTTPError(err)
	assert.True(t, ok, "expected HTTPError, got %v", err)
	if ok {
		assert.Equal(t, status, he.Status)
	}
}

// =====================
// Checkout
// =====================

func TestCheckoutUsecase_Checkout_EmptyBasket(t *testing.T) {
	f := newCkFixture()

	_, err := f.uc.Checkout(context.Background(), "user:alice", ckInput())
	assertHTTPStatus(t, err, http.StatusBadRequest)

	//空バスケットではプロバイダに触らない
	f.pay.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.cfgRepo.AssertNotCalled(t, "Get", mock.Anything)
}

func TestCheckoutUsecase_Checkout_MissingRedirectURLs(t *testing.T) {
	f := newCkFixture()

	_, err := f.uc.Checkout(context.Background(), "user:alice", CheckoutInput{SuccessURL: "https://s"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckoutUsecase_Checkout_AllIneligible(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()

	sold := f.fetcher.put(ckItem(1, 900, true))
	unpriced := f.fetcher.put(ckItem(2, 0, false))

	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, sold)
	store.Add(ctx, unpriced)

	out, err := f.uc.Checkout(ctx, "user:alice", ckInput())
	assert.NoError(t, err)
	assert.Equal(t, CheckoutStateBlockedAllIneligible, out.State)
	assert.Len(t, out.Ineligible, 2)
	assert.Len(t, out.Eligible, 0)

	//プロバイダへは一切出ない
	f.pay.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	//バスケットはそのまま
	assert.Equal(t, 2, store.Count())
}

func TestCheckoutUsecase_Checkout_Success_SoldItemExcluded(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()
	f.configurePayment()

	ok1 := f.fetcher.put(ckItem(1, 900, false))
	sold := f.fetcher.put(ckItem(2, 1500, true))
	ok2 := f.fetcher.put(ckItem(3, 1900, false))

	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, ok1)
	store.Add(ctx, sold)
	store.Add(ctx, ok2)

	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything,
		mock.MatchedBy(func(items []payment.ShoppingItem) bool {
			//売約済みは明細に載らない
			return len(items) == 2 && items[0].PriceInCents == 900 && items[1].PriceInCents == 1900
		}),
		"https://shop.example/success", "https://shop.example/cancel").
		Return(payment.Session{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil)

	out, err := f.uc.Checkout(ctx, "user:alice", ckInput())
	assert.NoError(t, err)
	assert.Equal(t, CheckoutStateSessionRequested, out.State)
	assert.Equal(t, "cs_123", out.SessionID)
	assert.Equal(t, "https://pay.example/cs_123", out.RedirectURL)
	assert.Equal(t, int64(2800), out.TotalInCents)
	assert.Len(t, out.Eligible, 2)
	assert.Len(t, out.Ineligible, 1)

	//セッション作成後もバスケットは残る（クリアは成功リダイレクト後）
	assert.Equal(t, 3, store.Count())

	f.pay.AssertExpectations(t)
}

func TestCheckoutUsecase_Checkout_SessionFailure_BasketUntouched(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()
	f.configurePayment()

	id := f.fetcher.put(ckItem(1, 900, false))
	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, id)

	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(payment.Session{}, errors.New("stripe down"))

	_, err := f.uc.Checkout(ctx, "user:alice", ckInput())
	assertHTTPStatus(t, err, http.StatusBadGateway)

	//失敗してもバスケットは触らない
	assert.Equal(t, 1, store.Count())
	assert.True(t, store.Contains(id))
}

func TestCheckoutUsecase_Checkout_PaymentNotConfigured(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()
	f.cfgRepo.On("Get", mock.Anything).Return(model.PaymentConfig{}, repo.ErrNotFound)

	id := f.fetcher.put(ckItem(1, 900, false))
	f.baskets.ForOwner(ctx, "user:alice").Add(ctx, id)

	_, err := f.uc.Checkout(ctx, "user:alice", ckInput())
	assertHTTPStatus(t, err, http.StatusServiceUnavailable)

	f.pay.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Checkout_BasketChangedDuringReconcile(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()

	id := f.fetcher.put(ckItem(1, 900, false))
	other := f.fetcher.put(ckItem(2, 500, false))

	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, id)

	//照合中に別の追加が走った状況を再現
	fired := false
	f.fetcher.hook = func() {
		if !fired {
			fired = true
			store.Add(ctx, other)
		}
	}

	_, err := f.uc.Checkout(ctx, "user:alice", ckInput())
	assertHTTPStatus(t, err, http.StatusConflict)

	//古い照合結果でプロバイダへ行かない
	f.pay.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// Complete / Cancel
// =====================

func TestCheckoutUsecase_CompletePayment_ClearsBasket(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()
	f.configurePayment()

	id := f.fetcher.put(ckItem(1, 900, false))
	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, id)

	f.pay.On("SessionStatus", mock.Anything, mock.Anything, "cs_123").
		Return(payment.SessionStatus{ID: "cs_123", Status: "complete", PaymentStatus: "paid"}, nil)

	out, err := f.uc.CompletePayment(ctx, "user:alice", "cs_123")
	assert.NoError(t, err)
	assert.True(t, out.BasketCleared)
	assert.NotNil(t, out.SessionStatus)
	assert.Equal(t, "paid", out.SessionStatus.PaymentStatus)

	assert.Equal(t, 0, store.Count())
}

func TestCheckoutUsecase_CompletePayment_ClearsEvenIfStatusLookupFails(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()
	f.configurePayment()

	id := f.fetcher.put(ckItem(1, 900, false))
	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, id)

	f.pay.On("SessionStatus", mock.Anything, mock.Anything, "cs_123").
		Return(payment.SessionStatus{}, errors.New("stripe down"))

	out, err := f.uc.CompletePayment(ctx, "user:alice", "cs_123")
	assert.NoError(t, err)
	assert.True(t, out.BasketCleared)
	assert.Nil(t, out.SessionStatus)

	//照会が失敗してもクリアされる
	assert.Equal(t, 0, store.Count())
}

func TestCheckoutUsecase_CancelPayment_PreservesBasket(t *testing.T) {
	ctx := context.Background()
	f := newCkFixture()

	a := f.fetcher.put(ckItem(1, 900, false))
	b := f.fetcher.put(ckItem(2, 1900, false))
	store := f.baskets.ForOwner(ctx, "user:alice")
	store.Add(ctx, a)
	store.Add(ctx, b)

	before := store.Items()

	err := f.uc.CancelPayment(ctx, "user:alice")
	assert.NoError(t, err)

	//中身も順序もそのまま
	assert.Equal(t, before, store.Items())
}

// =====================
// Config
// =====================

func TestCheckoutUsecase_PaymentConfigured(t *testing.T) {
	f := newCkFixture()
	f.cfgRepo.On("Get", mock.Anything).Return(model.PaymentConfig{}, repo.ErrNotFound).Once()

	configured, err := f.uc.PaymentConfigured(context.Background())
	assert.NoError(t, err)
	assert.False(t, configured)

	f.cfgRepo.On("Get", mock.Anything).Return(model.PaymentConfig{SecretKey: "sk"}, nil).Once()

	configured, err = f.uc.PaymentConfigured(context.Background())
	assert.NoError(t, err)
	assert.True(t, configured)
}

func TestCheckoutUsecase_SetPaymentConfig_Validation(t *testing.T) {
	f := newCkFixture()

	err := f.uc.SetPaymentConfig(context.Background(), "  ", nil)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckoutUsecase_SetPaymentConfig_Success(t *testing.T) {
	f := newCkFixture()

	f.cfgRepo.On("Save", mock.Anything, mock.MatchedBy(func(cfg model.PaymentConfig) bool {
		return cfg.SecretKey == "sk_live_abc" && cfg.AllowedCountries == "AU,NZ"
	})).Return(nil)

	err := f.uc.SetPaymentConfig(context.Background(), " sk_live_abc ", []string{"AU", "NZ"})
	assert.NoError(t, err)

	f.cfgRepo.AssertExpectations(t)
}
