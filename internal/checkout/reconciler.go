package checkout

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"app/internal/domain/model"
)

// 決済直前に商品状態を引き直すための読み取り口。
type ItemFetcher interface {
	FindByID(ctx context.Context, id model.ItemID) (model.Item, error)
}

// 空のバスケットで照合を呼んだ（事前条件違反）
var ErrEmptyBasket = errors.New("nothing to check out")

// 照合結果。Eligible ∪ Ineligible = 取得できた商品全体、両者は交わらない。
// 取得に失敗したIDはどちらにも入らない（ログのみ）。
type Result struct {
	Eligible     []model.Item `json:"eligible"`
	Ineligible   []model.Item `json:"ineligible"`
	TotalInCents int64        `json:"total_in_cents"`
}

// 同時に投げる取得リクエストの上限
const defaultFetchLimit = 8

// Reconciler はバスケットの中身をサーバの現在状態と突き合わせる。
// キャッシュは持たず、呼ばれるたびに必ず引き直す。
type Reconciler struct {
	items ItemFetcher
	log   *zap.Logger
}

func NewReconciler(items ItemFetcher, log *zap.Logger) *Reconciler {
	return &Reconciler{items: items, log: log}
}

// Reconcile はID集合を eligible / ineligible に分割する。
// 取得は並行で行い、全件の完了（または個別の失敗）を待ってから分割する。
// 1件の失敗が他を止めることはない。
func (r *Reconciler) Reconcile(ctx context.Context, ids []model.ItemID) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrEmptyBasket
	}

	//バスケット順を保つため、スロット固定で集める
	slots := make([]*model.Item, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultFetchLimit)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			item, err := r.items.FindByID(gctx, id)
			if err != nil {
				//取得できなかったIDは結果から落とす
				r.log.Warn("item fetch failed during reconciliation",
					zap.String("item_id", id.String()), zap.Error(err))
				return nil
			}
			slots[i] = &item
			return nil
		})
	}

	//エラーは各スロットで吸収済み
	_ = g.Wait()

	res := Result{
		Eligible:   []model.Item{},
		Ineligible: []model.Item{},
	}

	for _, item := range slots {
		if item == nil {
			continue
		}
		if item.Purchasable() {
			res.Eligible = append(res.Eligible, *item)
			res.TotalInCents += item.PriceInCents
		} else {
			res.Ineligible = append(res.Ineligible, *item)
		}
	}

	return res, nil
}
