package basket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"app/internal/domain/model"
)

// 永続化レコードのフォーマット版数。
// 版数なしの素の配列（旧形式）は読み込み時に移行する。
const recordVersion = 1

// KVに保存するレコード。itemsの各要素はIDのバイト値を
// カンマ区切りにしたもの（例 "18,52,240,..."）。
type record struct {
	Version int      `json:"version"`
	Items   []string `json:"items"`
}

// IDリストをレコード文字列へ変換
func encodeRecord(ids []model.ItemID) (string, error) {
	rec := record{
		Version: recordVersion,
		Items:   make([]string, 0, len(ids)),
	}
	for _, id := range ids {
		rec.Items = append(rec.Items, encodeID(id))
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// レコード文字列をIDリストへ戻す。
// 旧形式（素のJSON配列）も受け付け、migratedで知らせる。
func decodeRecord(s string) (ids []model.ItemID, migrated bool, err error) {
	var rec record
	if err := json.Unmarshal([]byte(s), &rec); err == nil && rec.Version != 0 {
		if rec.Version != recordVersion {
			return nil, false, fmt.Errorf("unsupported basket record version %d", rec.Version)
		}
		out, err := decodeItems(rec.Items)
		return out, false, err
	}

	//旧形式
	var legacy []string
	if err := json.Unmarshal([]byte(s), &legacy); err != nil {
		return nil, false, fmt.Errorf("malformed basket record: %w", err)
	}
	out, err := decodeItems(legacy)
	return out, true, err
}

func decodeItems(items []string) ([]model.ItemID, error) {
	out := make([]model.ItemID, 0, len(items))
	for _, s := range items {
		id, err := decodeID(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// "18,52,240" 形式へ
func encodeID(id model.ItemID) string {
	parts := make([]string, 0, len(id))
	for _, b := range id {
		parts = append(parts, strconv.Itoa(int(b)))
	}
	return strings.Join(parts, ",")
}

// "18,52,240" 形式から復元。0〜255の整数以外は不正。
func decodeID(s string) (model.ItemID, error) {
	if s == "" {
		return nil, fmt.Errorf("empty item id")
	}

	parts := strings.Split(s, ",")
	id := make(model.ItemID, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return nil, fmt.Errorf("invalid item id byte %q", p)
		}
		id = append(id, byte(n))
	}
	return id, nil
}
