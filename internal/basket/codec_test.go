package basket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"app/internal/domain/model"
)

func TestCodec_RoundTrip(t *testing.T) {
	ids := []model.ItemID{
		{18, 52, 240, 7},
		{0, 255, 1},
		model.NewItemID(),
	}

	raw, err := encodeRecord(ids)
	assert.NoError(t, err)

	got, migrated, err := decodeRecord(raw)
	assert.NoError(t, err)
	assert.False(t, migrated)
	assert.Equal(t, ids, got)
}

func TestCodec_RoundTrip_Empty(t *testing.T) {
	raw, err := encodeRecord(nil)
	assert.NoError(t, err)

	got, migrated, err := decodeRecord(raw)
	assert.NoError(t, err)
	assert.False(t, migrated)
	assert.Len(t, got, 0)
}

func TestCodec_EncodeID_Format(t *testing.T) {
	//各バイトを十進でカンマ区切り
	assert.Equal(t, "18,52,240", encodeID(model.ItemID{18, 52, 240}))
}

func TestCodec_DecodeRecord_Legacy(t *testing.T) {
	//旧形式は版数なしの素の配列
	got, migrated, err := decodeRecord(`["18,52,240","0,1"]`)
	assert.NoError(t, err)
	assert.True(t, migrated)
	assert.Equal(t, []model.ItemID{{18, 52, 240}, {0, 1}}, got)
}

func TestCodec_DecodeRecord_UnsupportedVersion(t *testing.T) {
	_, _, err := decodeRecord(`{"version":2,"items":[]}`)
	assert.Error(t, err)
}

func TestCodec_DecodeRecord_Malformed(t *testing.T) {
	cases := []string{
		"not json",
		`{"version":1,"items":["18,999"]}`,
		`{"version":1,"items":["18,-1"]}`,
		`{"version":1,"items":["18,abc"]}`,
		`{"version":1,"items":[""]}`,
		`[123]`,
	}
	for _, raw := range cases {
		_, _, err := decodeRecord(raw)
		assert.Error(t, err, raw)
	}
}
