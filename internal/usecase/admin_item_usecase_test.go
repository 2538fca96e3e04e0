package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type AdmAuditRepoMock struct{ mock.Mock }

func (m *AdmAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AdmAuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type AdmValidatorMock struct{ mock.Mock }

func (m *AdmValidatorMock) ValidateBulkItem(ctx context.Context, in BulkItemInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *AdmValidatorMock) ValidateShapeCategoryName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func newAdminUC(iRepo *ItemRepoMock, aRepo *AdmAuditRepoMock, v *AdmValidatorMock) *AdminItemUsecase {
	return NewAdminItemUsecase(iRepo, aRepo, v, zap.NewNop())
}

// =====================
// BulkUpload
// =====================

func TestAdminItemUsecase_BulkUpload_Success(t *testing.T) {
	ctx := context.Background()
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	v := new(AdmValidatorMock)
	uc := newAdminUC(iRepo, aRepo, v)

	inputs := []BulkItemInput{
		{Title: "Alto C", Category: model.ItemCategoryCeramic, ShapeCategory: "round"},
		{Title: "Soprano G", Category: model.ItemCategoryPrinted, ShapeCategory: "inline"},
	}

	v.On("ValidateBulkItem", mock.Anything, mock.Anything).Return(nil)
	iRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []model.Item) bool {
		//登録直後は非公開・価格未設定・作成者記録あり
		return len(items) == 2 &&
			!items[0].Published && items[0].PriceInCents == 0 &&
			items[0].CreatedBy == "admin:bob" && len(items[0].ID) > 0
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionBulkUpload && l.Actor == "admin:bob"
	})).Return(nil)

	ids, err := uc.BulkUploadItems(ctx, "admin:bob", inputs)
	assert.NoError(t, err)
	assert.Len(t, ids, 2)

	//返るIDはURLセーフ表現
	for _, raw := range ids {
		_, err := model.ParseItemID(raw)
		assert.NoError(t, err)
	}

	iRepo.AssertExpectations(t)
	aRepo.AssertExpectations(t)
}

func TestAdminItemUsecase_BulkUpload_Empty(t *testing.T) {
	uc := newAdminUC(new(ItemRepoMock), new(AdmAuditRepoMock), new(AdmValidatorMock))

	_, err := uc.BulkUploadItems(context.Background(), "admin:bob", nil)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestAdminItemUsecase_BulkUpload_ValidationFailure(t *testing.T) {
	iRepo := new(ItemRepoMock)
	v := new(AdmValidatorMock)
	uc := newAdminUC(iRepo, new(AdmAuditRepoMock), v)

	v.On("ValidateBulkItem", mock.Anything, mock.Anything).Return(errors.New("title is required"))

	_, err := uc.BulkUploadItems(context.Background(), "admin:bob", []BulkItemInput{{}})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	iRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestAdminItemUsecase_BulkUpload_AuditFailureDoesNotFail(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	v := new(AdmValidatorMock)
	uc := newAdminUC(iRepo, aRepo, v)

	v.On("ValidateBulkItem", mock.Anything, mock.Anything).Return(nil)
	iRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit db down"))

	//監査ログ失敗で操作は巻き戻らない
	ids, err := uc.BulkUploadItems(context.Background(), "admin:bob",
		[]BulkItemInput{{Title: "Alto C", Category: model.ItemCategoryCeramic}})
	assert.NoError(t, err)
	assert.Len(t, ids, 1)
}

// =====================
// 公開・売約・価格
// =====================

func TestAdminItemUsecase_SetItemsPublished(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(iRepo, aRepo, new(AdmValidatorMock))

	id := model.NewItemID()
	iRepo.On("SetPublished", mock.Anything, []model.ItemID{id}, true).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.SetItemsPublished(context.Background(), "admin:bob", []string{id.String()}, true)
	assert.NoError(t, err)

	iRepo.AssertExpectations(t)
}

func TestAdminItemUsecase_SetItemsPublished_NotFound(t *testing.T) {
	iRepo := new(ItemRepoMock)
	uc := newAdminUC(iRepo, new(AdmAuditRepoMock), new(AdmValidatorMock))

	id := model.NewItemID()
	iRepo.On("SetPublished", mock.Anything, mock.Anything, false).Return(repo.ErrNotFound)

	err := uc.SetItemsPublished(context.Background(), "admin:bob", []string{id.String()}, false)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAdminItemUsecase_MarkItemsSold(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(iRepo, aRepo, new(AdmValidatorMock))

	id := model.NewItemID()
	iRepo.On("MarkSold", mock.Anything, []model.ItemID{id}).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionMarkSold
	})).Return(nil)

	err := uc.MarkItemsSold(context.Background(), "admin:bob", []string{id.String()})
	assert.NoError(t, err)
}

func TestAdminItemUsecase_SetItemPrice(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(iRepo, aRepo, new(AdmValidatorMock))

	id := model.NewItemID()
	iRepo.On("SetPrice", mock.Anything, id, int64(1900)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.SetItemPrice(context.Background(), "admin:bob", id.String(), 1900)
	assert.NoError(t, err)
}

func TestAdminItemUsecase_SetItemPrice_NegativeRejected(t *testing.T) {
	uc := newAdminUC(new(ItemRepoMock), new(AdmAuditRepoMock), new(AdmValidatorMock))

	err := uc.SetItemPrice(context.Background(), "admin:bob", model.NewItemID().String(), -1)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestAdminItemUsecase_SetItemPrice_ZeroUnsets(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(iRepo, aRepo, new(AdmValidatorMock))

	//0は「価格未設定」に戻す操作として通る
	id := model.NewItemID()
	iRepo.On("SetPrice", mock.Anything, id, int64(0)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.SetItemPrice(context.Background(), "admin:bob", id.String(), 0)
	assert.NoError(t, err)
}

func TestAdminItemUsecase_SetCategoryPrice(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(iRepo, aRepo, new(AdmValidatorMock))

	iRepo.On("SetPriceByCategory", mock.Anything, model.ItemCategoryPrinted, int64(900)).Return(int64(7), nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	updated, err := uc.SetCategoryPrice(context.Background(), "admin:bob", model.ItemCategoryPrinted, 900)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), updated)
}

func TestAdminItemUsecase_SetCategoryPrice_InvalidCategory(t *testing.T) {
	uc := newAdminUC(new(ItemRepoMock), new(AdmAuditRepoMock), new(AdmValidatorMock))

	_, err := uc.SetCategoryPrice(context.Background(), "admin:bob", "wood", 900)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// 説明・写真
// =====================

func TestAdminItemUsecase_UpdateItemDescription(t *testing.T) {
	iRepo := new(ItemRepoMock)
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(iRepo, aRepo, new(AdmValidatorMock))

	id := model.NewItemID()
	iRepo.On("UpdateDescription", mock.Anything, id, "hand tuned").Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.UpdateItemDescription(context.Background(), "admin:bob", id.String(), "hand tuned")
	assert.NoError(t, err)
}

func TestAdminItemUsecase_UpdateItemPhoto_RequiresURL(t *testing.T) {
	uc := newAdminUC(new(ItemRepoMock), new(AdmAuditRepoMock), new(AdmValidatorMock))

	err := uc.UpdateItemPhoto(context.Background(), "admin:bob", model.NewItemID().String(), "", "image/jpeg")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestAdminItemUsecase_ListAuditLogs(t *testing.T) {
	aRepo := new(AdmAuditRepoMock)
	uc := newAdminUC(new(ItemRepoMock), aRepo, new(AdmValidatorMock))

	filter := repo.AuditLogFilter{Actor: "admin:bob", Limit: 10}
	aRepo.On("List", mock.Anything, filter).Return([]model.AuditLog{
		{Actor: "admin:bob", Action: model.AuditActionMarkSold},
	}, nil)

	logs, err := uc.ListAuditLogs(context.Background(), filter)
	assert.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestAdminItemUsecase_InvalidIDs(t *testing.T) {
	uc := newAdminUC(new(ItemRepoMock), new(AdmAuditRepoMock), new(AdmValidatorMock))

	err := uc.SetItemsPublished(context.Background(), "admin:bob", []string{"!!bad!!"}, true)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	err = uc.MarkItemsSold(context.Background(), "admin:bob", nil)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}
