package repository

import (
	"app/internal/domain/model"
	"context"
)

// 監査ログの絞り込み条件
type AuditLogFilter struct {
	Actor        string
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	Limit        int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
