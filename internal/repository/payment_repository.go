package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentRepository 支付记录集合访问
type PaymentRepository struct {
	col *mongo.Collection
}

// NewPaymentRepository 创建支付记录仓库
func NewPaymentRepository(s *Store) *PaymentRepository {
	return &PaymentRepository{col: s.Collections.Payments}
}

// Insert 新增支付记录
func (r *PaymentRepository) Insert(ctx context.Context, payment *model.PaymentModel) error {
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to insert payment record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.Id = oid
	}
	return nil
}

// FindByTransactionID 按交易号查询支付记录
func (r *PaymentRepository) FindByTransactionID(ctx context.Context, tranID string) (*model.PaymentModel, error) {
	var payment model.PaymentModel
	if err := r.col.FindOne(ctx, bson.M{"transactionId": tranID}).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// List 获取支付记录，author非空时按创建者邮箱过滤
func (r *PaymentRepository) List(ctx context.Context, author string) ([]model.PaymentModel, error) {
	filter := bson.M{}
	if author != "" {
		filter["author"] = author
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment records: %w", err)
	}

	var payments []model.PaymentModel
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payment records: %w", err)
	}
	return payments, nil
}

// MarkSuccessIfPending 条件更新 pending -> success，返回是否由本次调用完成状态迁移。
// 过滤条件同时匹配交易号与当前状态，并发回调中只有一个会更新成功
func (r *PaymentRepository) MarkSuccessIfPending(ctx context.Context, tranID string) (bool, error) {
	return r.transition(ctx, tranID, model.PaymentStatusSuccess)
}

// MarkFailedIfPending 条件更新 pending -> failed
func (r *PaymentRepository) MarkFailedIfPending(ctx context.Context, tranID string) (bool, error) {
	return r.transition(ctx, tranID, model.PaymentStatusFailed)
}

func (r *PaymentRepository) transition(ctx context.Context, tranID string, to model.PaymentStatus) (bool, error) {
	filter := bson.M{"transactionId": tranID, "status": model.PaymentStatusPending}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition payment %s to %s: %w", tranID, to, err)
	}
	return res.ModifiedCount == 1, nil
}

// MarkCreditedIfUncredited 条件更新 credited false -> true，返回是否由本次调用赢得标记。
// 回调与对账任务都先抢这个标记再累加计数，并发时只有赢家会累加
func (r *PaymentRepository) MarkCreditedIfUncredited(ctx context.Context, tranID string) (bool, error) {
	filter := bson.M{"transactionId": tranID, "credited": false}
	update := bson.M{"$set": bson.M{"credited": true, "updated_at": time.Now()}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment %s credited: %w", tranID, err)
	}
	return res.ModifiedCount == 1, nil
}

// ClearCredited 回滚credited标记，计数累加失败时调用，让对账任务重试
func (r *PaymentRepository) ClearCredited(ctx context.Context, tranID string) error {
	update := bson.M{"$set": bson.M{"credited": false, "updated_at": time.Now()}}
	_, err := r.col.UpdateOne(ctx, bson.M{"transactionId": tranID}, update)
	if err != nil {
		return fmt.Errorf("failed to clear credited flag for payment %s: %w", tranID, err)
	}
	return nil
}

// SetReceiptLink 补充回执链接
func (r *PaymentRepository) SetReceiptLink(ctx context.Context, tranID string, link string) error {
	update := bson.M{"$set": bson.M{"pdfLink": link, "updated_at": time.Now()}}

	res, err := r.col.UpdateOne(ctx, bson.M{"transactionId": tranID}, update)
	if err != nil {
		return fmt.Errorf("failed to set receipt link: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindUncredited 查询成功但计数尚未累加的记录，供对账任务修复
func (r *PaymentRepository) FindUncredited(ctx context.Context) ([]model.PaymentModel, error) {
	cursor, err := r.col.Find(ctx, bson.M{"status": model.PaymentStatusSuccess, "credited": false})
	if err != nil {
		return nil, fmt.Errorf("failed to query uncredited payments: %w", err)
	}

	var payments []model.PaymentModel
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode uncredited payments: %w", err)
	}
	return payments, nil
}

// ExpirePendingBefore 将超时未完成的待支付记录置为失败，返回处理条数
func (r *PaymentRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{"status": model.PaymentStatusPending, "created_at": bson.M{"$lt": cutoff}}
	update := bson.M{"$set": bson.M{"status": model.PaymentStatusFailed, "updated_at": time.Now()}}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending payments: %w", err)
	}
	return res.ModifiedCount, nil
}
