package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentModel 报名费支付记录
type PaymentModel struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`

	// 交易号，发起支付时生成，全局唯一
	TransactionId string `json:"transactionId" bson:"transactionId"`

	// 付款人信息
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`

	// 竞赛信息，contestId为字符串形式的竞赛ID，查询时再解析
	Author      string `json:"author" bson:"author"` // 竞赛创建者邮箱
	ContestId   string `json:"contestId" bson:"contestId"`
	ContestName string `json:"contestName" bson:"contestName"` // 支付时的竞赛名快照
	EntryFee    int64  `json:"entryFee" bson:"entryFee"`

	// 状态，pending -> success / failed，终态后不再变更
	Status PaymentStatus `json:"status" bson:"status"`

	// 参赛计数是否已累加，保证每笔成功支付至多累加一次
	Credited bool `json:"credited" bson:"credited"`

	// 回执链接，终态后补充
	PdfLink string `json:"pdfLink" bson:"pdfLink,omitempty"`
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // 待支付
	PaymentStatusSuccess PaymentStatus = "success" // 支付成功
	PaymentStatusFailed  PaymentStatus = "failed"  // 支付失败或取消
)

// Terminal 是否为终态
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// CollectionName 自定义集合名
func (PaymentModel) CollectionName() string {
	return "payment-history"
}
