package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContestModel 竞赛模型
type ContestModel struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`

	// 基本信息
	ContestName            string `json:"contestName" bson:"contestName" binding:"required"`
	ContestImage           string `json:"contestImage" bson:"contestImage,omitempty"`
	ContestDescription     string `json:"contestDescription" bson:"contestDescription,omitempty"`
	Tag                    string `json:"tag" bson:"tag,omitempty"`
	SubmissionInstructions string `json:"submissionInstructions" bson:"submissionInstructions,omitempty"`

	// 金额信息，单位taka
	PrizeMoney int64 `json:"prizeMoney" bson:"prizeMoney"`
	EntryFee   int64 `json:"entryFee" bson:"entryFee"`

	// 创建者邮箱
	Email string `json:"email" bson:"email" binding:"required"`

	// 参赛人数，仅由支付成功回调递增
	Participant int64 `json:"participant" bson:"participant"`

	// 状态
	Status ContestStatus `json:"status" bson:"status,omitempty"`
}

// ContestStatus 竞赛状态
type ContestStatus string

const (
	ContestStatusPending ContestStatus = "pending" // 待审核
	ContestStatusSuccess ContestStatus = "success" // 已确认
)

// TopCreator 热门创建者聚合结果
type TopCreator struct {
	Email             string `json:"email" bson:"_id"`
	TotalContests     int64  `json:"totalContests" bson:"totalContests"`
	TotalParticipants int64  `json:"totalParticipants" bson:"totalParticipants"`
	RecentContest     string `json:"recentContest" bson:"recentContest"`
	AuthorImage       string `json:"authorImage" bson:"authorImage"`
}

// CollectionName 自定义集合名
func (ContestModel) CollectionName() string {
	return "contests"
}
