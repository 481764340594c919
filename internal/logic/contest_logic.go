package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// 热门创建者数量
const topCreatorLimit = 3

// ContestCatalog 竞赛存取接口，CRUD与搜索
type ContestCatalog interface {
	FindByID(ctx context.Context, id string) (*model.ContestModel, error)
	Insert(ctx context.Context, contest *model.ContestModel) error
	List(ctx context.Context) ([]model.ContestModel, error)
	ListByEmail(ctx context.Context, email string) ([]model.ContestModel, error)
	SearchByTag(ctx context.Context, query string) ([]model.ContestModel, error)
	TopCreators(ctx context.Context, limit int) ([]model.TopCreator, error)
	Update(ctx context.Context, id string, fields bson.M) error
	SetStatus(ctx context.Context, id string, status model.ContestStatus) error
	Delete(ctx context.Context, id string) error
}

// ContestLogic 竞赛业务逻辑
type ContestLogic struct {
	contests ContestCatalog
}

// ContestUpdateParams 允许更新的竞赛字段，指针为nil表示不更新
type ContestUpdateParams struct {
	ContestName            *string `json:"contestName"`
	ContestImage           *string `json:"contestImage"`
	ContestDescription     *string `json:"contestDescription"`
	Tag                    *string `json:"tag"`
	PrizeMoney             *int64  `json:"prizeMoney"`
	EntryFee               *int64  `json:"entryFee"`
	SubmissionInstructions *string `json:"submissionInstructions"`
}

// NewContestLogic 创建竞赛业务逻辑
func NewContestLogic(contests ContestCatalog) *ContestLogic {
	return &ContestLogic{contests: contests}
}

// CreateContest 创建竞赛
func (l *ContestLogic) CreateContest(ctx context.Context, contest *model.ContestModel) error {
	if err := l.validateContest(contest); err != nil {
		return err
	}

	if contest.Status == "" {
		contest.Status = model.ContestStatusPending
	}
	return l.contests.Insert(ctx, contest)
}

// GetContests 获取全部竞赛
func (l *ContestLogic) GetContests(ctx context.Context) ([]model.ContestModel, error) {
	return l.contests.List(ctx)
}

// GetContest 获取单个竞赛
func (l *ContestLogic) GetContest(ctx context.Context, id string) (*model.ContestModel, error) {
	contest, err := l.contests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("contest %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return contest, nil
}

// GetContestsByCreator 按创建者邮箱获取竞赛
func (l *ContestLogic) GetContestsByCreator(ctx context.Context, email string) ([]model.ContestModel, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", ErrValidation)
	}
	return l.contests.ListByEmail(ctx, email)
}

// GetTopCreators 获取参与度最高的创建者
func (l *ContestLogic) GetTopCreators(ctx context.Context) ([]model.TopCreator, error) {
	return l.contests.TopCreators(ctx, topCreatorLimit)
}

// SearchContests 按标签搜索竞赛
func (l *ContestLogic) SearchContests(ctx context.Context, query string) ([]model.ContestModel, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", ErrValidation)
	}
	return l.contests.SearchByTag(ctx, query)
}

// UpdateContest 更新竞赛的白名单字段
func (l *ContestLogic) UpdateContest(ctx context.Context, id string, params ContestUpdateParams) error {
	fields := bson.M{}
	if params.ContestName != nil {
		fields["contestName"] = *params.ContestName
	}
	if params.ContestImage != nil {
		fields["contestImage"] = *params.ContestImage
	}
	if params.ContestDescription != nil {
		fields["contestDescription"] = *params.ContestDescription
	}
	if params.Tag != nil {
		fields["tag"] = *params.Tag
	}
	if params.PrizeMoney != nil {
		fields["prizeMoney"] = *params.PrizeMoney
	}
	if params.EntryFee != nil {
		fields["entryFee"] = *params.EntryFee
	}
	if params.SubmissionInstructions != nil {
		fields["submissionInstructions"] = *params.SubmissionInstructions
	}

	if len(fields) == 0 {
		return fmt.Errorf("no updatable fields supplied: %w", ErrValidation)
	}

	if err := l.contests.Update(ctx, id, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("contest %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// ConfirmContest 确认竞赛
func (l *ContestLogic) ConfirmContest(ctx context.Context, id string) error {
	if err := l.contests.SetStatus(ctx, id, model.ContestStatusSuccess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("contest %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// DeleteContest 删除竞赛
func (l *ContestLogic) DeleteContest(ctx context.Context, id string) error {
	if err := l.contests.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("contest %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// validateContest 校验竞赛数据
func (l *ContestLogic) validateContest(contest *model.ContestModel) error {
	if contest.ContestName == "" {
		return fmt.Errorf("contest name is required: %w", ErrValidation)
	}
	if contest.Email == "" {
		return fmt.Errorf("creator email is required: %w", ErrValidation)
	}
	if contest.EntryFee < 0 {
		return fmt.Errorf("entry fee cannot be negative: %w", ErrValidation)
	}
	if contest.PrizeMoney < 0 {
		return fmt.Errorf("prize money cannot be negative: %w", ErrValidation)
	}
	return nil
}
