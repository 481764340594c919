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

// ContestRepository 竞赛集合访问
type ContestRepository struct {
	col *mongo.Collection
}

// NewContestRepository 创建竞赛仓库
func NewContestRepository(s *Store) *ContestRepository {
	return &ContestRepository{col: s.Collections.Contests}
}

// FindByID 按ID查询竞赛
func (r *ContestRepository) FindByID(ctx context.Context, id string) (*model.ContestModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid contest id %q: %w", id, err)
	}

	var contest model.ContestModel
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&contest); err != nil {
		return nil, err
	}
	return &contest, nil
}

// Insert 新增竞赛
func (r *ContestRepository) Insert(ctx context.Context, contest *model.ContestModel) error {
	contest.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, contest)
	if err != nil {
		return fmt.Errorf("failed to insert contest: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		contest.Id = oid
	}
	return nil
}

// List 获取全部竞赛
func (r *ContestRepository) List(ctx context.Context) ([]model.ContestModel, error) {
	return r.find(ctx, bson.M{})
}

// ListByEmail 按创建者邮箱获取竞赛
func (r *ContestRepository) ListByEmail(ctx context.Context, email string) ([]model.ContestModel, error) {
	return r.find(ctx, bson.M{"email": email})
}

// SearchByTag 按标签模糊搜索，大小写不敏感
func (r *ContestRepository) SearchByTag(ctx context.Context, query string) ([]model.ContestModel, error) {
	return r.find(ctx, bson.M{"tag": bson.M{"$regex": query, "$options": "i"}})
}

func (r *ContestRepository) find(ctx context.Context, filter bson.M) ([]model.ContestModel, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query contests: %w", err)
	}

	var contests []model.ContestModel
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("failed to decode contests: %w", err)
	}
	return contests, nil
}

// TopCreators 按创建者聚合，返回参与度最高的前几名
func (r *ContestRepository) TopCreators(ctx context.Context, limit int) ([]model.TopCreator, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":               "$email",
			"totalContests":     bson.M{"$sum": 1},
			"totalParticipants": bson.M{"$sum": "$participant"},
			"recentContest":     bson.M{"$last": "$contestName"},
			"authorImage":       bson.M{"$last": "$contestImage"},
		}}},
		{{Key: "$sort", Value: bson.M{"totalParticipants": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top creators: %w", err)
	}

	var creators []model.TopCreator
	if err := cursor.All(ctx, &creators); err != nil {
		return nil, fmt.Errorf("failed to decode top creators: %w", err)
	}
	return creators, nil
}

// Update 更新指定字段
func (r *ContestRepository) Update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid contest id %q: %w", id, err)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update contest: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus 更新竞赛状态
func (r *ContestRepository) SetStatus(ctx context.Context, id string, status model.ContestStatus) error {
	return r.Update(ctx, id, bson.M{"status": status})
}

// IncrementParticipants 原子递增参赛人数
func (r *ContestRepository) IncrementParticipants(ctx context.Context, id string, delta int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid contest id %q: %w", id, err)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"participant": delta}})
	if err != nil {
		return fmt.Errorf("failed to increment participants: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete 删除竞赛
func (r *ContestRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid contest id %q: %w", id, err)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete contest: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
