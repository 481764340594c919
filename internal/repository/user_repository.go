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

// UserRepository 用户集合访问
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository 创建用户仓库
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{col: s.Collections.Users}
}

// FindByID 按ID查询用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.UserModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", id, err)
	}

	var user model.UserModel
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 按邮箱查询用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAdmin 查询当前管理员，不存在时返回 mongo.ErrNoDocuments
func (r *UserRepository) FindAdmin(ctx context.Context) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.col.FindOne(ctx, bson.M{"role": model.RoleAdmin}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Insert 新增用户
func (r *UserRepository) Insert(ctx context.Context, user *model.UserModel) error {
	user.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.Id = oid
	}
	return nil
}

// List 获取全部用户
func (r *UserRepository) List(ctx context.Context) ([]model.UserModel, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var users []model.UserModel
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateBlocked 更新封禁状态
func (r *UserRepository) UpdateBlocked(ctx context.Context, id string, blocked bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", id, err)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"blocked": blocked}})
	if err != nil {
		return fmt.Errorf("failed to update blocked flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateRole 更新用户角色
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.UserRole) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", id, err)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DemoteAdmins 将现任管理员降级为普通用户
func (r *UserRepository) DemoteAdmins(ctx context.Context) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"role": model.RoleAdmin}, bson.M{"$set": bson.M{"role": model.RoleUser}})
	if err != nil {
		return fmt.Errorf("failed to demote admins: %w", err)
	}
	return nil
}

// Delete 删除用户
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", id, err)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
