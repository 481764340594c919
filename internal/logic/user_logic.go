package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore 用户存取接口
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.UserModel, error)
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	Insert(ctx context.Context, user *model.UserModel) error
	List(ctx context.Context) ([]model.UserModel, error)
	UpdateBlocked(ctx context.Context, id string, blocked bool) error
	UpdateRole(ctx context.Context, id string, role model.UserRole) error
	DemoteAdmins(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// UserLogic 用户业务逻辑
type UserLogic struct {
	users UserStore
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(users UserStore) *UserLogic {
	return &UserLogic{users: users}
}

// CreateUser 注册用户，邮箱已存在时不重复创建，返回是否新建
func (l *UserLogic) CreateUser(ctx context.Context, user *model.UserModel) (bool, error) {
	if user.Email == "" {
		return false, fmt.Errorf("email is required: %w", ErrValidation)
	}

	_, err := l.users.FindByEmail(ctx, user.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}

	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if err := l.users.Insert(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// GetUsers 获取全部用户
func (l *UserLogic) GetUsers(ctx context.Context) ([]model.UserModel, error) {
	return l.users.List(ctx)
}

// ToggleBlock 切换目标用户的封禁状态，仅管理员可操作，返回切换后的状态
func (l *UserLogic) ToggleBlock(ctx context.Context, actorID string, targetID string) (bool, error) {
	if err := l.requireAdmin(ctx, actorID); err != nil {
		return false, err
	}

	target, err := l.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		}
		return false, err
	}

	newBlocked := !target.Blocked
	if err := l.users.UpdateBlocked(ctx, targetID, newBlocked); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		}
		return false, err
	}
	return newBlocked, nil
}

// ChangeRole 变更目标用户角色，仅管理员可操作。
// 提升为管理员时先降级现任管理员，保证任意时刻至多一个管理员
func (l *UserLogic) ChangeRole(ctx context.Context, actorID string, targetID string, role model.UserRole) error {
	if !role.Valid() {
		return fmt.Errorf("role %q is invalid: %w", role, ErrValidation)
	}

	if err := l.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if _, err := l.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		}
		return err
	}

	// 先降级现任管理员再提升，任意时刻至多一个管理员
	if role == model.RoleAdmin {
		if err := l.users.DemoteAdmins(ctx); err != nil {
			return fmt.Errorf("failed to demote current admin: %w", err)
		}
	}

	if err := l.users.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		}
		return err
	}
	return nil
}

// DeleteUser 删除用户，仅管理员可操作
func (l *UserLogic) DeleteUser(ctx context.Context, actorID string, targetID string) error {
	if err := l.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := l.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		}
		return err
	}
	return nil
}

// requireAdmin 校验操作者为管理员
func (l *UserLogic) requireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return fmt.Errorf("actor id is required: %w", ErrValidation)
	}

	actor, err := l.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("actor %s is not an admin: %w", actorID, ErrForbidden)
		}
		return err
	}
	if actor.Role != model.RoleAdmin {
		return fmt.Errorf("actor %s is not an admin: %w", actorID, ErrForbidden)
	}
	return nil
}
