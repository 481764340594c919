package logic

import (
	"context"
	"sync"
	"testing"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeUserStore 内存版用户存储
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.UserModel
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.UserModel)}
}

func (f *fakeUserStore) add(user *model.UserModel) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	f.users[user.Id.Hex()] = user
	return user.Id.Hex()
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*model.UserModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.UserModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) Insert(_ context.Context, user *model.UserModel) error {
	f.add(user)
	return nil
}

func (f *fakeUserStore) List(_ context.Context) ([]model.UserModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.UserModel
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserStore) UpdateBlocked(_ context.Context, id string, blocked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Blocked = blocked
	return nil
}

func (f *fakeUserStore) UpdateRole(_ context.Context, id string, role model.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Role = role
	return nil
}

func (f *fakeUserStore) DemoteAdmins(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Role == model.RoleAdmin {
			user.Role = model.RoleUser
		}
	}
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) adminCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, user := range f.users {
		if user.Role == model.RoleAdmin {
			n++
		}
	}
	return n
}

func TestCreateUser(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	created, err := l.CreateUser(context.Background(), &model.UserModel{Name: "Alice", Email: "a@x.com"})
	require.NoError(t, err)
	assert.True(t, created)

	stored, err := users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, stored.Role)

	// 重复注册不创建新记录
	created, err = l.CreateUser(context.Background(), &model.UserModel{Name: "Alice Again", Email: "a@x.com"})
	require.NoError(t, err)
	assert.False(t, created)

	all, err := l.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = l.CreateUser(context.Background(), &model.UserModel{Name: "NoMail"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToggleBlock(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	adminID := users.add(&model.UserModel{Email: "admin@x.com", Role: model.RoleAdmin})
	targetID := users.add(&model.UserModel{Email: "u@x.com", Role: model.RoleUser})
	plainID := users.add(&model.UserModel{Email: "p@x.com", Role: model.RoleUser})

	blocked, err := l.ToggleBlock(context.Background(), adminID, targetID)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = l.ToggleBlock(context.Background(), adminID, targetID)
	require.NoError(t, err)
	assert.False(t, blocked)

	// 普通用户无权操作
	_, err = l.ToggleBlock(context.Background(), plainID, targetID)
	assert.ErrorIs(t, err, ErrForbidden)

	// 不存在的操作者
	_, err = l.ToggleBlock(context.Background(), primitive.NewObjectID().Hex(), targetID)
	assert.ErrorIs(t, err, ErrForbidden)

	// 不存在的目标
	_, err = l.ToggleBlock(context.Background(), adminID, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeRole_SingleAdminInvariant(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	adminID := users.add(&model.UserModel{Email: "admin@x.com", Role: model.RoleAdmin})
	targetID := users.add(&model.UserModel{Email: "u@x.com", Role: model.RoleUser})

	// 提升新管理员时现任管理员自动降级
	require.NoError(t, l.ChangeRole(context.Background(), adminID, targetID, model.RoleAdmin))
	assert.Equal(t, 1, users.adminCount())

	oldAdmin, err := users.FindByID(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, oldAdmin.Role)

	newAdmin, err := users.FindByID(context.Background(), targetID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, newAdmin.Role)
}

func TestChangeRole_RepairsDuplicateAdmins(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	// 脏数据：两个管理员并存，提升后必须收敛到一个
	adminID := users.add(&model.UserModel{Email: "admin1@x.com", Role: model.RoleAdmin})
	users.add(&model.UserModel{Email: "admin2@x.com", Role: model.RoleAdmin})
	targetID := users.add(&model.UserModel{Email: "u@x.com", Role: model.RoleUser})

	require.NoError(t, l.ChangeRole(context.Background(), adminID, targetID, model.RoleAdmin))
	assert.Equal(t, 1, users.adminCount())

	promoted, err := users.FindByID(context.Background(), targetID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
}

func TestChangeRole_SelfPromotionIsNoop(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	adminID := users.add(&model.UserModel{Email: "admin@x.com", Role: model.RoleAdmin})

	// 管理员给自己重设管理员角色不得导致降级
	require.NoError(t, l.ChangeRole(context.Background(), adminID, adminID, model.RoleAdmin))
	assert.Equal(t, 1, users.adminCount())
}

func TestChangeRole_Errors(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	adminID := users.add(&model.UserModel{Email: "admin@x.com", Role: model.RoleAdmin})
	targetID := users.add(&model.UserModel{Email: "u@x.com", Role: model.RoleUser})
	plainID := users.add(&model.UserModel{Email: "p@x.com", Role: model.RoleUser})

	err := l.ChangeRole(context.Background(), adminID, targetID, "SuperUser")
	assert.ErrorIs(t, err, ErrValidation)

	err = l.ChangeRole(context.Background(), plainID, targetID, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	err = l.ChangeRole(context.Background(), adminID, primitive.NewObjectID().Hex(), model.RoleUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserStore()
	l := NewUserLogic(users)

	adminID := users.add(&model.UserModel{Email: "admin@x.com", Role: model.RoleAdmin})
	targetID := users.add(&model.UserModel{Email: "u@x.com", Role: model.RoleUser})

	require.NoError(t, l.DeleteUser(context.Background(), adminID, targetID))

	_, err := users.FindByID(context.Background(), targetID)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	err = l.DeleteUser(context.Background(), adminID, targetID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = l.DeleteUser(context.Background(), targetID, adminID)
	assert.ErrorIs(t, err, ErrForbidden)
}
