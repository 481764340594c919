package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/config"
	"github.com/JAKUAN-AHMED/AlgoArena-server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// 集成测试需要真实MongoDB，设置MONGO_TEST_URI后运行
func newTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping integration test")
	}

	store, err := Init(config.MongoConfig{URI: uri, Database: "algoarena_test"})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.Database.Drop(ctx)
		_ = store.Close(ctx)
	})

	return store
}

func TestPaymentRepository_TransitionIsExclusive(t *testing.T) {
	store := newTestStore(t)
	repo := NewPaymentRepository(store)
	ctx := context.Background()

	payment := &model.PaymentModel{
		TransactionId: uuid.NewString(),
		Name:          "Alice",
		Email:         "a@x.com",
		Author:        "author@x.com",
		ContestId:     "64f000000000000000000001",
		ContestName:   "Algo Sprint",
		EntryFee:      100,
		Status:        model.PaymentStatusPending,
	}
	require.NoError(t, repo.Insert(ctx, payment))
	assert.False(t, payment.Id.IsZero())

	found, err := repo.FindByTransactionID(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, found.Status)
	assert.Equal(t, int64(100), found.EntryFee)

	// 第一次迁移成功，重复迁移返回false
	won, err := repo.MarkSuccessIfPending(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.MarkSuccessIfPending(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.False(t, won)

	won, err = repo.MarkFailedIfPending(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.False(t, won)

	found, err = repo.FindByTransactionID(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccess, found.Status)
}

func TestPaymentRepository_UncreditedLifecycle(t *testing.T) {
	store := newTestStore(t)
	repo := NewPaymentRepository(store)
	ctx := context.Background()

	payment := &model.PaymentModel{
		TransactionId: uuid.NewString(),
		Name:          "Alice",
		Email:         "a@x.com",
		ContestId:     "64f000000000000000000001",
		EntryFee:      100,
		Status:        model.PaymentStatusPending,
	}
	require.NoError(t, repo.Insert(ctx, payment))

	_, err := repo.MarkSuccessIfPending(ctx, payment.TransactionId)
	require.NoError(t, err)

	uncredited, err := repo.FindUncredited(ctx)
	require.NoError(t, err)
	require.Len(t, uncredited, 1)
	assert.Equal(t, payment.TransactionId, uncredited[0].TransactionId)

	// 标记只能被抢到一次
	won, err := repo.MarkCreditedIfUncredited(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.MarkCreditedIfUncredited(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.False(t, won)

	uncredited, err = repo.FindUncredited(ctx)
	require.NoError(t, err)
	assert.Empty(t, uncredited)

	// 回滚后可重新被抢
	require.NoError(t, repo.ClearCredited(ctx, payment.TransactionId))
	won, err = repo.MarkCreditedIfUncredited(ctx, payment.TransactionId)
	require.NoError(t, err)
	assert.True(t, won)
}

func TestPaymentRepository_ExpirePendingBefore(t *testing.T) {
	store := newTestStore(t)
	repo := NewPaymentRepository(store)
	ctx := context.Background()

	stale := &model.PaymentModel{
		TransactionId: uuid.NewString(),
		Name:          "Alice",
		Email:         "a@x.com",
		Status:        model.PaymentStatusPending,
	}
	require.NoError(t, repo.Insert(ctx, stale))

	fresh := &model.PaymentModel{
		TransactionId: uuid.NewString(),
		Name:          "Bob",
		Email:         "b@x.com",
		Status:        model.PaymentStatusPending,
	}
	require.NoError(t, repo.Insert(ctx, fresh))

	// 只有cutoff之前创建的pending记录被置失败
	time.Sleep(50 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(50 * time.Millisecond)

	late := &model.PaymentModel{
		TransactionId: uuid.NewString(),
		Name:          "Carol",
		Email:         "c@x.com",
		Status:        model.PaymentStatusPending,
	}
	require.NoError(t, repo.Insert(ctx, late))

	expired, err := repo.ExpirePendingBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), expired)

	found, err := repo.FindByTransactionID(ctx, late.TransactionId)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, found.Status)
}

func TestContestRepository_IncrementAndSearch(t *testing.T) {
	store := newTestStore(t)
	repo := NewContestRepository(store)
	ctx := context.Background()

	contest := &model.ContestModel{
		ContestName: "Algo Sprint",
		Email:       "author@x.com",
		Tag:         "Algorithms",
		EntryFee:    100,
		Status:      model.ContestStatusPending,
	}
	require.NoError(t, repo.Insert(ctx, contest))
	require.False(t, contest.Id.IsZero())
	id := contest.Id.Hex()

	require.NoError(t, repo.IncrementParticipants(ctx, id, 1))
	require.NoError(t, repo.IncrementParticipants(ctx, id, 1))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Participant)

	// 标签搜索不区分大小写
	matches, err := repo.SearchByTag(ctx, "algo")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Algo Sprint", matches[0].ContestName)

	require.NoError(t, repo.SetStatus(ctx, id, model.ContestStatusSuccess))
	found, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ContestStatusSuccess, found.Status)
}

func TestContestRepository_TopCreators(t *testing.T) {
	store := newTestStore(t)
	repo := NewContestRepository(store)
	ctx := context.Background()

	seed := []model.ContestModel{
		{ContestName: "A", Email: "one@x.com", Participant: 5},
		{ContestName: "B", Email: "one@x.com", Participant: 3},
		{ContestName: "C", Email: "two@x.com", Participant: 4},
		{ContestName: "D", Email: "three@x.com", Participant: 1},
	}
	for i := range seed {
		require.NoError(t, repo.Insert(ctx, &seed[i]))
	}

	creators, err := repo.TopCreators(ctx, 2)
	require.NoError(t, err)
	require.Len(t, creators, 2)
	assert.Equal(t, "one@x.com", creators[0].Email)
	assert.Equal(t, int64(8), creators[0].TotalParticipants)
	assert.Equal(t, int64(2), creators[0].TotalContests)
	assert.Equal(t, "two@x.com", creators[1].Email)
}

func TestUserRepository_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	user := &model.UserModel{Name: "Alice", Email: "a@x.com", Role: model.RoleUser}
	require.NoError(t, repo.Insert(ctx, user))
	require.False(t, user.Id.IsZero())
	id := user.Id.Hex()

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)

	_, err = repo.FindAdmin(ctx)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	require.NoError(t, repo.UpdateRole(ctx, id, model.RoleAdmin))
	admin, err := repo.FindAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, admin.Id.Hex())

	require.NoError(t, repo.DemoteAdmins(ctx))
	_, err = repo.FindAdmin(ctx)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	require.NoError(t, repo.UpdateBlocked(ctx, id, true))
	found, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, found.Blocked)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
