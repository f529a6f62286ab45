package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanops-backend/internal/domain"
	"cleanops-backend/internal/storage"
)

func TestWorkOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkOrderRepository(storage.NewMemoryStore())

	t.Run("CreateAssignsIDAndTimestamps", func(t *testing.T) {
		wo := &domain.WorkOrder{CustomerID: "c1", Date: "2024-03-15", Status: domain.WorkOrderStatusDraft}
		require.NoError(t, repo.Create(ctx, wo))
		assert.NotEmpty(t, wo.ID)
		assert.False(t, wo.CreatedOn.IsZero())

		got, err := repo.GetByID(ctx, wo.ID)
		require.NoError(t, err)
		assert.Equal(t, wo.CustomerID, got.CustomerID)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListByStatus", func(t *testing.T) {
		repo := NewWorkOrderRepository(storage.NewMemoryStore())
		draft := &domain.WorkOrder{Date: "2024-03-15", Status: domain.WorkOrderStatusDraft}
		approved := &domain.WorkOrder{Date: "2024-03-16", Status: domain.WorkOrderStatusApproved}
		require.NoError(t, repo.Create(ctx, draft))
		require.NoError(t, repo.Create(ctx, approved))

		drafts, err := repo.ListByStatus(ctx, domain.WorkOrderStatusDraft)
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, draft.ID, drafts[0].ID)
	})
}

func TestTransactionRepository_Scoping(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(storage.NewMemoryStore())

	woTx := &domain.Transaction{Type: domain.TransactionTypeIncome, AmountCents: 100, Date: "2024-03-15",
		Category: domain.CategoryWorkOrder, RelatedWorkOrderID: "wo1"}
	payrollTx := &domain.Transaction{Type: domain.TransactionTypeExpense, AmountCents: 50, Date: "2024-03-15",
		Category: domain.CategoryPayroll, RelatedPersonnelID: "p1"}
	looseTx := &domain.Transaction{Type: domain.TransactionTypeExpense, AmountCents: 20, Date: "2024-03-15",
		Category: "supplies"}
	require.NoError(t, repo.Create(ctx, woTx))
	require.NoError(t, repo.Create(ctx, payrollTx))
	require.NoError(t, repo.Create(ctx, looseTx))

	byOrder, err := repo.ListByWorkOrder(ctx, "wo1")
	require.NoError(t, err)
	require.Len(t, byOrder, 1)
	assert.Equal(t, woTx.ID, byOrder[0].ID)

	byPerson, err := repo.ListByPersonnel(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, byPerson, 1)
	assert.Equal(t, payrollTx.ID, byPerson[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.DeleteByWorkOrder(ctx, "wo1"))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCollectionRepository_DeleteByWorkOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewCollectionRepository(storage.NewMemoryStore())

	require.NoError(t, repo.Create(ctx, &domain.Collection{AmountCents: 100, Date: "2024-03-15", RelatedWorkOrderID: "wo1"}))
	require.NoError(t, repo.Create(ctx, &domain.Collection{AmountCents: 200, Date: "2024-03-15", RelatedWorkOrderID: "wo2"}))

	require.NoError(t, repo.DeleteByWorkOrder(ctx, "wo1"))

	left, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "wo2", left[0].RelatedWorkOrderID)
}

func TestPayrollRepository_LatestBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(storage.NewMemoryStore())

	for _, rec := range []*domain.PayrollRecord{
		{PersonnelID: "p1", Date: "2024-03-01", BalanceCents: 100},
		{PersonnelID: "p1", Date: "2024-03-05", BalanceCents: 250},
		{PersonnelID: "p1", Date: "2024-03-10", BalanceCents: 400},
		{PersonnelID: "p2", Date: "2024-03-07", BalanceCents: 999},
	} {
		require.NoError(t, repo.Upsert(ctx, rec))
	}

	t.Run("PicksLastRecordStrictlyBeforeCutoff", func(t *testing.T) {
		prev, err := repo.LatestBefore(ctx, "p1", "2024-03-10")
		require.NoError(t, err)
		require.NotNil(t, prev)
		assert.Equal(t, "2024-03-05", prev.Date)
		assert.Equal(t, int64(250), prev.BalanceCents)
	})

	t.Run("CutoffPastHistoryPicksNewest", func(t *testing.T) {
		prev, err := repo.LatestBefore(ctx, "p1", "2024-04-01")
		require.NoError(t, err)
		require.NotNil(t, prev)
		assert.Equal(t, "2024-03-10", prev.Date)
	})

	t.Run("NoEarlierHistory", func(t *testing.T) {
		prev, err := repo.LatestBefore(ctx, "p1", "2024-03-01")
		require.NoError(t, err)
		assert.Nil(t, prev)
	})

	t.Run("OtherPersonnelIgnored", func(t *testing.T) {
		prev, err := repo.LatestBefore(ctx, "p2", "2024-03-31")
		require.NoError(t, err)
		require.NotNil(t, prev)
		assert.Equal(t, int64(999), prev.BalanceCents)
	})
}

func TestPayrollRepository_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(storage.NewMemoryStore())

	require.NoError(t, repo.Upsert(ctx, &domain.PayrollRecord{PersonnelID: "p1", Date: "2024-03-01", BalanceCents: 100}))
	require.NoError(t, repo.Upsert(ctx, &domain.PayrollRecord{PersonnelID: "p1", Date: "2024-03-01", BalanceCents: 150}))

	got, err := repo.Get(ctx, "p1", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.BalanceCents)

	recs, err := repo.ListByPersonnel(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
