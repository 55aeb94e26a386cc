package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-booking/internal/domain"
	apperrors "github.com/spec-kit/ticket-booking/pkg/util"
)

func seed(t *testing.T, ids ...string) TicketRepository {
	t.Helper()
	repo := NewTicketRepository()
	for _, id := range ids {
		require.NoError(t, repo.Create(context.Background(), &domain.Ticket{ID: id, EventID: "ev-" + id}))
	}
	return repo
}

func TestCreate_RejectsDuplicateID(t *testing.T) {
	repo := seed(t, "tick001")
	err := repo.Create(context.Background(), &domain.Ticket{ID: "tick001"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Equal(t, 1, repo.Count(context.Background()))
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := seed(t, "tick001")

	got, err := repo.GetByID(ctx, "tick001")
	require.NoError(t, err)
	got.Priority = 42

	again, err := repo.GetByID(ctx, "tick001")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Priority)

	require.NoError(t, repo.Update(ctx, got))
	again, err = repo.GetByID(ctx, "tick001")
	require.NoError(t, err)
	assert.Equal(t, 42, again.Priority)
}

func TestMissingIDs(t *testing.T) {
	ctx := context.Background()
	repo := seed(t, "tick001")

	_, err := repo.GetByID(ctx, "nope")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.True(t, apperrors.IsCode(repo.Update(ctx, &domain.Ticket{ID: "nope"}), apperrors.CodeNotFound))
	assert.True(t, apperrors.IsCode(repo.Delete(ctx, "nope"), apperrors.CodeNotFound))
	assert.False(t, repo.Exists(ctx, "nope"))
	assert.Equal(t, 1, repo.Count(ctx))
}

func TestDeleteMany_RemovesOnlyListed(t *testing.T) {
	ctx := context.Background()
	repo := seed(t, "a", "b", "c", "d")

	removed := repo.DeleteMany(ctx, []string{"b", "d", "missing"})
	assert.Equal(t, 2, removed)

	var left []string
	for _, tk := range repo.List(ctx) {
		left = append(left, tk.ID)
	}
	assert.Equal(t, []string{"a", "c"}, left)
	assert.Zero(t, repo.DeleteMany(ctx, nil))
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	repo := seed(t, "a", "b")

	require.NoError(t, repo.Replace(ctx, []domain.Ticket{{ID: "b"}, {ID: "a"}}))
	list := repo.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	err := repo.Replace(ctx, []domain.Ticket{{ID: "x"}, {ID: "x"}})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Len(t, repo.List(ctx), 2, "failed replace leaves the collection untouched")
}
