package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/src/core/domain"
	"marketplace/src/infra/logger"
	"marketplace/src/infra/repo"
)

func TestUserProfileService(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	svc := NewUserProfileService(repo.NewMemoryUserProfileRepository(), publisher, logger.Discard())

	view, err := svc.Register(ctx, RegisterUserInput{FullName: " Ada Lovelace ", DisplayName: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", view.FullName)

	_, err = svc.Register(ctx, RegisterUserInput{ID: view.ID, FullName: "Other", DisplayName: "other"})
	assert.True(t, domain.IsConflict(err))

	updated, err := svc.UpdateDisplayName(ctx, view.ID, "countess")
	require.NoError(t, err)
	assert.Equal(t, "countess", updated.DisplayName)

	_, err = svc.UpdateFullName(ctx, view.ID, "")
	assert.True(t, domain.IsValidationError(err))

	got, err := svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = svc.UpdateFullName(ctx, uuid.NewString(), "Someone")
	assert.True(t, domain.IsNotFound(err))

	assert.Equal(t, []string{"UserRegistered", "UserDisplayNameUpdated"}, publisher.types())
}
