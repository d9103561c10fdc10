package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/service"
)

func knownAuthors(subscribed *bool, ids ...uuid.UUID) *mockUserRepo {
	return &mockUserRepo{
		getAuthor: func(_ context.Context, id, _ uuid.UUID) (domain.Author, error) {
			for _, known := range ids {
				if known == id {
					return domain.Author{ID: id, Username: "chef", IsSubscribed: *subscribed}, nil
				}
			}
			return domain.Author{}, domain.ErrNotFound
		},
	}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	v := user()
	authorID := uuid.New()
	subscribed := false
	var gotLimit int
	subs := &mockSubscriptionRepo{
		add: func(_ context.Context, userID, aID uuid.UUID) (time.Time, error) {
			assert.Equal(t, v.ID, userID)
			assert.Equal(t, authorID, aID)
			subscribed = true
			return time.Now(), nil
		},
		previews: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.RecipeSummary, int, error) {
			gotLimit = limit
			return []domain.RecipeSummary{{Name: "Pancakes"}}, 5, nil
		},
	}
	users := knownAuthors(&subscribed, authorID)
	lookups := 0
	getAuthor := users.getAuthor
	users.getAuthor = func(ctx context.Context, id, viewerID uuid.UUID) (domain.Author, error) {
		lookups++
		return getAuthor(ctx, id, viewerID)
	}
	svc := service.NewSubscriptionService(subs, users)

	got, err := svc.Subscribe(context.Background(), v, authorID, nil)

	require.NoError(t, err)
	assert.True(t, got.Author.IsSubscribed)
	assert.Equal(t, "chef", got.Author.Username)
	assert.Equal(t, 1, lookups, "author is looked up once")
	assert.Equal(t, 5, got.RecipesCount)
	assert.Len(t, got.Recipes, 1)
	assert.Equal(t, domain.DefaultRecipesLimit, gotLimit)
}

func TestSubscriptionService_Subscribe_SelfAlwaysFails(t *testing.T) {
	// Neither repo may be reached.
	svc := service.NewSubscriptionService(&mockSubscriptionRepo{}, &mockUserRepo{})

	for i := 0; i < 3; i++ {
		v := user()
		_, err := svc.Subscribe(context.Background(), v, v.ID, nil)
		assert.ErrorIs(t, err, domain.ErrSelfSubscription)
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
}

func TestSubscriptionService_Subscribe_MissingAuthor(t *testing.T) {
	subscribed := false
	svc := service.NewSubscriptionService(&mockSubscriptionRepo{}, knownAuthors(&subscribed))

	_, err := svc.Subscribe(context.Background(), user(), uuid.New(), nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscriptionService_Subscribe_Twice(t *testing.T) {
	authorID := uuid.New()
	subscribed := true
	subs := &mockSubscriptionRepo{
		add: func(_ context.Context, _, _ uuid.UUID) (time.Time, error) {
			return time.Time{}, domain.ErrConflict
		},
	}
	svc := service.NewSubscriptionService(subs, knownAuthors(&subscribed, authorID))

	_, err := svc.Subscribe(context.Background(), user(), authorID, nil)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrSelfSubscription)
}

func TestSubscriptionService_List_NormalizesLimit(t *testing.T) {
	var gotLimit int
	subs := &mockSubscriptionRepo{
		list: func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams, limit int) ([]domain.Subscription, int64, error) {
			gotLimit = limit
			return nil, 0, nil
		},
	}
	svc := service.NewSubscriptionService(subs, &mockUserRepo{})
	huge := 1000

	page, err := svc.List(context.Background(), user(), domain.NewPaginationParams(nil, nil), &huge)

	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageLimit, gotLimit)
	assert.NotNil(t, page.Items)
}

func TestSubscriptionService_Unsubscribe_Missing(t *testing.T) {
	subs := &mockSubscriptionRepo{
		remove: func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrNotFound },
	}
	svc := service.NewSubscriptionService(subs, &mockUserRepo{})

	err := svc.Unsubscribe(context.Background(), user(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
