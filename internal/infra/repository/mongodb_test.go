package repository_test

import (
	"context"
	"testing"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestPageKey(t *testing.T) {
	assert.Equal(t, "cats|2", repository.PageKey("cats", 2))
	assert.Equal(t, "|1", repository.PageKey("", 1))
}

func TestMongoArchive_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:6")
	require.NoError(t, err)
	defer func() {
		if err := mongodbContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	require.NoError(t, err)
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("failed to disconnect client: %s", err)
		}
	}()

	archive, err := repository.NewMongoArchive(client, "test_photo_search", "pages")
	require.NoError(t, err)

	thumb := "https://live.staticflickr.com/1_q.jpg"

	t.Run("Save and Find", func(t *testing.T) {
		page := &domain.Page{
			PageNumber: 1,
			TotalPages: 3,
			PerPage:    100,
			TotalCount: "300",
			Items: []domain.Item{
				{ID: "1", Title: "first", ThumbnailURL: &thumb},
				{ID: "2", Title: "second"},
			},
		}

		require.NoError(t, archive.Save(ctx, "cats", page))

		stored, err := archive.Find(ctx, "cats", 1)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "cats|1", stored.ID)
		assert.Equal(t, "cats", stored.Query)
		assert.Equal(t, "300", stored.Page.TotalCount)
		require.Len(t, stored.Page.Items, 2)
		assert.Equal(t, thumb, *stored.Page.Items[0].ThumbnailURL)
		assert.Nil(t, stored.Page.Items[1].ThumbnailURL)
		assert.False(t, stored.FetchedAt.IsZero())
	})

	t.Run("Save replaces the same page", func(t *testing.T) {
		require.NoError(t, archive.Save(ctx, "", &domain.Page{PageNumber: 1, TotalPages: 1, Items: []domain.Item{{ID: "old"}}}))
		require.NoError(t, archive.Save(ctx, "", &domain.Page{PageNumber: 1, TotalPages: 1, Items: []domain.Item{{ID: "new"}}}))

		stored, err := archive.Find(ctx, "", 1)
		require.NoError(t, err)
		require.Len(t, stored.Page.Items, 1)
		assert.Equal(t, "new", stored.Page.Items[0].ID)

		count, err := client.Database("test_photo_search").Collection("pages").CountDocuments(ctx, map[string]string{"_id": "|1"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("Find missing page", func(t *testing.T) {
		stored, err := archive.Find(ctx, "nothing", 9)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}
