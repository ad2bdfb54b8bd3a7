package integrity

import (
	"context"
	"testing"

	"showtime-manager/core/database"
	"showtime-manager/core/storage"
	"showtime-manager/core/storage/mocks"
	"showtime-manager/feature/showtimes/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testStorage = storage.Config{Bucket: "test-bucket", BatchPrefix: "batches/", ArchivePrefix: "archive/"}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, testStorage, zap.NewNop(), nil)

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Objects())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"batches", "archive"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "batches/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"batches"})
		assert.NoError(t, err)
	})
}

func TestService_Schema(t *testing.T) {
	t.Run("No Database", func(t *testing.T) {
		svc := NewService(new(mocks.Client), testStorage, zap.NewNop(), nil)
		_, err := svc.CheckSchema()
		assert.Error(t, err)
	})

	t.Run("Migrated", func(t *testing.T) {
		svc := NewService(new(mocks.Client), testStorage, zap.NewNop(), setupTestDB(t))
		report, err := svc.CheckSchema()
		require.NoError(t, err)
		assert.True(t, report.Matched)
	})
}

func TestService_Batches(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, testStorage, zap.NewNop(), nil)

	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "batches/"
	})).Return(mocks.Objects("batches/empty.json"))
	mockClient.On("GetObject", mock.Anything, "test-bucket", "batches/empty.json", mock.Anything).Return(mocks.Body([]byte("[]")), nil)

	reports, err := svc.CheckBatches(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Valid)
	assert.Zero(t, reports[0].Cinemas)
}
