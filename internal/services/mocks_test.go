package services

import (
	"context"

	"github.com/ruralpay/cashbook/internal/blob"
	"github.com/ruralpay/cashbook/internal/events"
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/ruralpay/cashbook/internal/services/servicestest"
	"github.com/stretchr/testify/mock"
)

var pngBytes = servicestest.PNG

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, path string, obj blob.Object) error {
	args := m.Called(ctx, path, obj)
	return args.Error(0)
}

func (m *MockBlobStore) Get(ctx context.Context, path string) (blob.Object, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(blob.Object), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockBlobStore) PublicURL(path string) string {
	return "https://blobs.test/" + path
}

type MockAttachmentRepo struct {
	mock.Mock
}

func (m *MockAttachmentRepo) Upsert(ctx context.Context, row models.AttachmentRow) (models.AttachmentRow, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(models.AttachmentRow), args.Error(1)
}

func (m *MockAttachmentRepo) Delete(ctx context.Context, accountID, entryID, id string) (string, error) {
	args := m.Called(ctx, accountID, entryID, id)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, change events.Change) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}
