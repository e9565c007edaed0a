package service

import (
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDocumentStore struct {
	docs      map[string]*model.Document
	insertErr error
	inserted  []*model.Document
	deleted   []string
}

func (f *fakeDocumentStore) ListByClient(ctx context.Context, clientID, moveID string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range f.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDocumentStore) GetByID(ctx context.Context, clientID, id string) (*model.Document, error) {
	return f.docs[id], nil
}

func (f *fakeDocumentStore) Insert(ctx context.Context, clientID string, doc *model.Document) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, doc)
	return nil
}

func (f *fakeDocumentStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBlobStorage struct {
	storeCalls  int
	deleteCalls []string
	storeErr    error
}

func (f *fakeBlobStorage) Store(ctx context.Context, file *multipart.FileHeader, moveID string) (*storage.Blob, error) {
	f.storeCalls++
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	return &storage.Blob{
		Path: "documents/" + moveID + "/blob",
		URL:  "http://localhost/files/documents/" + moveID + "/blob",
		Size: 42,
	}, nil
}

func (f *fakeBlobStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, nil
}

func (f *fakeBlobStorage) Delete(ctx context.Context, path string) error {
	f.deleteCalls = append(f.deleteCalls, path)
	return nil
}

func pdfHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     42,
		Header:   textproto.MIMEHeader{"Content-Type": []string{"application/pdf"}},
	}
}

func ownedMove(id, clientID string) *fakeMoves {
	return &fakeMoves{moves: map[string]*model.Move{
		id: {ID: id, ClientID: clientID, Status: model.StatusScheduled},
	}}
}

func TestUploadRequiresMoveID(t *testing.T) {
	blobs := &fakeBlobStorage{}
	svc := NewDocumentService(&fakeDocumentStore{}, ownedMove("m1", "c1"), blobs, &fakeActivityLog{}, zap.NewNop())

	_, err := svc.Upload(context.Background(), "c1", "", pdfHeader("contract.pdf"))
	assert.ErrorIs(t, err, ErrMoveRequired)
	assert.Equal(t, 0, blobs.storeCalls)
}

func TestUploadRejectsForeignMove(t *testing.T) {
	blobs := &fakeBlobStorage{}
	svc := NewDocumentService(&fakeDocumentStore{}, ownedMove("m1", "someone-else"), blobs, &fakeActivityLog{}, zap.NewNop())

	_, err := svc.Upload(context.Background(), "c1", "m1", pdfHeader("contract.pdf"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, blobs.storeCalls)
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	docs := &fakeDocumentStore{}
	blobs := &fakeBlobStorage{}
	activity := &fakeActivityLog{}
	svc := NewDocumentService(docs, ownedMove("m1", "c1"), blobs, activity, zap.NewNop())

	doc, err := svc.Upload(context.Background(), "c1", "m1", pdfHeader("contract.pdf"))
	require.NoError(t, err)

	assert.Equal(t, "contract.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, int64(42), doc.FileSize)
	require.Len(t, docs.inserted, 1)
	assert.Empty(t, blobs.deleteCalls)
	assert.Equal(t, []string{"document_uploaded"}, activity.actions)
}

func TestUploadRemovesBlobWhenInsertFails(t *testing.T) {
	docs := &fakeDocumentStore{insertErr: assert.AnError}
	blobs := &fakeBlobStorage{}
	svc := NewDocumentService(docs, ownedMove("m1", "c1"), blobs, &fakeActivityLog{}, zap.NewNop())

	_, err := svc.Upload(context.Background(), "c1", "m1", pdfHeader("contract.pdf"))
	require.Error(t, err)

	require.Len(t, blobs.deleteCalls, 1)
	assert.Equal(t, "documents/m1/blob", blobs.deleteCalls[0])
}

func TestDeleteRemovesRowAndBlob(t *testing.T) {
	docs := &fakeDocumentStore{docs: map[string]*model.Document{
		"d1": {ID: "d1", MoveID: "m1", StoragePath: "documents/m1/blob"},
	}}
	blobs := &fakeBlobStorage{}
	svc := NewDocumentService(docs, ownedMove("m1", "c1"), blobs, &fakeActivityLog{}, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "c1", "d1"))

	assert.Equal(t, []string{"d1"}, docs.deleted)
	assert.Equal(t, []string{"documents/m1/blob"}, blobs.deleteCalls)
}

func TestDeleteUnknownDocument(t *testing.T) {
	svc := NewDocumentService(&fakeDocumentStore{}, ownedMove("m1", "c1"), &fakeBlobStorage{}, &fakeActivityLog{}, zap.NewNop())

	err := svc.Delete(context.Background(), "c1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
