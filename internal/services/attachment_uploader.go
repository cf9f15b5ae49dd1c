package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ruralpay/cashbook/internal/auth"
	"github.com/ruralpay/cashbook/internal/blob"
	"github.com/ruralpay/cashbook/internal/models"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

var errNoPayload = errors.New("attachment has no local data")

// AttachmentUploader turns pending attachments into persisted ones: blob
// first, then the metadata row.
type AttachmentUploader struct {
	blobs       blob.Store
	repo        AttachmentRepo
	concurrency int
}

// NewAttachmentUploader creates an uploader running at most concurrency
// uploads per batch.
func NewAttachmentUploader(blobs blob.Store, repo AttachmentRepo, concurrency int) *AttachmentUploader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AttachmentUploader{blobs: blobs, repo: repo, concurrency: concurrency}
}

// Upload persists a pending attachment. Persisted attachments come back
// unchanged without any I/O. On failure the original attachment is returned,
// still pending, so a later call can retry it.
func (u *AttachmentUploader) Upload(ctx context.Context, accountID, entryID string, att models.Attachment) models.Attachment {
	return u.uploadClaimed(ctx, accountID, entryID, att, nil)
}

func (u *AttachmentUploader) uploadClaimed(ctx context.Context, accountID, entryID string, att models.Attachment, paths *pathClaims) models.Attachment {
	if att.IsPersisted() {
		return att
	}

	persisted, err := u.upload(ctx, accountID, entryID, att, paths)
	if err != nil {
		log.Printf("[UPLOADER] Upload of %q for entry %s failed: %v", att.FileName, entryID, err)
		return att
	}
	log.Printf("[UPLOADER] Stored %s (%s)", persisted.FilePath, persisted.FileType)
	return persisted
}

// UploadAll uploads a batch concurrently and returns the results in input
// order, plus the names of attachments that are still pending. Attachments
// whose names collide with each other or with a persisted attachment of the
// batch get distinct storage paths.
func (u *AttachmentUploader) UploadAll(ctx context.Context, accountID, entryID string, atts []models.Attachment) ([]models.Attachment, []string) {
	if len(atts) == 0 {
		return atts, nil
	}

	paths := &pathClaims{used: make(map[string]bool, len(atts))}
	for _, a := range atts {
		if a.IsPersisted() {
			paths.used[a.FilePath] = true
		}
	}

	out := make([]models.Attachment, len(atts))
	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, a := range atts {
		g.Go(func() error {
			out[i] = u.uploadClaimed(ctx, accountID, entryID, a, paths)
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for _, a := range out {
		if !a.IsPersisted() {
			failed = append(failed, a.FileName)
		}
	}
	return out, failed
}

// Remove deletes the metadata row, then the blob. A blob left behind is only
// logged since nothing references it any more.
func (u *AttachmentUploader) Remove(ctx context.Context, accountID, entryID, attachmentID string) error {
	filePath, err := u.repo.Delete(ctx, accountID, entryID, attachmentID)
	if err != nil {
		return err
	}
	if err := u.blobs.Delete(ctx, filePath); err != nil && !errors.Is(err, blob.ErrNotFound) {
		log.Printf("[UPLOADER] Orphaned blob %s: %v", filePath, err)
	}
	return nil
}

// ResolveURL fills the public URL of a persisted attachment.
func (u *AttachmentUploader) ResolveURL(att models.Attachment) models.Attachment {
	if att.IsPersisted() && att.URL == "" {
		att.URL = u.blobs.PublicURL(att.FilePath)
	}
	return att
}

// pathClaims hands out storage paths unique within one batch.
type pathClaims struct {
	mu   sync.Mutex
	used map[string]bool
}

func (c *pathClaims) claim(p string) string {
	if c == nil {
		return p
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p = blob.FreePath(p, func(s string) bool { return c.used[s] })
	c.used[p] = true
	return p
}

func (u *AttachmentUploader) upload(ctx context.Context, accountID, entryID string, att models.Attachment, paths *pathClaims) (models.Attachment, error) {
	if accountID == "" {
		return att, auth.ErrNoAccount
	}
	if entryID == "" {
		return att, errors.New("attachment has no entry")
	}

	data, err := decodePayload(att.LocalData)
	if err != nil {
		return att, err
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return att, fmt.Errorf("unsupported content type %s", mtype.String())
	}
	contentType := mtype.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	fileName := att.FileName
	if strings.TrimSpace(fileName) == "" {
		fileName = "attachment" + mtype.Extension()
	}
	path := paths.claim(blob.ObjectPath(accountID, entryID, blob.SanitizeFileName(fileName)))

	if err := u.blobs.Upload(ctx, path, blob.Object{Data: data, ContentType: contentType}); err != nil {
		return att, fmt.Errorf("upload blob: %w", err)
	}

	sum := blake2b.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	row, err := u.repo.Upsert(ctx, models.AttachmentRow{
		AccountID: accountID,
		EntryID:   entryID,
		FilePath:  path,
		FileName:  fileName,
		FileType:  contentType,
		Checksum:  sql.NullString{String: checksum, Valid: true},
	})
	if err != nil {
		return att, err
	}

	return models.Attachment{
		ID:       row.ID,
		EntryID:  entryID,
		FilePath: path,
		FileName: fileName,
		FileType: contentType,
		URL:      u.blobs.PublicURL(path),
		Checksum: checksum,
	}, nil
}

// decodePayload accepts raw bytes or a base64 data URL.
func decodePayload(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errNoPayload
	}
	if !bytes.HasPrefix(data, []byte("data:")) {
		return data, nil
	}
	comma := bytes.IndexByte(data, ',')
	if comma < 0 || !bytes.HasSuffix(data[:comma], []byte(";base64")) {
		return nil, errors.New("malformed data URL")
	}
	decoded, err := base64.StdEncoding.DecodeString(string(data[comma+1:]))
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	if len(decoded) == 0 {
		return nil, errNoPayload
	}
	return decoded, nil
}
