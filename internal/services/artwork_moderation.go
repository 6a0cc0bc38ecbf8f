package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ErrArtworkRejected is returned when SafeSearch flags cover art as unsafe.
var ErrArtworkRejected = errors.New("artwork rejected: violates content guidelines")

// ErrArtworkTooLarge is returned when an upload exceeds the size limit.
var ErrArtworkTooLarge = errors.New("artwork rejected: file exceeds upload size limit")

type ArtworkResult struct {
	ApprovedURL string
}

// ArtworkModerationService runs Vision SafeSearch on uploaded cover art and
// promotes safe objects from pending/ to their final path.
type ArtworkModerationService struct {
	gcs      *storage.Client
	bucket   string
	maxBytes int64
	profiles *MongoProfileService
}

// NewArtworkModerationService creates a storage client once at startup.
// maxUploadMB of 0 disables the size check; profiles may be nil if strike
// tracking is not needed.
func NewArtworkModerationService(ctx context.Context, bucket string, maxUploadMB int64, profiles *MongoProfileService) (*ArtworkModerationService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("artwork moderation: storage client: %w", err)
	}
	return &ArtworkModerationService{
		gcs:      client,
		bucket:   bucket,
		maxBytes: maxUploadMB * 1024 * 1024,
		profiles: profiles,
	}, nil
}

// ModerateAndPromote screens a pending/ object. If safe, copies it to the
// final path, deletes the pending copy and returns the download URL. If
// unsafe, deletes the pending object, records a strike on the uploader and
// returns ErrArtworkRejected.
func (m *ArtworkModerationService) ModerateAndPromote(ctx context.Context, pendingPath, userID string) (*ArtworkResult, error) {
	if !strings.HasPrefix(pendingPath, "pending/") {
		// Already promoted.
		return &ArtworkResult{ApprovedURL: pendingPath}, nil
	}

	attrs, err := m.sourceAttrs(ctx, pendingPath)
	if err != nil {
		return nil, fmt.Errorf("artwork moderation: attrs: %w", err)
	}

	if m.maxBytes > 0 && attrs.Size > m.maxBytes {
		log.Printf("[artwork] oversized upload path=%s size=%d limit=%d", pendingPath, attrs.Size, m.maxBytes)
		if err := m.deleteObject(ctx, pendingPath); err != nil {
			log.Printf("[artwork] delete failed path=%s err=%v", pendingPath, err)
		}
		return nil, ErrArtworkTooLarge
	}

	gcsURI := fmt.Sprintf("gs://%s/%s", m.bucket, pendingPath)
	ss, err := DetectSafeSearch(ctx, gcsURI)
	if err != nil {
		return nil, fmt.Errorf("artwork moderation: safesearch: %w", err)
	}

	log.Printf("[artwork] safesearch %s: adult=%s violence=%s racy=%s unsafe=%v",
		pendingPath, ss.Adult, ss.Violence, ss.Racy, ss.IsUnsafe())

	if ss.IsUnsafe() {
		if err := m.deleteObject(ctx, pendingPath); err != nil {
			log.Printf("[artwork] delete failed path=%s err=%v", pendingPath, err)
		}
		if m.profiles != nil && userID != "" {
			if _, err := m.profiles.AddStrike(ctx, userID); err != nil {
				log.Printf("[artwork] strike failed user=%s err=%v", userID, err)
			}
		}
		return nil, ErrArtworkRejected
	}

	finalName := strings.TrimPrefix(pendingPath, "pending/")
	token := newDownloadToken()
	approvedURL := downloadURL(m.bucket, finalName, token)

	if err := m.promoteObject(ctx, pendingPath, finalName, token, attrs); err != nil {
		return nil, fmt.Errorf("artwork moderation: promote: %w", err)
	}
	return &ArtworkResult{ApprovedURL: approvedURL}, nil
}

// sourceAttrs reads object attrs with a short retry; uploads may need a
// moment to finalize before they are visible.
func (m *ArtworkModerationService) sourceAttrs(ctx context.Context, name string) (*storage.ObjectAttrs, error) {
	src := m.gcs.Bucket(m.bucket).Object(name)

	var attrs *storage.ObjectAttrs
	var err error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		attrs, err = src.Attrs(ctx)
		if err == nil {
			return attrs, nil
		}
		if err == storage.ErrObjectNotExist && attempt < maxRetries-1 {
			backoff := time.Duration(attempt+1) * 500 * time.Millisecond
			log.Printf("[artwork] object not visible yet, retrying in %v: %s", backoff, name)
			time.Sleep(backoff)
			continue
		}
		break
	}
	return nil, err
}

func (m *ArtworkModerationService) promoteObject(ctx context.Context, from, to, token string, attrs *storage.ObjectAttrs) error {
	b := m.gcs.Bucket(m.bucket)
	src := b.Object(from)
	dst := b.Object(to)

	md := map[string]string{}
	for k, v := range attrs.Metadata {
		md[k] = v
	}
	md["moderation"] = "approved"
	md["firebaseStorageDownloadTokens"] = token

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if _, err := dst.Update(ctx, storage.ObjectAttrsToUpdate{Metadata: md}); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	return src.Delete(ctx)
}

func (m *ArtworkModerationService) deleteObject(ctx context.Context, name string) error {
	return m.gcs.Bucket(m.bucket).Object(name).Delete(ctx)
}

func newDownloadToken() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), os.Getpid())
}

func downloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
