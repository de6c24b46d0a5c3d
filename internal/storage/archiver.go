package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lockdesk/internal/domain"
)

const archivePathPrefix = "audit"

// AuditArchiver exports audit records to S3-compatible object storage as
// JSONL snapshots, one object per export run. The database stays the system
// of record; archives exist for retention and offline review.
type AuditArchiver struct {
	client   *minio.Client
	bucket   string
	initOnce sync.Once
	initErr  error
}

func NewAuditArchiver(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AuditArchiver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &AuditArchiver{client: client, bucket: bucket}, nil
}

// lazyInit ensures the bucket exists on first use, not at startup.
func (a *AuditArchiver) lazyInit(ctx context.Context) error {
	a.initOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.initErr = fmt.Errorf("check bucket existence: %w", err)
			return
		}
		if !exists {
			if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
				a.initErr = fmt.Errorf("create bucket: %w", err)
			}
		}
	})
	return a.initErr
}

// Export writes records as one JSONL object and returns the object key.
func (a *AuditArchiver) Export(ctx context.Context, records []domain.AuditRecord, now time.Time) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("nothing to export")
	}
	body, err := EncodeJSONL(records)
	if err != nil {
		return "", err
	}
	if err := a.lazyInit(ctx); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s.jsonl", archivePathPrefix, now.UTC().Format("2006-01-02"), uuid.NewString())
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/x-ndjson",
		UserMetadata: map[string]string{
			"Record-Count": fmt.Sprintf("%d", len(records)),
			"First-Seq":    fmt.Sprintf("%d", records[0].Seq),
			"Last-Seq":     fmt.Sprintf("%d", records[len(records)-1].Seq),
			"Exported-At":  now.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}
	return key, nil
}

// EncodeJSONL renders records one JSON object per line, in input order.
func EncodeJSONL(records []domain.AuditRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("encode audit record %s: %w", rec.ID, err)
		}
	}
	return buf.Bytes(), nil
}
