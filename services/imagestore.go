package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageStore offloads submitted issue photos to object storage. A nil
// store keeps the payload inline on the issue record, which is the
// behavior when no MinIO endpoint is configured.
type ImageStore struct {
	client *minio.Client
	bucket string
	useSSL bool
}

// NewImageStoreFromEnv builds an ImageStore from MINIO_* environment
// variables. Returns (nil, nil) when MINIO_ENDPOINT is unset.
func NewImageStoreFromEnv(ctx context.Context) (*ImageStore, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "issue-images"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}

	return &ImageStore{client: client, bucket: bucket, useSSL: useSSL}, nil
}

// Store uploads a base64 image payload (raw or data-URL) and returns
// the object URL. Upload failures fall back to returning the payload
// unchanged so issue intake never fails on image handling.
func (s *ImageStore) Store(ctx context.Context, imageData string) string {
	if s == nil || imageData == "" {
		return imageData
	}

	contentType := "image/jpeg"
	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		rest := imageData[len("data:"):]
		idx := strings.Index(rest, ";base64,")
		if idx < 0 {
			return imageData
		}
		contentType = rest[:idx]
		payload = rest[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		log.Printf("Image payload is not base64, storing inline: %v", err)
		return imageData
	}

	objectName := "issues/" + primitive.NewObjectID().Hex()
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(decoded), int64(len(decoded)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		log.Printf("Image upload failed, storing inline: %v", err)
		return imageData
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectName)
}
