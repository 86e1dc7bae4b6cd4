package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// PictureSource resolves references (file paths, bucket prefixes) to picture payloads a
// post can carry: data URLs or http(s) URLs.
type PictureSource interface {
	Pictures(ctx context.Context, refs ...string) ([]string, error)
}

var imageAvailableFormats = []string{"png", "jpg", "jpeg", "gif", "bmp", "tiff", "webp"}

// FilePictures reads local image files into data URLs.
type FilePictures struct{}

func (FilePictures) Pictures(_ context.Context, refs ...string) ([]string, error) {
	pictures := make([]string, 0, len(refs))
	for _, ref := range refs {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("read picture %s: %w", ref, err)
		}
		picture, err := DataURL(data)
		if err != nil {
			return nil, fmt.Errorf("picture %s: %w", ref, err)
		}
		pictures = append(pictures, picture)
	}
	return pictures, nil
}

// DataURL encodes an image as a base64 data URL. Non-image content is rejected.
func DataURL(data []byte) (string, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("not an image: %s", mime.String())
	}
	return fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(data)), nil
}

type ClientMinio interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// S3Pictures turns every image under a bucket prefix into a presigned GET URL.
type S3Pictures struct {
	bucketName string
	expiry     time.Duration
	client     ClientMinio
}

func NewS3Pictures(client ClientMinio, bucketName string, expiry time.Duration) *S3Pictures {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &S3Pictures{bucketName: bucketName, expiry: expiry, client: client}
}

// NewMinioPictures connects to an S3 compatible endpoint.
func NewMinioPictures(endpoint, accessKeyID, secretAccessKey, bucketName string, useSSL bool, expiry time.Duration) (*S3Pictures, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", endpoint, err)
	}
	return NewS3Pictures(minioClient, bucketName, expiry), nil
}

func (s3 *S3Pictures) Pictures(ctx context.Context, prefixes ...string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make([]string, 0)
	for _, prefix := range prefixes {
		objectCh := s3.client.ListObjects(ctx, s3.bucketName, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		})
		for object := range objectCh {
			if object.Err != nil {
				return nil, fmt.Errorf("list %s/%s: %w", s3.bucketName, prefix, object.Err)
			}
			if !checkIn(object.Key, imageAvailableFormats) {
				continue
			}
			reqParams := make(url.Values)
			reqParams.Set("response-content-disposition", fmt.Sprintf("inline; filename=%q", path.Base(object.Key)))
			presignedURL, err := s3.client.PresignedGetObject(ctx, s3.bucketName, object.Key, s3.expiry, reqParams)
			if err != nil {
				return nil, fmt.Errorf("presign %s: %w", object.Key, err)
			}
			result = append(result, presignedURL.String())
		}
	}
	log.Debugf("resolved %d pictures from bucket %s", len(result), s3.bucketName)
	return result, nil
}

func checkIn(key string, filters []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
	for _, f := range filters {
		if f == ext {
			return true
		}
	}
	return false
}
