package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type Opts struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	UseSSL     bool
	PublicBase string
}

// AvatarStore 头像对象存储，返回写入 Profile.Image 的对象 key
type AvatarStore interface {
	PutAvatar(ctx context.Context, userID uint, filename, contentType string, r io.Reader, size int64) (string, error)
	URL(key string) string
}

var ErrUnsupportedType = errors.New("storage: unsupported image type")

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinio 初始化客户端并确保存储桶存在
func NewMinio(ctx context.Context, o Opts, l *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
		Region: o.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, o.Bucket, minio.MakeBucketOptions{Region: o.Region}); err != nil {
			return nil, fmt.Errorf("创建存储桶失败: %w", err)
		}
		l.Info("minio bucket created", zap.String("bucket", o.Bucket))
	}
	return &MinioStore{client: client, bucket: o.Bucket, publicBase: strings.TrimRight(o.PublicBase, "/")}, nil
}

func (s *MinioStore) PutAvatar(ctx context.Context, userID uint, filename, contentType string, r io.Reader, size int64) (string, error) {
	key, err := AvatarKey(userID, filename, contentType)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传头像失败: %w", err)
	}
	return key, nil
}

func (s *MinioStore) URL(key string) string {
	if s.publicBase == "" {
		return key
	}
	return s.publicBase + "/" + s.bucket + "/" + key
}

// AvatarKey profile_pics/{uid}/{uuid}{ext}
func AvatarKey(userID uint, filename, contentType string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	if e := strings.ToLower(path.Ext(filename)); e == ".jpeg" || e == ext {
		ext = e
	}
	return fmt.Sprintf("profile_pics/%d/%s%s", userID, uuid.NewString(), ext), nil
}
