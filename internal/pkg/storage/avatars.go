package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/betercalls/BeterCalls/internal/pkg/env"
)

const (
	// AvatarSize is the square edge length avatars are resized to before upload.
	AvatarSize = 256
	// MaxAvatarUploadBytes caps the accepted upload size.
	MaxAvatarUploadBytes = 5 * 1024 * 1024
)

// AvatarStore uploads and removes profile pictures on S3-compatible storage.
type AvatarStore struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewAvatarStoreFromEnv builds an AvatarStore from AVATAR_S3_* environment
// variables. Returns an error when the feature is not configured.
func NewAvatarStoreFromEnv() (*AvatarStore, error) {
	bucket := env.GetEnv("AVATAR_S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("avatar storage is disabled")
	}

	region := env.GetEnv("AVATAR_S3_REGION", "us-east-1")
	endpoint := env.GetEnv("AVATAR_S3_ENDPOINT", "")

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			env.GetEnv("AVATAR_S3_ACCESS_KEY", ""),
			env.GetEnv("AVATAR_S3_SECRET_KEY", ""),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	publicURL := strings.TrimRight(env.GetEnv("AVATAR_S3_PUBLIC_URL", ""), "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	store := &AvatarStore{
		s3Client:  s3Client,
		bucket:    bucket,
		publicURL: publicURL,
	}

	log.Infof("[Avatars] Initialized S3 client for bucket: %s", bucket)
	return store, nil
}

// Upload resizes the uploaded image to a square avatar, stores it as JPEG and
// returns the public URL of the stored object.
func (a *AvatarStore) Upload(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxAvatarUploadBytes {
		return "", fmt.Errorf("file too large: %d bytes", fileHeader.Size)
	}
	if !allowedAvatarExt(filepath.Ext(fileHeader.Filename)) {
		return "", fmt.Errorf("unsupported file type: %s", fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Center-crop to square, then resize down
	avatar := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, avatar, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	objectKey := fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.New().String())

	_, err = a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(buf.Len())),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	log.Infof("[Avatars] Uploaded s3://%s/%s (%d bytes)", a.bucket, objectKey, buf.Len())
	return fmt.Sprintf("%s/%s", a.publicURL, objectKey), nil
}

// Delete removes a previously uploaded avatar by its public URL. Unknown URLs
// (e.g. Gravatar fallbacks) are ignored.
func (a *AvatarStore) Delete(ctx context.Context, avatarURL string) error {
	prefix := a.publicURL + "/"
	if !strings.HasPrefix(avatarURL, prefix) {
		return nil
	}
	objectKey := strings.TrimPrefix(avatarURL, prefix)

	_, err := a.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}

	log.Infof("[Avatars] Deleted s3://%s/%s", a.bucket, objectKey)
	return nil
}

func allowedAvatarExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}
