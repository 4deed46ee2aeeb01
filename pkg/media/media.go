package media

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

// ImageRef is either an already-resolved remote URL or a local file still
// waiting to be uploaded. Exactly one of the two fields is set.
type ImageRef struct {
	Remote  string
	Pending *multipart.FileHeader
}

func (r ImageRef) IsZero() bool {
	return r.Remote == "" && r.Pending == nil
}

func (r ImageRef) IsPending() bool {
	return r.Pending != nil
}

type ItfMedia interface {
	// Resolve returns a durable remote URL for ref. A remote ref is
	// returned unchanged without touching the network; a pending file is
	// uploaded under the given folder.
	Resolve(ref ImageRef, folder string) (string, error)
	// PresignUrl exchanges a stored object URL for a time-limited signed
	// one suitable for handing to clients.
	PresignUrl(fileUrl string) (string, error)
	// DeleteFile removes the object a stored URL points at.
	DeleteFile(fileUrl string) error
}

type mediaClient struct {
	client     *s3.S3
	session    *session.Session
	bucketName string
}

func New() (ItfMedia, error) {
	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	return &mediaClient{
		client:     s3.New(sess),
		session:    sess,
		bucketName: os.Getenv("AWS_BUCKET_NAME"),
	}, nil
}

func newSession() (*session.Session, error) {
	return session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})
}

func (m *mediaClient) Resolve(ref ImageRef, folder string) (string, error) {
	if ref.IsZero() {
		return "", nil
	}

	if !ref.IsPending() {
		return ref.Remote, nil
	}

	return m.uploadFile(ref.Pending, folder)
}

func (m *mediaClient) uploadFile(file *multipart.FileHeader, folder string) (string, error) {
	uploader := s3manager.NewUploader(m.session)

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func(src multipart.File) {
		if err := src.Close(); err != nil {
			fmt.Println("Failed to close file")
		}
	}(src)

	uploadOutput, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(m.bucketName),
		Key:    aws.String(key),
		Body:   src,
	})
	if err != nil {
		return "", err
	}

	return uploadOutput.Location, nil
}

func (m *mediaClient) PresignUrl(fileUrl string) (string, error) {
	key := extractKeyFromURL(fileUrl)

	decodedKey, err := url.QueryUnescape(key)
	if err != nil {
		return "", fmt.Errorf("failed to decode object key: %w", err)
	}

	_, err = m.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(m.bucketName),
		Key:    aws.String(decodedKey),
	})
	if err != nil {
		return "", fmt.Errorf("file does not exist: %w", err)
	}

	req, _ := m.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(m.bucketName),
		Key:    aws.String(decodedKey),
	})

	urlStr, err := req.Presign(15 * time.Minute)
	if err != nil {
		return "", err
	}

	return urlStr, nil
}

func extractKeyFromURL(fileUrl string) string {
	parts := strings.Split(fileUrl, ".com/")
	if len(parts) > 1 {
		return parts[1]
	}
	return fileUrl
}

func (m *mediaClient) DeleteFile(fileUrl string) error {
	key := extractKeyFromURL(fileUrl)

	decodedKey, err := url.QueryUnescape(key)
	if err != nil {
		return fmt.Errorf("failed to decode object key: %w", err)
	}

	_, err = m.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(m.bucketName),
		Key:    aws.String(decodedKey),
	})

	return err
}
