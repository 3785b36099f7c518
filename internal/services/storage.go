package services

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// StorageConfig selects S3 when AWS credentials and a bucket are configured
type StorageConfig struct {
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	Bucket       string
	UploadDir    string
	BaseURL      string
}

func (c StorageConfig) useS3() bool {
	return c.AWSRegion != "" && c.AWSAccessKey != "" && c.AWSSecretKey != "" && c.Bucket != ""
}

// Storage keeps uploaded receipts, documents and archived earnings reports,
// either in S3 or in a local directory served under /uploads.
type Storage struct {
	cfg      StorageConfig
	uploader *s3manager.Uploader
	now      func() time.Time
}

// InitStorage initializes either S3 or local storage based on configuration
func InitStorage(cfg StorageConfig) (*Storage, error) {
	st := &Storage{cfg: cfg, now: time.Now}

	if cfg.useS3() {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWSRegion),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWSAccessKey,
				cfg.AWSSecretKey,
				"", // Token (optional)
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %v", err)
		}
		st.uploader = s3manager.NewUploader(sess)
		log.Println("AWS S3 storage initialized successfully")
		return st, nil
	}

	if st.cfg.UploadDir == "" {
		st.cfg.UploadDir = "./uploads"
	}
	if st.cfg.BaseURL == "" {
		st.cfg.BaseURL = "http://localhost:8080"
	}
	if err := os.MkdirAll(st.cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	log.Println("Warning: AWS S3 not configured. Using local file storage")
	return st, nil
}

func (s *Storage) IsUsingS3() bool {
	return s.uploader != nil
}

// UploadDir is the local directory served under /uploads
func (s *Storage) UploadDir() string {
	return s.cfg.UploadDir
}

// UploadFile stores a multipart upload under folder and returns its public URL
func (s *Storage) UploadFile(file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	return s.Save(folder, filepath.Ext(file.Filename), buffer.Bytes())
}

// Save stores data under folder with a timestamped name and returns its public URL
func (s *Storage) Save(folder, ext string, data []byte) (string, error) {
	fileName := fmt.Sprintf("%d%s", s.now().UnixNano(), ext)

	if s.IsUsingS3() {
		key := fmt.Sprintf("%s/%s", folder, fileName)
		_, err := s.uploader.Upload(&s3manager.UploadInput{
			Bucket:      aws.String(s.cfg.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(http.DetectContentType(data)),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to S3: %v", err)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.AWSRegion, key), nil
	}

	folderPath := filepath.Join(s.cfg.UploadDir, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(folderPath, fileName), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.cfg.BaseURL, filepath.ToSlash(folder), fileName), nil
}
