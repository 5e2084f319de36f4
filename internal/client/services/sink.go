package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/coursenotes/internal/filex"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
)

// DownloadSink stores a downloaded note file and returns where it went.
type DownloadSink interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// LocalSink writes downloads into a directory.
type LocalSink struct {
	dir string
}

// NewLocalSink creates dir when needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("download dir: %w", err)
	}
	return &LocalSink{dir: abs}, nil
}

func (s *LocalSink) Dir() string { return s.dir }

func (s *LocalSink) Save(_ context.Context, name string, r io.Reader) (string, error) {
	p, _, err := filex.WriteFile(s.dir, name, r)
	return p, err
}

// S3Settings configure the optional object-storage mirror.
type S3Settings struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Prefix       string
	LinkTTL      time.Duration
}

// S3API is the part of *s3.Client the mirror needs.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Presigner is the part of *s3.PresignClient the mirror needs.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds an S3 client for an S3-compatible endpoint (MinIO,
// AWS, ...).
func NewS3Client(ctx context.Context, st S3Settings) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(st.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if st.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(st.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Mirror saves through the local sink and then copies the file into a
// bucket. A failed copy is logged; the local file is still the result.
type S3Mirror struct {
	local   DownloadSink
	s3      S3API
	presign Presigner
	st      S3Settings
	log     logging.Logger
}

// NewS3Mirror saves into local and then copies the file to the bucket.
func NewS3Mirror(local DownloadSink, api S3API, presign Presigner, st S3Settings, log logging.Logger) *S3Mirror {
	if log == nil {
		log = logging.Nop()
	}
	if st.LinkTTL <= 0 {
		st.LinkTTL = 15 * time.Minute
	}
	return &S3Mirror{local: local, s3: api, presign: presign, st: st, log: log}
}

func (m *S3Mirror) key(name string) string {
	return path.Join(m.st.Prefix, filex.SafeName(name))
}

func (m *S3Mirror) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	p, err := m.local.Save(ctx, name, r)
	if err != nil {
		return "", err
	}

	f, err := os.Open(p)
	if err != nil {
		m.log.Warn(ctx, "mirror skipped", "file", p, "error", err)
		return p, nil
	}
	defer f.Close()

	key := m.key(name)
	_, err = m.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.st.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(pdfMIME),
	})
	if err != nil {
		m.log.Warn(ctx, "mirror upload failed", "bucket", m.st.Bucket, "key", key, "error", err)
		return p, nil
	}
	m.log.Debug(ctx, "mirrored download", "bucket", m.st.Bucket, "key", key)
	return p, nil
}

// Link returns a time-limited GET URL for a mirrored file.
func (m *S3Mirror) Link(ctx context.Context, name string) (string, error) {
	if m.presign == nil {
		return "", fmt.Errorf("mirror link: no presigner")
	}
	req, err := m.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.st.Bucket),
		Key:    aws.String(m.key(name)),
	}, s3.WithPresignExpires(m.st.LinkTTL))
	if err != nil {
		return "", fmt.Errorf("mirror link: %w", err)
	}
	return req.URL, nil
}
