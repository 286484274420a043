package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/document"
	"github.com/spigell/cv-screener/internal/screening"
)

const r2Region = "auto"

// S3Config configures access to an S3 compatible bucket. Setting
// AccountID points the client at Cloudflare R2.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccountID       string `mapstructure:"account-id"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access-key-id"`
	SecretAccessKey string `mapstructure:"-" json:"-"`
	UsePathStyle    bool   `mapstructure:"use-path-style"`
}

func (c S3Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}
	return ""
}

type objectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Bucket downloads resumes stored under a bucket prefix.
type Bucket struct {
	client objectAPI
	logger *zap.Logger
}

func NewBucket(ctx context.Context, cfg S3Config, logger *zap.Logger) (*Bucket, error) {
	region := cfg.Region
	if region == "" && cfg.AccountID != "" {
		region = r2Region
	}

	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := cfg.endpoint()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newBucket(client, logger), nil
}

func newBucket(client objectAPI, logger *zap.Logger) *Bucket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bucket{client: client, logger: logger}
}

// IsURI reports whether ref names a bucket location.
func IsURI(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

func parseURI(ref string) (bucket, prefix string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", ref, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%q is not an s3://bucket/prefix location", ref)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Load downloads every supported object under the location. Objects are
// returned in listing order, which S3 defines as lexicographic by key, and
// named by their key relative to the directory part of the prefix.
func (b *Bucket) Load(ctx context.Context, ref string) ([]screening.File, error) {
	entries, err := b.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	files := make([]screening.File, 0, len(entries))
	for _, e := range entries {
		files = append(files, e.file)
	}
	return files, nil
}

func (b *Bucket) load(ctx context.Context, ref string) ([]entry, error) {
	bucket, prefix, err := parseURI(ref)
	if err != nil {
		return nil, err
	}

	var keys []string
	pages := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", ref, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || !document.Supported(key) {
				continue
			}
			keys = append(keys, key)
		}
	}

	b.logger.Debug("bucket listed",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Int("objects", len(keys)),
	)

	dir := prefix[:strings.LastIndex(prefix, "/")+1]
	files := make([]entry, 0, len(keys))
	for _, key := range keys {
		data, err := b.download(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		files = append(files, entry{
			origin: "s3://" + bucket + "/" + key,
			file:   screening.File{Name: strings.TrimPrefix(key, dir), Data: data},
		})
	}
	return files, nil
}

func (b *Bucket) download(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	if out.Body == nil {
		return nil, errors.New("get s3://" + bucket + "/" + key + ": empty body")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}
