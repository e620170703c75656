package files

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"olttstats/internal/errors"
)

// S3API is the subset of the S3 client the store calls.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store serves a bucket as a folder tree: key prefixes ending in "/" are
// folders, objects are files. Item IDs are keys or prefixes.
type S3Store struct {
	client S3API
	bucket string
	logger *slog.Logger
}

// S3Options configures NewS3Store.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	AccessKey string
	SecretKey string
	Logger    *slog.Logger
}

// NewS3Store loads the AWS configuration and builds the S3 client. Static
// keys are used when given, otherwise the default credential chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewAuthError("load aws config", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return NewS3StoreWithClient(client, opts.Bucket, opts.Logger), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client S3API, bucket string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{client: client, bucket: bucket, logger: logger}
}

// Folder checks that a prefix holds at least one object. The empty ID is the
// bucket root.
func (s *S3Store) Folder(ctx context.Context, id string) (Item, error) {
	prefix := folderPrefix(id)
	if prefix == "" {
		return Item{ID: "", Name: s.bucket, Kind: KindFolder}, nil
	}

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return Item{}, s3Error("get folder", prefix, err)
	}
	if len(out.Contents) == 0 && len(out.CommonPrefixes) == 0 {
		return Item{}, notFoundError("get folder", "s3://"+s.bucket+"/"+prefix, nil)
	}
	return Item{ID: prefix, Name: path.Base(strings.TrimSuffix(prefix, "/")), Kind: KindFolder}, nil
}

// ListChildren lists the direct children of a prefix, folders first as S3
// returns them per page, each group in key order.
func (s *S3Store) ListChildren(ctx context.Context, folderID string) ([]Item, error) {
	prefix := folderPrefix(folderID)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var items []Item
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s3Error("list folder", prefix, err)
		}
		for _, p := range page.CommonPrefixes {
			key := aws.ToString(p.Prefix)
			items = append(items, Item{
				ID:   key,
				Name: path.Base(strings.TrimSuffix(key, "/")),
				Kind: KindFolder,
			})
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix {
				// folder marker object
				continue
			}
			items = append(items, Item{ID: key, Name: path.Base(key), Kind: KindFile})
		}
	}
	return items, nil
}

// ReadFile streams an object.
func (s *S3Store) ReadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, s3Error("download file", fileID, err)
	}
	return out.Body, nil
}

// CreateFile puts a new object under the folder prefix.
func (s *S3Store) CreateFile(ctx context.Context, folderID, name string, r io.Reader) (Item, error) {
	key := folderPrefix(folderID) + name
	if err := s.put(ctx, key, r); err != nil {
		return Item{}, s3Error("upload file", key, err)
	}
	return Item{ID: key, Name: name, Kind: KindFile}, nil
}

// UpdateFile overwrites an object.
func (s *S3Store) UpdateFile(ctx context.Context, fileID string, r io.Reader) (Item, error) {
	if err := s.put(ctx, fileID, r); err != nil {
		return Item{}, s3Error("update file", fileID, err)
	}
	return Item{ID: fileID, Name: path.Base(fileID), Kind: KindFile}, nil
}

// put buffers the body into a seekable reader for request signing.
func (s *S3Store) put(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(key)),
	})
	if err == nil {
		s.logger.DebugContext(ctx, "put object",
			slog.String("bucket", s.bucket),
			slog.String("key", key),
			slog.Int("bytes", len(data)))
	}
	return err
}

func folderPrefix(id string) string {
	id = strings.TrimPrefix(id, "/")
	if id == "" || strings.HasSuffix(id, "/") {
		return id
	}
	return id + "/"
}

func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

func s3Error(op, key string, err error) error {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
			return errors.NewAuthError(fmt.Sprintf("%s %s", op, key), err).
				WithContext("code", apiErr.ErrorCode())
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return notFoundError(op, key, err)
		}
	}
	return errors.NewStorageError(fmt.Sprintf("%s %s", op, key), err)
}
