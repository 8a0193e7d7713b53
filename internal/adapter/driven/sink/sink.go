// Package sink stores encoded artifacts on the local filesystem or in S3.
package sink

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// Factory picks the sink for an output target: S3 when a bucket is set,
// the local directory otherwise.
type Factory struct {
	aws repository.AWSRepository
}

var _ repository.SinkFactory = (*Factory)(nil)

// NewFactory cria uma nova fábrica de sinks.
func NewFactory(aws repository.AWSRepository) *Factory {
	return &Factory{aws: aws}
}

// NewSink implements repository.SinkFactory.
func (f *Factory) NewSink(target types.OutputTarget) repository.ArtifactSink {
	if target.S3Bucket != "" {
		return NewS3Sink(f.aws, target.AWSProfile, target.S3Bucket, target.S3Prefix)
	}
	return NewLocalSink(target.Dir)
}

// LocalSink writes artifacts into a directory.
type LocalSink struct {
	dir string
}

var _ repository.ArtifactSink = (*LocalSink)(nil)

// NewLocalSink cria um sink local; dir vazio usa o diretório atual.
func NewLocalSink(dir string) *LocalSink {
	return &LocalSink{dir: dir}
}

// Save writes the artifact and returns its absolute path.
func (s *LocalSink) Save(_ context.Context, a entity.Artifact) (string, error) {
	dir := s.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}

	target := filepath.Join(dir, filepath.Base(a.Filename))
	if err := os.WriteFile(target, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", target, err)
	}
	return filepath.Abs(target)
}

// S3Sink uploads artifacts to a bucket under an optional key prefix.
type S3Sink struct {
	aws     repository.AWSRepository
	profile string
	bucket  string
	prefix  string
}

var _ repository.ArtifactSink = (*S3Sink)(nil)

// NewS3Sink cria um sink que publica no S3.
func NewS3Sink(aws repository.AWSRepository, profile, bucket, prefix string) *S3Sink {
	return &S3Sink{aws: aws, profile: profile, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object key an artifact is stored under.
func (s *S3Sink) Key(filename string) string {
	name := path.Base(filepath.ToSlash(filename))
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Save uploads the artifact and returns its s3:// URI.
func (s *S3Sink) Save(ctx context.Context, a entity.Artifact) (string, error) {
	key := s.Key(a.Filename)
	if err := s.aws.PutObject(ctx, s.profile, s.bucket, key, a.ContentType, a.Data); err != nil {
		return "", fmt.Errorf("error uploading %s to bucket %s: %w", key, s.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
