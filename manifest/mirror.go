package manifest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	shell "github.com/ipfs/go-ipfs-api"
)

// Mirror receives a copy of every persisted manifest file. Mirrors are best
// effort: the local files remain the source of truth and a failed push never
// aborts a run.
type Mirror interface {
	// Push stores a manifest file copy under its file name.
	Push(ctx context.Context, name string, data []byte) error

	// Name returns an identifier for logging.
	Name() string
}

// NewMirror creates a mirror from a URI. Supported schemes:
//
//	s3://bucket/prefix?region=us-east-1&endpoint=...
//	ipfs://host:port
func NewMirror(uri string, log *slog.Logger) (Mirror, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror URI %q: %w", uri, err)
	}

	switch parsed.Scheme {
	case "s3":
		return newS3Mirror(parsed, log)
	case "ipfs":
		return newIPFSMirror(parsed, log)
	default:
		return nil, fmt.Errorf("unsupported mirror scheme %q", parsed.Scheme)
	}
}

// S3Mirror pushes manifest copies to an S3 or compatible bucket. Credentials
// come from the default AWS chain (environment, shared config, instance
// role).
type S3Mirror struct {
	client *s3.S3
	bucket string
	prefix string
	log    *slog.Logger
	uri    string
}

func newS3Mirror(parsed *url.URL, log *slog.Logger) (*S3Mirror, error) {
	cfg := aws.Config{}
	if region := parsed.Query().Get("region"); region != "" {
		cfg.Region = aws.String(region)
	}
	if endpoint := parsed.Query().Get("endpoint"); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Mirror{
		client: s3.New(sess),
		bucket: parsed.Host,
		prefix: strings.Trim(parsed.Path, "/"),
		log:    log,
		uri:    parsed.String(),
	}, nil
}

// Push uploads the manifest copy to the bucket.
func (m *S3Mirror) Push(ctx context.Context, name string, data []byte) error {
	key := path.Join(m.prefix, name)

	_, err := m.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", m.bucket, key, err)
	}

	m.log.Debug("Mirrored manifest to S3",
		slog.String("bucket", m.bucket),
		slog.String("key", key),
		slog.Int("size", len(data)))
	return nil
}

// Name returns an identifier for logging.
func (m *S3Mirror) Name() string {
	return fmt.Sprintf("s3-%s", m.bucket)
}

// IPFSMirror pushes manifest copies to an IPFS node. Each push produces a new
// content identifier which is logged for out-of-band pinning.
type IPFSMirror struct {
	shell *shell.Shell
	host  string
	log   *slog.Logger
}

func newIPFSMirror(parsed *url.URL, log *slog.Logger) (*IPFSMirror, error) {
	if parsed.Host == "" {
		return nil, fmt.Errorf("ipfs mirror URI missing host")
	}

	return &IPFSMirror{
		shell: shell.NewShell(parsed.Host),
		host:  parsed.Host,
		log:   log,
	}, nil
}

// Push adds the manifest copy to IPFS and logs the resulting CID.
func (m *IPFSMirror) Push(ctx context.Context, name string, data []byte) error {
	cid, err := m.shell.Add(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to add to IPFS node %s: %w", m.host, err)
	}

	m.log.Info("Mirrored manifest to IPFS",
		slog.String("file", name),
		slog.String("cid", cid))
	return nil
}

// Name returns an identifier for logging.
func (m *IPFSMirror) Name() string {
	return fmt.Sprintf("ipfs-%s", m.host)
}
