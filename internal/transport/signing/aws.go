package signing

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/kailas-cloud/hunt/internal/domain"
)

// AWS is the name of the SigV4 signing handler.
const AWS = "aws"

// AWS defaults.
const (
	DefaultRegion  = "us-east-1"
	DefaultService = "es"
)

// AWSTransport signs every request with AWS Signature Version 4.
type AWSTransport struct {
	next    http.RoundTripper
	signer  *v4.Signer
	creds   aws.CredentialsProvider
	region  string
	service string
	now     func() time.Time
}

// NewAWS creates a SigV4 signing transport from static credentials.
func NewAWS(cfg Config, next http.RoundTripper) (http.RoundTripper, error) {
	if cfg.Key == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("%w: aws handler requires key and secret", domain.ErrConfiguration)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}
	creds := aws.Credentials{AccessKeyID: cfg.Key, SecretAccessKey: cfg.Secret, SessionToken: cfg.Token}
	return &AWSTransport{
		next:   next,
		signer: v4.NewSigner(),
		creds: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		}),
		region:  cfg.Region,
		service: cfg.Service,
		now:     time.Now,
	}, nil
}

// RoundTrip signs a copy of req and passes it on.
func (t *AWSTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	signed := req.Clone(ctx)

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.ContentLength = int64(len(body))
		signed.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	sum := sha256.Sum256(body)

	signed.Host = signingHost(signed)

	creds, err := t.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve credentials: %w", err)
	}
	err = t.signer.SignHTTP(ctx, creds, signed, hex.EncodeToString(sum[:]), t.service, t.region, t.now())
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}
	return t.next.RoundTrip(signed) //nolint:wrapcheck // transport errors pass through unchanged
}

// signingHost drops the port when it is the scheme default, so the signed
// host matches the one the endpoint sees.
func signingHost(req *http.Request) string {
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if (req.URL.Scheme == "https" && port == "443") || (req.URL.Scheme == "http" && port == "80") {
		return h
	}
	return host
}
