package helper

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

const DefaultContractsBucket = "contratos-firmados"

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string // optional: "contracts"
	PublicBase string
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := normalizeEndpoint(getEnv("ALI_OSS_ENDPOINT"))
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if bucketName == "" {
		bucketName = DefaultContractsBucket
	}
	if endpoint == "" || ak == "" || sk == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s)", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
		PublicBase: strings.TrimRight(getEnv("ALI_OSS_PUBLIC_BASE"), "/"),
	}, nil
}

/* =======================================================================
   Upload
======================================================================= */

// Upload stores r under name (the prefix is added here) and refuses to
// replace an existing object. Returns the object key.
func (s *OSSService) Upload(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	key := s.objectKey(name)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("max-age=3600"),
		oss.ForbidOverWrite(true),
	}
	if err := s.Bucket.PutObject(key, r, opts...); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// DeleteObject treats a missing object as already deleted.
func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	if err := s.Bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

/* =======================================================================
   URLs
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	if s.Endpoint == "" || s.BucketName == "" {
		return ""
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

// SignedURL issues a time-limited GET link; a fresh one on every call.
func (s *OSSService) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty object name")
	}
	key := s.objectKey(name)
	ok, err := s.Bucket.IsObjectExist(key, oss.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("head %s: %w", key, err)
	}
	if !ok {
		return "", ErrObjectNotFound
	}
	return s.Bucket.SignURL(key, oss.HTTPGet, int64(ttl/time.Second))
}

// LastPathSegment is the object name convention used for stored document
// URLs: everything after the final slash, query string dropped.
func LastPathSegment(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if s == "" {
		return ""
	}
	return path.Base(s)
}

/* =======================================================================
   Misc utils
======================================================================= */

func (s *OSSService) objectKey(name string) string {
	name = strings.Trim(name, "/")
	if s.Prefix == "" || strings.HasPrefix(name, s.Prefix+"/") {
		return name
	}
	return s.Prefix + "/" + name
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" {
		return ""
	}
	if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		ep = "https://" + ep
	}
	return strings.TrimRight(ep, "/")
}

func isNotFound(err error) bool {
	if e, ok := err.(oss.ServiceError); ok {
		return e.StatusCode == 404
	}
	return false
}
