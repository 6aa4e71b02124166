// Package catalog loads the video catalog and implements title matching and ranking.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"helpdeskbot/internal/models"
)

// ErrCatalogRead wraps every failure to load or decode the catalog.
var ErrCatalogRead = errors.New("catalog read failed")

// Source loads the full catalog. Implementations are read-only.
type Source interface {
	Load(ctx context.Context) ([]models.CatalogEntry, error)
}

// S3API is the subset of the S3 client used to fetch a remote catalog.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

// Load reads and decodes the file on every call.
func (f FileSource) Load(ctx context.Context) ([]models.CatalogEntry, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrCatalogRead, f.Path, err)
	}
	defer file.Close()

	return Decode(file)
}

// S3Source reads the catalog from an S3 object.
type S3Source struct {
	Client S3API
	Bucket string
	Key    string
}

// Load fetches and decodes the object on every call.
func (s S3Source) Load(ctx context.Context) ([]models.CatalogEntry, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", ErrCatalogRead, s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	return Decode(out.Body)
}

// ParseS3URI splits "s3://bucket/key" into its parts.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// NewSource picks a Source for path. s3:// paths require client.
func NewSource(path string, client S3API) (Source, error) {
	if bucket, key, ok := ParseS3URI(path); ok {
		if client == nil {
			return nil, fmt.Errorf("catalog %s requires an S3 client", path)
		}
		return S3Source{Client: client, Bucket: bucket, Key: key}, nil
	}
	if strings.HasPrefix(path, "s3://") {
		return nil, fmt.Errorf("invalid S3 catalog location %q", path)
	}
	return FileSource{Path: path}, nil
}

// catalogFile mirrors the dataset layout: each group holds one or more
// snapshots of a video and the first snapshot is authoritative.
type catalogFile struct {
	Vids [][]videoRecord `json:"vids"`
}

type videoRecord struct {
	Title      string          `json:"title"`
	VidID      string          `json:"vid_id"`
	Statistics videoStatistics `json:"statistics"`
	Thumbnails json.RawMessage `json:"thumbnails"`
}

type videoStatistics struct {
	ViewCount    count `json:"viewCount"`
	LikeCount    count `json:"likeCount"`
	DislikeCount count `json:"dislikeCount"`
}

// count accepts a JSON number, a decimal string or null.
type count uint64

func (c *count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %s: %w", b, err)
	}
	*c = count(n)
	return nil
}

type thumbnail struct {
	URL string `json:"url"`
}

// thumbnailURL accepts either a plain URL string or the YouTube
// thumbnails object, preferring the largest size.
func thumbnailURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var sizes map[string]thumbnail
	if err := json.Unmarshal(raw, &sizes); err != nil {
		return ""
	}
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := sizes[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

// Decode parses a catalog document. Empty groups are skipped.
func Decode(r io.Reader) ([]models.CatalogEntry, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCatalogRead, err)
	}

	entries := make([]models.CatalogEntry, 0, len(file.Vids))
	for _, group := range file.Vids {
		if len(group) == 0 {
			continue
		}
		v := group[0]
		entries = append(entries, models.CatalogEntry{
			Title:        v.Title,
			VideoID:      v.VidID,
			ViewCount:    uint64(v.Statistics.ViewCount),
			LikeCount:    uint64(v.Statistics.LikeCount),
			DislikeCount: uint64(v.Statistics.DislikeCount),
			ThumbnailURL: thumbnailURL(v.Thumbnails),
		})
	}
	return entries, nil
}
