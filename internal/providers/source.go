package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ProjectionSource yields one source's raw projection rows.
type ProjectionSource interface {
	Name() string
	Projections(ctx context.Context) ([]RawPlayerRow, error)
}

// ADPSource yields per-format ADP rows.
type ADPSource interface {
	Name() string
	ADP(ctx context.Context) ([]RawADPRow, error)
}

// FeedSource reads rows from a published JSON feed.
type FeedSource struct {
	name   string
	url    string
	client *FeedClient
}

func NewFeedSource(name, url string, client *FeedClient) *FeedSource {
	return &FeedSource{name: name, url: url, client: client}
}

func (s *FeedSource) Name() string { return s.name }

func (s *FeedSource) Projections(ctx context.Context) ([]RawPlayerRow, error) {
	var rows []RawPlayerRow
	if err := s.client.GetJSON(ctx, KindProjections, s.name, s.url, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *FeedSource) ADP(ctx context.Context) ([]RawADPRow, error) {
	var rows []RawADPRow
	if err := s.client.GetJSON(ctx, KindADP, s.name, s.url, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FileSource reads rows from a local JSON dump.
type FileSource struct {
	name string
	path string
}

func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string { return s.name }

func (s *FileSource) Projections(ctx context.Context) ([]RawPlayerRow, error) {
	var rows []RawPlayerRow
	if err := s.read(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *FileSource) ADP(ctx context.Context) ([]RawADPRow, error) {
	var rows []RawADPRow
	if err := s.read(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *FileSource) read(dest interface{}) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.name, err)
	}
	return nil
}

// Source is satisfied by both feed and file sources.
type Source interface {
	ProjectionSource
	ADPSource
}

// NewSource picks a feed source for http(s) locations and a file source
// otherwise.
func NewSource(name, location string, client *FeedClient) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewFeedSource(name, location, client)
	}
	return NewFileSource(name, location)
}
