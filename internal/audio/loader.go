package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfreymuth/oggvorbis"
)

// ErrEmptyTrack indicates a stream that decoded to no audio.
var ErrEmptyTrack = errors.New("track contains no audio")

// Loader fetches Ogg Vorbis tracks and decodes them to device PCM, caching the result on disk.
type Loader struct {
	client     *http.Client
	cacheDir   string
	sampleRate int
	channels   int
}

// NewLoader creates a loader. An empty cacheDir disables the disk cache.
func NewLoader(cacheDir string, sampleRate int) *Loader {
	return &Loader{
		client:     &http.Client{Timeout: 2 * time.Minute},
		cacheDir:   cacheDir,
		sampleRate: sampleRate,
		channels:   ChannelCount,
	}
}

// Load returns signed 16-bit little endian PCM for track.
func (loader *Loader) Load(ctx context.Context, track TrackInfo) ([]byte, error) {
	cachePath := loader.cachePath(track.ID)
	if cachePath != "" {
		if cached, err := os.ReadFile(cachePath); err == nil && loader.wholeFrames(cached) {
			return cached, nil
		}
	}

	body, err := loader.open(ctx, track.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", track.ID, err)
	}
	defer body.Close()

	samples, format, err := oggvorbis.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", track.ID, err)
	}
	converted := convert(samples, format.SampleRate, format.Channels, loader.sampleRate, loader.channels)
	if len(converted) == 0 {
		return nil, fmt.Errorf("decode %s: %w", track.ID, ErrEmptyTrack)
	}
	pcm := encodePCM(converted)

	if cachePath != "" {
		_ = writeCache(cachePath, pcm)
	}
	return pcm, nil
}

// wholeFrames rejects empty or truncated cache files.
func (loader *Loader) wholeFrames(pcm []byte) bool {
	frame := bytesPerSample * loader.channels
	return len(pcm) > 0 && len(pcm)%frame == 0
}

func writeCache(path string, pcm []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, pcm, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

func (loader *Loader) cachePath(id string) string {
	if loader.cacheDir == "" {
		return ""
	}
	return filepath.Join(loader.cacheDir, fmt.Sprintf("%s-%dhz-%dch.pcm", id, loader.sampleRate, loader.channels))
}

func (loader *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	parsed, err := url.Parse(location)
	if err == nil {
		switch strings.ToLower(parsed.Scheme) {
		case "http", "https":
			return loader.get(ctx, location)
		case "file":
			return os.Open(parsed.Path)
		}
	}
	return os.Open(location)
}

func (loader *Loader) get(ctx context.Context, location string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	response, err := loader.client.Do(request)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", response.Status)
	}
	return response.Body, nil
}
