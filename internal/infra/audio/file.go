package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chatbot/internal/domain"
)

// FileSink writes every synthesized clip into a directory. Raw PCM is
// wrapped in a WAV header so the files are playable.
type FileSink struct {
	dir  string
	mu   sync.Mutex
	seq  int
	last string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (f *FileSink) Name() string {
	return "file"
}

func (f *FileSink) Play(_ context.Context, clip *domain.Audio) error {
	if clip == nil || len(clip.Data) == 0 {
		return fmt.Errorf("empty audio")
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("creating audio dir: %w", err)
	}

	data, ext := clip.Data, string(clip.Format)
	if clip.Format == domain.FormatPCM {
		data = pcmToWav(clip.Data, domain.PCMSampleRate)
		ext = string(domain.FormatWAV)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	name := fmt.Sprintf("%s-%s-%03d.%s", time.Now().Format("20060102-150405"), clip.Provider, f.seq, ext)
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	f.last = path
	return nil
}

// LastPath returns the file written by the latest Play call.
func (f *FileSink) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
