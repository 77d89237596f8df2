package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/platformer2d/content"
	"github.com/milk9111/platformer2d/levels"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

//go:embed backgrounds overlays sounds sprites textures tiles
var assetsFS embed.FS

const SampleRate = 44100

var (
	audioOnce sync.Once
	audioCtx  *audio.Context
)

// AudioContext returns the process-wide audio context.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioCtx = audio.NewContext(SampleRate)
	})
	return audioCtx
}

// builtinFonts are served for font keys that have no file.
var builtinFonts = map[string][]byte{
	"hud":     goregular.TTF,
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
}

var _ content.Store = (*Store)(nil)

// Store loads resources by assets-relative key. Files under Dir (when set)
// win over the embedded copies, which lets a dev build pick up edited art
// without recompiling.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// LoadFile reads an asset by key.
func (s *Store) LoadFile(key string) ([]byte, error) {
	clean := cleanAssetPath(key)
	if clean == "" {
		return nil, fmt.Errorf("assets: empty key")
	}
	if s != nil && s.Dir != "" {
		if b, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(clean))); err == nil {
			return b, nil
		}
	}
	b, err := assetsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", key, err)
	}
	return b, nil
}

// LoadImage decodes an image asset.
func (s *Store) LoadImage(key string) (*ebiten.Image, error) {
	b, err := s.LoadFile(key)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", key, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// LoadFont loads a TrueType font asset, falling back to the builtin Go fonts
// when the key has no file.
func (s *Store) LoadFont(key string) (*text.GoTextFaceSource, error) {
	b, err := s.LoadFile(key)
	if err != nil {
		name := strings.TrimSuffix(path.Base(cleanAssetPath(key)), path.Ext(key))
		builtin, ok := builtinFonts[name]
		if !ok || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		b = builtin
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: parse font %s: %w", key, err)
	}
	return src, nil
}

// LoadMusic loads a wav asset as an endlessly looping player.
func (s *Store) LoadMusic(key string) (*audio.Player, error) {
	stream, err := s.decodeWAV(key)
	if err != nil {
		return nil, err
	}
	loop := audio.NewInfiniteLoop(stream, stream.Length())
	return AudioContext().NewPlayer(loop)
}

// LoadSound loads a wav asset as a one-shot player.
func (s *Store) LoadSound(key string) (*audio.Player, error) {
	if !strings.HasSuffix(strings.ToLower(key), ".wav") {
		// already-decoded PCM in Ebiten's native format
		b, err := s.LoadFile(key)
		if err != nil {
			return nil, err
		}
		return AudioContext().NewPlayerFromBytes(b), nil
	}
	stream, err := s.decodeWAV(key)
	if err != nil {
		return nil, err
	}
	return AudioContext().NewPlayer(stream)
}

// LoadLines loads a level definition as ordered lines. Level keys are
// resolved through the levels package.
func (s *Store) LoadLines(key string) ([]string, error) {
	clean := cleanAssetPath(key)
	if rest, ok := strings.CutPrefix(clean, "levels/"); ok {
		b, err := levels.Load(rest)
		if err != nil {
			return nil, err
		}
		return levels.SplitLines(b), nil
	}
	b, err := s.LoadFile(key)
	if err != nil {
		return nil, err
	}
	return levels.SplitLines(b), nil
}

func (s *Store) decodeWAV(key string) (*wav.Stream, error) {
	b, err := s.LoadFile(key)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode wav %q: %w", key, err)
	}
	return stream, nil
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		s := filepath.ToSlash(p)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(p)
	}
	s := path.Clean(filepath.ToSlash(p))
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
