// Package asset resolves named images from a file system and hands out
// handles that stay valid for the lifetime of the Server.
package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"

	"go.uber.org/zap"

	"github.com/plus3/starship/internal/logging"
)

// ErrNotFound is returned when a name does not resolve to a file.
var ErrNotFound = errors.New("asset not found")

// Handle identifies a loaded image. The zero Handle is never valid.
type Handle uint32

type entry struct {
	name  string
	image image.Image
}

// Server loads images by name and caches them. Loading the same name twice
// returns the same Handle.
type Server struct {
	fsys    fs.FS
	log     *zap.Logger
	byName  map[string]Handle
	entries []entry
}

func NewServer(fsys fs.FS, log *zap.Logger) *Server {
	return &Server{
		fsys:   fsys,
		log:    logging.OrNop(log).Named("asset"),
		byName: make(map[string]Handle),
	}
}

// Load decodes the image called name, or returns the cached handle.
func (s *Server) Load(name string) (Handle, error) {
	if h, ok := s.byName[name]; ok {
		return h, nil
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return 0, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}

	s.entries = append(s.entries, entry{name: name, image: img})
	h := Handle(len(s.entries))
	s.byName[name] = h

	s.log.Debug("loaded",
		zap.String("name", name),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return h, nil
}

// MustLoad is Load for callers that treat a missing asset as fatal.
func (s *Server) MustLoad(name string) Handle {
	h, err := s.Load(name)
	if err != nil {
		panic(err)
	}
	return h
}

// Image returns the decoded image for h, or nil.
func (s *Server) Image(h Handle) image.Image {
	if h == 0 || int(h) > len(s.entries) {
		return nil
	}
	return s.entries[h-1].image
}

// Name returns the name h was loaded from.
func (s *Server) Name(h Handle) string {
	if h == 0 || int(h) > len(s.entries) {
		return ""
	}
	return s.entries[h-1].name
}

// Len returns the number of loaded assets.
func (s *Server) Len() int {
	return len(s.entries)
}
