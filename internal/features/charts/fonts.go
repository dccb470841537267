package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"co2-emissions/internal/infra/log"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// defaultFontPaths are tried after the configured ones. Only TrueType files:
// collections (.ttc) and OpenType CFF are not supported by the parser.
var defaultFontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// fontSet holds a regular and a bold font and caches faces per size.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
	source  string

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// loadFonts uses the first loadable file of paths (then the default list) as the
// regular font; the bundled Go fonts are used when none loads. Bold is always Go Bold
// unless the file found has a "-Bold" sibling.
func loadFonts(paths []string, useSystem bool) (*fontSet, error) {
	fs := &fontSet{faces: make(map[faceKey]font.Face)}

	candidates := append([]string(nil), paths...)
	if useSystem {
		candidates = append(candidates, defaultFontPaths...)
	}
	for _, p := range candidates {
		path := expandPath(p)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			log.LogWarn("Font file exists but failed to load", zap.String("path", path), zap.Error(err))
			continue
		}
		fs.regular = f
		fs.source = path
		if boldData, err := os.ReadFile(boldSibling(path)); err == nil {
			if b, err := truetype.Parse(boldData); err == nil {
				fs.bold = b
			}
		}
		break
	}

	if fs.regular == nil {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bundled regular font: %w", err)
		}
		fs.regular = f
		fs.source = "gofont/goregular"
	}
	if fs.bold == nil {
		b, err := truetype.Parse(gobold.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bundled bold font: %w", err)
		}
		fs.bold = b
	}

	log.LogDebug("Chart font loaded", zap.String("source", fs.source))
	return fs, nil
}

func (fs *fontSet) face(size float64, bold bool) font.Face {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := faceKey{size: size, bold: bold}
	if f, ok := fs.faces[key]; ok {
		return f
	}
	src := fs.regular
	if bold {
		src = fs.bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	fs.faces[key] = f
	return f
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// boldSibling maps ".../Name-Regular.ttf" to ".../Name-Bold.ttf".
func boldSibling(path string) string {
	if strings.Contains(path, "-Regular") {
		return strings.Replace(path, "-Regular", "-Bold", 1)
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-Bold" + ext
}
