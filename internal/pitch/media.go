package pitch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"pitchclerk/internal/services"
)

// MediaKind distinguishes the two uploads a pitch carries.
type MediaKind int

const (
	MediaMusic MediaKind = iota
	MediaCover
)

const (
	maxMusicBytes = 50 << 20
	maxCoverBytes = 10 << 20
)

func (k MediaKind) String() string {
	if k == MediaCover {
		return "cover photo"
	}
	return "music file"
}

func (k MediaKind) limit() int64 {
	if k == MediaCover {
		return maxCoverBytes
	}
	return maxMusicBytes
}

func (k MediaKind) extensions() []string {
	if k == MediaCover {
		return []string{".jpg", ".jpeg", ".png"}
	}
	return []string{".mp3", ".wav", ".flac", ".aac"}
}

// Media is a file chosen for upload.
type Media struct {
	Kind MediaKind
	Path string
	Name string
	Size int64
}

// OpenMedia checks that path is a regular file of an accepted type and below
// the size limit for kind. Failures are validation errors.
func OpenMedia(path string, kind MediaKind) (*Media, error) {
	op := "attach " + kind.String()
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.NewValidationError(op, fmt.Sprintf("A %s is required.", kind))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(kind.extensions(), ext) {
		return nil, services.NewValidationError(op, fmt.Sprintf("Unsupported %s type %q; use one of %s.",
			kind, ext, strings.Join(kind.extensions(), ", ")))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, op, fmt.Sprintf("Cannot read %s %s.", kind, path), err)
	}
	if !info.Mode().IsRegular() {
		return nil, services.NewValidationError(op, fmt.Sprintf("%s is not a regular file.", path))
	}
	if info.Size() >= kind.limit() {
		return nil, services.NewValidationError(op, fmt.Sprintf("The %s must be smaller than %s (got %s).",
			kind, humanize.IBytes(uint64(kind.limit())), humanize.IBytes(uint64(info.Size()))))
	}

	return &Media{Kind: kind, Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}
