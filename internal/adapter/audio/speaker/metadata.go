package speaker

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// readTrackInfo fills title and artist from the file's tags, falling back to
// the file name when the file carries none.
func readTrackInfo(path string, r io.ReadSeeker) domain.TrackInfo {
	base := filepath.Base(path)
	info := domain.TrackInfo{
		FilePath: path,
		Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		Format:   formatOf(path),
	}

	metadata, err := tag.ReadFrom(r)
	if err != nil || metadata == nil {
		// If tag reading fails, return basic metadata
		return info
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		info.Title = title
	}
	if artist := strings.TrimSpace(metadata.Artist()); artist != "" {
		info.Artist = artist
	}
	return info
}
