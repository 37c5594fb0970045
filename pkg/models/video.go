package models

import (
	"fmt"
	"strings"
)

// PreviewSuffix marks the derived 5-second clip of a source video.
const PreviewSuffix = "1st_5_secs"

// VideoAsset identifies one video object in the store. Object names
// decompose into exactly {brand}/{category}/{filename}; anything else
// is rejected at parse time rather than guessed at.
type VideoAsset struct {
	Name     string `json:"name"` // full object path in the store
	Brand    string `json:"brand"`
	Category string `json:"category"`
	FileName string `json:"file_name"` // base name with extension
	Stem     string `json:"stem"`      // base name without extension
	Format   string `json:"format"`    // extension without the dot
	Size     int64  `json:"size"`
	URI      string `json:"uri"`
}

// ParseVideoAsset resolves an object name into a VideoAsset.
func ParseVideoAsset(objectName string, size int64, bucket string) (VideoAsset, error) {
	parts := strings.Split(objectName, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return VideoAsset{}, fmt.Errorf("%w: %q", ErrMalformedName, objectName)
	}

	fileName := parts[2]
	dot := strings.LastIndex(fileName, ".")
	if dot <= 0 || dot == len(fileName)-1 {
		return VideoAsset{}, fmt.Errorf("%w: no format in %q", ErrMalformedName, objectName)
	}

	return VideoAsset{
		Name:     objectName,
		Brand:    parts[0],
		Category: parts[1],
		FileName: fileName,
		Stem:     fileName[:dot],
		Format:   fileName[dot+1:],
		Size:     size,
		URI:      fmt.Sprintf("gs://%s/%s", bucket, objectName),
	}, nil
}

// IsPreview reports whether the object name already carries the derived
// preview clip marker.
func IsPreview(objectName string) bool {
	return strings.Contains(objectName, PreviewSuffix)
}

// PreviewName derives the canonical preview clip object name for the asset.
func (v VideoAsset) PreviewName() string {
	return fmt.Sprintf("%s/%s/%s_%s.%s", v.Brand, v.Category, v.Stem, PreviewSuffix, v.Format)
}

// PreviewFileName is the base name of the derived preview clip.
func (v VideoAsset) PreviewFileName() string {
	return fmt.Sprintf("%s_%s.%s", v.Stem, PreviewSuffix, v.Format)
}

// SizeMB returns the asset size in megabytes (decimal, matching the
// store's reported byte counts).
func (v VideoAsset) SizeMB() float64 {
	return float64(v.Size) / 1e6
}
