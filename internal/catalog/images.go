package catalog

import (
	"regexp"
	"strings"

	"filmcatalog/pkg/models"
)

const (
	// AssetPrefix locates every resolved image under the static root.
	AssetPrefix = "/images/"

	directorsDir     = "directors/"
	directorImageExt = ".jpg"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ImagePaths holds the seven asset fields of a film. Nil means no asset.
type ImagePaths struct {
	Cover    *string
	Director *string
	Actor1   *string
	Actor2   *string
	Actor3   *string
	Title    *string
	Film     *string
}

// imageSlots maps an image entry type to its field.
var imageSlots = map[string]func(p *ImagePaths) **string{
	"cover":           func(p *ImagePaths) **string { return &p.Cover },
	"director":        func(p *ImagePaths) **string { return &p.Director },
	"titlePhotoPath":  func(p *ImagePaths) **string { return &p.Title },
	"filmPhotoPath":   func(p *ImagePaths) **string { return &p.Film },
	"actor1ImagePath": func(p *ImagePaths) **string { return &p.Actor1 },
	"actor2ImagePath": func(p *ImagePaths) **string { return &p.Actor2 },
	"actor3ImagePath": func(p *ImagePaths) **string { return &p.Actor3 },
}

// ResolveImages derives asset paths from an images list. Unknown types and
// entries without a name are skipped; a later entry of the same type wins.
// When no director image was listed and director is not blank, a path under
// the directors directory is synthesized from the name.
func ResolveImages(images []models.ImageEntry, director string) ImagePaths {
	var paths ImagePaths
	for _, img := range images {
		slot, ok := imageSlots[img.Type]
		if !ok || strings.TrimSpace(img.Name) == "" {
			continue
		}
		p := WithAssetPrefix(img.Name)
		*slot(&paths) = &p
	}

	if paths.Director == nil {
		if name := strings.TrimSpace(director); name != "" {
			p := AssetPrefix + directorsDir + whitespaceRun.ReplaceAllString(name, "_") + directorImageExt
			paths.Director = &p
		}
	}
	return paths
}

// WithAssetPrefix prepends AssetPrefix unless name already carries it, with
// or without the leading slash.
func WithAssetPrefix(name string) string {
	if strings.HasPrefix(name, AssetPrefix) {
		return name
	}
	name = strings.TrimLeft(name, "/")
	if strings.HasPrefix(name, AssetPrefix[1:]) {
		return "/" + name
	}
	return AssetPrefix + name
}

func (p ImagePaths) Apply(f *models.Film) {
	f.CoverPath = p.Cover
	f.DirectorImagePath = p.Director
	f.Actor1ImagePath = p.Actor1
	f.Actor2ImagePath = p.Actor2
	f.Actor3ImagePath = p.Actor3
	f.TitlePhotoPath = p.Title
	f.FilmPhotoPath = p.Film
}

// ParseImages reads the images list of a raw record, ignoring malformed entries.
func ParseImages(v any) []models.ImageEntry {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]models.ImageEntry, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := toText(m["type"])
		name, _ := toText(m["name"])
		out = append(out, models.ImageEntry{Type: typ, Name: name})
	}
	return out
}
