package pitch

import (
	"io"
	"os"

	"pitchclerk/internal/gateway"
)

// BuildForm serialises d into the pitch/new multipart payload. slug is the
// pitch type path segment. Empty pitch location and music link fall back to
// the listen link; territory is the primary territory.
func BuildForm(slug string, d *Draft) *gateway.Form {
	form := &gateway.Form{}
	form.Add("pitchType", ResolvePitchType(slug))

	form.Add("releaseInfo[title]", d.Title)
	form.Add("releaseInfo[version]", d.Version)
	form.Add("releaseInfo[primaryArtist]", d.PrimaryArtist)
	form.Add("releaseInfo[featuringArtist]", d.FeaturingArtist)
	form.Add("releaseInfo[genre]", d.Genre)
	form.Add("releaseInfo[subGenre]", d.SubGenre)
	form.Add("releaseInfo[recordName]", d.RecordName)
	form.Add("releaseInfo[upsEan]", d.UpcEan)

	form.Add("links[pitchLocation]", firstNonBlank(d.PitchLocation, d.ListenLink))
	form.Add("links[appleMusic]", d.AppleMusic)
	form.Add("links[musicLink]", firstNonBlank(d.MusicLink, d.ListenLink))
	form.Add("links[releaseDate]", d.ReleaseDate)
	form.Add("links[promotionStartDate]", d.PromotionDate)
	form.Add("links[language]", d.Language)
	form.Add("links[country]", d.Country)

	form.Add("territory", d.PrimaryTerritory())
	form.Add("packagePlan", string(d.Package))

	if d.MusicFile != nil {
		form.Files = append(form.Files, mediaPart("musicFile", d.MusicFile))
	}
	if d.CoverPhoto != nil {
		form.Files = append(form.Files, mediaPart("coverPhoto", d.CoverPhoto))
	}
	return form
}

func mediaPart(field string, m *Media) gateway.File {
	path := m.Path
	return gateway.File{
		Field:    field,
		Filename: m.Name,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
