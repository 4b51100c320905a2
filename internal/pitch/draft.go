package pitch

// Draft is one pitch in progress. It lives only as long as the wizard that
// owns it.
type Draft struct {
	// Release information.
	Title           string
	Version         string
	Type            ReleaseType
	PrimaryArtist   string
	FeaturingArtist string
	Genre           string
	SubGenre        string
	RecordName      string
	UpcEan          string
	Description     string
	MarketingPlan   string

	// Media.
	MusicFile  *Media
	CoverPhoto *Media

	// Links.
	Platforms     []string
	PitchLocation string
	AppleMusic    string
	MusicLink     string
	ListenLink    string
	ReleaseDate   string
	PromotionDate string
	Language      string
	Country       string

	Territories Territories
	Package     PackageID
}

// NewDraft returns a draft with the wizard's starting values.
func NewDraft() *Draft {
	return &Draft{
		Type:      ReleaseSingle,
		Version:   "Original",
		Platforms: []string{"Apple Music"},
	}
}

// Clone returns a deep copy.
func (d *Draft) Clone() *Draft {
	cp := *d
	cp.Platforms = append([]string(nil), d.Platforms...)
	cp.Territories = NewTerritories(d.Territories.List()...)
	if d.MusicFile != nil {
		m := *d.MusicFile
		cp.MusicFile = &m
	}
	if d.CoverPhoto != nil {
		m := *d.CoverPhoto
		cp.CoverPhoto = &m
	}
	return &cp
}

// PrimaryTerritory is the first selected territory.
func (d *Draft) PrimaryTerritory() string {
	return d.Territories.Primary()
}

// Patch is a partial update. Nil fields leave the draft untouched.
type Patch struct {
	Title           *string
	Version         *string
	Type            *ReleaseType
	PrimaryArtist   *string
	FeaturingArtist *string
	Genre           *string
	SubGenre        *string
	RecordName      *string
	UpcEan          *string
	Description     *string
	MarketingPlan   *string

	MusicFile  *Media
	CoverPhoto *Media

	Platforms     []string
	PitchLocation *string
	AppleMusic    *string
	MusicLink     *string
	ListenLink    *string
	ReleaseDate   *string
	PromotionDate *string
	Language      *string
	Country       *string

	// Territories replaces the whole selection when non-nil.
	Territories []string
	Package     *PackageID
}

// Apply merges p into d field by field, last write wins.
func (d *Draft) Apply(p Patch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Title, p.Title)
	set(&d.Version, p.Version)
	if p.Type != nil {
		d.Type = *p.Type
	}
	set(&d.PrimaryArtist, p.PrimaryArtist)
	set(&d.FeaturingArtist, p.FeaturingArtist)
	set(&d.Genre, p.Genre)
	set(&d.SubGenre, p.SubGenre)
	set(&d.RecordName, p.RecordName)
	set(&d.UpcEan, p.UpcEan)
	set(&d.Description, p.Description)
	set(&d.MarketingPlan, p.MarketingPlan)

	if p.MusicFile != nil {
		m := *p.MusicFile
		d.MusicFile = &m
	}
	if p.CoverPhoto != nil {
		m := *p.CoverPhoto
		d.CoverPhoto = &m
	}

	if p.Platforms != nil {
		d.Platforms = append([]string(nil), p.Platforms...)
	}
	set(&d.PitchLocation, p.PitchLocation)
	set(&d.AppleMusic, p.AppleMusic)
	set(&d.MusicLink, p.MusicLink)
	set(&d.ListenLink, p.ListenLink)
	set(&d.ReleaseDate, p.ReleaseDate)
	set(&d.PromotionDate, p.PromotionDate)
	set(&d.Language, p.Language)
	set(&d.Country, p.Country)

	if p.Territories != nil {
		d.Territories = NewTerritories(p.Territories...)
	}
	if p.Package != nil {
		d.Package = *p.Package
	}
}

// String returns a pointer to v, for building patches.
func String(v string) *string {
	return &v
}
