package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pitchclerk/internal/pitch"
	"pitchclerk/internal/services"
)

var errWizardAborted = errors.New("wizard input ended before the pitch was submitted")

// prompter reads answers line by line. A blank answer keeps the current value.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errWizardAborted
		}
		return "", err
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// askInto prompts for each field and writes the answer back.
func (p *prompter) askInto(fields []promptField) error {
	for _, f := range fields {
		answer, err := p.ask(f.label, *f.value)
		if err != nil {
			return err
		}
		*f.value = answer
	}
	return nil
}

type promptField struct {
	label string
	value *string
}

// runWizard walks the wizard one step at a time until the pitch is
// submitted or the user exits from the first step.
func runWizard(cmd *cobra.Command, w *pitch.Wizard) (pitch.Outcome, error) {
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	steps := pitch.Steps()

	for {
		step := w.Step()
		fmt.Fprintf(p.out, "\nStep %d of %d: %s\n", int(step)+1, len(steps), step)

		if err := promptStep(p, w, step); err != nil {
			return nil, err
		}

		choices := "[n]ext, [b]ack, [q]uit"
		if step == pitch.LastStep {
			choices = "[s]ubmit, [b]ack, [q]uit"
		}
		action, err := p.ask(choices, "")
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(action) {
		case "q", "quit":
			return pitch.Exited{}, nil
		case "b", "back":
			if _, exited := w.Retreat().(pitch.Exited); exited {
				return pitch.Exited{}, nil
			}
		default:
			outcome, err := w.Advance(cmd.Context())
			if err != nil {
				if errors.Is(err, services.ErrValidation) {
					fmt.Fprintln(p.out, services.UserMessage(err, ""))
					continue
				}
				return nil, err
			}
			if submitted, ok := outcome.(pitch.Submitted); ok {
				return submitted, nil
			}
		}
	}
}

func promptStep(p *prompter, w *pitch.Wizard, step pitch.Step) error {
	d := w.Draft()
	switch step {
	case pitch.StepReleaseInfo:
		releaseType := string(d.Type)
		if err := p.askInto([]promptField{
			{"Title", &d.Title},
			{"Version", &d.Version},
			{"Release type (Single, EP, Album)", &releaseType},
			{"Primary artist", &d.PrimaryArtist},
			{"Featuring artist", &d.FeaturingArtist},
			{"Genre", &d.Genre},
			{"Sub-genre", &d.SubGenre},
			{"Record label", &d.RecordName},
			{"UPC/EAN", &d.UpcEan},
			{"Description", &d.Description},
			{"Marketing plan", &d.MarketingPlan},
		}); err != nil {
			return err
		}
		rt, err := pitch.ParseReleaseType(releaseType)
		if err != nil {
			fmt.Fprintln(p.out, err)
			rt = d.Type
		}
		w.Patch(pitch.Patch{
			Title: &d.Title, Version: &d.Version, Type: &rt,
			PrimaryArtist: &d.PrimaryArtist, FeaturingArtist: &d.FeaturingArtist,
			Genre: &d.Genre, SubGenre: &d.SubGenre, RecordName: &d.RecordName,
			UpcEan: &d.UpcEan, Description: &d.Description, MarketingPlan: &d.MarketingPlan,
		})

	case pitch.StepUpload:
		music, err := promptMedia(p, "Music file (mp3, wav, flac, aac; under 50 MB)", d.MusicFile, pitch.MediaMusic)
		if err != nil {
			return err
		}
		cover, err := promptMedia(p, "Cover photo (jpg, png; under 10 MB)", d.CoverPhoto, pitch.MediaCover)
		if err != nil {
			return err
		}
		w.Patch(pitch.Patch{MusicFile: music, CoverPhoto: cover})

	case pitch.StepLinks:
		platforms := strings.Join(d.Platforms, ", ")
		if err := p.askInto([]promptField{
			{"Platforms (comma separated)", &platforms},
			{"Listen link", &d.ListenLink},
			{"Pitch location link", &d.PitchLocation},
			{"Apple Music link", &d.AppleMusic},
			{"Music link", &d.MusicLink},
			{"Release date (YYYY-MM-DD)", &d.ReleaseDate},
			{"Promotion start date (YYYY-MM-DD)", &d.PromotionDate},
			{"Language", &d.Language},
			{"Country", &d.Country},
		}); err != nil {
			return err
		}
		w.Patch(pitch.Patch{
			Platforms:     parsePlatforms(platforms),
			ListenLink:    &d.ListenLink,
			PitchLocation: &d.PitchLocation,
			AppleMusic:    &d.AppleMusic,
			MusicLink:     &d.MusicLink,
			ReleaseDate:   &d.ReleaseDate,
			PromotionDate: &d.PromotionDate,
			Language:      &d.Language,
			Country:       &d.Country,
		})

	case pitch.StepTerritory:
		answer, err := p.ask("Territories (countries or regions, comma separated; \"all\" for everywhere)",
			strings.Join(d.Territories.List(), ", "))
		if err != nil {
			return err
		}
		territories, err := parseTerritories(answer)
		if err != nil {
			fmt.Fprintln(p.out, err)
			return nil
		}
		w.Patch(pitch.Patch{Territories: territories.List()})

	case pitch.StepPackage:
		for _, pkg := range pitch.Packages() {
			fmt.Fprintf(p.out, "  %-8s %s %s\n", pkg.ID, pkg.Name, pkg.Price)
		}
		answer, err := p.ask("Package", string(d.Package))
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		pkg, ok := pitch.LookupPackage(answer)
		if !ok {
			fmt.Fprintf(p.out, "unknown package %q\n", answer)
			return nil
		}
		w.Patch(pitch.Patch{Package: &pkg.ID})

	case pitch.StepReview:
		fmt.Fprintln(p.out, renderDraft(w.PitchType(), d))
	}
	return nil
}

// promptMedia asks until the file passes OpenMedia or the answer is blank.
func promptMedia(p *prompter, label string, current *pitch.Media, kind pitch.MediaKind) (*pitch.Media, error) {
	currentPath := ""
	if current != nil {
		currentPath = current.Path
	}
	for {
		answer, err := p.ask(label, currentPath)
		if err != nil {
			return nil, err
		}
		if answer == "" || (current != nil && answer == current.Path) {
			return nil, nil
		}
		m, err := pitch.OpenMedia(answer, kind)
		if err != nil {
			fmt.Fprintln(p.out, services.UserMessage(err, err.Error()))
			continue
		}
		return m, nil
	}
}

func parsePlatforms(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if canonical, ok := pitch.CanonicalPlatform(part); ok {
			part = canonical
		}
		out = append(out, part)
	}
	return out
}

func parseTerritories(raw string) (pitch.Territories, error) {
	selection := pitch.NewTerritories()
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			continue
		case strings.EqualFold(part, "all"):
			selection.SelectAll()
		default:
			if region, ok := pitch.LookupRegion(part); ok {
				selection.SetRegion(region, region.Countries...)
				continue
			}
			country, ok := pitch.CanonicalCountry(part)
			if !ok {
				return pitch.Territories{}, fmt.Errorf("unknown territory %q", part)
			}
			selection.Add(country)
		}
	}
	return selection, nil
}

func renderDraft(pitchType string, d *pitch.Draft) string {
	mediaName := func(m *pitch.Media) string {
		if m == nil {
			return ""
		}
		return m.Name
	}
	territories := d.Territories.List()
	territorySummary := strings.Join(territories, ", ")
	if len(territories) > 6 {
		territorySummary = fmt.Sprintf("%s and %d more", strings.Join(territories[:6], ", "), len(territories)-6)
	}
	return renderDetails("Review: "+pitchType, [][2]string{
		{"Title", d.Title},
		{"Version", d.Version},
		{"Type", string(d.Type)},
		{"Primary artist", d.PrimaryArtist},
		{"Featuring", d.FeaturingArtist},
		{"Genre", strings.TrimSpace(d.Genre + " " + d.SubGenre)},
		{"Record label", d.RecordName},
		{"Music file", mediaName(d.MusicFile)},
		{"Cover photo", mediaName(d.CoverPhoto)},
		{"Platforms", strings.Join(d.Platforms, ", ")},
		{"Listen link", d.ListenLink},
		{"Release date", d.ReleaseDate},
		{"Territories", territorySummary},
		{"Package", string(d.Package)},
	})
}
