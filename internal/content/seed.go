package content

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML document used to load initial site content.
type Seed struct {
	Hero         *Hero              `yaml:"hero"`
	About        *About             `yaml:"about"`
	Visibility   *SectionVisibility `yaml:"visibility"`
	Experiences  []Experience       `yaml:"experiences"`
	Education    []Education        `yaml:"education"`
	Publications []Publication      `yaml:"publications"`
	Trainings    []Training         `yaml:"trainings"`
	Skills       []Skill            `yaml:"skills"`
	Posts        []BlogPost         `yaml:"posts"`
}

// SeedReport counts what ApplySeed wrote.
type SeedReport struct {
	Documents int
	Records   int
}

// LoadSeed reads a seed file from disk.
func LoadSeed(path string) (*Seed, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, eris.New("seed path is required")
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, eris.Wrapf(err, "reading seed file: %s", trimmed)
	}

	return ParseSeed(raw)
}

// ParseSeed decodes a seed document. Unknown fields are rejected.
func ParseSeed(raw []byte) (*Seed, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var seed Seed
	if err := decoder.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return &seed, nil
		}
		return nil, eris.Wrap(err, "decoding seed file")
	}

	return &seed, nil
}

// ApplySeed writes every entry of seed through the service. Records carrying
// an id replace the existing record with that id.
func (s *Service) ApplySeed(ctx context.Context, seed *Seed) (SeedReport, error) {
	var report SeedReport
	if seed == nil {
		return report, eris.New("seed is required")
	}

	if seed.Hero != nil {
		if _, err := s.UpdateHero(ctx, *seed.Hero); err != nil {
			return report, eris.Wrap(err, "seeding hero")
		}
		report.Documents++
	}
	if seed.About != nil {
		if _, err := s.UpdateAbout(ctx, *seed.About); err != nil {
			return report, eris.Wrap(err, "seeding about")
		}
		report.Documents++
	}
	if seed.Visibility != nil {
		if _, err := s.UpdateSectionVisibility(ctx, *seed.Visibility); err != nil {
			return report, eris.Wrap(err, "seeding visibility")
		}
		report.Documents++
	}

	steps := []func() (int, error){
		func() (int, error) { return saveAll(ctx, s.experiences, seed.Experiences) },
		func() (int, error) { return saveAll(ctx, s.education, seed.Education) },
		func() (int, error) { return saveAll(ctx, s.publications, seed.Publications) },
		func() (int, error) { return saveAll(ctx, s.trainings, seed.Trainings) },
		func() (int, error) { return saveAll(ctx, s.skills, seed.Skills) },
		func() (int, error) { return saveAll(ctx, s.posts, seed.Posts) },
	}
	for _, step := range steps {
		count, err := step()
		report.Records += count
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

func saveAll[T Record[T]](ctx context.Context, store *Collection[T], items []T) (int, error) {
	for i, item := range items {
		if _, err := store.Save(ctx, item); err != nil {
			return i, eris.Wrapf(err, "seeding %s #%d", store.spec.Entity, i+1)
		}
	}
	return len(items), nil
}
