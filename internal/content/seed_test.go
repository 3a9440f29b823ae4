package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleSeed = `
hero:
  title: Dr. Seed
  subtitle: MBBS
  showScrollIndicator: false
about:
  bio: Seeded biography
  highlights:
    - Emergency medicine
visibility:
  hero: true
  about: true
  experience: true
  education: true
  publications: false
  trainings: true
  skills: true
  blog: true
  contact: true
experiences:
  - id: exp-intern
    title: Intern
    company: Teaching Hospital
    period: 2022 - 2023
    order: 1
skills:
  - name: Suturing
    type: technical
    level: 80
    order: 1
posts:
  - id: welcome
    title: Welcome
    content: <p>Hello from the seed file.</p>
    author: Dr. Seed
    published: true
    date: 2024-01-15T10:00:00Z
`

func TestLoadSeedAndApply(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sampleSeed), 0o600); err != nil {
		t.Fatalf("writing seed file failed: %v", err)
	}

	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed returned error: %v", err)
	}

	service := setupService(t, setupCache(t), nil, fixedNow)
	ctx := context.Background()

	report, err := service.ApplySeed(ctx, seed)
	if err != nil {
		t.Fatalf("ApplySeed returned error: %v", err)
	}
	if report.Documents != 3 || report.Records != 3 {
		t.Fatalf("unexpected seed report: %+v", report)
	}

	// Applying twice must not duplicate records that carry ids.
	if _, err := service.ApplySeed(ctx, seed); err != nil {
		t.Fatalf("second ApplySeed returned error: %v", err)
	}

	if hero := service.HeroData(ctx); hero.Title != "Dr. Seed" || hero.ShowScrollIndicator {
		t.Fatalf("unexpected hero: %+v", hero)
	}
	if visibility := service.SectionVisibility(ctx); visibility.Publications {
		t.Fatalf("expected publications to be hidden")
	}

	experiences, _ := service.Experiences().List(ctx)
	if len(experiences) != 1 || experiences[0].ID != "exp-intern" {
		t.Fatalf("unexpected experiences: %+v", experiences)
	}

	skills, _ := service.Skills().List(ctx)
	if len(skills) != 2 {
		t.Fatalf("expected id-less skill to be added on each run, got %+v", skills)
	}

	post, err := service.PublishedPost(ctx, "welcome")
	if err != nil {
		t.Fatalf("PublishedPost returned error: %v", err)
	}
	if post.Excerpt != "Hello from the seed file." || post.Date.Year() != 2024 {
		t.Fatalf("unexpected post: %+v", post)
	}
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	if _, err := ParseSeed([]byte("heroes:\n  title: typo\n")); err == nil {
		t.Fatalf("expected error for unknown top-level field")
	}
}

func TestParseSeedAcceptsEmptyDocument(t *testing.T) {
	t.Parallel()

	seed, err := ParseSeed(nil)
	if err != nil {
		t.Fatalf("ParseSeed returned error: %v", err)
	}
	if seed.Hero != nil || len(seed.Posts) != 0 {
		t.Fatalf("expected empty seed, got %+v", seed)
	}
}

func TestLoadSeedRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := LoadSeed(" "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}
