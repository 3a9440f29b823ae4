package content

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	applog "portfolio/app/internal/log"
)

// Cache keys and remote locations of every entity.
const (
	heroKey        = "heroData"
	aboutKey       = "aboutData"
	visibilityKey  = "sectionVisibility"
	experiencesKey = "experiences"
	educationKey   = "education"
	publicationKey = "publications"
	trainingsKey   = "trainings"
	skillsKey      = "skills"
	postsKey       = "blogPosts"
	messagesKey    = "contactMessages"
)

// Snapshot is every public section in one read.
type Snapshot struct {
	Hero         Hero              `json:"hero"`
	About        About             `json:"about"`
	Visibility   SectionVisibility `json:"visibility"`
	Experiences  []Experience      `json:"experiences"`
	Education    []Education       `json:"education"`
	Publications []Publication     `json:"publications"`
	Trainings    []Training        `json:"trainings"`
	Skills       []Skill           `json:"skills"`
	Posts        []BlogPost        `json:"posts"`
}

// SyncReport counts what Sync pushed to the remote store.
type SyncReport struct {
	Documents int `json:"documents"`
	Records   int `json:"records"`
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Backend *Backend
	Now     func() time.Time
}

// Service is the typed facade the transport and CLI work against.
type Service struct {
	backend *Backend
	now     func() time.Time

	hero       *Singleton[Hero]
	about      *Singleton[About]
	visibility *Singleton[SectionVisibility]

	experiences  *Collection[Experience]
	education    *Collection[Education]
	publications *Collection[Publication]
	trainings    *Collection[Training]
	skills       *Collection[Skill]
	posts        *Collection[BlogPost]
	messages     *Collection[Message]
}

// NewService wires every entity store on top of the shared backend.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Backend == nil {
		return nil, eris.New("content backend is required")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Service{backend: opts.Backend, now: now}

	var err error
	if s.hero, err = NewSingleton(opts.Backend, SingletonSpec[Hero]{
		Entity: "hero", CacheKey: heroKey, Collection: "data", DocumentID: "hero",
		Default: DefaultHero, Prepare: prepareHero,
	}); err != nil {
		return nil, err
	}
	if s.about, err = NewSingleton(opts.Backend, SingletonSpec[About]{
		Entity: "about", CacheKey: aboutKey, Collection: "data", DocumentID: "about",
		Default: DefaultAbout, Prepare: prepareAbout,
	}); err != nil {
		return nil, err
	}
	if s.visibility, err = NewSingleton(opts.Backend, SingletonSpec[SectionVisibility]{
		Entity: "visibility", CacheKey: visibilityKey, Collection: "settings", DocumentID: "sectionVisibility",
		Default: DefaultVisibility,
	}); err != nil {
		return nil, err
	}

	if s.experiences, err = NewCollection(opts.Backend, CollectionSpec[Experience]{
		Entity: "experience", CacheKey: experiencesKey, Collection: "experiences",
		Sorting: sortByOrder, Compare: byOrder[Experience], Prepare: prepareExperience,
	}); err != nil {
		return nil, err
	}
	if s.education, err = NewCollection(opts.Backend, CollectionSpec[Education]{
		Entity: "education", CacheKey: educationKey, Collection: "education",
		Sorting: sortByOrder, Compare: byOrder[Education], Prepare: prepareEducation,
	}); err != nil {
		return nil, err
	}
	if s.publications, err = NewCollection(opts.Backend, CollectionSpec[Publication]{
		Entity: "publication", CacheKey: publicationKey, Collection: "publications",
		Sorting: sortByOrder, Compare: byOrder[Publication], Prepare: preparePublication,
	}); err != nil {
		return nil, err
	}
	if s.trainings, err = NewCollection(opts.Backend, CollectionSpec[Training]{
		Entity: "training", CacheKey: trainingsKey, Collection: "trainings",
		Sorting: sortByOrder, Compare: byOrder[Training], Prepare: prepareTraining,
	}); err != nil {
		return nil, err
	}
	if s.skills, err = NewCollection(opts.Backend, CollectionSpec[Skill]{
		Entity: "skill", CacheKey: skillsKey, Collection: "skills",
		Sorting: sortByOrder, Compare: byOrder[Skill], Prepare: prepareSkill,
	}); err != nil {
		return nil, err
	}
	if s.posts, err = NewCollection(opts.Backend, CollectionSpec[BlogPost]{
		Entity: "blog_post", CacheKey: postsKey, Collection: "blogPosts",
		Sorting: sortByDateDesc, Compare: postsNewestFirst, Prepare: postPreparer(now),
	}); err != nil {
		return nil, err
	}
	if s.messages, err = NewCollection(opts.Backend, CollectionSpec[Message]{
		Entity: "message", CacheKey: messagesKey, Collection: "messages",
		Sorting: sortByDateDesc, Compare: messagesNewestFirst, Prepare: prepareMessage,
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) Experiences() *Collection[Experience]   { return s.experiences }
func (s *Service) Education() *Collection[Education]      { return s.education }
func (s *Service) Publications() *Collection[Publication] { return s.publications }
func (s *Service) Trainings() *Collection[Training]       { return s.trainings }
func (s *Service) Skills() *Collection[Skill]             { return s.skills }
func (s *Service) Posts() *Collection[BlogPost]           { return s.posts }
func (s *Service) Messages() *Collection[Message]         { return s.messages }

func (s *Service) HeroData(ctx context.Context) Hero {
	hero, _ := s.hero.Get(ctx)
	return hero
}

func (s *Service) UpdateHero(ctx context.Context, hero Hero) (Hero, error) {
	saved, err := s.hero.Set(ctx, hero)
	return saved, s.writeFailed(ctx, "hero", err)
}

func (s *Service) AboutData(ctx context.Context) About {
	about, _ := s.about.Get(ctx)
	if about.Highlights == nil {
		about.Highlights = []string{}
	}
	return about
}

func (s *Service) UpdateAbout(ctx context.Context, about About) (About, error) {
	saved, err := s.about.Set(ctx, about)
	return saved, s.writeFailed(ctx, "about", err)
}

func (s *Service) SectionVisibility(ctx context.Context) SectionVisibility {
	visibility, _ := s.visibility.Get(ctx)
	return visibility
}

func (s *Service) UpdateSectionVisibility(ctx context.Context, visibility SectionVisibility) (SectionVisibility, error) {
	saved, err := s.visibility.Set(ctx, visibility)
	return saved, s.writeFailed(ctx, "visibility", err)
}

// PublishedPosts lists the posts visible on the public site, newest first.
func (s *Service) PublishedPosts(ctx context.Context) []BlogPost {
	posts, _ := s.posts.List(ctx)

	published := make([]BlogPost, 0, len(posts))
	for _, post := range posts {
		if post.Published {
			published = append(published, post)
		}
	}
	return published
}

// PublishedPost returns one public post. Drafts are reported as not found.
func (s *Service) PublishedPost(ctx context.Context, id string) (BlogPost, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return BlogPost{}, err
	}
	if !post.Published {
		return BlogPost{}, eris.Wrapf(ErrNotFound, "blog post %s is not published", id)
	}
	return post, nil
}

// SubmitMessage stores a contact form submission as unread.
func (s *Service) SubmitMessage(ctx context.Context, msg Message) (Message, error) {
	msg.Date = s.now().UTC()
	msg.Read = false

	saved, err := s.messages.Add(ctx, msg)
	return saved, s.writeFailed(ctx, "message", err)
}

// MarkMessageRead flips the read flag of one message.
func (s *Service) MarkMessageRead(ctx context.Context, id string, read bool) (Message, error) {
	saved, err := s.messages.Patch(ctx, id, func(m Message) Message {
		m.Read = read
		return m
	}, map[string]any{"read": read})
	return saved, s.writeFailed(ctx, "message", err)
}

// Snapshot reads every public section at once.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	experiences, _ := s.experiences.List(ctx)
	education, _ := s.education.List(ctx)
	publications, _ := s.publications.List(ctx)
	trainings, _ := s.trainings.List(ctx)
	skills, _ := s.skills.List(ctx)

	return Snapshot{
		Hero:         s.HeroData(ctx),
		About:        s.AboutData(ctx),
		Visibility:   s.SectionVisibility(ctx),
		Experiences:  experiences,
		Education:    education,
		Publications: publications,
		Trainings:    trainings,
		Skills:       skills,
		Posts:        s.PublishedPosts(ctx),
	}
}

// Sync pushes every locally cached entity to the remote store.
func (s *Service) Sync(ctx context.Context) (SyncReport, error) {
	var report SyncReport
	if !s.backend.RemoteAvailable() {
		return report, ErrRemoteUnavailable
	}

	for _, sync := range []func(context.Context) (bool, error){s.hero.Sync, s.about.Sync, s.visibility.Sync} {
		pushed, err := sync(ctx)
		if err != nil {
			return report, err
		}
		if pushed {
			report.Documents++
		}
	}

	for _, sync := range []func(context.Context) (int, error){
		s.experiences.Sync, s.education.Sync, s.publications.Sync, s.trainings.Sync,
		s.skills.Sync, s.posts.Sync, s.messages.Sync,
	} {
		count, err := sync(ctx)
		report.Records += count
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// RemoteAvailable reports whether a remote document store is configured.
func (s *Service) RemoteAvailable() bool {
	return s.backend.RemoteAvailable()
}

// PingRemote checks the remote document store.
func (s *Service) PingRemote(ctx context.Context) error {
	return s.backend.PingRemote(ctx)
}

// writeFailed reports local write failures. Validation and lookup errors are
// returned untouched.
func (s *Service) writeFailed(ctx context.Context, entity string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsValidation(err); ok || eris.Is(err, ErrNotFound) {
		return err
	}

	s.recordError(ctx, logrus.Fields{"entity": entity}, err, "saving content failed")
	return err
}

func (s *Service) recordError(ctx context.Context, fields logrus.Fields, err error, message string) {
	entry := s.backend.logger.WithFields(logrus.Fields{"component": "content", "error": err.Error()})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)

	applog.Capture(ctx, s.backend.sentryHub, err)
}
