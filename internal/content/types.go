package content

import (
	"cmp"
	"time"
)

// Hero is the landing banner shown at the top of the site.
type Hero struct {
	Title               string `json:"title" bson:"title" yaml:"title"`
	Subtitle            string `json:"subtitle" bson:"subtitle" yaml:"subtitle" required:"false"`
	Description         string `json:"description" bson:"description" yaml:"description" required:"false"`
	ImageURL            string `json:"imageUrl" bson:"imageUrl" yaml:"imageUrl" required:"false"`
	ShowScrollIndicator bool   `json:"showScrollIndicator" bson:"showScrollIndicator" yaml:"showScrollIndicator" required:"false"`
}

// About holds the biography and highlight bullets.
type About struct {
	Bio        string   `json:"bio" bson:"bio" yaml:"bio" required:"false"`
	Highlights []string `json:"highlights" bson:"highlights" yaml:"highlights" required:"false"`
}

// SectionVisibility toggles each public section.
type SectionVisibility struct {
	Hero         bool `json:"hero" bson:"hero" yaml:"hero"`
	About        bool `json:"about" bson:"about" yaml:"about"`
	Experience   bool `json:"experience" bson:"experience" yaml:"experience"`
	Education    bool `json:"education" bson:"education" yaml:"education"`
	Publications bool `json:"publications" bson:"publications" yaml:"publications"`
	Trainings    bool `json:"trainings" bson:"trainings" yaml:"trainings"`
	Skills       bool `json:"skills" bson:"skills" yaml:"skills"`
	Blog         bool `json:"blog" bson:"blog" yaml:"blog"`
	Contact      bool `json:"contact" bson:"contact" yaml:"contact"`
}

// Experience is a position held, ordered manually.
type Experience struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title" bson:"title" yaml:"title"`
	Company     string `json:"company" bson:"company" yaml:"company"`
	Period      string `json:"period" bson:"period" yaml:"period" required:"false"`
	Description string `json:"description,omitempty" bson:"description" yaml:"description,omitempty"`
	Order       int    `json:"order" bson:"order" yaml:"order" required:"false"`
}

// Education is a degree or qualification.
type Education struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Degree      string `json:"degree" bson:"degree" yaml:"degree"`
	Institution string `json:"institution" bson:"institution" yaml:"institution"`
	Location    string `json:"location,omitempty" bson:"location" yaml:"location,omitempty"`
	Years       string `json:"years" bson:"years" yaml:"years" required:"false"`
	Order       int    `json:"order" bson:"order" yaml:"order" required:"false"`
}

// Publication is a paper, poster or talk.
type Publication struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Title    string `json:"title" bson:"title" yaml:"title"`
	Event    string `json:"event" bson:"event" yaml:"event" required:"false"`
	Date     string `json:"date" bson:"date" yaml:"date" required:"false"`
	Location string `json:"location,omitempty" bson:"location" yaml:"location,omitempty"`
	Type     string `json:"type" bson:"type" yaml:"type" required:"false"`
	PDFLink  string `json:"pdfLink,omitempty" bson:"pdfLink,omitempty" yaml:"pdfLink,omitempty"`
	Color    string `json:"color,omitempty" bson:"color,omitempty" yaml:"color,omitempty"`
	Icon     string `json:"icon,omitempty" bson:"icon,omitempty" yaml:"icon,omitempty"`
	Order    int    `json:"order" bson:"order" yaml:"order" required:"false"`
}

// Training is a course or workshop attended.
type Training struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Title    string `json:"title" bson:"title" yaml:"title"`
	Date     string `json:"date" bson:"date" yaml:"date" required:"false"`
	Location string `json:"location,omitempty" bson:"location" yaml:"location,omitempty"`
	Icon     string `json:"icon,omitempty" bson:"icon,omitempty" yaml:"icon,omitempty"`
	Order    int    `json:"order" bson:"order" yaml:"order" required:"false"`
}

// SkillType separates technical from personal skills.
type SkillType string

const (
	SkillTechnical SkillType = "technical"
	SkillPersonal  SkillType = "personal"
)

// Skill is a single rated or unrated competency.
type Skill struct {
	ID    string    `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Name  string    `json:"name" bson:"name" yaml:"name"`
	Level int       `json:"level,omitempty" bson:"level,omitempty" yaml:"level,omitempty" minimum:"0" maximum:"100"`
	Type  SkillType `json:"type" bson:"type" yaml:"type" enum:"technical,personal"`
	Icon  string    `json:"icon,omitempty" bson:"icon,omitempty" yaml:"icon,omitempty"`
	Order int       `json:"order" bson:"order" yaml:"order" required:"false"`
}

// BlogPost is an article with HTML content.
type BlogPost struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Title     string    `json:"title" bson:"title" yaml:"title"`
	Content   string    `json:"content" bson:"content" yaml:"content"`
	Date      time.Time `json:"date,omitempty" bson:"date" yaml:"date,omitempty"`
	Author    string    `json:"author" bson:"author" yaml:"author" required:"false"`
	ImageURL  string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty" bson:"excerpt" yaml:"excerpt,omitempty"`
	Published bool      `json:"published" bson:"published" yaml:"published" required:"false"`
}

// Message is a contact form submission.
type Message struct {
	ID      string    `json:"id,omitempty" bson:"_id,omitempty" yaml:"id,omitempty"`
	Name    string    `json:"name" bson:"name" yaml:"name"`
	Email   string    `json:"email" bson:"email" yaml:"email"`
	Subject string    `json:"subject,omitempty" bson:"subject" yaml:"subject,omitempty"`
	Message string    `json:"message" bson:"message" yaml:"message"`
	Date    time.Time `json:"date,omitempty" bson:"date" yaml:"date,omitempty"`
	Read    bool      `json:"read" bson:"read" yaml:"read"`
}

// Record is implemented by every collection entity.
type Record[T any] interface {
	RecordID() string
	WithID(id string) T
}

func (e Experience) RecordID() string {
	return e.ID
}

func (e Experience) WithID(id string) Experience {
	e.ID = id
	return e
}

func (e Education) RecordID() string {
	return e.ID
}

func (e Education) WithID(id string) Education {
	e.ID = id
	return e
}

func (p Publication) RecordID() string {
	return p.ID
}

func (p Publication) WithID(id string) Publication {
	p.ID = id
	return p
}

func (t Training) RecordID() string {
	return t.ID
}

func (t Training) WithID(id string) Training {
	t.ID = id
	return t
}

func (s Skill) RecordID() string {
	return s.ID
}

func (s Skill) WithID(id string) Skill {
	s.ID = id
	return s
}

func (b BlogPost) RecordID() string {
	return b.ID
}

func (b BlogPost) WithID(id string) BlogPost {
	b.ID = id
	return b
}

func (m Message) RecordID() string {
	return m.ID
}

func (m Message) WithID(id string) Message {
	m.ID = id
	return m
}

func (e Experience) SortOrder() int  { return e.Order }
func (e Education) SortOrder() int   { return e.Order }
func (p Publication) SortOrder() int { return p.Order }
func (t Training) SortOrder() int    { return t.Order }
func (s Skill) SortOrder() int       { return s.Order }

type ordered interface {
	SortOrder() int
}

func byOrder[T ordered](a, b T) int {
	return cmp.Compare(a.SortOrder(), b.SortOrder())
}

func postsNewestFirst(a, b BlogPost) int {
	return b.Date.Compare(a.Date)
}

func messagesNewestFirst(a, b Message) int {
	return b.Date.Compare(a.Date)
}

// Sorting names the remote field a collection is ordered by.
type Sorting struct {
	Field      string
	Descending bool
}

var (
	sortByOrder    = Sorting{Field: "order"}
	sortByDateDesc = Sorting{Field: "date", Descending: true}
)
