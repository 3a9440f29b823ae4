package content

import (
	"net/mail"
	"strings"
	"time"
)

func required(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalid(field, "is required")
	}
	return trimmed, nil
}

func prepareHero(h Hero) (Hero, error) {
	var err error
	if h.Title, err = required("title", h.Title); err != nil {
		return h, err
	}
	h.Subtitle = strings.TrimSpace(h.Subtitle)
	h.Description = strings.TrimSpace(h.Description)
	h.ImageURL = strings.TrimSpace(h.ImageURL)
	return h, nil
}

func prepareAbout(a About) (About, error) {
	a.Bio = strings.TrimSpace(a.Bio)

	highlights := make([]string, 0, len(a.Highlights))
	for _, highlight := range a.Highlights {
		if trimmed := strings.TrimSpace(highlight); trimmed != "" {
			highlights = append(highlights, trimmed)
		}
	}
	a.Highlights = highlights

	return a, nil
}

func prepareExperience(e Experience) (Experience, error) {
	var err error
	if e.Title, err = required("title", e.Title); err != nil {
		return e, err
	}
	if e.Company, err = required("company", e.Company); err != nil {
		return e, err
	}
	e.Period = strings.TrimSpace(e.Period)
	e.Description = strings.TrimSpace(e.Description)
	return e, nil
}

func prepareEducation(e Education) (Education, error) {
	var err error
	if e.Degree, err = required("degree", e.Degree); err != nil {
		return e, err
	}
	if e.Institution, err = required("institution", e.Institution); err != nil {
		return e, err
	}
	e.Location = strings.TrimSpace(e.Location)
	e.Years = strings.TrimSpace(e.Years)
	return e, nil
}

func preparePublication(p Publication) (Publication, error) {
	var err error
	if p.Title, err = required("title", p.Title); err != nil {
		return p, err
	}
	p.Event = strings.TrimSpace(p.Event)
	p.Date = strings.TrimSpace(p.Date)
	p.Location = strings.TrimSpace(p.Location)
	p.Type = strings.TrimSpace(p.Type)
	p.PDFLink = strings.TrimSpace(p.PDFLink)
	return p, nil
}

func prepareTraining(t Training) (Training, error) {
	var err error
	if t.Title, err = required("title", t.Title); err != nil {
		return t, err
	}
	t.Date = strings.TrimSpace(t.Date)
	t.Location = strings.TrimSpace(t.Location)
	return t, nil
}

func prepareSkill(s Skill) (Skill, error) {
	var err error
	if s.Name, err = required("name", s.Name); err != nil {
		return s, err
	}

	s.Type = SkillType(strings.ToLower(strings.TrimSpace(string(s.Type))))
	if s.Type != SkillTechnical && s.Type != SkillPersonal {
		return s, invalid("type", "must be technical or personal")
	}
	if s.Level < 0 || s.Level > 100 {
		return s, invalid("level", "must be between 0 and 100")
	}

	return s, nil
}

func postPreparer(now func() time.Time) func(BlogPost) (BlogPost, error) {
	return func(p BlogPost) (BlogPost, error) {
		var err error
		if p.Title, err = required("title", p.Title); err != nil {
			return p, err
		}

		content, err := cleanPostHTML(p.Content)
		if err != nil {
			return p, invalid("content", "is not valid HTML")
		}
		if strings.TrimSpace(content) == "" {
			return p, invalid("content", "is required")
		}
		p.Content = content

		p.Author = strings.TrimSpace(p.Author)
		p.ImageURL = strings.TrimSpace(p.ImageURL)
		p.Excerpt = strings.TrimSpace(p.Excerpt)
		if p.Excerpt == "" {
			p.Excerpt = Excerpt(p.Content)
		}
		if p.Date.IsZero() {
			p.Date = now().UTC()
		}

		return p, nil
	}
}

func prepareMessage(m Message) (Message, error) {
	var err error
	if m.Name, err = required("name", m.Name); err != nil {
		return m, err
	}
	if m.Email, err = required("email", m.Email); err != nil {
		return m, err
	}
	if !validEmail(m.Email) {
		return m, invalid("email", "must be a valid email address")
	}
	if m.Message, err = required("message", m.Message); err != nil {
		return m, err
	}
	m.Subject = strings.TrimSpace(m.Subject)
	return m, nil
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	at := strings.LastIndexByte(value, '@')
	return at > 0 && at < len(value)-1
}
