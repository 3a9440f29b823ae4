package content

// DefaultHero is shown until an administrator saves their own banner.
func DefaultHero() Hero {
	return Hero{
		Title:               "Dr. Saugat Bhandari",
		Subtitle:            "MBBS",
		Description:         "Looking forward to work as a medical professional, gain experience and learn as well as provide my help to the institution.",
		ImageURL:            "/placeholder.svg?height=400&width=400",
		ShowScrollIndicator: true,
	}
}

func DefaultAbout() About {
	return About{Highlights: []string{}}
}

// DefaultVisibility shows every section.
func DefaultVisibility() SectionVisibility {
	return SectionVisibility{
		Hero:         true,
		About:        true,
		Experience:   true,
		Education:    true,
		Publications: true,
		Trainings:    true,
		Skills:       true,
		Blog:         true,
		Contact:      true,
	}
}
