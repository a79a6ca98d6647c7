package schema

// MoviePatch describes a partial change to a movie. Nil fields are left alone.
type MoviePatch struct {
	Title    *string    `json:"title,omitempty"`
	Type     *MovieType `json:"type,omitempty"`
	Rating   *float64   `json:"rating,omitempty"`
	Synopsis *string    `json:"synopsis,omitempty"`
	Image    *string    `json:"image,omitempty"`
	Watched  *bool      `json:"watched,omitempty"`
	Comments *[]Comment `json:"comments,omitempty"`
}

func (p MoviePatch) IsEmpty() bool {
	return p.Title == nil && p.Type == nil && p.Rating == nil && p.Synopsis == nil &&
		p.Image == nil && p.Watched == nil && p.Comments == nil
}

func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Rating != nil {
		m.Rating = *p.Rating
	}
	if p.Synopsis != nil {
		m.Synopsis = *p.Synopsis
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	if p.Watched != nil {
		m.Watched = *p.Watched
	}
	if p.Comments != nil {
		comments := make([]Comment, len(*p.Comments))
		copy(comments, *p.Comments)
		m.Comments = comments
	}
}
