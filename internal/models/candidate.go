package models

// ManifestoMaxLen bounds the optional manifesto summary shown on ballots.
const ManifestoMaxLen = 100

type Candidate struct {
	ID               int    `gorm:"primaryKey" json:"id"`
	PollID           int    `gorm:"index;not null" json:"poll_id"`
	Name             string `gorm:"not null" json:"name"`
	PictureURL       string `json:"picture_url,omitempty"`
	ManifestoSummary string `gorm:"size:100" json:"manifesto_summary,omitempty"`
}
