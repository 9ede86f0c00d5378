package types

// Question is a single picture-naming quiz entry. Questions are ephemeral:
// they live only for the duration of a quiz session and are never
// persisted alongside tasks.
type Question struct {
	ID          int      `json:"id"`
	Image       string   `json:"image"` // URI
	Label       string   `json:"label,omitempty"` // ground truth; may be resolved via detection
	Distractors []string `json:"distractors,omitempty"`
}
