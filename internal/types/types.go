package types

import "time"

type MediaKind string

const (
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
)

// ObjectKind returns the tag the object store expects for this kind.
func (k MediaKind) ObjectKind() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// Attachment is one file part of a submission. It lives in memory only
// for the duration of that submission's processing.
type Attachment struct {
	Data        []byte
	ContentType string
	Kind        MediaKind
	Index       int
}

type Metadata struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type SubmissionRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	PhotoURLs []string  `json:"photo_urls"`
	VideoURLs []string  `json:"video_urls"`
	CreatedAt time.Time `json:"created_at"`
}

type SubmitFormRequest struct {
	Name    string `validate:"required"`
	Address string `validate:"required"`
}
