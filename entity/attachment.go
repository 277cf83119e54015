package entity

import "strings"

// Attachment is a file the user sent in reply to a prompt.
type Attachment struct {
	Name        string `json:"name" bson:"name"`
	ContentType string `json:"content_type" bson:"content_type" validate:"required"`
	URL         string `json:"url,omitempty" bson:"url,omitempty"`
	Size        int64  `json:"size,omitempty" bson:"size,omitempty"`
}

// IsImage reports whether the attachment declares an image content type.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}
