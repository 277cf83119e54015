package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletedDialogPut(t *testing.T) {
	d := NewCompletedDialog("conv", "profile")
	d.Put("name", "Ada")
	d.Put("age", 36)
	d.Put("picture", nil)

	assert.Equal(t, map[string]string{"name": "Ada", "age": "36", "picture": ""}, d.Values)
}

func TestAttachmentIsImage(t *testing.T) {
	assert.True(t, Attachment{ContentType: "image/png"}.IsImage())
	assert.False(t, Attachment{ContentType: "application/pdf"}.IsImage())
}
