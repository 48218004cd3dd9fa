package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/picshuttle/picshuttle/internal/models"
)

var _ list.Item = photoItem{}

// photoItem wraps [models.MediaItem] to implement [list.Item].
type photoItem struct {
	item     models.MediaItem
	selected bool
}

func (i photoItem) FilterValue() string { return i.label() }

func (i photoItem) Title() string {
	marker := "[ ]"
	if i.selected {
		marker = "[x]"
	}
	return fmt.Sprintf("%s %s", marker, i.label())
}

func (i photoItem) Description() string {
	desc := i.item.MimeType
	if !i.item.CreationTime.IsZero() {
		desc = fmt.Sprintf("%s • %s", desc, i.item.CreationTime.Format("Jan 2, 2006"))
	}
	if i.item.Width > 0 && i.item.Height > 0 {
		desc = fmt.Sprintf("%s • %dx%d", desc, i.item.Width, i.item.Height)
	}
	return desc
}

func (i photoItem) label() string {
	if i.item.Filename != "" {
		return i.item.Filename
	}
	return i.item.ID
}
