package entity

import (
	"bytes"
	"io"
	"os"
)

type SlotKind string

const (
	SlotMain SlotKind = "main"
	SlotSub  SlotKind = "sub"
)

// MaxSubImages bounds the sub-image slots; a fifth attach is rejected
// without mutating state.
const MaxSubImages = 4

// LocalFile is a handle to a file picked from the device. Either Path points
// at a readable file or Data holds the bytes directly.
type LocalFile struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

func (f LocalFile) Open() (io.ReadCloser, error) {
	if f.Data != nil {
		return io.NopCloser(bytes.NewReader(f.Data)), nil
	}
	return os.Open(f.Path)
}

func (f LocalFile) ByteSize() int64 {
	if f.Data != nil {
		return int64(len(f.Data))
	}
	return f.Size
}

// ImageSlot holds either an already-persisted remote image or a newly
// acquired local file pending upload. A slot never holds both.
type ImageSlot struct {
	RemoteURL string     `json:"remote_url,omitempty"`
	RemoteID  string     `json:"remote_id,omitempty"`
	Local     *LocalFile `json:"local,omitempty"`
}

func (s ImageSlot) Empty() bool {
	return s.Local == nil && s.RemoteURL == ""
}

func (s ImageSlot) HasLocal() bool {
	return s.Local != nil
}

type MediaSet struct {
	Main ImageSlot   `json:"main"`
	Subs []ImageSlot `json:"subs,omitempty"`
}

func (m *MediaSet) HasMainImage() bool {
	return !m.Main.Empty()
}

// HasNewLocal reports whether any slot carries a not-yet-uploaded file.
func (m *MediaSet) HasNewLocal() bool {
	if m.Main.HasLocal() {
		return true
	}
	for _, s := range m.Subs {
		if s.HasLocal() {
			return true
		}
	}
	return false
}

func (m *MediaSet) SetMainLocal(f LocalFile) {
	m.Main = ImageSlot{Local: &f}
}

// AddSubLocal appends a sub image. It returns false, leaving the set
// unchanged, when all sub slots are taken.
func (m *MediaSet) AddSubLocal(f LocalFile) bool {
	if len(m.Subs) >= MaxSubImages {
		return false
	}
	m.Subs = append(m.Subs, ImageSlot{Local: &f})
	return true
}

func (m *MediaSet) ClearMain() {
	m.Main = ImageSlot{}
}

func (m *MediaSet) RemoveSub(i int) bool {
	if i < 0 || i >= len(m.Subs) {
		return false
	}
	m.Subs = append(m.Subs[:i], m.Subs[i+1:]...)
	return true
}

// UploadResult is the output of one successful upload. It is not retained
// beyond assembling the submission payload.
type UploadResult struct {
	URL      string `json:"secure_url"`
	RemoteID string `json:"public_id"`
}
