package service

import (
	"embed"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"dossier/internal/domain/models"
)

//go:embed slots/slots.yaml
var slotFiles embed.FS

// personalDocNamespace seeds the deterministic IDs of synthesized personal
// documents: uuid5(owner ID + slot key) is stable across resolves, so UI
// identity survives reloads even though the documents are never persisted.
var personalDocNamespace = uuid.MustParse("8a1f0f2e-44cd-4c4f-9a52-6c1d3a5b9e07")

// SlotSpec describes one named attachment slot and the keywords the
// deletion heuristic matches it by.
type SlotSpec struct {
	Key      models.AttachmentSlot `yaml:"key"`
	Label    string                `yaml:"label"`
	Keywords []string              `yaml:"keywords"`
}

// SlotRegistry is the priority-ordered table of attachment slots, loaded
// from the embedded YAML file. It replaces ad-hoc string-contains checks
// with an explicit slotKey ↔ matcher table.
type SlotRegistry struct {
	slots []SlotSpec
}

// NewSlotRegistry loads the embedded slot table.
func NewSlotRegistry() (*SlotRegistry, error) {
	data, err := slotFiles.ReadFile("slots/slots.yaml")
	if err != nil {
		return nil, fmt.Errorf("read slot table: %w", err)
	}

	var file struct {
		Slots []SlotSpec `yaml:"slots"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal slot table: %w", err)
	}
	if len(file.Slots) == 0 {
		return nil, fmt.Errorf("slot table is empty")
	}

	return &SlotRegistry{slots: file.Slots}, nil
}

// Slots returns the slot specs in priority order.
func (r *SlotRegistry) Slots() []SlotSpec {
	return r.slots
}

// PersonalDocumentID derives the stable ID for a synthesized document.
func PersonalDocumentID(ownerID string, slotKey string) string {
	return uuid.NewSHA1(personalDocNamespace, []byte(ownerID+":"+slotKey)).String()
}

// Synthesize projects a profile's non-empty attachment fields into document
// nodes. The source fields carry no length metadata, so sizes report 0 and
// are excluded from aggregation.
func (r *SlotRegistry) Synthesize(profile *models.StudentProfile) []models.Document {
	var docs []models.Document

	for _, spec := range r.slots {
		u := profile.SlotURL(spec.Key)
		if u == "" {
			continue
		}
		docs = append(docs, models.Document{
			ID:          PersonalDocumentID(profile.UserID, string(spec.Key)),
			StructureID: profile.StructureID,
			Name:        spec.Label + " - " + profile.DisplayName(),
			MimeType:    mimeFromPath(u),
			URL:         u,
			StoragePath: storagePathFromURL(u),
			OwnerID:     profile.UserID,
			Personal:    true,
			CreatedAt:   profile.UpdatedAt,
		})
	}

	for i, att := range profile.CustomAttachments {
		if att.URL == "" {
			continue
		}
		name := att.Label
		if name == "" {
			name = path.Base(storagePathFromURL(att.URL))
		}
		docs = append(docs, models.Document{
			ID:          PersonalDocumentID(profile.UserID, fmt.Sprintf("custom-%d", i)),
			StructureID: profile.StructureID,
			Name:        name + " - " + profile.DisplayName(),
			MimeType:    mimeFromPath(att.URL),
			URL:         att.URL,
			StoragePath: att.StoragePath,
			OwnerID:     profile.UserID,
			Personal:    true,
			CreatedAt:   profile.UpdatedAt,
		})
	}

	return docs
}

// SlotMatch identifies the profile field a personal document came from:
// either a named slot, or an index into the custom attachment list.
type SlotMatch struct {
	Slot        models.AttachmentSlot
	CustomIndex int // -1 when a named slot matched
}

// Match resolves which profile field a personal document was synthesized
// from. Strategies run in priority order across all candidate fields:
// keyword match on the storage path, keyword match on the name, then exact
// URL equality. Only non-empty fields are candidates.
func (r *SlotRegistry) Match(doc *models.Document, profile *models.StudentProfile) (SlotMatch, bool) {
	lowerPath := strings.ToLower(doc.StoragePath)
	lowerName := strings.ToLower(doc.Name)

	// Strategy 1: keywords against the storage path.
	if lowerPath != "" {
		for _, spec := range r.slots {
			if profile.SlotURL(spec.Key) == "" {
				continue
			}
			if containsAny(lowerPath, spec.Keywords) {
				return SlotMatch{Slot: spec.Key, CustomIndex: -1}, true
			}
		}
		for i, att := range profile.CustomAttachments {
			if att.StoragePath != "" && att.StoragePath == doc.StoragePath {
				return SlotMatch{CustomIndex: i}, true
			}
		}
	}

	// Strategy 2: keywords against the display name.
	for _, spec := range r.slots {
		if profile.SlotURL(spec.Key) == "" {
			continue
		}
		if containsAny(lowerName, spec.Keywords) {
			return SlotMatch{Slot: spec.Key, CustomIndex: -1}, true
		}
	}
	for i, att := range profile.CustomAttachments {
		if att.Label != "" && strings.Contains(lowerName, strings.ToLower(att.Label)) {
			return SlotMatch{CustomIndex: i}, true
		}
	}

	// Strategy 3: exact URL equality.
	if doc.URL != "" {
		for _, spec := range r.slots {
			if profile.SlotURL(spec.Key) == doc.URL {
				return SlotMatch{Slot: spec.Key, CustomIndex: -1}, true
			}
		}
		for i, att := range profile.CustomAttachments {
			if att.URL == doc.URL {
				return SlotMatch{CustomIndex: i}, true
			}
		}
	}

	return SlotMatch{}, false
}

// Clear empties the matched field on the profile: the named slot is blanked,
// or the matching entry is spliced out of the custom list.
func (m SlotMatch) Clear(profile *models.StudentProfile) {
	if m.CustomIndex >= 0 {
		profile.CustomAttachments = append(
			profile.CustomAttachments[:m.CustomIndex],
			profile.CustomAttachments[m.CustomIndex+1:]...,
		)
		return
	}
	profile.ClearSlot(m.Slot)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func storagePathFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return strings.TrimPrefix(u.Path, "/")
}

func mimeFromPath(p string) string {
	switch strings.ToLower(path.Ext(storagePathFromURL(p))) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
