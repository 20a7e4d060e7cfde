package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentMetadataRoundTrip(t *testing.T) {
	uploaded := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	original := &DocumentMetadata{
		OriginalName: "scene photo.jpg",
		UploadedAt:   uploaded,
		PublicURL:    "https://files.example.com/abc",
		Exif: map[string]string{
			"cameraMake":       "Canon",
			"dateTimeOriginal": "2024-05-30T09:15:00Z",
			"gpsLatitude":      "40.712800",
		},
	}

	var doc Document
	assert.NoError(t, doc.SetMetadata(original))

	restored, err := doc.GetMetadata()
	assert.NoError(t, err)
	assert.Equal(t, original, restored, "metadata must round-trip losslessly")
}

func TestDocumentMetadataEmpty(t *testing.T) {
	var doc Document
	meta, err := doc.GetMetadata()
	assert.NoError(t, err)
	assert.Nil(t, meta)

	assert.NoError(t, doc.SetMetadata(nil))
	assert.Equal(t, "", doc.Metadata)
}

func TestEntryQuestionsRoundTrip(t *testing.T) {
	var entry ChronologyEntry
	questions := []string{"Who signed?", "Which draft is this?"}

	assert.NoError(t, entry.SetQuestions(questions))
	assert.Equal(t, questions, entry.GetQuestions())

	assert.NoError(t, entry.SetQuestions(nil))
	assert.Equal(t, "", entry.Questions)
	assert.Nil(t, entry.GetQuestions())
}

func TestEntryJSONIncludesQuestionsArray(t *testing.T) {
	entry := ChronologyEntry{Title: "Contract signed", Summary: "s"}
	assert.NoError(t, entry.SetQuestions([]string{"Who signed?"}))

	data, err := json.Marshal(entry)
	assert.NoError(t, err)

	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, []interface{}{"Who signed?"}, payload["questions"])

	// The raw serialized column never leaks into API responses
	_, present := payload["Questions"]
	assert.False(t, present)
}

func TestIsValidEntryCategory(t *testing.T) {
	for _, category := range EntryCategories {
		assert.True(t, IsValidEntryCategory(category))
	}
	assert.False(t, IsValidEntryCategory("Correspondence"))
	assert.False(t, IsValidEntryCategory(""))
}

func TestPartyRoleSorting(t *testing.T) {
	plaintiff := Party{Role: PartyRolePlaintiff}
	witness := Party{Role: PartyRoleWitness}
	unknown := Party{Role: "Bystander"}

	assert.Less(t, plaintiff.RoleSortIndex(), witness.RoleSortIndex())
	assert.Equal(t, len(PartyRoles), unknown.RoleSortIndex(), "unknown roles sort last")
	assert.True(t, IsValidPartyRole(PartyRoleExpertWitness))
	assert.False(t, IsValidPartyRole("Bystander"))
}
