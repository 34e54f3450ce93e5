package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestParsesModelOutput(t *testing.T) {
	provider := &fakeProvider{content: `Here you go:
{"questions": ["Were terminated users removed on time?", "Is privileged access certified quarterly?"], "categories": ["Access Controls", "Certification"]}`}

	got, err := NewQuestionSuggester(provider).Suggest(context.Background(), "access_review", "SOX")
	require.NoError(t, err)
	assert.False(t, got.Fallback)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "Were terminated users removed on time?", got.Questions[0])
	assert.Len(t, got.Categories, 2)
}

func TestSuggestDegradesToStaticSet(t *testing.T) {
	cases := []struct {
		name     string
		provider *fakeProvider
	}{
		{"provider error", &fakeProvider{err: errors.New("model offline")}},
		{"unparseable output", &fakeProvider{content: "no structure at all"}},
		{"empty question list", &fakeProvider{content: `{"questions": [], "categories": []}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewQuestionSuggester(tc.provider).Suggest(context.Background(), "", "")
			require.NoError(t, err, "degrade must not surface an error")
			assert.True(t, got.Fallback)
			assert.Len(t, got.Questions, 5)
			assert.Len(t, got.Categories, 5)
		})
	}
}

func TestParseQuestionSuggestionsStrict(t *testing.T) {
	_, err := ParseQuestionSuggestions("the model rambled")
	assert.Error(t, err)

	got, err := ParseQuestionSuggestions(`{"questions": ["q1"], "categories": ["c1"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, got.Questions)
}
