package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var users = []Named{
	{ID: "1234", Name: "Rose Tyler"},
	{ID: "4321", Name: "Amy Pond"},
	{ID: "5555", Name: "Rory Williams"},
}

func TestFuzzyMatch(t *testing.T) {
	id, err := FuzzyMatch("amy pond", users)
	require.NoError(t, err)
	assert.Equal(t, "4321", id)

	id, err = FuzzyMatch("tyler", users)
	require.NoError(t, err)
	assert.Equal(t, "1234", id)

	_, err = FuzzyMatch("zzz", users)
	assert.ErrorContains(t, err, "no match found")

	_, err = FuzzyMatch("  ", users)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = FuzzyMatch("amy", nil)
	assert.ErrorIs(t, err, ErrEmptyItems)
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []Named{{ID: "1", Name: "Alex"}, {ID: "2", Name: "Alex"}}
	_, err := FuzzyMatch("ale", items)
	var amb *AmbiguousError
	require.True(t, errors.As(err, &amb))
	assert.Len(t, amb.Matches, 2)
	assert.Contains(t, amb.Error(), "ambiguous match for \"ale\"")
	assert.Contains(t, amb.Error(), "1: Alex")
}

func TestFuzzyMatchAll(t *testing.T) {
	matches := FuzzyMatchAll("r", users, 2)
	assert.Len(t, matches, 2)
	assert.Nil(t, FuzzyMatchAll("", users, 5))
	assert.Nil(t, FuzzyMatchAll("r", users, 0))
}

func TestSuggest(t *testing.T) {
	known := []string{"1234", "4321"}
	assert.Equal(t, "1234", Suggest("124", known))
	assert.Equal(t, "1234", Suggest("12345", known))
	assert.Equal(t, "", Suggest("1234", known))
	assert.Equal(t, "", Suggest("zz", known))
	assert.Equal(t, "", Suggest("", known))
	assert.Equal(t, "", Suggest("1", nil))
}
