package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroupsByFamily(t *testing.T) {
	raw := "Family Name,Guest First Name,Guest Last Name,Is Child\n" +
		"The Doe Family,Jane,Doe,false\n" +
		"The Doe Family,Jack,Doe,true\n"

	groups, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "The Doe Family", g.FamilyName)
	require.Len(t, g.Guests, 2)
	assert.Equal(t, GuestRow{FirstName: "Jane", LastName: "Doe", IsChild: false}, g.Guests[0])
	assert.Equal(t, GuestRow{FirstName: "Jack", LastName: "Doe", IsChild: true}, g.Guests[1])
}

func TestParseMissingHeaders(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		missing []string
	}{
		{
			name:    "is child absent",
			header:  "Family Name,Guest First Name,Guest Last Name",
			missing: []string{"Is Child"},
		},
		{
			name:    "several absent",
			header:  "Family Name,Contact Email",
			missing: []string{"Guest First Name", "Guest Last Name", "Is Child"},
		},
		{
			name:    "case sensitive",
			header:  "family name,Guest First Name,Guest Last Name,Is Child",
			missing: []string{"Family Name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.header + "\nThe Doe Family,Jane,Doe,false\n")
			var mh *MissingHeadersError
			require.True(t, errors.As(err, &mh))
			assert.Equal(t, tt.missing, mh.Headers)
		})
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	raw := "Family Name,Guest First Name,Guest Last Name,Is Child\n" +
		"The Doe Family,Jane,Doe,false\n" +
		"The Doe Family,Jack\n" + // fewer fields than header
		"The Doe Family,,Doe,true\n" + // blank first name
		",John,Doe,false\n" // blank family name

	groups, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Guests, 1)
}

func TestParseChildFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{" True ", true},
		{"false", false},
		{"yes", false},
		{"1", false},
		{"", false},
	}

	for _, tt := range tests {
		raw := "Family Name,Guest First Name,Guest Last Name,Is Child\n" +
			"The Doe Family,Jane,Doe," + tt.value + "\n"
		groups, err := Parse(raw)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Guests, 1)
		assert.Equal(t, tt.want, groups[0].Guests[0].IsChild, "value %q", tt.value)
	}
}

func TestParseFirstEmailWins(t *testing.T) {
	raw := "Family Name,Guest First Name,Guest Last Name,Is Child,Contact Email\n" +
		"The Doe Family,Jane,Doe,false,jane@example.com\n" +
		"The Doe Family,Jack,Doe,true,jack@example.com\n" +
		"The Roe Family,Rick,Roe,false,\n"

	groups, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "jane@example.com", groups[0].ContactEmail)
	assert.Equal(t, "", groups[1].ContactEmail)
}

func TestParsePreservesInputOrder(t *testing.T) {
	raw := "Family Name,Guest First Name,Guest Last Name,Is Child\n" +
		"B,Bea,Bee,false\n" +
		"A,Al,Ay,false\n" +
		"B,Bob,Bee,false\n"

	groups, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "B", groups[0].FamilyName)
	assert.Equal(t, "A", groups[1].FamilyName)
	require.Len(t, groups[0].Guests, 2)
	assert.Equal(t, "Bea", groups[0].Guests[0].FirstName)
	assert.Equal(t, "Bob", groups[0].Guests[1].FirstName)
}

func TestParseTrimsWhitespace(t *testing.T) {
	raw := "Family Name , Guest First Name ,Guest Last Name,Is Child\n" +
		" The Doe Family , Jane , Doe , false \n"

	groups, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "The Doe Family", groups[0].FamilyName)
	assert.Equal(t, "Jane", groups[0].Guests[0].FirstName)
}
