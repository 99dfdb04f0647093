package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meetsched/internal/domain"
)

func ptr(s string) *string { return &s }

func TestCleanText(t *testing.T) {
	tests := []struct {
		name       string
		value      *string
		allowEmpty bool
		maxLen     int
		want       string
		wantErr    string
	}{
		{name: "trims", value: ptr("  hello \t"), maxLen: 10, want: "hello"},
		{name: "nil allowed", value: nil, allowEmpty: true, maxLen: 10, want: ""},
		{name: "nil required", value: nil, maxLen: 10, wantErr: "Field is required"},
		{name: "blank required", value: ptr("   "), maxLen: 10, wantErr: "Field is required"},
		{name: "at limit", value: ptr("abcde"), maxLen: 5, want: "abcde"},
		{name: "over limit", value: ptr("abcdef"), maxLen: 5, wantErr: "Field must be at most 5 characters long"},
		{name: "counts runes", value: ptr("ééééé"), maxLen: 5, want: "ééééé"},
		{name: "no limit", value: ptr(strings.Repeat("x", 5000)), maxLen: 0, want: strings.Repeat("x", 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanText(tt.value, "Field", tt.allowEmpty, tt.maxLen)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName(t *testing.T) {
	got, err := Name("  Ana ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)

	_, err = Name("A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")

	_, err = Name("")
	require.Error(t, err)
	assert.Equal(t, "Name is required", err.Error())

	_, err = Name(strings.Repeat("n", MaxNameLength+1))
	assert.Error(t, err)
}

func TestEmail_Valid(t *testing.T) {
	for _, in := range []string{"a@b.c", "Ana@Example.COM", " x.y@sub.domain.org ", "A@B.C"} {
		t.Run(in, func(t *testing.T) {
			got, err := Email(in)
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(in)), got)
		})
	}
}

func TestEmail_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"plain",
		"a@@b.c",
		"a@b@c.d",
		"@b.c",
		"a@",
		"a@bc",
		"a@.bc",
		"a@bc.",
		strings.Repeat("a", 95) + "@b.com",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Email(in)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestEmail_AtSignCount(t *testing.T) {
	// Zero or two-plus '@' always fail, regardless of the rest.
	for _, in := range []string{"ab.c", "a@b@c.com", "a@b.c@", "@@a.b"} {
		_, err := Email(in)
		assert.Error(t, err, in)
	}
}

func TestPhone(t *testing.T) {
	got, err := Phone(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Phone(ptr("   "))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Phone(ptr(" 0712345678 "))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0712345678", *got)

	// No character-class enforcement.
	got, err = Phone(ptr("+40-ab"))
	require.NoError(t, err)
	assert.Equal(t, "+40-ab", *got)

	_, err = Phone(ptr("07123456789"))
	require.Error(t, err)
	assert.Equal(t, "Phone must be at most 10 characters long", err.Error())
}

func TestMeetingFields(t *testing.T) {
	_, err := Title("  ")
	assert.EqualError(t, err, "Title is required")

	_, err = Title(strings.Repeat("t", MaxTitleLength+1))
	assert.Error(t, err)

	title, err := Title(strings.Repeat("t", MaxTitleLength))
	require.NoError(t, err)
	assert.Len(t, title, MaxTitleLength)

	desc, err := Description("")
	require.NoError(t, err)
	assert.Empty(t, desc)

	_, err = Description(strings.Repeat("d", MaxDescriptionLength+1))
	assert.Error(t, err)

	loc, err := Location(" Room 4 ")
	require.NoError(t, err)
	assert.Equal(t, "Room 4", loc)

	_, err = Location(strings.Repeat("l", MaxLocationLength+1))
	assert.Error(t, err)
}

func TestPerson(t *testing.T) {
	p, err := Person(" Ana ", "ANA@EXAMPLE.COM", ptr(""))
	require.NoError(t, err)
	assert.Equal(t, domain.Person{Name: "Ana", Email: "ana@example.com"}, p)

	_, err = Person("Ana", "not-an-email", nil)
	assert.EqualError(t, err, "Invalid email address")
}
