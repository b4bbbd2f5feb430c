package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type check struct {
	in string
	ok bool
}

func runChecks(t *testing.T, fn func(string) error, cases map[string]check) {
	t.Helper()
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := fn(c.in)
			if c.ok {
				assert.NoError(t, err, "%q", c.in)
			} else {
				assert.Error(t, err, "%q", c.in)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	runChecks(t, ValidatePassword, map[string]check{
		"strong":          {"Str0ng!Passw0rd", true},
		"minimum length":  {"Abcdefghij1!", true},
		"maximum length":  {"A" + strings.Repeat("b", 125) + "1!", true},
		"non-ascii upper": {"ÅngstromPass12!", true},
		"short":           {"Sh0rt!", false},
		"over maximum":    {"A" + strings.Repeat("b", 126) + "1!", false},
		"no uppercase":    {"str0ng!passw0rd", false},
		"no lowercase":    {"STR0NG!PASSW0RD", false},
		"no digit":        {"Strong!Password", false},
		"no special":      {"Str0ngPassw0rd1", false},
		"letters missing": {"1234567890!@#", false},
	})
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	runChecks(t, ValidateUsername, map[string]check{
		"plain":       {"hank", true},
		"digits":      {"world2", true},
		"underscores": {"_me_", true},
		"max length":  {strings.Repeat("h", 64), true},
		"one char":    {"h", false},
		"over max":    {strings.Repeat("h", 65), false},
		"at sign":     {"me@home", false},
		"dash":        {"hello-world", false},
		"space":       {"hello world", false},
		"non-ascii":   {"héllo", false},
		"reserved":    {"me", false},
		"reserved up": {"ME", false},
	})
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 64 local + "@" + 185 + ".com" is exactly 254 characters.
	longest := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	runChecks(t, ValidateEmail, map[string]check{
		"simple":       {"hank@example.com", true},
		"plus tag":     {"hank+projects@example.co.uk", true},
		"254 chars":    {longest, true},
		"255 chars":    {"x" + longest, false},
		"no at":        {"hank.example.com", false},
		"no domain":    {"hank@", false},
		"double at":    {"hank@@example.com", false},
		"space":        {"ha nk@example.com", false},
		"trailing dot": {"hank@example.com.", false},
		"one-char tld": {"hank@example.c", false},
	})
}

func TestValidatePasswordConfirmation(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidatePasswordConfirmation("Str0ng!Passw0rd", "Str0ng!Passw0rd"))
	assert.EqualError(t, ValidatePasswordConfirmation("Str0ng!Passw0rd", "str0ng!Passw0rd"), "passwords must match")
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	got, err := ValidateText("description", "\n  a solar logger \t", 20, true)
	require.NoError(t, err)
	assert.Equal(t, "a solar logger", got)

	_, err = ValidateText("description", " \t ", 20, true)
	assert.EqualError(t, err, "description is required")

	got, err = ValidateText("title", "", 20, false)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Limits count characters, not bytes.
	got, err = ValidateText("name", strings.Repeat("ü", 10), 10, false)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ü", 10), got)

	_, err = ValidateText("name", strings.Repeat("ü", 11), 10, false)
	assert.EqualError(t, err, "name must not exceed 10 characters")
}
