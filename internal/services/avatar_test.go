package services

import (
	"testing"
	"unicode/utf8"

	"github.com/yarnwise/yarnwise-backend/internal/types"
)

func TestUserInitials(t *testing.T) {
	cases := []struct {
		name string
		user types.User
		want string
	}{
		{"both names", types.User{FirstName: "ada", LastName: "lovelace"}, "AL"},
		{"multi-byte runes", types.User{FirstName: "Øyvind", LastName: "Åse"}, "ØÅ"},
		{"first name only", types.User{FirstName: "élodie"}, "É"},
		{"whitespace padding", types.User{FirstName: "  maja ", LastName: " berg"}, "MB"},
		{"email fallback", types.User{Email: "knitter@example.com"}, "K"},
		{"nothing at all", types.User{}, "?"},
	}
	for _, tc := range cases {
		got := userInitials(&tc.user)
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("%s: initials %q are not valid UTF-8", tc.name, got)
		}
	}
}
