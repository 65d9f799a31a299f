package urlpath

import "testing"

func TestToURLPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"note.md", "note"},
		{"My Note.md", "My-Note"},
		{"My Folder/My Note.md", "My-Folder/My-Note"},
		{"folder.md/note.md", "folder.md/note"},
		{"Note (1).md", "Note-(1)"},
		{"notes/readme.md", "notes/readme"},
		{"notes/readme.txt", "notes/readme.txt"},
		{"a&b/c?d.md", "a%26b/c%3Fd"},
		{"café.md", "caf%C3%A9"},
		{"note.md.md", "note.md"},
	}
	for _, c := range cases {
		if got := ToURLPath(c.in); got != c.want {
			t.Errorf("ToURLPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToURLPath_Deterministic(t *testing.T) {
	if ToURLPath("A B/C D.md") != ToURLPath("A B/C D.md") {
		t.Error("ToURLPath is not deterministic")
	}
}

func TestEncodeComponent(t *testing.T) {
	if got := EncodeComponent("a b+c/d:e"); got != "a%20b%2Bc%2Fd%3Ae" {
		t.Errorf("EncodeComponent = %q", got)
	}
	if got := EncodeComponent("-_.!~*'()"); got != "-_.!~*'()" {
		t.Errorf("unreserved characters escaped: %q", got)
	}
}

func TestEncodeRoute(t *testing.T) {
	if got := EncodeRoute("notes/Q&A/Café"); got != "notes/Q%26A/Caf%C3%A9" {
		t.Errorf("EncodeRoute = %q", got)
	}
	if got, want := EncodeRoute("a-b/Ünï-#1"), ToURLPath("a b/Ünï #1.md"); got != want {
		t.Errorf("EncodeRoute = %q, want %q", got, want)
	}
}
