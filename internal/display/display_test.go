package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestTitle(t *testing.T) {
	tests := map[string]struct {
		in  string
		exp string
	}{
		"single word": {in: "heal", exp: "Heal"},
		"hyphenated":  {in: "chain-lightning", exp: "Chain Lightning"},
		"underscored": {in: "mass_levitate", exp: "Mass Levitate"},
		"empty":       {in: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "title", Title(tt.in), tt.exp)
		})
	}
}

func TestWrap(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range strings.Split(Wrap(text), "\n") {
		if len(line) > DefaultWidth {
			t.Errorf("line longer than %d: %q", DefaultWidth, line)
		}
	}
}

func TestExpand(t *testing.T) {
	tests := map[string]struct {
		tmpl   string
		data   any
		exp    string
		expErr string
	}{
		"plain text": {
			tmpl: "nothing to do {",
			exp:  "nothing to do {",
		},
		"field access": {
			tmpl: "{{ .Ability | title }} is ready.",
			data: map[string]string{"Ability": "chain-lightning"},
			exp:  "Chain Lightning is ready.",
		},
		"sprig function": {
			tmpl: `{{ .Count }} {{ if eq .Count 1 }}target{{ else }}targets{{ end }} {{ "released" | upper }}`,
			data: map[string]int{"Count": 2},
			exp:  "2 targets RELEASED",
		},
		"bad template": {
			tmpl:   "{{ .Ability ",
			expErr: "parsing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Expand(tt.tmpl, tt.data)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "output", got, tt.exp)
		})
	}
}
