package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"separate value", []string{"-s", "secret", "-a", ":50051"}, []string{"-s"}, []string{"-s", "secret"}},
		{"equals form", []string{"-d=memory", "-a", ":1"}, []string{"-d"}, []string{"-d=memory"}},
		{"unknown flags ignored", []string{"-x", "1", "--y=2", "positional"}, []string{"-c"}, []string{}},
		{"flag without value at end", []string{"-c"}, []string{"-c"}, []string{"-c"}},
		{"next flag is not a value", []string{"-c", "-t", "5"}, []string{"-c"}, []string{"-c"}},
		{"equals value starting with dash", []string{"-config=--odd.json"}, []string{"-config"}, []string{"-config=--odd.json"}},
		{"order and repeats preserved", []string{"-c", "one.json", "-a", "x", "-c", "two.json"}, []string{"-c", "-a"},
			[]string{"-c", "one.json", "-a", "x", "-c", "two.json"}},
		{"empty", []string{}, []string{"-c"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	cases := map[string]struct {
		args []string
		want string
	}{
		"short":          {[]string{"bin", "-c", "/etc/together.json"}, "/etc/together.json"},
		"long":           {[]string{"bin", "-config", "/etc/long.json"}, "/etc/long.json"},
		"absent":         {[]string{"bin", "-a", ":1", "-s", "k"}, ""},
		"last one wins":  {[]string{"bin", "-c", "/1.json", "-config", "/2.json"}, "/2.json"},
		"mixed with own": {[]string{"bin", "-d", "memory", "-c", "/cfg.json", "-t", "10"}, "/cfg.json"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			os.Args = tc.args
			assert.Equal(t, tc.want, JsonConfigFlags())
		})
	}
}
