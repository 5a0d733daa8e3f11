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
		{
			name:    "separate value",
			args:    []string{"-b", "sqlite", "-a", "localhost:3200"},
			allowed: []string{"-b"},
			want:    []string{"-b", "sqlite"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=alt.json", "-a", "localhost"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-notvalue"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "equals value may start with dash",
			args:    []string{"--config=--weird.json"},
			allowed: []string{"--config"},
			want:    []string{"--config=--weird.json"},
		},
		{
			name:    "order and repeats preserved",
			args:    []string{"-c", "one.json", "-l", "debug", "-c", "two.json"},
			allowed: []string{"-c", "-l"},
			want:    []string{"-c", "one.json", "-l", "debug", "-c", "two.json"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/staffdir.json", JsonConfigPath([]string{"-c", "/etc/staffdir.json"}))
	assert.Equal(t, "/p/long.json", JsonConfigPath([]string{"-a", ":3200", "-config", "/p/long.json"}))
	assert.Equal(t, "/p/eq.json", JsonConfigPath([]string{"--config=/p/eq.json"}))
	assert.Equal(t, "/p/2.json", JsonConfigPath([]string{"-c", "/p/1.json", "-config", "/p/2.json"}))
	assert.Empty(t, JsonConfigPath([]string{"-x", "1"}))
}

func TestJsonConfigFlags_ReadsOSArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"staffdir", "-c", "/path/short.json"}
	assert.Equal(t, "/path/short.json", JsonConfigFlags())
}
