package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "double dash matches single dash allowance",
			args:         []string{"--config=alt.json", "--db", "queue.db"},
			allowedFlags: []string{"-config", "-db"},
			want:         []string{"--config=alt.json", "--db", "queue.db"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag takes no value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "value that looks like a flag in equals form",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-i", "3s", "-a", "h:1", "-i", "5s"},
			allowedFlags: []string{"-i", "-a"},
			want:         []string{"-i", "3s", "-a", "h:1", "-i", "5s"},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/fieldsync.json", ConfigPath([]string{"-c", "/etc/fieldsync.json"}))
	assert.Equal(t, "/path/long.json", ConfigPath([]string{"-a", "x:1", "-config", "/path/long.json"}))
	assert.Equal(t, "/path/2.json", ConfigPath([]string{"-c", "/path/1.json", "--config=/path/2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1", "-y", "2"}))
	assert.Empty(t, ConfigPath(nil))
}
