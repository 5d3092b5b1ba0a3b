package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name string
		info *VersionInfo
		want []string
	}{
		{
			name: "clean_build",
			info: &VersionInfo{Version: "v1.2.0", Revision: "abc123", GoVersion: "go1.24.0", Platform: "linux/amd64"},
			want: []string{"Version:   v1.2.0", "Revision:  abc123\n", "Platform:  linux/amd64"},
		},
		{
			name: "modified_build",
			info: &VersionInfo{Version: "dev", Revision: "abc123", Modified: true},
			want: []string{"Revision:  abc123 (modified)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatVersion(tt.info)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "textswap version info")
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
}
