// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bassosimone/wampc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content to a TOML file inside a temporary directory.
func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "wampcheck.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadCheckConfigExample(t *testing.T) {
	cfg, err := loadCheckConfig("ex.config.toml")
	require.NoError(t, err)

	assert.Equal(t, "ws://127.0.0.1:8080/ws", cfg.Client.URL)
	assert.Equal(t, "realm1", cfg.Client.Realm)
	assert.Equal(t, "joe", cfg.Client.AuthID)
	assert.Equal(t, []string{"wampcra"}, cfg.Client.AuthMethods)
	assert.NotNil(t, cfg.Client.OnChallenge)
	assert.Equal(t, wampc.MsgpackSerializer{}, cfg.Client.Serializer)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, wampc.MustLookupStatus(wampc.StatusSuccess), wampc.CheckChallengeAuth(cfg.Client))
}

func TestLoadCheckConfigDefaults(t *testing.T) {
	cfg, err := loadCheckConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, &wampc.ClientConfig{}, cfg.Client)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadCheckConfigOverrides(t *testing.T) {
	cfg, err := loadCheckConfig(writeConfig(t, `
url = " ws://fake.server.org/ws/ "
authmethods = ["", " wampcra "]
secret = ""
serializer = "json"
`))
	require.NoError(t, err)

	assert.Equal(t, "ws://fake.server.org/ws/", cfg.Client.URL)
	assert.Equal(t, []string{"wampcra"}, cfg.Client.AuthMethods)
	assert.Nil(t, cfg.Client.OnChallenge)
	assert.Equal(t, wampc.JSONSerializer{}, cfg.Client.Serializer)
}

func TestLoadCheckConfigErrors(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// content is the TOML file content.
		content string

		// wantErr is the expected error or nil to only check for failure.
		wantErr error
	}{
		{
			name:    "unknown serializer",
			content: `serializer = "cbor"`,
			wantErr: errUnknownSerializer,
		},

		{
			name:    "malformed timeout",
			content: `timeout = "soon"`,
		},

		{
			name:    "malformed TOML",
			content: `url = `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadCheckConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadCheckConfigMissingFile(t *testing.T) {
	_, err := loadCheckConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
