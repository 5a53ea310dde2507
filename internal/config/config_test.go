package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
log_level: debug
services:
  scorer:
    base_url: https://example.com/workspaces/ws/services/s1
    api_key: secret
    poll_interval_seconds: 2
    blob:
      account_name: acct
      account_key: key==
      container: jobs
      path_prefix: runs
  plain:
    base_url: https://example.com/plain
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	scorer, err := cfg.Service("scorer")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, scorer.PollInterval())
	cs, err := scorer.Blob.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=key==", cs)

	plain, err := cfg.Service("plain")
	require.NoError(t, err)
	assert.Nil(t, plain.Blob)
	assert.Equal(t, 5*time.Second, plain.PollInterval())

	// plain has no api_key, so loading warns about it.
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "plain")
}

func TestParse_UnknownService(t *testing.T) {
	cfg, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	_, err = cfg.Service("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plain, scorer")
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"no_services": `log_level: info`,
		"missing_base_url": `
services:
  s:
    api_key: k
`,
		"blob_without_credentials": `
services:
  s:
    base_url: https://x
    blob:
      container: jobs
`,
		"blob_with_both_credential_forms": `
services:
  s:
    base_url: https://x
    blob:
      connection_string: cs
      account_name: a
      account_key: k
      container: jobs
`,
		"blob_without_container": `
services:
  s:
    base_url: https://x
    blob:
      connection_string: cs
`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(text))
			require.Error(t, err)
		})
	}
}

func TestParse_NonUTF8BlobCharsetWarns(t *testing.T) {
	cfg, err := Parse([]byte(`
services:
  s:
    base_url: https://x
    api_key: k
    blob:
      connection_string: cs
      container: jobs
      charset: latin1
`))
	require.NoError(t, err)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "latin1")
}
