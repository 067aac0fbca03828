package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apartment-scraper/scraper/dom"
	"apartment-scraper/utils"
)

func TestCloseWithoutStartIsNoop(t *testing.T) {
	s := NewSession(Options{}, utils.NewNopLogger())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.False(t, s.started)
}

func TestLoadAfterCloseFails(t *testing.T) {
	s := NewSession(Options{}, utils.NewNopLogger())
	require.NoError(t, s.Close())

	ready := dom.MustPattern("ready", dom.ClassContains("object-wrapper"))
	_, err := s.Load(context.Background(), "https://example.com", ready, time.Second)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(Options{}, utils.NewNopLogger())
	assert.Equal(t, 60*time.Second, s.opts.NavigateTimeout)
	assert.Equal(t, defaultUserAgent, s.opts.UserAgent)
}

func TestFindChromeBinaryPrefersEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/custom/chrome")
	assert.Equal(t, "/custom/chrome", findChromeBinary())
}

func TestAllocatorOptionsAddsExecPath(t *testing.T) {
	base := allocatorOptions("", defaultUserAgent)
	withBin := allocatorOptions("/usr/bin/chromium", defaultUserAgent)
	assert.Len(t, withBin, len(base)+1)
}
