package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	tmpl, ok := reg.Get("nextjs-developer")
	require.True(t, ok)
	assert.Equal(t, "Next.js developer", tmpl.Name)
	assert.Equal(t, "pages/index.tsx", tmpl.File)
	assert.Equal(t, 3000, tmpl.Port)
	assert.Contains(t, tmpl.Lib, "tailwindcss")
}

func TestGet_DevSuffix(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	tmpl, ok := reg.Get("nextjs-developer-dev")
	require.True(t, ok)
	assert.Equal(t, "Next.js developer", tmpl.Name)
}

func TestGet_Unknown(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	_, ok := reg.Get("cobol-developer")
	assert.False(t, ok)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "nextjs-developer", NormalizeID("nextjs-developer-dev"))
	assert.Equal(t, "nextjs-developer", NormalizeID("nextjs-developer"))
}

func TestIDs_StableOrder(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	ids := reg.IDs()
	assert.Equal(t, ids, append([]string(nil), ids...))
	assert.Contains(t, ids, "code-interpreter-v1")
	assert.Contains(t, ids, "nextjs-developer")
}

func TestToPrompt(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	prompt := reg.ToPrompt()
	assert.Contains(t, prompt, "nextjs-developer")
	assert.Contains(t, prompt, "Port: 3000.")
	// code-interpreter has no port
	assert.Contains(t, prompt, "Port: none.")
}
