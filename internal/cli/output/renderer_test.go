package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapedi/internal/cli/output"
	"github.com/leapstack-labs/leapedi/internal/cli/testutil"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  output.Mode
		isTTY bool
		want  output.Mode
	}{
		{"auto on tty", output.ModeAuto, true, output.ModeText},
		{"auto piped", output.ModeAuto, false, output.ModeMarkdown},
		{"explicit text piped", output.ModeText, false, output.ModeText},
		{"explicit json on tty", output.ModeJSON, true, output.ModeJSON},
		{"explicit yaml", output.ModeYAML, false, output.ModeYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := testutil.NewTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, tr.EffectiveMode())
		})
	}
}

func TestStructuredJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()

	done, err := tr.Structured(map[string]int{"segments": 6})
	require.NoError(t, err)
	assert.True(t, done)
	testutil.AssertContains(t, tr.Output(), `"segments": 6`)
	testutil.AssertNoANSI(t, tr.Output())
}

func TestStructuredYAML(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeYAML, false)

	done, err := tr.Structured(map[string]int{"segments": 6})
	require.NoError(t, err)
	assert.True(t, done)
	testutil.AssertContains(t, tr.Output(), "segments: 6")
}

func TestStructuredSkipsTextModes(t *testing.T) {
	for _, mode := range []output.Mode{output.ModeAuto, output.ModeText, output.ModeMarkdown} {
		tr := testutil.NewTestRenderer(mode, false)
		done, err := tr.Structured("ignored")
		require.NoError(t, err)
		assert.False(t, done, "mode %s should not be structured", mode)
		assert.Empty(t, tr.Output())
	}
}

func TestStatusLines(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()

	tr.Success("wrote claims.xml")
	tr.Info("watching for changes")
	tr.Warning("slow disk")
	tr.Error("parse failed")

	testutil.AssertContains(t, tr.Output(), "wrote claims.xml")
	testutil.AssertContains(t, tr.Output(), "watching for changes")
	testutil.AssertContains(t, tr.ErrorOutput(), "slow disk")
	testutil.AssertContains(t, tr.ErrorOutput(), "parse failed")
	testutil.AssertNoANSI(t, tr.Output()+tr.ErrorOutput())
}
