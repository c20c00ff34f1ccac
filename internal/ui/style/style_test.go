package style_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/modelcache/internal/ui/style"
)

func TestProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, style.Profile(), "NO_COLOR should force Ascii profile")

	t.Setenv("NO_COLOR", "")
	p := style.Profile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii, "should return a valid profile")
}

func TestRenderer_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	r := style.Renderer(&buf)
	assert.Equal(t, style.Cached+" cached", r.NewStyle().Inherit(style.Success).Render(style.Cached+" cached"))

	out := r.Output()
	_, _ = out.WriteString(out.String("plain").Foreground(termenv.RGBColor(string(style.Broken))).String())
	assert.Equal(t, "plain", buf.String())
}

func TestRenderer_Nil(t *testing.T) {
	assert.NotNil(t, style.Renderer(nil).Output())
}
