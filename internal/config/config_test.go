package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shinemark/internal/annotation"
)

func TestParse(t *testing.T) {
	input := `
mode = arrow
output = /tmp/marked.png
plugin_dir = /tmp/plugins

[notify]
export = true
copy = false

[style]
stroke = blue
thickness = 3

[style.highlight]
fill = #FFFF0080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Mode != "arrow" {
		t.Errorf("Expected mode 'arrow', got '%s'", cfg.Mode)
	}
	if cfg.Output != "/tmp/marked.png" {
		t.Errorf("Expected output '/tmp/marked.png', got '%s'", cfg.Output)
	}
	if cfg.PluginDir != "/tmp/plugins" {
		t.Errorf("Expected plugin_dir '/tmp/plugins', got '%s'", cfg.PluginDir)
	}
	if !cfg.Notify.Export {
		t.Error("Expected notify.export to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}

	rect := cfg.StyleFor(annotation.Rectangle)
	if rect.Stroke != (color.RGBA{0, 0, 255, 255}) || rect.Thickness != 3 {
		t.Errorf("Unexpected rectangle style: %+v", rect)
	}
	hl := cfg.StyleFor(annotation.Highlight)
	if hl.Fill != (color.RGBA{128, 128, 0, 128}) {
		t.Errorf("Expected premultiplied highlight fill, got %+v", hl.Fill)
	}
}

func TestCircular(t *testing.T) {
	input := `mode = ellipse
output = /home/user/out.png
log_level = debug

[notify]
export = true
copy = true

[style]
fill = #112233
shadow = 4

[style.text]
font_size = 22.5
stroke = #000000
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Mode != cfg2.Mode || cfg.Output != cfg2.Output || cfg.LogLevel != cfg2.LogLevel {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	for _, k := range annotation.Kinds() {
		if cfg.StyleFor(k) != cfg2.StyleFor(k) {
			t.Errorf("Style mismatch for %s: %+v vs %+v", k, cfg.StyleFor(k), cfg2.StyleFor(k))
		}
	}
}

func TestParseErrors(t *testing.T) {
	for name, input := range map[string]string{
		"bad bool":  "[notify]\nexport = maybe\n",
		"bad color": "[style]\nstroke = #12\n",
		"bad kind":  "[style.hexagon]\nstroke = red\n",
		"bad size":  "[style]\nthickness = -1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"red", color.RGBA{255, 0, 0, 255}},
		{" Yellow ", color.RGBA{255, 255, 0, 255}},
		{"#00ff00", color.RGBA{0, 255, 0, 255}},
		{"#FF000000", color.RGBA{}},
		{"#FF000080", color.RGBA{128, 0, 0, 128}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	for _, bad := range []string{"", "notacolor", "#12345", "#GGGGGG"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	path := filepath.Join(dir, "custom.rc")
	require.NoError(t, os.WriteFile(path, []byte("mode = line\noutput = file.png\n"), 0o644))

	t.Setenv("SHINEMARK_OUTPUT", "env.png")
	cfg, err := NewLoader("v1.0.0", path).Load()
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Mode)
	assert.Equal(t, "env.png", cfg.Output)
}

func TestLoaderEnvConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	path := filepath.Join(dir, "from-env.rc")
	require.NoError(t, os.WriteFile(path, []byte("plugin_dir = /opt/plugins\n"), 0o644))
	t.Setenv("SHINEMARK_CONFIG", path)

	cfg, err := NewLoader("v1.0.0", "").Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/plugins", cfg.PluginDir)
}

func TestLoaderDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := NewLoader("v1.0.0", "").Load()
	require.NoError(t, err)
	assert.Equal(t, New().Mode, cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoaderXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "shinemark"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "shinemark", "config.rc"), []byte("log_level = warn\n"), 0o644))

	l := NewLoader("v1.0.0", "")
	assert.Equal(t, filepath.Join(xdg, "shinemark", "config.rc"), l.GetConfigPath())
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
