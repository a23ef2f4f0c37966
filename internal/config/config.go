package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/shinemark/internal/annotation"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Style overrides annotation defaults. Unset fields keep the built-in value.
type Style struct {
	Stroke    *color.RGBA
	Fill      *color.RGBA
	Thickness int
	Shadow    int
	BlockSize int
	FontSize  float64
}

// Apply returns st with the overrides in s applied.
func (s *Style) Apply(st annotation.Style) annotation.Style {
	if s == nil {
		return st
	}
	if s.Stroke != nil {
		st.Stroke = *s.Stroke
	}
	if s.Fill != nil {
		st.Fill = *s.Fill
	}
	if s.Thickness > 0 {
		st.Thickness = s.Thickness
	}
	if s.Shadow > 0 {
		st.ShadowSize = s.Shadow
	}
	if s.BlockSize > 0 {
		st.BlockSize = s.BlockSize
	}
	if s.FontSize > 0 {
		st.FontSize = s.FontSize
	}
	return st
}

func (s *Style) empty() bool {
	return s == nil || *s == Style{}
}

// Config holds the application configuration.
type Config struct {
	Mode      string
	Output    string
	PluginDir string
	LogLevel  string
	Notify    Notify
	// Style applies to every annotation kind.
	Style Style
	// Kinds holds per-kind overrides keyed by kind name, applied after Style.
	Kinds map[string]*Style
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Mode:     "rectangle",
		LogLevel: "info",
		Kinds:    make(map[string]*Style),
	}
}

// StyleFor resolves the configured style for k.
func (c *Config) StyleFor(k annotation.Kind) annotation.Style {
	st := c.Style.Apply(annotation.DefaultStyle(k))
	return c.Kinds[k.String()].Apply(st)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Mode != "" {
		fmt.Fprintf(&sb, "mode = %s\n", c.Mode)
	}
	if c.Output != "" {
		fmt.Fprintf(&sb, "output = %s\n", c.Output)
	}
	if c.PluginDir != "" {
		fmt.Fprintf(&sb, "plugin_dir = %s\n", c.PluginDir)
	}
	if c.LogLevel != "" {
		fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	if !c.Style.empty() {
		sb.WriteString("[style]\n")
		writeStyle(&sb, &c.Style)
		sb.WriteString("\n")
	}

	var kinds []string
	for name, s := range c.Kinds {
		if !s.empty() {
			kinds = append(kinds, name)
		}
	}
	sort.Strings(kinds)
	for _, name := range kinds {
		fmt.Fprintf(&sb, "[style.%s]\n", name)
		writeStyle(&sb, c.Kinds[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeStyle(sb *strings.Builder, s *Style) {
	if s.Stroke != nil {
		fmt.Fprintf(sb, "stroke = %s\n", toHex(*s.Stroke))
	}
	if s.Fill != nil {
		fmt.Fprintf(sb, "fill = %s\n", toHex(*s.Fill))
	}
	if s.Thickness > 0 {
		fmt.Fprintf(sb, "thickness = %d\n", s.Thickness)
	}
	if s.Shadow > 0 {
		fmt.Fprintf(sb, "shadow = %d\n", s.Shadow)
	}
	if s.BlockSize > 0 {
		fmt.Fprintf(sb, "block_size = %d\n", s.BlockSize)
	}
	if s.FontSize > 0 {
		fmt.Fprintf(sb, "font_size = %g\n", s.FontSize)
	}
}

// toHex prints c unpremultiplied, the form ParseColor accepts.
func toHex(c color.RGBA) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
