package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/shinemark/internal/annotation"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentStyle *Style

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentStyle = nil

			switch {
			case currentSection == "style":
				currentStyle = &cfg.Style
			case strings.HasPrefix(currentSection, "style."):
				k, err := annotation.ParseKind(strings.TrimPrefix(currentSection, "style."))
				if err != nil {
					return nil, fmt.Errorf("section [%s]: %w", currentSection, err)
				}
				currentStyle = &Style{}
				cfg.Kinds[k.String()] = currentStyle
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		switch {
		case currentStyle != nil:
			if err := setStyleField(currentStyle, key, value); err != nil {
				return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
			}
		case currentSection == "notify":
			if err := setNotifyField(&cfg.Notify, key, value); err != nil {
				return nil, fmt.Errorf("error in section [notify]: %w", err)
			}
		case currentSection == "":
			if err := setRootField(cfg, key, value); err != nil {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "mode":
		cfg.Mode = value
	case "output":
		cfg.Output = value
	case "plugin_dir":
		cfg.PluginDir = value
	case "log_level":
		cfg.LogLevel = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setStyleField(s *Style, key, value string) error {
	switch strings.ToLower(key) {
	case "stroke", "fill":
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		if strings.EqualFold(key, "stroke") {
			s.Stroke = &c
		} else {
			s.Fill = &c
		}
	case "thickness", "shadow", "block_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid size for key %s: %q", key, value)
		}
		switch strings.ToLower(key) {
		case "thickness":
			s.Thickness = n
		case "shadow":
			s.Shadow = n
		default:
			s.BlockSize = n
		}
	case "font_size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid size for key %s: %q", key, value)
		}
		s.FontSize = f
	}
	return nil
}

// ParseColor accepts an SVG colour name or #RRGGBB / #RRGGBBAA and returns
// the premultiplied colour.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if !strings.HasPrefix(spec, "#") {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	hex := strings.TrimPrefix(spec, "#")
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var n color.NRGBA
	switch len(hex) {
	case 6:
		n = color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}
	case 8:
		n = color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex length in %q", s)
	}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
