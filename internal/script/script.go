// Package script replays a YAML scene of pointer and key gestures through a
// canvas controller so annotations can be produced without a window.
package script

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/example/shinemark/internal/compositor"
	"github.com/example/shinemark/internal/config"
)

//go:embed scene.schema.json
var schemaJSON []byte

const schemaURL = "scene.schema.json"

var ErrInvalidScene = errors.New("invalid scene")

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Scene is a decoded script.
type Scene struct {
	// Width and Height size a blank canvas when no image is supplied.
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Background string  `yaml:"background"`
	DPI        float64 `yaml:"dpi"`
	Steps      []Step  `yaml:"steps"`
}

// Step is one gesture. Exactly one of the action fields is set.
type Step struct {
	Mode  string `yaml:"mode,omitempty"`
	Down  []int  `yaml:"down,omitempty"`
	Move  []int  `yaml:"move,omitempty"`
	Up    []int  `yaml:"up,omitempty"`
	Leave string `yaml:"leave,omitempty"`
	Key   string `yaml:"key,omitempty"`
	Text  string `yaml:"text,omitempty"`
	Style *Style `yaml:"style,omitempty"`

	Button string `yaml:"button,omitempty"`
	Shift  bool   `yaml:"shift,omitempty"`
	Ctrl   bool   `yaml:"ctrl,omitempty"`
}

// Style replaces the session style of one annotation kind.
type Style struct {
	Kind      string  `yaml:"kind"`
	Stroke    string  `yaml:"stroke,omitempty"`
	Fill      string  `yaml:"fill,omitempty"`
	Thickness int     `yaml:"thickness,omitempty"`
	Shadow    int     `yaml:"shadow,omitempty"`
	BlockSize int     `yaml:"block_size,omitempty"`
	FontSize  float64 `yaml:"font_size,omitempty"`
}

// Parse validates data against the scene schema and decodes it.
func Parse(data []byte) (*Scene, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	// The validator wants JSON-shaped values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile scene schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return &s, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Blank returns the base image described by the scene's size and
// background, or nil when the scene declares no size.
func (s *Scene) Blank() (*compositor.BaseImage, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, nil
	}
	bg := color.RGBA{255, 255, 255, 255}
	if s.Background != "" {
		c, err := config.ParseColor(s.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		bg = c
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return compositor.NewBaseImage(img, s.DPI), nil
}
