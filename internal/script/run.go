package script

import (
	"fmt"
	"image"

	"github.com/example/shinemark/internal/annotation"
	"github.com/example/shinemark/internal/canvas"
	"github.com/example/shinemark/internal/config"
)

var keys = map[string]canvas.Key{
	"delete":    canvas.KeyDelete,
	"backspace": canvas.KeyBackspace,
	"escape":    canvas.KeyEscape,
	"enter":     canvas.KeyEnter,
}

var buttons = map[string]canvas.Button{
	"":       canvas.ButtonLeft,
	"left":   canvas.ButtonLeft,
	"right":  canvas.ButtonRight,
	"middle": canvas.ButtonMiddle,
}

// Run replays every step through ctrl. The controller must already hold an
// image. A bad mode, style or button stops the replay with the step index.
func Run(ctrl *canvas.Controller, s *Scene) error {
	for i, st := range s.Steps {
		if err := step(ctrl, st); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func step(ctrl *canvas.Controller, st Step) error {
	var mods canvas.Modifiers
	if st.Shift {
		mods |= canvas.ModShift
	}
	if st.Ctrl {
		mods |= canvas.ModControl
	}
	b, ok := buttons[st.Button]
	if !ok {
		return fmt.Errorf("unknown button %q", st.Button)
	}

	switch {
	case st.Mode != "":
		m, err := canvas.ParseMode(st.Mode)
		if err != nil {
			return err
		}
		return ctrl.SetMode(m)
	case st.Style != nil:
		return applyStyle(ctrl.Session(), st.Style)
	case st.Down != nil:
		p, err := point(st.Down)
		if err != nil {
			return err
		}
		ctrl.PointerDown(p, b, mods)
	case st.Move != nil:
		p, err := point(st.Move)
		if err != nil {
			return err
		}
		ctrl.PointerMove(p, mods)
	case st.Up != nil:
		p, err := point(st.Up)
		if err != nil {
			return err
		}
		ctrl.PointerUp(p, b, mods)
	case st.Leave != "":
		ctrl.PointerLeave(st.Leave == "held")
	case st.Key != "":
		k, ok := keys[st.Key]
		if !ok {
			return fmt.Errorf("unknown key %q", st.Key)
		}
		ctrl.KeyDown(k, 0)
	case st.Text != "":
		for _, r := range st.Text {
			ctrl.KeyDown(canvas.KeyRune, r)
		}
	}
	return nil
}

func point(v []int) (image.Point, error) {
	if len(v) != 2 {
		return image.Point{}, fmt.Errorf("point needs two coordinates, got %d", len(v))
	}
	return image.Pt(v[0], v[1]), nil
}

func applyStyle(s *canvas.Session, st *Style) error {
	k, err := annotation.ParseKind(st.Kind)
	if err != nil {
		return err
	}
	o := config.Style{
		Thickness: st.Thickness,
		Shadow:    st.Shadow,
		BlockSize: st.BlockSize,
		FontSize:  st.FontSize,
	}
	if st.Stroke != "" {
		c, err := config.ParseColor(st.Stroke)
		if err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
		o.Stroke = &c
	}
	if st.Fill != "" {
		c, err := config.ParseColor(st.Fill)
		if err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		o.Fill = &c
	}
	s.SetStyle(k, o.Apply(s.Style(k)))
	return nil
}
