package ui

import "image/color"

// Theme defines the colour palette for the editor chrome.
type Theme struct {
	Background        color.RGBA
	Foreground        color.RGBA
	ToolbarBackground color.RGBA

	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	MessageBackground color.RGBA
}

// DefaultTheme returns the light theme.
func DefaultTheme() *Theme {
	return &Theme{
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		MessageBackground:     color.RGBA{255, 255, 255, 230},
	}
}

// DarkTheme returns the dark theme.
func DarkTheme() *Theme {
	return &Theme{
		Background:            color.RGBA{40, 40, 40, 255},
		Foreground:            color.RGBA{230, 230, 230, 255},
		ToolbarBackground:     color.RGBA{50, 50, 50, 255},
		ButtonBackground:      color.RGBA{70, 70, 70, 255},
		ButtonBackgroundHover: color.RGBA{90, 90, 90, 255},
		ButtonBackgroundPress: color.RGBA{110, 110, 110, 255},
		ButtonBorder:          color.RGBA{20, 20, 20, 255},
		CheckerLight:          color.RGBA{60, 60, 60, 255},
		CheckerDark:           color.RGBA{45, 45, 45, 255},
		MessageBackground:     color.RGBA{30, 30, 30, 230},
	}
}

// ThemeByName resolves "light" or "dark"; anything else is light.
func ThemeByName(name string) *Theme {
	if name == "dark" {
		return DarkTheme()
	}
	return DefaultTheme()
}
