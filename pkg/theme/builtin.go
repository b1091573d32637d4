package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
		thCatppuccinTheme(),
		thDraculaTheme(),
		thTokyoNightTheme(),
	} {
		thRegister(t)
	}
}

// thDefaultTheme mirrors the classic widget: grey outer disc, white centre,
// green ring and label.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#4CAF50",

		OuterFill:  "#888888",
		InnerFill:  "#ffffff",
		RingStroke: "#4CAF50",
		Label:      "#4CAF50",

		HelpKey:  "#4CAF50",
		HelpDesc: "#6b6b6b",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		OuterFill:  "#504945",
		InnerFill:  "#3c3836",
		RingStroke: "#b8bb26",
		Label:      "#fabd2f",

		HelpKey:  "#fe8019",
		HelpDesc: "#928374",
	}
}

// thNordTheme returns the arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		OuterFill:  "#434c5e",
		InnerFill:  "#3b4252",
		RingStroke: "#88c0d0",
		Label:      "#eceff4",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}

// thCatppuccinTheme returns the Catppuccin Mocha theme.
func thCatppuccinTheme() Theme {
	return Theme{
		Name:       "catppuccin",
		Background: "#1e1e2e",
		Foreground: "#cdd6f4",
		Dim:        "#6c7086",
		Accent:     "#cba6f7",

		OuterFill:  "#45475a",
		InnerFill:  "#313244",
		RingStroke: "#a6e3a1",
		Label:      "#cba6f7",

		HelpKey:  "#cba6f7",
		HelpDesc: "#6c7086",
	}
}

// thDraculaTheme returns the Dracula theme.
func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		OuterFill:  "#44475a",
		InnerFill:  "#282a36",
		RingStroke: "#50fa7b",
		Label:      "#ff79c6",

		HelpKey:  "#bd93f9",
		HelpDesc: "#6272a4",
	}
}

// thTokyoNightTheme returns the Tokyo Night theme.
func thTokyoNightTheme() Theme {
	return Theme{
		Name:       "tokyo-night",
		Background: "#1a1b26",
		Foreground: "#c0caf5",
		Dim:        "#565f89",
		Accent:     "#7aa2f7",

		OuterFill:  "#414868",
		InnerFill:  "#24283b",
		RingStroke: "#9ece6a",
		Label:      "#7aa2f7",

		HelpKey:  "#7aa2f7",
		HelpDesc: "#565f89",
	}
}
