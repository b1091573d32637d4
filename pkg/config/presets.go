package config

// RingPreset returns ring dimensions for a named size. Unknown names get
// "medium".
//
//	small   radius 48dp,  thickness 10dp, label 14sp
//	medium  radius 100dp, thickness 20dp, label 24sp
//	large   radius 160dp, thickness 28dp, label 40sp
func RingPreset(name string) RingConfig {
	switch name {
	case "small":
		return smallPreset()
	case "large":
		return largePreset()
	default:
		return mediumPreset()
	}
}

// PresetNames lists the recognised ring presets.
func PresetNames() []string {
	return []string{"small", "medium", "large"}
}

func smallPreset() RingConfig {
	return RingConfig{
		Preset:          "small",
		RadiusDp:        48,
		RingThicknessDp: 10,
		LabelTextSizeSp: 14,
	}
}

func mediumPreset() RingConfig {
	return RingConfig{
		Preset:          "medium",
		RadiusDp:        100,
		RingThicknessDp: 20,
		LabelTextSizeSp: 24,
	}
}

func largePreset() RingConfig {
	return RingConfig{
		Preset:          "large",
		RadiusDp:        160,
		RingThicknessDp: 28,
		LabelTextSizeSp: 40,
	}
}
