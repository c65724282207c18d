/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/ambience
License: GPLv3 or later
*/

package ambience

import (
	"fmt"
	"slices"
	"strings"
)

// SoundID names one of the built-in textures.
type SoundID string

const (
	SoundRain     SoundID = "rain"
	SoundOcean    SoundID = "ocean"
	SoundBirds    SoundID = "birds"
	SoundWind     SoundID = "wind"
	SoundFire     SoundID = "fire"
	SoundCrickets SoundID = "crickets"
)

// SoundDefinition pairs a texture with the recipe that builds it.
type SoundDefinition struct {
	ID     SoundID
	Name   string
	recipe func(k *kit)
}

var catalogue = []SoundDefinition{
	{ID: SoundRain, Name: "Rain", recipe: buildRain},
	{ID: SoundOcean, Name: "Ocean Waves", recipe: buildOcean},
	{ID: SoundBirds, Name: "Forest Birds", recipe: buildBirds},
	{ID: SoundWind, Name: "Wind", recipe: buildWind},
	{ID: SoundFire, Name: "Crackling Fire", recipe: buildFire},
	{ID: SoundCrickets, Name: "Night Crickets", recipe: buildCrickets},
}

// Sounds lists every texture in catalogue order.
func Sounds() []SoundDefinition {
	return slices.Clone(catalogue)
}

// ParseSoundID accepts a sound id in any case.
func ParseSoundID(s string) (SoundID, error) {
	id := SoundID(strings.ToLower(strings.TrimSpace(s)))
	if _, err := lookupSound(id); err != nil {
		return "", err
	}
	return id, nil
}

func lookupSound(id SoundID) (SoundDefinition, error) {
	for _, def := range catalogue {
		if def.ID == id {
			return def, nil
		}
	}
	return SoundDefinition{}, fmt.Errorf("%w: %q", ErrUnknownSound, string(id))
}
