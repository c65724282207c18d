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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestOceanSwell_StaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		phi := rapid.Float64Range(-1e6, 1e6).Draw(t, "phi")
		g := oceanSwell(phi)
		if g < 0 || g > 0.65+1e-12 {
			t.Fatalf("oceanSwell(%v) = %v outside [0, 0.65]", phi, g)
		}
	})
}

func TestOceanSwell_ReachesBothBounds(t *testing.T) {
	lo, hi := 1.0, 0.0
	for i := range 200000 {
		g := oceanSwell(float64(i) * OCEAN_PHASE_STEP)
		lo, hi = min(lo, g), max(hi, g)
	}
	assert.Zero(t, lo, "swell never clipped at silence")
	assert.Greater(t, hi, 0.6)
}

func TestMasterVolume_Effective(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := clampLevel(rapid.Float64().Draw(t, "level"))
		muted := rapid.Bool().Draw(t, "muted")
		if level < 0 || level > 1 {
			t.Fatalf("clampLevel produced %v", level)
		}
		got := MasterVolume{Level: level, Muted: muted}.Effective()
		if muted && got != 0 {
			t.Fatalf("muted volume = %v", got)
		}
		if !muted && got != level {
			t.Fatalf("effective %v != level %v", got, level)
		}
	})
}

func TestSounds_Catalogue(t *testing.T) {
	defs := Sounds()
	require.Len(t, defs, 6)
	seen := map[SoundID]bool{}
	for _, def := range defs {
		assert.NotEmpty(t, def.Name)
		assert.NotNil(t, def.recipe)
		assert.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true
	}

	defs[0].Name = "changed"
	assert.NotEqual(t, "changed", Sounds()[0].Name, "Sounds exposed the catalogue")
}

func TestParseSoundID(t *testing.T) {
	id, err := ParseSoundID("  Ocean ")
	require.NoError(t, err)
	assert.Equal(t, SoundOcean, id)

	_, err = ParseSoundID("thunder")
	assert.ErrorIs(t, err, ErrUnknownSound)
}

func TestVoiceState_String(t *testing.T) {
	assert.Equal(t, "stopping", VoiceStopping.String())
	assert.Equal(t, "VoiceState(9)", VoiceState(9).String())
}
