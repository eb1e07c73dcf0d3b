package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/clock"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return &Document{
		Duration: 2500 * time.Millisecond,
		Keyframes: map[rig.Part][]keyframe.Keyframe{
			rig.Body: {
				keyframe.New(0, rig.Pose{Translation: common.Vec3{0, 1, 0}}),
				keyframe.New(0.5, rig.Pose{Translation: common.Vec3{0, 1.25, 0}, Rotation: common.Vec3{0.1, 0, 0}}),
			},
			rig.UpperLegFL: {
				keyframe.New(0.25, rig.Pose{Translation: common.Vec3{-0.5, -1.4, 0.5}, Rotation: common.Vec3{0.4, 0, 0}}),
			},
		},
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(`{
		"duration": 3,
		"keyframes": {
			"Head": [
				{"time": 0.8, "translation": [0, 0.8, 0.6], "rotation": [0, 0.5, 0]},
				{"time": 0.2, "translation": [0, 0.9, 0.6], "rotation": [0, -0.5, 0]}
			]
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, doc.Duration)
	require.Len(t, doc.Keyframes[rig.Head], 2)
	k := doc.Keyframes[rig.Head][0]
	assert.Equal(t, float32(0.8), k.Time)
	assert.Equal(t, common.Vec3{0, 0.5, 0}, k.Rotation)
	assert.Equal(t, k.Translation, k.InitialTranslation)
	assert.Equal(t, k.Rotation, k.InitialRotation)
}

func TestDecodeDefaults(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, clock.DefaultDuration, doc.Duration)
	assert.Empty(t, doc.Keyframes)

	doc, err = Decode([]byte(`{"duration": 0, "keyframes": {}}`))
	require.NoError(t, err)
	assert.Equal(t, clock.DefaultDuration, doc.Duration)
}

func TestDecodeInitialSnapshot(t *testing.T) {
	doc, err := Decode([]byte(`{"keyframes": {"Body": [{
		"time": 0, "translation": [1, 2, 3], "rotation": [0, 0, 0],
		"initialTranslation": [0, 1, 0], "initialRotation": [0, 0, 1]
	}]}}`))
	require.NoError(t, err)
	k := doc.Keyframes[rig.Body][0]
	assert.Equal(t, common.Vec3{1, 2, 3}, k.Translation)
	assert.Equal(t, common.Vec3{0, 1, 0}, k.InitialTranslation)
	assert.Equal(t, common.Vec3{0, 0, 1}, k.InitialRotation)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"array", `[1, 2]`, ErrNotObject},
		{"null", `null`, ErrNotObject},
		{"number", `42`, ErrNotObject},
		{"negative duration", `{"duration": -1}`, ErrInvalidDuration},
		{"string duration", `{"duration": "slow"}`, ErrInvalidDuration},
		{"unknown part", `{"keyframes": {"Tail": []}}`, ErrUnknownPart},
		{"lowercase part", `{"keyframes": {"body": []}}`, ErrUnknownPart},
		{"missing time", `{"keyframes": {"Body": [{"translation": [0,0,0], "rotation": [0,0,0]}]}}`, ErrInvalidKeyframe},
		{"time out of range", `{"keyframes": {"Body": [{"time": 1, "translation": [0,0,0], "rotation": [0,0,0]}]}}`, ErrInvalidKeyframe},
		{"short vector", `{"keyframes": {"Body": [{"time": 0, "translation": [0,0], "rotation": [0,0,0]}]}}`, ErrInvalidKeyframe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.input))
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	_, err := Decode([]byte(`{"duration": `))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeShape(t *testing.T) {
	data, err := Encode(sampleDocument())
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"duration": 2.5`)
	assert.Contains(t, s, `"Body"`)
	assert.Contains(t, s, `"UpperLegFL"`)
	assert.NotContains(t, s, "initial")
	// Body precedes UpperLegFL in rig order.
	assert.Less(t, strings.Index(s, `"Body"`), strings.Index(s, `"UpperLegFL"`))

	empty, err := Encode(&Document{})
	require.NoError(t, err)
	doc, err := Decode(empty)
	require.NoError(t, err)
	assert.Equal(t, clock.DefaultDuration, doc.Duration)
	assert.Empty(t, doc.Keyframes)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.json")
	want := sampleDocument()

	written, err := Save(path, want)
	require.NoError(t, err)
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, written, onDisk)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Duration, got.Duration)
	require.Len(t, got.Keyframes, len(want.Keyframes))
	for part, kfs := range want.Keyframes {
		require.Len(t, got.Keyframes[part], len(kfs), part.String())
		for i, k := range kfs {
			g := got.Keyframes[part][i]
			assert.Equal(t, k.Time, g.Time)
			assert.Equal(t, k.Translation, g.Translation)
			assert.Equal(t, k.Rotation, g.Rotation)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWatcherSeesSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.json")
	_, err := Save(path, sampleDocument())
	require.NoError(t, err)

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = Save(path, &Document{Duration: time.Second})
	require.NoError(t, err)

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported after save")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
