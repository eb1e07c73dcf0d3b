// Package document reads and writes animation documents: a JSON object holding the cycle
// duration in seconds and the keyframes of every part keyed by part name.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/clock"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

var (
	// ErrNotObject is returned when the top level JSON value is not an object.
	ErrNotObject = errors.New("document: not a JSON object")

	// ErrInvalidDuration is returned for a duration that is not a positive number.
	ErrInvalidDuration = errors.New("document: duration must be a positive number")

	// ErrUnknownPart is returned for a keyframe set whose key is not a part name.
	ErrUnknownPart = errors.New("document: unknown part")

	// ErrInvalidKeyframe is returned for a keyframe with a bad time or vector.
	ErrInvalidKeyframe = errors.New("document: invalid keyframe")
)

// Document is a decoded animation.
type Document struct {
	Duration  time.Duration
	Keyframes map[rig.Part][]keyframe.Keyframe
}

// wire types

type fileDoc struct {
	Duration  *float64                  `json:"duration,omitempty"`
	Keyframes map[string][]fileKeyframe `json:"keyframes"`
}

type fileKeyframe struct {
	Time        *float32  `json:"time"`
	Translation []float32 `json:"translation"`
	Rotation    []float32 `json:"rotation"`

	// Written by older editors; read when present, never written.
	InitialTranslation []float32 `json:"initialTranslation,omitempty"`
	InitialRotation    []float32 `json:"initialRotation,omitempty"`
}

// Decode parses a document. A missing or zero duration defaults to clock.DefaultDuration and a
// missing keyframes object yields an empty animation. Nothing is partially applied: any error
// means the whole document is rejected.
//
// Parameters:
//   - data: the JSON bytes
//
// Returns:
//   - *Document: the decoded document
//   - error: ErrNotObject, ErrInvalidDuration, ErrUnknownPart, ErrInvalidKeyframe or a JSON syntax error
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("document: %w", syntaxError(trimmed))
		}
		return nil, ErrNotObject
	}

	var raw fileDoc
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "duration" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, err)
		}
		return nil, fmt.Errorf("document: %w", err)
	}

	doc := &Document{
		Duration:  clock.DefaultDuration,
		Keyframes: make(map[rig.Part][]keyframe.Keyframe),
	}
	if raw.Duration != nil && *raw.Duration != 0 {
		d := *raw.Duration
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, d)
		}
		doc.Duration = time.Duration(d * float64(time.Second))
		if doc.Duration <= 0 {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, d)
		}
	}

	for name, kfs := range raw.Keyframes {
		part, err := rig.ParsePart(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPart, name)
		}
		set := make([]keyframe.Keyframe, 0, len(kfs))
		for i, fk := range kfs {
			k, err := fk.keyframe()
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrInvalidKeyframe, name, i, err)
			}
			set = append(set, k)
		}
		if len(set) > 0 {
			doc.Keyframes[part] = set
		}
	}
	return doc, nil
}

// Encode serializes a document as indented JSON. Parts are written in rig order and keyframes
// in time order; only time, translation and rotation are written per keyframe.
//
// Parameters:
//   - doc: the document to encode
//
// Returns:
//   - []byte: the JSON bytes
//   - error: a marshal failure
func Encode(doc *Document) ([]byte, error) {
	d := doc.Duration
	if d <= 0 {
		d = clock.DefaultDuration
	}
	secs := d.Seconds()

	// Written by hand so parts come out in rig order rather than sorted by name.
	var buf bytes.Buffer
	buf.WriteString("{\n  \"duration\": ")
	dv, err := json.Marshal(secs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode duration: %w", err)
	}
	buf.Write(dv)
	buf.WriteString(",\n  \"keyframes\": {")

	first := true
	for _, part := range rig.Parts() {
		kfs := doc.Keyframes[part]
		if len(kfs) == 0 {
			continue
		}
		kfs = slices.Clone(kfs)
		slices.SortStableFunc(kfs, func(a, b keyframe.Keyframe) int {
			return cmpFloat(a.Time, b.Time)
		})

		out := make([]fileKeyframe, len(kfs))
		for i, k := range kfs {
			t := k.Time
			out[i] = fileKeyframe{
				Time:        &t,
				Translation: k.Translation[:],
				Rotation:    k.Rotation[:],
			}
		}
		val, err := json.MarshalIndent(out, "    ", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s keyframes: %w", part, err)
		}
		if !first {
			buf.WriteString(",")
		}
		first = false
		fmt.Fprintf(&buf, "\n    %q: ", part.String())
		buf.Write(val)
	}
	if !first {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")
	return buf.Bytes(), nil
}

// Load reads and decodes the document at path.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Document: the decoded document
//   - error: a read or decode failure
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", path, err)
	}
	return doc, nil
}

// Save encodes doc and writes it to path through a temporary file and a rename, so watchers and
// readers never see a half written document.
//
// Parameters:
//   - path: the destination file
//   - doc: the document to write
//
// Returns:
//   - []byte: the bytes written
//   - error: an encode or write failure
func Save(path string, doc *Document) ([]byte, error) {
	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to save document %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", path, err)
	}
	return data, nil
}

// --- internal helpers ---

func (fk fileKeyframe) keyframe() (keyframe.Keyframe, error) {
	if fk.Time == nil {
		return keyframe.Keyframe{}, errors.New("missing time")
	}
	t := *fk.Time
	if t < 0 || t >= 1 {
		return keyframe.Keyframe{}, fmt.Errorf("time %v outside [0, 1)", t)
	}
	tr, err := vec3(fk.Translation, "translation")
	if err != nil {
		return keyframe.Keyframe{}, err
	}
	rot, err := vec3(fk.Rotation, "rotation")
	if err != nil {
		return keyframe.Keyframe{}, err
	}

	k := keyframe.New(t, rig.Pose{Translation: tr, Rotation: rot})
	if fk.InitialTranslation != nil {
		if k.InitialTranslation, err = vec3(fk.InitialTranslation, "initialTranslation"); err != nil {
			return keyframe.Keyframe{}, err
		}
	}
	if fk.InitialRotation != nil {
		if k.InitialRotation, err = vec3(fk.InitialRotation, "initialRotation"); err != nil {
			return keyframe.Keyframe{}, err
		}
	}
	return k, nil
}

func vec3(v []float32, field string) (common.Vec3, error) {
	if len(v) != 3 {
		return common.Vec3{}, fmt.Errorf("%s needs 3 components, got %d", field, len(v))
	}
	return common.Vec3{v[0], v[1], v[2]}, nil
}

func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}

func cmpFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
