package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadScript is wrapped by every script parse failure.
var ErrBadScript = errors.New("bad input script")

// Step holds a key set for a number of frames.
type Step struct {
	Keys   KeySet
	Frames uint64
}

// Script replays a fixed sequence of key sets, one Step after another.
// After the last step no keys are held.
type Script struct {
	Steps []Step
}

// ParseScript reads a comma separated list of KEYS:FRAMES steps where KEYS
// is "-" for nothing held or key names joined by "+", e.g.
// "W:30,-:10,S:30,Up+Down:5".
func ParseScript(text string) (*Script, error) {
	script := &Script{}
	text = strings.TrimSpace(text)
	if text == "" {
		return script, nil
	}

	for i, part := range strings.Split(text, ",") {
		keysText, framesText, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: step %d %q: missing ':'", ErrBadScript, i+1, part)
		}

		frames, err := strconv.ParseUint(framesText, 10, 64)
		if err != nil || frames == 0 {
			return nil, fmt.Errorf("%w: step %d %q: frame count must be a positive integer", ErrBadScript, i+1, part)
		}

		var keys KeySet
		if keysText != "-" {
			for _, name := range strings.Split(keysText, "+") {
				k, ok := ParseKey(strings.TrimSpace(name))
				if !ok {
					return nil, fmt.Errorf("%w: step %d: unknown key %q", ErrBadScript, i+1, name)
				}
				keys = keys.With(k)
			}
		}

		script.Steps = append(script.Steps, Step{Keys: keys, Frames: frames})
	}
	return script, nil
}

// Len returns the total number of frames the script covers.
func (s *Script) Len() uint64 {
	var n uint64
	for _, step := range s.Steps {
		n += step.Frames
	}
	return n
}

// Poll returns the keys held on frame (1-based).
func (s *Script) Poll(frame uint64) KeySet {
	if frame == 0 {
		return 0
	}
	frame--
	for _, step := range s.Steps {
		if frame < step.Frames {
			return step.Keys
		}
		frame -= step.Frames
	}
	return 0
}

func (s *Script) String() string {
	parts := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		parts[i] = fmt.Sprintf("%s:%d", step.Keys, step.Frames)
	}
	return strings.Join(parts, ",")
}
