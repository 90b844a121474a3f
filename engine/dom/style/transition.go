package style

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseTransition interprets a transition value like "opacity 2s, font 500ms"
// and returns the number of animation frames per property, given the
// refresh interval. Malformed items are skipped.
func ParseTransition(value string, refresh time.Duration) map[string]int {
	frames := make(map[string]int)
	if strings.TrimSpace(value) == "" || refresh <= 0 {
		return frames
	}
	for _, item := range strings.Split(value, ",") {
		parts := strings.Fields(item)
		if len(parts) < 2 {
			continue
		}
		d, err := time.ParseDuration(parts[1])
		if err != nil {
			tracer().Debugf("ignoring transition %q: %v", item, err)
			continue
		}
		n := int(d / refresh)
		for _, name := range Expand(parts[0]) {
			frames[name] = n
		}
	}
	return frames
}

// PropertyTransition is a change of a property value which should be animated.
type PropertyTransition struct {
	Property string
	From, To string
	Frames   int
}

// DiffStyles compares the old and new values of a node's properties and
// returns the transitions requested by the new "transition" value.
// Properties without a value change, with less than two frames or with
// non-numeric values are not animated. The result is sorted by property name.
func DiffStyles(prev, next map[string]string, refresh time.Duration) []PropertyTransition {
	var transitions []PropertyTransition
	for name, frames := range ParseTransition(next[Transition], refresh) {
		from, ok1 := prev[name]
		to, ok2 := next[name]
		if !ok1 || !ok2 || from == to || frames < 2 {
			continue
		}
		if _, ok := NewNumericAnimation(from, to, frames); !ok {
			continue
		}
		transitions = append(transitions, PropertyTransition{
			Property: name,
			From:     from,
			To:       to,
			Frames:   frames,
		})
	}
	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].Property < transitions[j].Property
	})
	return transitions
}

// --- Numeric animations ----------------------------------------------------

var numericPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)([a-zA-Z%]*)$`)

func splitNumeric(s string) (float64, string, bool) {
	m := numericPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, "", false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return f, m[2], true
}

// NumericAnimation interpolates linearly between two numeric property values
// with identical units, e.g. from "0.2" to "1.0" or from "10px" to "20px".
type NumericAnimation struct {
	from, to float64
	target   string
	unit     string
	frames   int
	count    int
	change   float64
	done     bool
}

// NewNumericAnimation prepares an animation over a number of frames.
// The flag is false if the values are not numeric, if their units differ,
// or if frames is less than one.
func NewNumericAnimation(from, to string, frames int) (*NumericAnimation, bool) {
	f, ufrom, ok1 := splitNumeric(from)
	t, uto, ok2 := splitNumeric(to)
	if !ok1 || !ok2 || ufrom != uto || frames < 1 {
		return nil, false
	}
	return &NumericAnimation{
		from:   f,
		to:     t,
		target: strings.TrimSpace(to),
		unit:   ufrom,
		frames: frames,
		count:  1,
		change: (t - f) / float64(frames),
	}, true
}

// Animate advances the animation by one frame and returns the property value
// for this frame. After the last intermediate frame the exact target value is
// returned once. Afterwards the flag is false.
func (a *NumericAnimation) Animate() (string, bool) {
	if a.done {
		return "", false
	}
	a.count++
	if a.count >= a.frames {
		a.done = true
		return a.target, true
	}
	v := a.from + a.change*float64(a.count)
	return strconv.FormatFloat(v, 'f', -1, 64) + a.unit, true
}

// Target is the final value of the animation.
func (a *NumericAnimation) Target() string {
	return a.target
}

// Done is true after the target value has been delivered.
func (a *NumericAnimation) Done() bool {
	return a.done
}

func (a *NumericAnimation) String() string {
	return "NumericAnimation(" + strconv.FormatFloat(a.from, 'f', -1, 64) + a.unit +
		" → " + a.target + ", " + strconv.Itoa(a.count) + "/" + strconv.Itoa(a.frames) + ")"
}
