package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Step is a wizard position. The zero value is the seed step.
type Step int

const (
	StepSeed Step = iota
	StepPrompt
	StepJSON
	StepMedia
	StepAudio
	StepActivities
	StepScorm
)

// StepCount is the number of wizard steps.
const StepCount = 7

var stepNames = [StepCount]string{"seed", "prompt", "json", "media", "audio", "activities", "scorm"}

var stepLabels = [StepCount]string{
	"Course Seed",
	"AI Prompt",
	"JSON Import",
	"Media",
	"Audio Narration",
	"Activities",
	"SCORM Package",
}

func (s Step) String() string {
	if s.Valid() {
		return stepNames[s]
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Label returns the human-facing step title.
func (s Step) Label() string {
	if s.Valid() {
		return stepLabels[s]
	}
	return s.String()
}

func (s Step) Valid() bool {
	return s >= StepSeed && s <= StepScorm
}

// Next returns the following step; the last step returns itself.
func (s Step) Next() Step {
	if s >= StepScorm {
		return StepScorm
	}
	return s + 1
}

// ParseStep accepts a step name ("media") or index ("3").
func ParseStep(v string) (Step, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range stepNames {
		if name == v {
			return Step(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && Step(n).Valid() {
		return Step(n), nil
	}
	return StepSeed, fmt.Errorf("unknown step %q (expected one of %s or 0-%d)", v, strings.Join(stepNames[:], ", "), StepCount-1)
}

// AllSteps returns every step in order.
func AllSteps() []Step {
	steps := make([]Step, StepCount)
	for i := range steps {
		steps[i] = Step(i)
	}
	return steps
}

// StepSet is the set of visited steps.
type StepSet map[Step]bool

// Sorted returns the members in ascending order.
func (s StepSet) Sorted() []Step {
	out := make([]Step, 0, len(s))
	for step, ok := range s {
		if ok {
			out = append(out, step)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Encode renders the set as a comma-separated index list ("0,1,2").
func (s StepSet) Encode() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, step := range sorted {
		parts[i] = strconv.Itoa(int(step))
	}
	return strings.Join(parts, ",")
}

// DecodeStepSet parses the Encode format, ignoring unknown entries.
func DecodeStepSet(v string) StepSet {
	set := StepSet{}
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || !Step(n).Valid() {
			continue
		}
		set[Step(n)] = true
	}
	return set
}
