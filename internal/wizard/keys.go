package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// Content keys written through the Bridge.
const (
	KeySeed           = "course_seed_data"
	KeyPrompt         = "ai_prompt"
	KeyJSONImport     = "json_import_data"
	KeyOutline        = "course_outline"
	KeyWelcomePage    = "page:welcome"
	KeyObjectivesPage = "page:objectives"
	KeyAssessment     = "assessment"
	KeyMedia          = "media"
	KeyAudioSettings  = "audio_settings"
	KeyActivities     = "activities_data"
	KeyScormConfig    = "scorm_config"

	topicKeyPrefix = "topic:"
)

// TopicKey returns the storage key of a topic.
func TopicKey(id string) string { return topicKeyPrefix + id }

// courseOutline fixes topic order; topics themselves are stored by id.
type courseOutline struct {
	Objectives []string `json:"objectives"`
	TopicIDs   []string `json:"topicIds"`
}

// encodeState renders every persisted slice of s as compact JSON.
func encodeState(s *State) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		out[key] = raw
		return nil
	}
	putRaw := func(key string, raw json.RawMessage) error {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		out[key] = buf.Bytes()
		return nil
	}

	if s.Seed != nil {
		if err := put(KeySeed, s.Seed); err != nil {
			return nil, err
		}
	}
	if s.Prompt != "" {
		if err := put(KeyPrompt, s.Prompt); err != nil {
			return nil, err
		}
	}
	if len(s.JSONImport) > 0 {
		if err := putRaw(KeyJSONImport, s.JSONImport); err != nil {
			return nil, err
		}
	}
	if c := s.Content; c != nil {
		outline := courseOutline{Objectives: c.Objectives, TopicIDs: make([]string, len(c.Topics))}
		for i, t := range c.Topics {
			outline.TopicIDs[i] = t.ID
			if err := put(TopicKey(t.ID), t); err != nil {
				return nil, err
			}
		}
		if err := put(KeyOutline, outline); err != nil {
			return nil, err
		}
		if err := put(KeyWelcomePage, c.WelcomePage); err != nil {
			return nil, err
		}
		if err := put(KeyObjectivesPage, c.LearningObjectivesPage); err != nil {
			return nil, err
		}
		if err := put(KeyAssessment, c.Assessment); err != nil {
			return nil, err
		}
	}
	if err := put(KeyMedia, s.Media); err != nil {
		return nil, err
	}
	if err := put(KeyAudioSettings, s.Audio); err != nil {
		return nil, err
	}
	if len(s.Activities) > 0 {
		if err := putRaw(KeyActivities, s.Activities); err != nil {
			return nil, err
		}
	}
	if err := put(KeyScormConfig, s.Scorm); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeState rebuilds State from stored content. Topics listed in the
// outline but missing from storage are dropped and reported as warnings.
func decodeState(p *domain.Project, content map[string]json.RawMessage) (State, []string, error) {
	s := newState()
	s.Project = p
	if p != nil {
		s.Current = p.CurrentStep
		s.Visited = copySet(p.VisitedSteps)
		if len(s.Visited) == 0 {
			s.Visited = domain.StepSet{domain.StepSeed: true}
		}
		s.Visited[s.Current] = true
	}

	get := func(key string, v any) (bool, error) {
		raw, ok := content[key]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			return false, nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return false, fmt.Errorf("decoding %s: %w", key, err)
		}
		return true, nil
	}

	var seed domain.CourseSeedData
	if ok, err := get(KeySeed, &seed); err != nil {
		return State{}, nil, err
	} else if ok {
		s.Seed = &seed
	}
	if _, err := get(KeyPrompt, &s.Prompt); err != nil {
		return State{}, nil, err
	}
	s.JSONImport = content[KeyJSONImport]
	s.Activities = content[KeyActivities]
	if _, err := get(KeyMedia, &s.Media); err != nil {
		return State{}, nil, err
	}
	if _, err := get(KeyAudioSettings, &s.Audio); err != nil {
		return State{}, nil, err
	}
	if _, err := get(KeyScormConfig, &s.Scorm); err != nil {
		return State{}, nil, err
	}

	var warnings []string
	var outline courseOutline
	ok, err := get(KeyOutline, &outline)
	if err != nil {
		return State{}, nil, err
	}
	if ok {
		c := &domain.CourseContent{Objectives: outline.Objectives}
		if _, err := get(KeyWelcomePage, &c.WelcomePage); err != nil {
			return State{}, nil, err
		}
		if _, err := get(KeyObjectivesPage, &c.LearningObjectivesPage); err != nil {
			return State{}, nil, err
		}
		if _, err := get(KeyAssessment, &c.Assessment); err != nil {
			return State{}, nil, err
		}
		for _, id := range outline.TopicIDs {
			var t domain.Topic
			found, err := get(TopicKey(id), &t)
			if err != nil {
				return State{}, nil, err
			}
			if !found {
				warnings = append(warnings, fmt.Sprintf("topic %q listed in outline but not stored", id))
				continue
			}
			c.Topics = append(c.Topics, t)
		}
		s.Content = c
	}
	return s, warnings, nil
}

// isTopicKey reports whether key stores a topic.
func isTopicKey(key string) bool { return strings.HasPrefix(key, topicKeyPrefix) }
