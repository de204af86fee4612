package scorm

import (
	"fmt"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

type PageKind string

const (
	KindWelcome    PageKind = "welcome"
	KindObjectives PageKind = "objectives"
	KindTopic      PageKind = "topic"
	KindAssessment PageKind = "assessment"
)

// PagePlan is one navigable page. Index is 1-based and fixes both the
// prev/next chain and manifest item order.
type PagePlan struct {
	Index int      `json:"index"`
	ID    string   `json:"id"`
	Kind  PageKind `json:"-"`
	Title string   `json:"title"`
	File  string   `json:"file"`
	Prev  string   `json:"prev"`
	Next  string   `json:"next"`
}

// planPages lays out welcome, objectives, topics in array order, then the
// assessment. Topic file names are slugged ids, made unique when needed.
func planPages(c *domain.CourseContent) []PagePlan {
	plans := make([]PagePlan, 0, len(c.Topics)+3)
	plans = append(plans,
		PagePlan{ID: domain.PageIDWelcome, Kind: KindWelcome, Title: c.WelcomePage.Title, File: DirPages + "welcome.html"},
		PagePlan{ID: domain.PageIDObjectives, Kind: KindObjectives, Title: c.LearningObjectivesPage.Title, File: DirPages + "objectives.html"},
	)

	used := map[string]bool{"welcome": true, "objectives": true, "assessment": true}
	for i, t := range c.Topics {
		name := Slugify(t.ID)
		if name == "" || used[name] {
			name = fmt.Sprintf("topic-%d", i)
			for n := 2; used[name]; n++ {
				name = fmt.Sprintf("topic-%d-%d", i, n)
			}
		}
		used[name] = true
		title := t.Title
		if title == "" {
			title = fmt.Sprintf("Topic %d", i+1)
		}
		plans = append(plans, PagePlan{ID: t.ID, Kind: KindTopic, Title: title, File: DirPages + name + ".html"})
	}

	plans = append(plans, PagePlan{ID: domain.PageIDAssessment, Kind: KindAssessment, Title: "Assessment", File: DirPages + "assessment.html"})

	for i := range plans {
		plans[i].Index = i + 1
		if i > 0 {
			plans[i].Prev = plans[i-1].ID
		}
		if i < len(plans)-1 {
			plans[i].Next = plans[i+1].ID
		}
	}
	return plans
}
