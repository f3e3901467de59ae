// Package catalog holds the static content shown on the site: mentors,
// startups, blog posts and stay plans. It is seeded once on first access and
// never mutated afterwards.
package catalog

import (
	"slices"
	"sync"
)

// Mentor is a bookable mentor.
type Mentor struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Bio    string   `json:"bio"`
	Topics []string `json:"topics"`
}

// Startup is a showcased startup.
type Startup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Founders string `json:"founders"`
	Stage    string `json:"stage"`
	Pitch    string `json:"pitch"`
	Demo     string `json:"demo,omitempty"`
}

// BlogPost is a blog teaser.
type BlogPost struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// StayPlan is a bookable accommodation type.
type StayPlan struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// Catalog is the full set of static content.
type Catalog struct {
	Mentors  []Mentor   `json:"mentors"`
	Startups []Startup  `json:"startups"`
	Blog     []BlogPost `json:"blog"`
	Stays    []StayPlan `json:"stays"`
}

var load = sync.OnceValue(seed)

func seed() Catalog {
	return Catalog{
		Mentors: []Mentor{
			{ID: "m1", Name: "Rohit Kumar", Role: "CTO in Residence", Bio: "Tech founder, full-stack mentor", Topics: []string{"Tech", "Scaling"}},
			{ID: "m2", Name: "Alok Raj", Role: "CMO", Bio: "Growth & marketing expert", Topics: []string{"Growth", "Content"}},
			{ID: "m3", Name: "Nobesh Yogi", Role: "IP Advisor", Bio: "Patent & legal counsel", Topics: []string{"IP", "Legal"}},
		},
		Startups: []Startup{
			{ID: "s1", Name: "EcoCharge", Founders: "Aisha & Ravi", Stage: "MVP Ready", Pitch: "Portable solar chargers for students", Demo: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
			{ID: "s2", Name: "StudyBuddy", Founders: "Tina", Stage: "Pre-MVP", Pitch: "AI note generator for lectures"},
		},
		Blog: []BlogPost{
			{ID: "b1", Title: "How to pick a co-founder", Excerpt: "Quick practical checklist..."},
			{ID: "b2", Title: "Running a 2-week hackathon", Excerpt: "Plan, tools, exercises..."},
		},
		Stays: []StayPlan{
			{Type: "shared", Title: "Shared room"},
			{Type: "private", Title: "Private room"},
		},
	}
}

// Get returns a copy of the catalog that callers may modify freely.
func Get() Catalog {
	c := load()
	out := Catalog{
		Mentors:  make([]Mentor, len(c.Mentors)),
		Startups: slices.Clone(c.Startups),
		Blog:     slices.Clone(c.Blog),
		Stays:    slices.Clone(c.Stays),
	}
	for i, m := range c.Mentors {
		m.Topics = slices.Clone(m.Topics)
		out.Mentors[i] = m
	}
	return out
}

// FindMentor looks a mentor up by id.
func FindMentor(id string) (Mentor, bool) {
	for _, m := range load().Mentors {
		if m.ID == id {
			m.Topics = slices.Clone(m.Topics)
			return m, true
		}
	}
	return Mentor{}, false
}

// MentorExists reports whether id names a catalog mentor.
func MentorExists(id string) bool {
	_, ok := FindMentor(id)
	return ok
}
