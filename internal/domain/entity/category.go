package entity

import (
	"strings"
)

// Categories lists every display name a work can be filed under, in menu order.
var Categories = []string{
	"Cleaning",
	"Plumbing",
	"Electrician",
	"Painting",
	"Carpentry",
	"Gardening",
	"Moving",
	"Cooking",
	"Babysitting",
	"Laundry",
	"AC Repair",
	"Pest Control",
	"Beauty",
	"Car Wash",
	"Computer Repair",
	"Mobile Repair",
	"Tutoring",
	"Photography",
	"Event Planning",
	"Security",
	"Other",
}

var categoryBySlug = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, name := range Categories {
		m[CategorySlug(name)] = name
	}
	return m
}()

// CategorySlug lowercases the name and joins words with hyphens.
func CategorySlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// CategoryFromSlug resolves a routing slug to the stored display name.
func CategoryFromSlug(slug string) (string, bool) {
	name, ok := categoryBySlug[strings.ToLower(strings.TrimSpace(slug))]
	return name, ok
}

func IsCategory(name string) bool {
	stored, ok := categoryBySlug[CategorySlug(name)]
	return ok && stored == name
}
