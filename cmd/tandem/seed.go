package main

import "github.com/tandemly/tandem/internal/profile"

// demoProfiles is a small pool covering the interesting pairings:
// mutual exchange, one-directional exchange, co-learners, and a
// schedule mismatch.
var demoProfiles = []profile.Raw{
	{
		ID:             "demo-maya",
		NativeLanguage: "en",
		Bio:            "Graphic designer from Leeds, happiest with a sketchbook and an americano.",
		ScheduleTag:    "weekday-evenings",
		Languages: []profile.TargetLanguage{
			{Code: "ko", CurrentLevel: "B1", TargetLevel: "C1"},
		},
		Goals:         []string{"conversation", "travel"},
		Interests:     []string{"design", "cooking", "k-dramas"},
		Personalities: []string{"curious", "patient"},
	},
	{
		ID:             "demo-jisoo",
		NativeLanguage: "ko",
		Bio:            "Product manager in Seoul, training for a half marathon.",
		ScheduleTag:    "weekday-evenings",
		Languages: []profile.TargetLanguage{
			{Code: "en", CurrentLevel: "B1", TargetLevel: "C2"},
		},
		Goals:         []string{"conversation", "business"},
		Interests:     []string{"running", "cooking", "startups"},
		Personalities: []string{"outgoing", "curious"},
	},
	{
		ID:             "demo-lucas",
		NativeLanguage: "pt",
		Bio:            "Medical student in Porto Alegre.",
		ScheduleTag:    "weekends",
		Languages: []profile.TargetLanguage{
			{Code: "en", CurrentLevel: "B2"},
			{Code: "ko", CurrentLevel: "A2"},
		},
		Goals:         []string{"exam-prep", "conversation"},
		Interests:     []string{"football", "k-dramas", "medicine"},
		Personalities: []string{"driven"},
	},
	{
		ID:             "demo-amelie",
		NativeLanguage: "fr",
		Bio:            "Pastry chef, recently moved to Lyon.",
		Languages: []profile.TargetLanguage{
			{Code: "ko", CurrentLevel: "A1", TargetLevel: "B1"},
		},
		Goals:         []string{"travel"},
		Interests:     []string{"cooking", "cinema"},
		Personalities: []string{"patient", "quiet"},
	},
	{
		ID:             "demo-hiro",
		NativeLanguage: "ja",
		Bio:            "Retired engineer who wants to read English novels without a dictionary.",
		ScheduleTag:    "mornings",
		Languages: []profile.TargetLanguage{
			{Code: "en", CurrentLevel: "C1", TargetLevel: "C2"},
		},
		Goals:         []string{"reading", "conversation"},
		Interests:     []string{"literature", "hiking"},
		Personalities: []string{"quiet", "patient"},
	},
}
