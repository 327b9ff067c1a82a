package app

import "math/rand"

// Themes seed the art source: each round queries the image service with
// one of these and receives a near-identical innocent/impostor pair.
// Curated for subjects that photograph with enough lookalike variety.
var Themes = []string{
	// Animals
	"cat", "dog", "parrot", "owl", "fox",
	"rabbit", "hedgehog", "turtle", "penguin", "llama",
	"octopus", "jellyfish", "chameleon", "flamingo", "panda",

	// Places
	"lighthouse", "castle", "waterfall", "desert", "volcano",
	"harbor", "skyline", "canyon", "glacier", "temple",
	"bridge", "market", "subway", "rooftop", "forest",

	// Objects
	"typewriter", "compass", "lantern", "umbrella", "telescope",
	"gramophone", "hourglass", "anchor", "kettle", "camera",
	"bicycle", "mailbox", "chandelier", "globe", "cactus",

	// Food
	"croissant", "ramen", "pancakes", "sushi", "espresso",
	"watermelon", "pretzel", "cupcake", "taco", "gelato",

	// Weather & sky
	"aurora", "eclipse", "rainbow", "thunderstorm", "sunrise",
	"fog", "snowfall", "meteor", "clouds", "moon",
}

// RandomTheme picks a theme for one round.
func RandomTheme(rng *rand.Rand) string {
	return Themes[rng.Intn(len(Themes))]
}

// RandomThemeExcluding picks a theme not in the excluded list, so the same
// match does not repeat a subject. Falls back to any theme if the
// exclusion list covers the pool.
func RandomThemeExcluding(rng *rand.Rand, excluded []string) string {
	excludeMap := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		excludeMap[t] = true
	}

	for attempts := 0; attempts < 100; attempts++ {
		theme := RandomTheme(rng)
		if !excludeMap[theme] {
			return theme
		}
	}
	return RandomTheme(rng)
}
