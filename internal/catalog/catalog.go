package catalog

// Genres is the fixed set of genre categories used as the primary sampling
// dimension. Order matters: collection iterates categories in this order.
var Genres = []string{
	"pop", "rock", "hip-hop", "electronic",
	"jazz", "classical", "metal", "r&b",
}

// Years lists the sampling sub-periods in fixed descending order.
var Years = []int{2024, 2023, 2022, 2021, 2020}

// queryVariants maps each genre to alternate search facets. Cycling through
// variants diversifies queries so a single search string's result cap does
// not bound the whole cohort.
var queryVariants = map[string][]string{
	"pop": {
		"genre:pop", "genre:dance-pop", "genre:synth-pop", "genre:electropop",
		"genre:indie-pop", "genre:teen-pop", "genre:art-pop", "genre:dream-pop",
		"genre:britpop", "genre:k-pop", "genre:j-pop",
	},
	"rock": {
		"genre:rock", "genre:alternative-rock", "genre:indie-rock", "genre:classic-rock",
		"genre:hard-rock", "genre:post-rock", "genre:progressive-rock", "genre:psychedelic-rock",
		"genre:garage-rock", "genre:punk-rock", "genre:folk-rock",
	},
	"hip-hop": {
		"genre:hip-hop", "genre:rap", "genre:trap", "genre:old-school-hip-hop",
		"genre:east-coast-hip-hop", "genre:west-coast-hip-hop", "genre:southern-hip-hop",
		"genre:conscious-hip-hop", "genre:gangsta-rap",
	},
	"electronic": {
		"genre:electronic", "genre:techno", "genre:house", "genre:deep-house",
		"genre:tech-house", "genre:progressive-house", "genre:electro-house",
		"genre:trance", "genre:dubstep", "genre:drum-and-bass",
	},
	"jazz": {
		"genre:jazz", "genre:smooth-jazz", "genre:jazz-fusion", "genre:contemporary-jazz",
		"genre:bebop", "genre:hard-bop", "genre:cool-jazz", "genre:free-jazz",
		"genre:latin-jazz", "genre:swing",
	},
	"classical": {
		"genre:classical", "genre:baroque", "genre:romantic", "genre:contemporary-classical",
		"genre:classical-piano", "genre:chamber-music", "genre:orchestral", "genre:opera",
	},
	"metal": {
		"genre:metal", "genre:heavy-metal", "genre:death-metal", "genre:black-metal",
		"genre:thrash-metal", "genre:power-metal", "genre:progressive-metal",
		"genre:doom-metal", "genre:metalcore",
	},
	"r&b": {
		"genre:r&b", "genre:rnb", "genre:contemporary-r&b", "genre:neo-soul",
		"genre:alternative-r&b", "genre:soul", "genre:funk", "genre:gospel",
	},
}

// Variants returns the query variants for a genre, or nil for an unknown one.
func Variants(genre string) []string {
	return queryVariants[genre]
}

// IsGenre reports whether g is one of the fixed genre categories.
func IsGenre(g string) bool {
	_, ok := queryVariants[g]
	return ok
}
