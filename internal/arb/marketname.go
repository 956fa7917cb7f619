package arb

import "strings"

const (
	starPrefix     = "★"
	statTrakPrefix = "StatTrak™"
	souvenirPrefix = "Souvenir"
)

// familyRules captures how a family of items composes its market hash name:
// whether it carries a wear suffix, which categories exist for it, and
// whether it takes the knife/glove star.
type familyRules struct {
	name           string
	supportsWear   bool
	allowsStatTrak bool
	allowsSouvenir bool
	hasStarPrefix  bool
}

var families = map[string]familyRules{
	"knife":        {"knife", true, true, false, true},
	"gloves":       {"gloves", true, false, false, true},
	"weapon":       {"weapon", true, true, true, false},
	"music_kit":    {"music_kit", false, true, false, false},
	"sticker":      {"sticker", false, false, false, false},
	"patch":        {"patch", false, false, false, false},
	"agent":        {"agent", false, false, false, false},
	"graffiti":     {"graffiti", false, false, false, false},
	"charm":        {"charm", false, false, false, false},
	"collectible":  {"collectible", false, false, false, false},
	"case":         {"case", false, false, false, false},
	"souvenir_pkg": {"souvenir_pkg", false, false, false, false},
	"pass":         {"pass", false, false, false, false},
	"gift":         {"gift", false, false, false, false},
}

var knifeNames = map[string]bool{
	"Karambit": true, "Bayonet": true, "M9 Bayonet": true, "Flip Knife": true,
	"Gut Knife": true, "Huntsman Knife": true, "Falchion Knife": true,
	"Shadow Daggers": true, "Bowie Knife": true, "Ursus Knife": true,
	"Navaja Knife": true, "Stiletto Knife": true, "Talon Knife": true,
	"Skeleton Knife": true, "Paracord Knife": true, "Survival Knife": true,
	"Nomad Knife": true, "Classic Knife": true, "Kukri Knife": true,
}

var gloveNames = map[string]bool{
	"Sport Gloves": true, "Moto Gloves": true, "Specialist Gloves": true,
	"Driver Gloves": true, "Hand Wraps": true, "Hydra Gloves": true,
	"Bloodhound Gloves": true,
}

// nonFloatKeywords flag item families that have no float/wear values at all.
var nonFloatKeywords = []string{
	"music kit", "sticker", "patch", "agent", "graffiti",
	"case", "collectible", "pin", "key", "viewer pass", "souvenir package",
	"charm", "gift",
}

// SupportsFloat reports whether an item name belongs to a family that has
// float/wear values. Wear filters must never be applied to non-floatables.
func SupportsFloat(name string) bool {
	low := strings.ToLower(name)
	for _, k := range nonFloatKeywords {
		if strings.Contains(low, k) {
			return false
		}
	}
	return true
}

// lhsItemName returns the left side of "A | B", trimmed.
func lhsItemName(name string) string {
	if i := strings.Index(name, "|"); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}

func inferFamily(name string) familyRules {
	n := strings.TrimSpace(name)
	low := strings.ToLower(n)
	lhs := lhsItemName(n)

	switch {
	case strings.HasPrefix(low, "music kit |"), strings.HasPrefix(low, "stattrak™ music kit |"):
		return families["music_kit"]
	case strings.HasPrefix(low, "sticker |"):
		return families["sticker"]
	case strings.HasPrefix(low, "patch |"):
		return families["patch"]
	case strings.HasPrefix(low, "sealed graffiti |"), strings.HasPrefix(low, "graffiti |"):
		return families["graffiti"]
	case strings.HasPrefix(low, "charm |"):
		return families["charm"]
	case strings.Contains(low, "souvenir package"):
		return families["souvenir_pkg"]
	case strings.HasSuffix(low, " case"), strings.HasSuffix(low, " case (old)"):
		return families["case"]
	case strings.Contains(low, " pin"), strings.Contains(low, "collectible"):
		return families["collectible"]
	case strings.Contains(low, " viewer pass"), strings.HasSuffix(low, " pass"):
		return families["pass"]
	case strings.Contains(low, " gift"):
		return families["gift"]
	case strings.HasPrefix(n, starPrefix+" "):
		return families["knife"]
	}

	if knifeNames[lhs] || strings.HasSuffix(lhs, " Knife") {
		return families["knife"]
	}
	if gloveNames[lhs] {
		return families["gloves"]
	}

	// Agent names look like "Cmdr. Mae 'Dead Cold' Jamison | SWAT" -- crude,
	// but good enough for the handful of agent collections.
	if strings.Contains(n, " | ") {
		for _, tok := range []string{"swat", "fbi", "phoenix", "cmdr.", "marshal", "soldier", "the professionals"} {
			if strings.Contains(low, tok) {
				return families["agent"]
			}
		}
	}

	return families["weapon"]
}

func hasParentheses(name string) bool {
	return strings.Contains(name, "(") && strings.Contains(name, ")")
}

func alreadyPrefixed(name string) bool {
	low := strings.ToLower(strings.TrimSpace(name))
	return strings.HasPrefix(low, "stattrak") ||
		strings.HasPrefix(low, "souvenir") ||
		strings.HasPrefix(low, strings.ToLower(starPrefix))
}

// BuildMarketHashName composes a canonical Steam/CSFloat market_hash_name
// from a base item name plus normalized wear and category inputs. Family
// rules decide whether wear/StatTrak/Souvenir apply; knives get StatTrak™
// placed after the star; wear is only appended when the base name does not
// already carry an exterior suffix.
func BuildMarketHashName(baseName string, wear WearTier, category Category) string {
	name := strings.TrimSpace(baseName)
	fam := inferFamily(name)

	cat := category
	if cat == "" {
		cat = CategoryNormal
	}
	if cat == CategoryStatTrak && !fam.allowsStatTrak {
		cat = CategoryNormal
	}
	if cat == CategorySouvenir && !fam.allowsSouvenir {
		cat = CategoryNormal
	}

	already := alreadyPrefixed(name)
	if fam.hasStarPrefix {
		if !strings.HasPrefix(name, starPrefix+" ") {
			name = starPrefix + " " + name
		}
		if cat == CategoryStatTrak && !strings.Contains(name, statTrakPrefix) {
			name = strings.Replace(name, starPrefix+" ", starPrefix+" "+statTrakPrefix+" ", 1)
		} else if cat != CategoryStatTrak && strings.Contains(name, statTrakPrefix) {
			name = strings.Replace(name, starPrefix+" "+statTrakPrefix+" ", starPrefix+" ", 1)
		}
	} else if !already {
		switch cat {
		case CategoryStatTrak:
			name = statTrakPrefix + " " + name
		case CategorySouvenir:
			name = souvenirPrefix + " " + name
		}
	} else {
		// Already prefixed: only add what is missing, never double-prefix.
		if cat == CategoryStatTrak && !strings.Contains(name, statTrakPrefix) && !strings.Contains(name, souvenirPrefix) {
			name = statTrakPrefix + " " + name
		}
		if cat == CategorySouvenir && !strings.Contains(name, souvenirPrefix) && !strings.Contains(name, statTrakPrefix) {
			name = souvenirPrefix + " " + name
		}
	}

	if fam.supportsWear && wear != "" && !hasParentheses(name) {
		if ext := wear.ExteriorName(); ext != "" {
			name = name + " (" + ext + ")"
		}
	}
	return name
}

// BaseName strips the star/StatTrak™/Souvenir prefixes and any exterior
// suffix from a market hash name, recovering the plain item name used for
// tier matching. "★ StatTrak™ Karambit | Doppler (Factory New)" becomes
// "Karambit | Doppler".
func BaseName(marketHashName string) string {
	name := strings.TrimSpace(marketHashName)
	name = strings.TrimPrefix(name, starPrefix+" ")
	name = strings.TrimPrefix(name, statTrakPrefix+" ")
	name = strings.TrimPrefix(name, souvenirPrefix+" ")

	for _, ext := range wearNames {
		suffix := " (" + ext + ")"
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// CategoryOf reads the variant class out of a market hash name. Souvenir
// wins over StatTrak™ because the two never co-occur.
func CategoryOf(marketHashName string) Category {
	low := strings.ToLower(marketHashName)
	if strings.Contains(low, strings.ToLower(souvenirPrefix+" ")) && !strings.Contains(low, "souvenir package") {
		return CategorySouvenir
	}
	if strings.Contains(low, strings.ToLower(statTrakPrefix)) {
		return CategoryStatTrak
	}
	return CategoryNormal
}
