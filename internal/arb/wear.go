package arb

// WearRange is the float-value bucket of a wear tier.
type WearRange struct {
	Min float64
	Max float64
}

var wearRanges = map[WearTier]WearRange{
	WearFactoryNew:    {0.00, 0.07},
	WearMinimalWear:   {0.07, 0.15},
	WearFieldTested:   {0.15, 0.38},
	WearWellWorn:      {0.38, 0.45},
	WearBattleScarred: {0.45, 1.00},
}

// BucketRange returns the float interval for a wear tier.
func (w WearTier) BucketRange() (WearRange, bool) {
	r, ok := wearRanges[w]
	return r, ok
}

// Valid reports whether w is one of the five known tiers.
func (w WearTier) Valid() bool {
	_, ok := wearRanges[w]
	return ok
}

// WearFromFloat maps a continuous float value onto its wear tier. Buckets are
// half-open [min, max) except battle-scarred, which closes at 1.00.
func WearFromFloat(f float64) (WearTier, bool) {
	switch {
	case f < 0 || f > 1:
		return "", false
	case f < 0.07:
		return WearFactoryNew, true
	case f < 0.15:
		return WearMinimalWear, true
	case f < 0.38:
		return WearFieldTested, true
	case f < 0.45:
		return WearWellWorn, true
	default:
		return WearBattleScarred, true
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryNormal, CategoryStatTrak, CategorySouvenir:
		return true
	}
	return false
}

// wearNames maps tiers to the exterior text Steam embeds in market names.
var wearNames = map[WearTier]string{
	WearFactoryNew:    "Factory New",
	WearMinimalWear:   "Minimal Wear",
	WearFieldTested:   "Field-Tested",
	WearWellWorn:      "Well-Worn",
	WearBattleScarred: "Battle-Scarred",
}

// ExteriorName returns the full exterior text for a wear tier, e.g.
// "Field-Tested" for ft.
func (w WearTier) ExteriorName() string {
	return wearNames[w]
}
