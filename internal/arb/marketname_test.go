package arb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMarketHashName_Weapon(t *testing.T) {
	got := BuildMarketHashName("AK-47 | Redline", WearFieldTested, CategoryNormal)
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", got)

	got = BuildMarketHashName("AK-47 | Redline", WearMinimalWear, CategoryStatTrak)
	assert.Equal(t, "StatTrak™ AK-47 | Redline (Minimal Wear)", got)

	got = BuildMarketHashName("AWP | Dragon Lore", WearFactoryNew, CategorySouvenir)
	assert.Equal(t, "Souvenir AWP | Dragon Lore (Factory New)", got)
}

func TestBuildMarketHashName_KnifeStarAndStatTrakPlacement(t *testing.T) {
	got := BuildMarketHashName("Karambit | Doppler", WearFactoryNew, CategoryStatTrak)
	assert.Equal(t, "★ StatTrak™ Karambit | Doppler (Factory New)", got)

	// Souvenir does not exist for knives; falls back to normal.
	got = BuildMarketHashName("Karambit | Doppler", WearFactoryNew, CategorySouvenir)
	assert.Equal(t, "★ Karambit | Doppler (Factory New)", got)
}

func TestBuildMarketHashName_GlovesNeverStatTrak(t *testing.T) {
	got := BuildMarketHashName("Sport Gloves | Pandora's Box", WearMinimalWear, CategoryStatTrak)
	assert.Equal(t, "★ Sport Gloves | Pandora's Box (Minimal Wear)", got)
}

func TestBuildMarketHashName_NonFloatablesSkipWear(t *testing.T) {
	got := BuildMarketHashName("Music Kit | Scarlxrd, King, Scar", WearFactoryNew, CategoryStatTrak)
	assert.Equal(t, "StatTrak™ Music Kit | Scarlxrd, King, Scar", got)

	got = BuildMarketHashName("Sticker | Crown (Foil)", WearFactoryNew, CategoryNormal)
	assert.Equal(t, "Sticker | Crown (Foil)", got)
}

func TestBuildMarketHashName_NoDoublePrefixOrSuffix(t *testing.T) {
	got := BuildMarketHashName("StatTrak™ AK-47 | Redline", WearFieldTested, CategoryStatTrak)
	assert.Equal(t, "StatTrak™ AK-47 | Redline (Field-Tested)", got)

	// Base name already carries an exterior; wear is not appended twice.
	got = BuildMarketHashName("AK-47 | Redline (Field-Tested)", WearFieldTested, CategoryNormal)
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", got)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "AK-47 | Redline", BaseName("AK-47 | Redline (Field-Tested)"))
	assert.Equal(t, "AK-47 | Redline", BaseName("StatTrak™ AK-47 | Redline (Minimal Wear)"))
	assert.Equal(t, "Karambit | Doppler", BaseName("★ StatTrak™ Karambit | Doppler (Factory New)"))
	assert.Equal(t, "AWP | Dragon Lore", BaseName("Souvenir AWP | Dragon Lore (Factory New)"))
	assert.Equal(t, "Music Kit | Scarlxrd, King, Scar", BaseName("Music Kit | Scarlxrd, King, Scar"))
	// Parentheses that are not an exterior survive.
	assert.Equal(t, "Sticker | Crown (Foil)", BaseName("Sticker | Crown (Foil)"))
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryNormal, CategoryOf("AK-47 | Redline (Field-Tested)"))
	assert.Equal(t, CategoryStatTrak, CategoryOf("StatTrak™ AK-47 | Redline (Field-Tested)"))
	assert.Equal(t, CategorySouvenir, CategoryOf("Souvenir AWP | Dragon Lore (Factory New)"))
	assert.Equal(t, CategoryNormal, CategoryOf("Souvenir Package | Cologne 2016"))
}

func TestSupportsFloat(t *testing.T) {
	assert.True(t, SupportsFloat("AK-47 | Redline"))
	assert.True(t, SupportsFloat("★ Karambit | Doppler"))
	assert.False(t, SupportsFloat("Music Kit | Scarlxrd, King, Scar"))
	assert.False(t, SupportsFloat("Sticker | Crown (Foil)"))
	assert.False(t, SupportsFloat("Operation Bravo Case"))
}
