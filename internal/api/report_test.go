package api

import (
	"bytes"
	"testing"
	"time"

	"cs2-arb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildVerdictWorkbook(t *testing.T) {
	ask := 1637.32
	verdicts := []models.VerdictRecord{
		{
			SnapshotID: 1,
			Snapshot: models.SnapshotRecord{
				Item:          "AWP | Dragon Lore",
				Wear:          "ft",
				Category:      "normal",
				Source:        "strict",
				LowestAsk:     &ask,
				HighestBidQty: 2,
				Vol24h:        0,
				// HighestBid and ASP24h absent
			},
			ReferencePrice: 1500.00,
			NetProfit:      64.94,
			ROI:            0.0433,
			LockupDays:     8,
			Qualifies:      true,
			CreatedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	data, err := BuildVerdictWorkbook(verdicts)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Verdicts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Item", rows[0][1])
	assert.Equal(t, "AWP | Dragon Lore", rows[1][1])

	// Absent bid stays blank, never zero.
	bid, err := f.GetCellValue("Verdicts", "G2")
	require.NoError(t, err)
	assert.Equal(t, "", bid)
}

func TestBuildVerdictWorkbook_Empty(t *testing.T) {
	data, err := BuildVerdictWorkbook(nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}
