package api

import (
	"fmt"
	"strconv"

	"cs2-arb/internal/models"

	"github.com/xuri/excelize/v2"
)

var reportHeaders = []string{
	"Scored At", "Item", "Wear", "Category", "Source",
	"Lowest Ask", "Highest Bid", "Bid Qty", "Vol 24h", "ASP 24h",
	"Reference", "Net Profit", "ROI", "Lockup Days", "Qualifies", "Reasons",
}

// BuildVerdictWorkbook renders verdicts into a single-sheet xlsx workbook.
// Absent snapshot aggregates stay as blank cells.
func BuildVerdictWorkbook(verdicts []models.VerdictRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Verdicts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, h := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, v := range verdicts {
		rowNum := i + 2
		values := []interface{}{
			v.CreatedAt.Format("2006-01-02 15:04:05"),
			v.Snapshot.Item,
			v.Snapshot.Wear,
			v.Snapshot.Category,
			v.Snapshot.Source,
			optional(v.Snapshot.LowestAsk),
			optional(v.Snapshot.HighestBid),
			v.Snapshot.HighestBidQty,
			v.Snapshot.Vol24h,
			optional(v.Snapshot.ASP24h),
			v.ReferencePrice,
			v.NetProfit,
			v.ROI,
			v.LockupDays,
			strconv.FormatBool(v.Qualifies),
			v.Reasons,
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// optional converts a nullable money field into a cell value, keeping "no
// data" as an empty cell instead of a zero.
func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
