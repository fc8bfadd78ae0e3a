package sheets

import (
	gsheets "google.golang.org/api/sheets/v4"
)

// Color is an RGB triple in the 0-1 range the Sheets API expects.
type Color struct {
	Red, Green, Blue float64
}

var (
	HeaderBlue = Color{Red: 0.2, Green: 0.4, Blue: 0.6}
	White      = Color{Red: 1, Green: 1, Blue: 1}
	LightRed   = Color{Red: 0.96, Green: 0.8, Blue: 0.8}
	LightGreen = Color{Red: 0.85, Green: 0.92, Blue: 0.83}
	LightAmber = Color{Red: 1, Green: 0.95, Blue: 0.8}
)

func (c Color) api() *gsheets.Color {
	return &gsheets.Color{Red: c.Red, Green: c.Green, Blue: c.Blue}
}

// HeaderStyle makes row 1 bold white text on a blue background.
func HeaderStyle(sheetID int64, columns int) *gsheets.Request {
	return &gsheets.Request{
		RepeatCell: &gsheets.RepeatCellRequest{
			Range: &gsheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    0,
				EndRowIndex:      1,
				StartColumnIndex: 0,
				EndColumnIndex:   int64(columns),
			},
			Cell: &gsheets.CellData{
				UserEnteredFormat: &gsheets.CellFormat{
					BackgroundColor: HeaderBlue.api(),
					TextFormat: &gsheets.TextFormat{
						ForegroundColor: White.api(),
						Bold:            true,
					},
				},
			},
			Fields: "userEnteredFormat(backgroundColor,textFormat)",
		},
	}
}

// FreezeHeader pins the first row while scrolling.
func FreezeHeader(sheetID int64) *gsheets.Request {
	return &gsheets.Request{
		UpdateSheetProperties: &gsheets.UpdateSheetPropertiesRequest{
			Properties: &gsheets.SheetProperties{
				SheetId: sheetID,
				GridProperties: &gsheets.GridProperties{
					FrozenRowCount: 1,
				},
			},
			Fields: "gridProperties.frozenRowCount",
		},
	}
}

// ListValidation restricts a data column to a dropdown of values.
func ListValidation(sheetID int64, column int, values []string, strict bool) *gsheets.Request {
	conditions := make([]*gsheets.ConditionValue, len(values))
	for i, v := range values {
		conditions[i] = &gsheets.ConditionValue{UserEnteredValue: v}
	}
	return dataValidation(sheetID, column, &gsheets.BooleanCondition{
		Type:   "ONE_OF_LIST",
		Values: conditions,
	}, strict)
}

// RangeValidation offers the values of another range as a dropdown.
func RangeValidation(sheetID int64, column int, source string, strict bool) *gsheets.Request {
	return dataValidation(sheetID, column, &gsheets.BooleanCondition{
		Type:   "ONE_OF_RANGE",
		Values: []*gsheets.ConditionValue{{UserEnteredValue: "=" + source}},
	}, strict)
}

func dataValidation(sheetID int64, column int, condition *gsheets.BooleanCondition, strict bool) *gsheets.Request {
	return &gsheets.Request{
		SetDataValidation: &gsheets.SetDataValidationRequest{
			Range: dataColumn(sheetID, column),
			Rule: &gsheets.DataValidationRule{
				Condition:    condition,
				Strict:       strict,
				ShowCustomUi: true,
			},
		},
	}
}

// HighlightText colours cells of a data column whose text equals value.
func HighlightText(sheetID int64, column int, value string, background Color) *gsheets.Request {
	return &gsheets.Request{
		AddConditionalFormatRule: &gsheets.AddConditionalFormatRuleRequest{
			Index: 0,
			Rule: &gsheets.ConditionalFormatRule{
				Ranges: []*gsheets.GridRange{dataColumn(sheetID, column)},
				BooleanRule: &gsheets.BooleanRule{
					Condition: &gsheets.BooleanCondition{
						Type:   "TEXT_EQ",
						Values: []*gsheets.ConditionValue{{UserEnteredValue: value}},
					},
					Format: &gsheets.CellFormat{BackgroundColor: background.api()},
				},
			},
		},
	}
}

// dataColumn is a single column below the header row.
func dataColumn(sheetID int64, column int) *gsheets.GridRange {
	return &gsheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    1,
		StartColumnIndex: int64(column),
		EndColumnIndex:   int64(column + 1),
	}
}
