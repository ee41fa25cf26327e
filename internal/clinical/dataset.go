package clinical

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Gokulakrishnxn/Myopia-Prediction-model/pkg/contracts/domain"
)

// LoadWorkbook reads the retrospective Stellest workbook and extracts one
// RawClinicalRecord per patient row. Column positions are resolved from the
// header row rather than hardcoded, because exported workbooks shuffle and
// rename columns between revisions.
func LoadWorkbook(filePath string) ([]domain.RawClinicalRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, name := range f.GetSheetList() {
		testRows, testErr := f.GetRows(name)
		if testErr != nil || len(testRows) < 2 {
			continue
		}
		if findHeaderRow(testRows) >= 0 {
			rows = testRows
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		return nil, fmt.Errorf("could not find patient data sheet in %s", filePath)
	}

	headerRow := findHeaderRow(rows)
	columns := mapColumns(rows[headerRow])
	if columns.age == -1 || columns.gender == -1 {
		return nil, fmt.Errorf("required columns missing in sheet %q header: %v", sheetName, rows[headerRow])
	}

	slog.Info("loading clinical workbook",
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	// The row after the header holds column descriptions in the source
	// workbook; skip it along with empty rows.
	records := make([]domain.RawClinicalRecord, 0, len(rows))
	for i := headerRow + 2; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		records = append(records, domain.RawClinicalRecord{
			Age:           cell(row, columns.age),
			Gender:        cell(row, columns.gender),
			AgeDiagnosis:  cell(row, columns.ageDiagnosis),
			MyopicParents: cell(row, columns.myopicParents),
			OutdoorTime:   cell(row, columns.outdoorTime),
			ScreenTime:    cell(row, columns.screenTime),
			MyopiaControl: cell(row, columns.myopiaControl),
			RESpherical:   cell(row, columns.reSpherical),
			RECylinder:    cell(row, columns.reCylinder),
			LESpherical:   cell(row, columns.leSpherical),
			LECylinder:    cell(row, columns.leCylinder),
			REAxialLength: cell(row, columns.reAxial),
			LEAxialLength: cell(row, columns.leAxial),
			WearingTime:   cell(row, columns.wearingTime),
			QoLScore:      cell(row, columns.qolScore),
		})
	}

	slog.Info("clinical workbook loaded", slog.Int("records", len(records)))
	return records, nil
}

// columnIndices holds resolved column positions; -1 means not present.
type columnIndices struct {
	age           int
	gender        int
	ageDiagnosis  int
	myopicParents int
	outdoorTime   int
	screenTime    int
	myopiaControl int
	reSpherical   int
	reCylinder    int
	leSpherical   int
	leCylinder    int
	reAxial       int
	leAxial       int
	wearingTime   int
	qolScore      int
}

func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if len(row) < 5 {
			continue
		}
		rowText := strings.ToLower(strings.Join(row, " "))
		if strings.Contains(rowText, "age") && strings.Contains(rowText, "gender") &&
			(strings.Contains(rowText, "axial") || strings.Contains(rowText, "stellest")) {
			return i
		}
	}
	return -1
}

func mapColumns(header []string) columnIndices {
	c := columnIndices{
		age: -1, gender: -1, ageDiagnosis: -1, myopicParents: -1,
		outdoorTime: -1, screenTime: -1, myopiaControl: -1,
		reSpherical: -1, reCylinder: -1, leSpherical: -1, leCylinder: -1,
		reAxial: -1, leAxial: -1, wearingTime: -1, qolScore: -1,
	}

	for j, h := range header {
		hl := strings.ToLower(strings.TrimSpace(h))
		switch {
		case hl == "age":
			c.age = j
		case hl == "gender":
			c.gender = j
		case strings.Contains(hl, "diagnosis"):
			c.ageDiagnosis = j
		case strings.Contains(hl, "myopic parents"):
			c.myopicParents = j
		case strings.Contains(hl, "outdoor"):
			c.outdoorTime = j
		case strings.Contains(hl, "screen"):
			c.screenTime = j
		case strings.Contains(hl, "myopia control"):
			c.myopiaControl = j
		case strings.Contains(hl, "wearing"):
			c.wearingTime = j
		case strings.Contains(hl, "qol"):
			c.qolScore = j
		case strings.Contains(hl, "axial") && strings.Contains(hl, "right"):
			c.reAxial = j
		case strings.Contains(hl, "axial") && strings.Contains(hl, "left"):
			c.leAxial = j
		case strings.Contains(hl, "right eye"):
			// Refraction columns come as a spherical header with the
			// cylinder in the unnamed column immediately after it.
			if c.reSpherical == -1 {
				c.reSpherical = j
				c.reCylinder = j + 1
			} else if c.reAxial == -1 {
				c.reAxial = j
			}
		case strings.Contains(hl, "left eye"):
			if c.leSpherical == -1 {
				c.leSpherical = j
				c.leCylinder = j + 1
			} else if c.leAxial == -1 {
				c.leAxial = j
			}
		}
	}
	return c
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
