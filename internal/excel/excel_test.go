package excel

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
)

func testData(t *testing.T) (*roster.Roster, *schedule.Result) {
	t.Helper()
	r, err := roster.New(roster.GeneratePlayerList(8), roster.Names("Player 3", "Player 4", "Player 8"))
	if err != nil {
		t.Fatalf("roster.New() error: %v", err)
	}
	result, err := schedule.Build(r, schedule.DefaultConfig, nil, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return r, result
}

func TestGenerateWorkbook(t *testing.T) {
	_, result := testData(t)

	f, err := Generate(result, 10)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("has all sheets", func(t *testing.T) {
		for _, sheet := range []string{SheetRotation, SheetSubstitutions, SheetMinutes, SheetPlayers} {
			idx, err := f.GetSheetIndex(sheet)
			if err != nil {
				t.Fatalf("GetSheetIndex error: %v", err)
			}
			if idx < 0 {
				t.Errorf("%s sheet not found", sheet)
			}
		}
	})

	t.Run("rotation headers", func(t *testing.T) {
		rows, _ := f.GetRows(SheetRotation)
		want := []string{"Period", "Start", "End", "Goalie", "Field 1", "Field 2", "Field 3", "Field 4", "Field 5", "Field 6", "Bench 1"}
		if !reflect.DeepEqual(rows[0], want) {
			t.Errorf("headers = %v, want %v", rows[0], want)
		}
	})

	t.Run("one rotation row per segment", func(t *testing.T) {
		rows, _ := f.GetRows(SheetRotation)
		// Two substitutions per period split each into three segments.
		if len(rows) != 1+9 {
			t.Errorf("got %d rows, want 10", len(rows))
		}
		if rows[1][3] != "Player 3" || rows[1][10] != "Player 1" {
			t.Errorf("first row = %v", rows[1])
		}
	})

	t.Run("substitution log", func(t *testing.T) {
		rows, _ := f.GetRows(SheetSubstitutions)
		if len(rows) != 1+6 {
			t.Fatalf("got %d rows, want 7", len(rows))
		}
		want := []string{"1", "5", "Player 2", "Player 1"}
		if !reflect.DeepEqual(rows[1], want) {
			t.Errorf("first substitution = %v, want %v", rows[1], want)
		}
	})

	t.Run("minute table", func(t *testing.T) {
		rows, _ := f.GetRows(SheetMinutes)
		if len(rows) != 1+8 {
			t.Fatalf("got %d rows, want 9", len(rows))
		}
		// Player 1: 50 field minutes against a 48 minute share.
		want := []string{"Player 1", "50", "0", "48", "2"}
		if !reflect.DeepEqual(rows[1], want) {
			t.Errorf("Player 1 row = %v, want %v", rows[1], want)
		}
		if rows[3][2] != "20" {
			t.Errorf("Player 3 goalie minutes = %q, want 20", rows[3][2])
		}
	})

	t.Run("drift highlight", func(t *testing.T) {
		formats, err := f.GetConditionalFormats(SheetMinutes)
		if err != nil {
			t.Fatalf("GetConditionalFormats error: %v", err)
		}
		if opts := formats["E2:E9"]; len(opts) != 1 || opts[0].Type != "formula" {
			t.Errorf("conditional formats = %+v, want one formula on E2:E9", formats)
		}
	})

	t.Run("player timeline covers every minute", func(t *testing.T) {
		rows, _ := f.GetRows(SheetPlayers)
		total := map[string]int{}
		for _, row := range rows[1:] {
			from, to := atoi(t, row[2]), atoi(t, row[3])
			total[row[0]] += to - from
		}
		for _, p := range result.Players {
			if total[string(p)] != 60 {
				t.Errorf("%s timeline covers %d minutes, want 60", p, total[string(p)])
			}
		}
	})

	t.Run("default Sheet1 removed", func(t *testing.T) {
		idx, _ := f.GetSheetIndex("Sheet1")
		if idx >= 0 {
			t.Error("Sheet1 should be removed")
		}
	})
}

func TestWriteAndRead(t *testing.T) {
	_, result := testData(t)

	f, err := Generate(result, 10)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	path := t.TempDir() + "/rotation.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	f2, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer f2.Close()

	segments, err := ReadRotation(f2)
	if err != nil {
		t.Fatalf("ReadRotation() error: %v", err)
	}
	var want []schedule.Segment
	for _, plan := range result.Schedule {
		want = append(want, plan.Segments(result.Config.PeriodLength)...)
	}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("read back %+v, want %+v", segments, want)
	}
}

func TestReadRotationErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		f := excelize.NewFile()
		f.SetSheetName("Sheet1", SheetRotation)
		f.SetCellValue(SheetRotation, "A1", "Period")
		if _, err := ReadRotation(f); err == nil {
			t.Error("expected error for missing columns")
		}
	})

	t.Run("bad number", func(t *testing.T) {
		f := excelize.NewFile()
		f.SetSheetName("Sheet1", SheetRotation)
		for i, h := range []string{"Period", "Start", "End", "Goalie"} {
			f.SetCellValue(SheetRotation, cellRef(i+1, 1), h)
		}
		f.SetCellValue(SheetRotation, "A2", 1)
		f.SetCellValue(SheetRotation, "B2", "kickoff")
		f.SetCellValue(SheetRotation, "C2", 20)
		if _, err := ReadRotation(f); err == nil {
			t.Error("expected error for non-numeric start")
		}
	})
}

func TestUpdateDerivedSheets(t *testing.T) {
	r, result := testData(t)

	f, err := Generate(result, 10)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	path := t.TempDir() + "/rotation.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	// Hand edit: undo the 5' substitution of period 1 by keeping Player 2
	// on and Player 1 on the bench until minute 10.
	edit, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	edit.RemoveRow(SheetRotation, 3)
	edit.SetCellValue(SheetRotation, "C2", 10)
	if err := edit.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	edit.Close()

	if err := UpdateDerivedSheets(path, r, result.Config, 10); err != nil {
		t.Fatalf("UpdateDerivedSheets() error: %v", err)
	}

	updated, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer updated.Close()

	rows, _ := updated.GetRows(SheetSubstitutions)
	if len(rows) != 1+6 {
		t.Fatalf("got %d substitutions, want 6", len(rows)-1)
	}
	// Both period 1 changes now land at minute 10, matched by position.
	want := []string{"1", "10", "Player 2", "Player 1"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("first substitution = %v, want %v", rows[1], want)
	}

	minutes, _ := updated.GetRows(SheetMinutes)
	if minutes[1][1] != "45" || minutes[2][1] != "55" {
		t.Errorf("Player 1 = %s, Player 2 = %s; want 45 and 55", minutes[1][1], minutes[2][1])
	}
}

func TestUpdateDerivedSheetsIgnoresFieldOrder(t *testing.T) {
	r, result := testData(t)

	f, err := Generate(result, 10)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	path := t.TempDir() + "/rotation.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	// Rotate the field columns of the 5' row one place to the left.
	edit, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	rows, _ := edit.GetRows(SheetRotation)
	field := rows[2][4:10]
	for j := range field {
		edit.SetCellValue(SheetRotation, cellRef(5+j, 3), field[(j+1)%len(field)])
	}
	if err := edit.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	edit.Close()

	if err := UpdateDerivedSheets(path, r, result.Config, 10); err != nil {
		t.Fatalf("UpdateDerivedSheets() error: %v", err)
	}

	updated, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer updated.Close()

	subs, _ := updated.GetRows(SheetSubstitutions)
	if len(subs) != 1+6 {
		t.Fatalf("got %d substitutions, want 6: %v", len(subs)-1, subs[1:])
	}
	want := []string{"1", "5", "Player 2", "Player 1"}
	if !reflect.DeepEqual(subs[1], want) {
		t.Errorf("first substitution = %v, want %v", subs[1], want)
	}

	minutes, _ := updated.GetRows(SheetMinutes)
	if minutes[1][1] != "50" {
		t.Errorf("Player 1 = %s field minutes, want 50", minutes[1][1])
	}
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	if err != nil {
		t.Fatalf("not a number: %q", s)
	}
	return n
}
