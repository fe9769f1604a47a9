package excel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
)

const (
	SheetRotation      = "Rotation"
	SheetSubstitutions = "Substitutions"
	SheetMinutes       = "Minutes"
	SheetPlayers       = "Players"
)

// Generate creates a workbook with the rotation grid, the substitution log,
// the minute table and a per-player timeline. Players whose minutes drift
// more than tolerance from their fair share are highlighted.
func Generate(result *schedule.Result, tolerance int) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	var segments []schedule.Segment
	for _, plan := range result.Schedule {
		segments = append(segments, plan.Segments(result.Config.PeriodLength)...)
	}

	if err := writeRotationSheet(f, result.Config, len(result.Players), segments); err != nil {
		return nil, fmt.Errorf("writing rotation sheet: %w", err)
	}

	var subs []periodSub
	for _, plan := range result.Schedule {
		for _, s := range plan.Substitutions {
			subs = append(subs, periodSub{plan.Index, s})
		}
	}
	if err := writeDerivedSheets(f, derived{
		players:   result.Players,
		subs:      subs,
		segments:  segments,
		field:     result.FieldMinutes,
		goalie:    result.GoalieMinutes,
		share:     result.FairShare,
		tolerance: tolerance,
	}); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// UpdateDerivedSheets re-reads the rotation grid of a saved workbook, which
// may have been edited by hand, and rewrites the substitution, minute and
// player sheets to match it.
func UpdateDerivedSheets(path string, r *roster.Roster, cfg schedule.Config, tolerance int) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	segments, err := ReadRotation(f)
	if err != nil {
		return err
	}

	var subs []periodSub
	for i := 1; i < len(segments); i++ {
		if segments[i].Period != segments[i-1].Period {
			continue
		}
		for _, s := range schedule.Changes(segments[i-1], segments[i]) {
			subs = append(subs, periodSub{segments[i].Period, s})
		}
	}

	field, goalie := schedule.Tally(r, segments)
	for _, sheet := range []string{SheetSubstitutions, SheetMinutes, SheetPlayers} {
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("removing %s sheet: %w", sheet, err)
		}
	}
	if err := writeDerivedSheets(f, derived{
		players:   r.Players,
		subs:      subs,
		segments:  segments,
		field:     field,
		goalie:    goalie,
		share:     schedule.FairShares(r, cfg),
		tolerance: tolerance,
	}); err != nil {
		return err
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

// ReadRotation parses the rotation grid back into segments. Columns are
// located by header, so reordered or extra bench columns still read.
func ReadRotation(f *excelize.File) ([]schedule.Segment, error) {
	rows, err := f.GetRows(SheetRotation)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", SheetRotation, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", SheetRotation)
	}

	col := map[string]int{}
	var fieldCols, benchCols []int
	for i, h := range rows[0] {
		switch {
		case strings.HasPrefix(h, "Field "):
			fieldCols = append(fieldCols, i)
		case strings.HasPrefix(h, "Bench "):
			benchCols = append(benchCols, i)
		default:
			col[h] = i
		}
	}
	for _, h := range []string{"Period", "Start", "End", "Goalie"} {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("%s is missing the %q column", SheetRotation, h)
		}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	number := func(row []string, name string, line int) (int, error) {
		v, err := strconv.Atoi(cell(row, col[name]))
		if err != nil {
			return 0, fmt.Errorf("%s row %d: invalid %s %q", SheetRotation, line, name, cell(row, col[name]))
		}
		return v, nil
	}

	var segments []schedule.Segment
	for i, row := range rows[1:] {
		line := i + 2
		if cell(row, col["Period"]) == "" {
			continue
		}
		var seg schedule.Segment
		if seg.Period, err = number(row, "Period", line); err != nil {
			return nil, err
		}
		if seg.Start, err = number(row, "Start", line); err != nil {
			return nil, err
		}
		if seg.End, err = number(row, "End", line); err != nil {
			return nil, err
		}
		seg.Goalie = roster.Player(cell(row, col["Goalie"]))
		for _, c := range fieldCols {
			if v := cell(row, c); v != "" {
				seg.Field = append(seg.Field, roster.Player(v))
			}
		}
		for _, c := range benchCols {
			if v := cell(row, c); v != "" {
				seg.Bench = append(seg.Bench, roster.Player(v))
			}
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

type periodSub struct {
	period int
	schedule.Substitution
}

type derived struct {
	players   []roster.Player
	subs      []periodSub
	segments  []schedule.Segment
	field     schedule.FieldMinutes
	goalie    map[roster.Player]int
	share     map[roster.Player]float64
	tolerance int
}

func writeDerivedSheets(f *excelize.File, d derived) error {
	if err := writeSubstitutionsSheet(f, d.subs); err != nil {
		return fmt.Errorf("writing substitutions sheet: %w", err)
	}
	if err := writeMinutesSheet(f, d); err != nil {
		return fmt.Errorf("writing minutes sheet: %w", err)
	}
	if err := writePlayersSheet(f, d.players, d.segments); err != nil {
		return fmt.Errorf("writing players sheet: %w", err)
	}
	return nil
}

func writeRotationSheet(f *excelize.File, cfg schedule.Config, totalPlayers int, segments []schedule.Segment) error {
	sheet := SheetRotation
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Period", "Start", "End", "Goalie"}
	for i := 1; i <= cfg.FieldPlayersOnPitch; i++ {
		headers = append(headers, fmt.Sprintf("Field %d", i))
	}
	for i := 1; i <= cfg.BenchSeats(totalPlayers); i++ {
		headers = append(headers, fmt.Sprintf("Bench %d", i))
	}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	cellStyle, err := bodyStyle(f, "")
	if err != nil {
		return err
	}
	benchStyle, err := bodyStyle(f, "#E7E6E6")
	if err != nil {
		return err
	}
	firstBench := 5 + cfg.FieldPlayersOnPitch

	for i, seg := range segments {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), seg.Period)
		f.SetCellValue(sheet, cellRef(2, row), seg.Start)
		f.SetCellValue(sheet, cellRef(3, row), seg.End)
		f.SetCellValue(sheet, cellRef(4, row), string(seg.Goalie))
		for j, p := range seg.Field {
			f.SetCellValue(sheet, cellRef(5+j, row), string(p))
		}
		for j, p := range seg.Bench {
			f.SetCellValue(sheet, cellRef(firstBench+j, row), string(p))
		}
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(firstBench-1, row), cellStyle)
		if len(headers) >= firstBench {
			f.SetCellStyle(sheet, cellRef(firstBench, row), cellRef(len(headers), row), benchStyle)
		}
	}

	f.SetColWidth(sheet, "A", "C", 9)
	if len(headers) > 3 {
		f.SetColWidth(sheet, "D", colLetter(len(headers)), 16)
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return nil
}

func writeSubstitutionsSheet(f *excelize.File, subs []periodSub) error {
	sheet := SheetSubstitutions
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"Period", "Minute", "Out", "In"}); err != nil {
		return err
	}

	cellStyle, err := bodyStyle(f, "")
	if err != nil {
		return err
	}
	for i, s := range subs {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), s.period)
		f.SetCellValue(sheet, cellRef(2, row), s.Minute)
		f.SetCellValue(sheet, cellRef(3, row), string(s.Out))
		f.SetCellValue(sheet, cellRef(4, row), string(s.In))
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(4, row), cellStyle)
	}
	f.SetColWidth(sheet, "A", "B", 10)
	f.SetColWidth(sheet, "C", "D", 16)
	return nil
}

func writeMinutesSheet(f *excelize.File, d derived) error {
	sheet := SheetMinutes
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"Player", "Field", "Goalie", "Target", "Diff"}); err != nil {
		return err
	}

	cellStyle, err := bodyStyle(f, "")
	if err != nil {
		return err
	}
	for i, p := range d.players {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), string(p))
		if m, ok := d.field[p]; ok {
			f.SetCellValue(sheet, cellRef(2, row), m)
			if share, ok := d.share[p]; ok {
				f.SetCellValue(sheet, cellRef(4, row), round1(share))
				f.SetCellValue(sheet, cellRef(5, row), round1(float64(m)-share))
			}
		}
		f.SetCellValue(sheet, cellRef(3, row), d.goalie[p])
		f.SetCellStyle(sheet, cellRef(1, row), cellRef(5, row), cellStyle)
	}

	// Conditional formatting: drift beyond tolerance gets light red
	lastRow := len(d.players) + 1
	redFill, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	if err != nil {
		return fmt.Errorf("creating drift style: %w", err)
	}
	if err := f.SetConditionalFormat(sheet, fmt.Sprintf("E2:E%d", lastRow), []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: fmt.Sprintf(`AND(E2<>"",ABS(E2)>%d)`, d.tolerance),
			Format:   &redFill,
		},
	}); err != nil {
		return fmt.Errorf("setting drift format: %w", err)
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "E", 10)
	return nil
}

// writePlayersSheet lists each player's roles over the match, merging
// adjacent segments of a period where the role does not change.
func writePlayersSheet(f *excelize.File, players []roster.Player, segments []schedule.Segment) error {
	sheet := SheetPlayers
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"Player", "Period", "From", "To", "Role"}); err != nil {
		return err
	}

	type stint struct {
		period   int
		from, to int
		role     string
	}

	cellStyle, err := bodyStyle(f, "")
	if err != nil {
		return err
	}
	row := 2
	for _, p := range players {
		var stints []stint
		for _, seg := range segments {
			role := roleOf(seg, p)
			if role == "" {
				continue
			}
			if n := len(stints); n > 0 {
				last := &stints[n-1]
				if last.period == seg.Period && last.to == seg.Start && last.role == role {
					last.to = seg.End
					continue
				}
			}
			stints = append(stints, stint{seg.Period, seg.Start, seg.End, role})
		}
		for _, s := range stints {
			f.SetCellValue(sheet, cellRef(1, row), string(p))
			f.SetCellValue(sheet, cellRef(2, row), s.period)
			f.SetCellValue(sheet, cellRef(3, row), s.from)
			f.SetCellValue(sheet, cellRef(4, row), s.to)
			f.SetCellValue(sheet, cellRef(5, row), s.role)
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(5, row), cellStyle)
			row++
		}
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "E", 10)
	return nil
}

// roleOf names p's role in seg, or "" if p is not in it.
func roleOf(seg schedule.Segment, p roster.Player) string {
	if seg.Goalie == p {
		return "Goalie"
	}
	for _, q := range seg.Field {
		if q == p {
			return "Field"
		}
	}
	for _, q := range seg.Bench {
		if q == p {
			return "Bench"
		}
	}
	return ""
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	return f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), headerStyle)
}

func bodyStyle(f *excelize.File, fill string) (int, error) {
	style := &excelize.Style{
		Font:      &excelize.Font{Size: 12, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}
	if fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("creating body style: %w", err)
	}
	return id, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
