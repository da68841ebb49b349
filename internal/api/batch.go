package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"decision-analyzer/internal/scoring"
)

const (
	colScenario    = "scenario"
	colProbability = "risk_probability"
	colSafe        = "safe_value"
	colRisky       = "risky_value"
	colModel       = "comparison_model"
	colLabel       = "label"
)

var columnAliases = map[string]string{
	"scenario":         colScenario,
	"escenario":        colScenario,
	"risk_probability": colProbability,
	"probability":      colProbability,
	"p":                colProbability,
	"safe_value":       colSafe,
	"safe":             colSafe,
	"valor_seguro":     colSafe,
	"risky_value":      colRisky,
	"risky":            colRisky,
	"valor_riesgo":     colRisky,
	"comparison_model": colModel,
	"model":            colModel,
	"modelo":           colModel,
	"label":            colLabel,
	"name":             colLabel,
}

var requiredColumns = []string{colScenario, colProbability, colSafe, colRisky}

type scenarioRow struct {
	rowIndex int
	label    string
	input    scoring.Input
}

type csvParseResult struct {
	rows     []scenarioRow
	errors   []RowError
	rowCount int
}

// parseScenarioCSV reads a scenarios CSV. The header row is required; rows
// that fail validation are reported individually instead of failing the
// whole file.
func parseScenarioCSV(r io.Reader) (*csvParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns, err := detectColumns(header)
	if err != nil {
		return nil, err
	}

	result := &csvParseResult{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		result.rowCount++
		rowIndex := result.rowCount

		get := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		input, err := rowInput(get)
		if err == nil {
			err = scoring.Validate(input)
		}
		if err == nil {
			err = checkNonNegative(input)
		}
		if err != nil {
			result.errors = append(result.errors, RowError{Row: rowIndex, Error: err.Error()})
			continue
		}
		result.rows = append(result.rows, scenarioRow{rowIndex: rowIndex, label: get(colLabel), input: input})
	}
	return result, nil
}

func rowInput(get func(string) string) (scoring.Input, error) {
	scenario, err := scoring.ParseScenario(get(colScenario))
	if err != nil {
		return scoring.Input{}, err
	}
	model, err := scoring.ParseComparisonModel(get(colModel))
	if err != nil {
		return scoring.Input{}, err
	}
	p, err := parseNumber(colProbability, get(colProbability))
	if err != nil {
		return scoring.Input{}, err
	}
	safe, err := parseNumber(colSafe, get(colSafe))
	if err != nil {
		return scoring.Input{}, err
	}
	risky, err := parseNumber(colRisky, get(colRisky))
	if err != nil {
		return scoring.Input{}, err
	}
	return scoring.Input{
		Scenario:        scenario,
		RiskProbability: p,
		SafeValue:       safe,
		RiskyValue:      risky,
		Model:           model,
	}, nil
}

func parseNumber(column, value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", scoring.ErrInvalidInput, column)
	}
	raw := value
	value = strings.NewReplacer("$", "", "_", "").Replace(value)
	if strings.Contains(value, ",") {
		grouped, ok := stripThousands(value)
		if !ok {
			return 0, fmt.Errorf("%w: %s %q is not a number (use \".\" for decimals)", scoring.ErrInvalidInput, column, raw)
		}
		value = grouped
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", scoring.ErrInvalidInput, column, value)
	}
	return v, nil
}

// stripThousands removes "," thousands separators. Every group after the
// first comma must be exactly three digits, so "1,500" is accepted and a
// decimal comma such as "1,5" is not.
func stripThousands(value string) (string, bool) {
	intPart, frac := value, ""
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		intPart, frac = value[:idx], value[idx:]
	}
	sign := ""
	if strings.HasPrefix(intPart, "-") || strings.HasPrefix(intPart, "+") {
		sign, intPart = intPart[:1], intPart[1:]
	}
	groups := strings.Split(intPart, ",")
	if len(groups[0]) < 1 || len(groups[0]) > 3 || !allDigits(groups[0]) {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return "", false
		}
	}
	return sign + strings.Join(groups, "") + frac, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func detectColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		canonical, ok := columnAliases[name]
		if !ok {
			continue
		}
		if _, seen := columns[canonical]; !seen {
			columns[canonical] = idx
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
